package tui

import (
	"github.com/alkime/knobs/internal/control"
	"github.com/alkime/knobs/pkg/uictl"
)

// snapSwitch exposes the knob's snap setting as a switch.
type snapSwitch struct {
	knob *control.MarkedKnob
	// threshold restored when switching back on
	threshold float64
}

var _ uictl.Switch = (*snapSwitch)(nil)

func newSnapSwitch(k *control.MarkedKnob) *snapSwitch {
	threshold := k.SnapConfig().Threshold
	if threshold == 0 {
		threshold = control.DefaultSnapConfig().Threshold
	}

	return &snapSwitch{knob: k, threshold: threshold}
}

func (s *snapSwitch) Read() bool { return s.knob.SnapConfig().Enabled }

func (s *snapSwitch) On() {
	c := s.knob.SnapConfig()
	c.Enabled = true
	if c.Threshold == 0 {
		c.Threshold = s.threshold
	}
	_ = s.knob.SetSnapConfig(c)
}

func (s *snapSwitch) Off() {
	c := s.knob.SnapConfig()
	c.Enabled = false
	_ = s.knob.SetSnapConfig(c)
}

func (s *snapSwitch) Toggle() {
	if s.Read() {
		s.Off()
		return
	}

	s.On()
}
