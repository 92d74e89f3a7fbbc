package labeledspinner_test

import (
	"testing"

	"github.com/alkime/knobs/internal/tui/components/labeledspinner"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

//nolint:gochecknoinits // recommend for CI by bubbletea folks
func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestLabeledSpinner(t *testing.T) {
	m := labeledspinner.New(spinner.Dot, "loading")
	t.Run("initial state", func(t *testing.T) {
		assert.Equal(t, "loading", m.Label)
		assert.Equal(t, spinner.Dot, m.Spinner.Spinner)
		assert.False(t, m.Done())
		assert.NotNil(t, m.Init())
	})

	v0 := m.View()
	t.Run("view output", func(t *testing.T) {
		assert.Contains(t, v0, "loading")
		assert.Contains(t, v0, spinner.Dot.Frames[0])
	})

	t.Run("check updates", func(t *testing.T) {
		m, _ = m.Update(spinner.TickMsg{})
		assert.Contains(t, m.View(), spinner.Dot.Frames[1])
		m, _ = m.Update(spinner.TickMsg{})
		assert.Contains(t, m.View(), spinner.Dot.Frames[2])
	})

	t.Run("finish", func(t *testing.T) {
		m = m.Finish()
		assert.True(t, m.Done())
		assert.Empty(t, m.View())

		_, cmd := m.Update(spinner.TickMsg{})
		assert.Nil(t, cmd)
	})
}
