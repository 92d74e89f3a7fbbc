// Package labeledspinner shows a spinner next to a label while some
// background work is pending.
package labeledspinner

import (
	"github.com/alkime/knobs/internal/tui/style"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Model displays a spinner with a label until Finish is called.
type Model struct {
	Spinner spinner.Model
	Label   string
	done    bool
}

// New creates a pending labeled spinner.
func New(s spinner.Spinner, label string) Model {
	sp := spinner.New()
	sp.Spinner = s

	return Model{
		Spinner: sp,
		Label:   label,
	}
}

// Init returns the initial command for the spinner.
func (ls Model) Init() tea.Cmd {
	return ls.Spinner.Tick
}

// Update advances the spinner. Ticks stop once the work is done.
func (ls Model) Update(teaMsg tea.Msg) (Model, tea.Cmd) {
	if ls.done {
		return ls, nil
	}

	if tickMsg, ok := teaMsg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		ls.Spinner, cmd = ls.Spinner.Update(tickMsg)

		return ls, cmd
	}

	return ls, nil
}

// Finish marks the work done. The view is empty from then on.
func (ls Model) Finish() Model {
	ls.done = true
	return ls
}

// Done reports whether Finish was called.
func (ls Model) Done() bool { return ls.done }

func (ls Model) View() string {
	if ls.done {
		return ""
	}

	return ls.Spinner.View() + " " + style.Muted.Render(ls.Label)
}
