package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"subfont/internal/session"
)

// SessionModel is the terminal stand-in for the original task dialog: a
// marquee spinner over the worker's live status while it runs, and a
// retry/close prompt once it reaches Done. It polls the controller on a
// timer, mirroring how the dialog refreshed itself.
type SessionModel struct {
	ctrl     *session.Controller
	spinner  spinner.Model
	finished bool
	quitting bool
}

// pollMsg drives the periodic snapshot refresh.
type pollMsg time.Time

// NewSessionModel wraps a started controller in the dialog model.
func NewSessionModel(ctrl *session.Controller) *SessionModel {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(SpinnerColor)
	return &SessionModel{ctrl: ctrl, spinner: spin}
}

// Init starts the spinner and the poll timer.
func (m *SessionModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, pollTick())
}

func pollTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

// Update handles key presses and poll ticks.
func (m *SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pollMsg:
		workerDone := false
		select {
		case <-m.ctrl.Done():
			workerDone = true
		default:
		}
		if workerDone {
			if m.ctrl.Snapshot().State == session.StateDone {
				m.finished = true
			} else {
				// Worker left early: cancellation or exit teardown.
				m.quitting = true
				return m, tea.Quit
			}
		} else {
			m.finished = false
		}
		return m, pollTick()

	default:
		return m, nil
	}
}

func (m *SessionModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.finished {
		// Working page: only cancellation.
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			m.ctrl.Cancel()
		}
		return m, nil
	}

	switch {
	case msg.String() == "r":
		m.ctrl.Retry()
		m.ctrl.Start()
		m.finished = false
		return m, nil
	case msg.String() == "q", msg.Type == tea.KeyEsc, msg.Type == tea.KeyCtrlC:
		m.ctrl.RequestExit()
		m.ctrl.Start()
		m.finished = false
		return m, nil
	}
	return m, nil
}

// View renders the dialog.
func (m *SessionModel) View() string {
	if m.quitting {
		return ""
	}

	snap := m.ctrl.Snapshot()
	if m.finished {
		return fmt.Sprintf("%s\n%s\n%s\n",
			PageTitle.Render(session.StateDone.Label()),
			ContentText.Render(snap.StatusText()),
			HintText.Render("[r] retry  [q] close"))
	}
	return fmt.Sprintf("%s %s\n%s\n%s\n",
		m.spinner.View(),
		PageTitle.Render(snap.State.Label()),
		ContentText.Render(snap.StatusText()),
		HintText.Render("[esc] cancel"))
}
