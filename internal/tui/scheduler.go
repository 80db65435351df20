package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// continuationMsg carries a deferred navigator continuation back onto the
// bubbletea event loop.
type continuationMsg struct {
	fn func()
}

// Scheduler turns navigator continuations into tea.Tick commands. The model
// drains it after every update, so continuations always run inside Update.
type Scheduler struct {
	pending []tea.Cmd
}

func NewScheduler() *Scheduler { return &Scheduler{} }

func (s *Scheduler) After(d time.Duration, fn func()) {
	s.pending = append(s.pending, tea.Tick(d, func(time.Time) tea.Msg {
		return continuationMsg{fn: fn}
	}))
}

// Drain returns the commands queued since the last call.
func (s *Scheduler) Drain() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}
