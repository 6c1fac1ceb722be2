package tui

import (
	"github.com/DachengChen/liturgiAI/session"
	tea "github.com/charmbracelet/bubbletea"
)

// Start launches the TUI for one session.
func Start(svc *session.Service, sess *session.Session, rowLimit int) error {
	app := NewApp(svc, sess, rowLimit)
	p := tea.NewProgram(app, tea.WithAltScreen())

	_, err := p.Run()
	return err
}
