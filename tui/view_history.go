// view_history.go: questions asked so far, newest first.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/DachengChen/liturgiAI/db"
	"github.com/DachengChen/liturgiAI/history"
	"github.com/DachengChen/liturgiAI/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

const historyPageSize = 50

type HistoryView struct {
	sess     *session.Session
	viewport *Viewport
	entries  []history.Entry
	expanded bool
	loading  bool
	err      error
	width    int
	height   int
}

func NewHistoryView(sess *session.Session) *HistoryView {
	return &HistoryView{
		sess:     sess,
		viewport: NewViewport(80, 20),
	}
}

func (v *HistoryView) Name() string { return "History" }

func (v *HistoryView) WantsTextInput() bool { return false }

func (v *HistoryView) SetSize(width, height int) {
	v.width = width
	v.height = height
	// title + its margin + scroll indicator
	v.viewport.SetSize(width-2, height-3)
	v.render()
}

func (v *HistoryView) ShortHelp() []KeyBinding {
	return []KeyBinding{
		{Key: "r", Desc: "refresh"},
		{Key: "x", Desc: "expand"},
		{Key: "↑/↓", Desc: "scroll"},
	}
}

func (v *HistoryView) Init() tea.Cmd {
	return v.fetch()
}

func (v *HistoryView) fetch() tea.Cmd {
	v.loading = true
	store := v.sess.History
	return func() tea.Msg {
		entries, err := store.Recent(context.Background(), historyPageSize)
		return HistoryMsg{Entries: entries, Err: err}
	}
}

func (v *HistoryView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case HistoryMsg:
		v.loading = false
		v.err = msg.Err
		v.entries = msg.Entries
		v.render()
		return v, nil
	case HistoryChangedMsg:
		return v, v.fetch()
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return v, v.fetch()
		case "x":
			v.expanded = !v.expanded
			v.render()
		default:
			v.viewport.HandleKey(msg.String())
		}
	}
	return v, nil
}

func (v *HistoryView) render() {
	if v.err != nil {
		v.viewport.SetContent(StyleError.Render("ERROR: " + v.err.Error()))
		return
	}
	if len(v.entries) == 0 {
		v.viewport.SetContent(StyleDimmed.Render("Belum ada pertanyaan di sesi ini."))
		return
	}

	width := v.width - 4
	if width < 20 {
		width = 20
	}
	var lines []string
	for _, e := range v.entries {
		at := e.AskedAt
		meta := fmt.Sprintf("#%d · %s lalu · %s · %s", e.ID, db.FormatTimeAgo(&at), e.Model, e.SourceTable)
		if e.RowLimit != nil {
			meta += fmt.Sprintf(" · %d baris", *e.RowLimit)
		}
		lines = append(lines, StyleHelpKey.Render(meta))
		lines = append(lines, StyleBold.Render("Q: ")+firstLine(e.Instruction, width-3))

		if v.expanded {
			for _, l := range strings.Split(e.Answer, "\n") {
				lines = append(lines, "   "+l)
			}
		} else {
			lines = append(lines, StyleDimmed.Render("A: "+firstLine(e.Answer, width-3)))
		}
		lines = append(lines, "")
	}
	v.viewport.SetContentLines(lines)
}

// firstLine returns the first non-empty line of s cut to width cells.
func firstLine(s string, width int) string {
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			return ansi.Truncate(l, width, "…")
		}
	}
	return ""
}

func (v *HistoryView) View() string {
	title := StyleTitle.Render(fmt.Sprintf("🕘 Riwayat (%d)", len(v.entries)))
	if v.loading && v.entries == nil {
		return title + "\n" + StyleDimmed.Render("⏳ Memuat riwayat...")
	}
	return title + "\n" + v.viewport.Render()
}
