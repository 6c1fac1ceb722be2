// view_ask.go: ask the assistant about the dataset.
//
// The instruction is edited in a bubbles textarea prefilled with the
// default liturgy analysis request. ctrl+s sends it together with the
// CSV excerpt; the answer is rendered as markdown with glamour. Only one
// ask may be in flight at a time.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/DachengChen/liturgiAI/ai"
	"github.com/DachengChen/liturgiAI/applog"
	"github.com/DachengChen/liturgiAI/config"
	"github.com/DachengChen/liturgiAI/prompt"
	"github.com/DachengChen/liturgiAI/session"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const (
	minRowLimit  = 10
	maxRowLimit  = 500
	rowLimitStep = 10
	editorHeight = 8
)

type AskView struct {
	svc      *session.Service
	sess     *session.Session
	editor   textarea.Model
	viewport *Viewport
	rowLimit int
	loading  bool
	outcome  *session.Outcome
	err      error
	notice   string

	renderer      *glamour.TermRenderer
	rendererWidth int

	width  int
	height int
}

func NewAskView(svc *session.Service, sess *session.Session, rowLimit int) *AskView {
	ed := textarea.New()
	ed.ShowLineNumbers = false
	// Unlimited; must be set before SetValue or the default is cut.
	ed.CharLimit = 0
	ed.SetValue(prompt.DefaultInstruction)
	ed.Placeholder = "Tulis instruksi untuk AI..."
	ed.SetHeight(editorHeight)
	ed.Focus()

	if rowLimit <= 0 {
		rowLimit = config.DefaultRowLimit
	}
	return &AskView{
		svc:      svc,
		sess:     sess,
		editor:   ed,
		viewport: NewViewport(80, 10),
		rowLimit: clampRowLimit(rowLimit),
	}
}

func clampRowLimit(n int) int {
	switch {
	case n < minRowLimit:
		return minRowLimit
	case n > maxRowLimit:
		return maxRowLimit
	}
	return n
}

func (v *AskView) Name() string { return "Ask" }

func (v *AskView) WantsTextInput() bool { return v.editor.Focused() }

func (v *AskView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.editor.SetWidth(width - 2)
	// editor + its title line + row-limit line + notice + spacer
	v.viewport.SetSize(width-2, height-editorHeight-5)
	v.renderAnswer()
}

func (v *AskView) ShortHelp() []KeyBinding {
	if v.editor.Focused() {
		return []KeyBinding{
			{Key: "Ctrl+S", Desc: "send"},
			{Key: "Esc", Desc: "leave editor"},
		}
	}
	return []KeyBinding{
		{Key: "Ctrl+S", Desc: "send"},
		{Key: "+/-", Desc: "rows"},
		{Key: "e", Desc: "edit"},
		{Key: "↑/↓", Desc: "scroll"},
	}
}

func (v *AskView) Init() tea.Cmd {
	if v.editor.Focused() {
		return textarea.Blink
	}
	return nil
}

func (v *AskView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case AskResultMsg:
		return v, v.handleResult(msg)

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	return v, cmd
}

func (v *AskView) handleKey(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		return v, v.send()
	}

	if v.editor.Focused() {
		if msg.String() == "esc" {
			v.editor.Blur()
			return v, nil
		}
		var cmd tea.Cmd
		v.editor, cmd = v.editor.Update(msg)
		return v, cmd
	}

	switch msg.String() {
	case "e", "i", "enter":
		return v, v.editor.Focus()
	case "+", "=":
		v.rowLimit = clampRowLimit(v.rowLimit + rowLimitStep)
	case "-", "_":
		v.rowLimit = clampRowLimit(v.rowLimit - rowLimitStep)
	case "ctrl+r":
		v.editor.SetValue(prompt.DefaultInstruction)
	default:
		v.viewport.HandleKey(msg.String())
	}
	return v, nil
}

func (v *AskView) send() tea.Cmd {
	instruction := strings.TrimSpace(v.editor.Value())
	if v.loading || instruction == "" {
		return nil
	}
	v.loading = true
	v.err = nil
	v.editor.Blur()
	v.viewport.SetContent(StyleDimmed.Render("⏳ Meminta jawaban dari AI..."))

	svc, sess, rows := v.svc, v.sess, v.rowLimit
	return func() tea.Msg {
		out, err := svc.Ask(context.Background(), sess, instruction, rows)
		return AskResultMsg{Outcome: out, Err: err}
	}
}

func (v *AskView) handleResult(msg AskResultMsg) tea.Cmd {
	v.loading = false
	if msg.Err != nil {
		v.err = msg.Err
		v.notice = ""
		v.viewport.SetContent(StyleError.Render("ERROR: " + msg.Err.Error()))
		return nil
	}

	v.outcome = msg.Outcome
	v.notice = ""
	if msg.Outcome.Request.Truncated {
		v.notice = msg.Outcome.Request.Notice()
	}
	v.renderAnswer()
	v.viewport.Home()

	cmds := []tea.Cmd{func() tea.Msg { return HistoryChangedMsg{} }}
	if msg.Outcome.HistoryErr != nil {
		status := StatusMsg("Riwayat gagal disimpan: " + msg.Outcome.HistoryErr.Error())
		cmds = append(cmds, func() tea.Msg { return status })
	}
	return tea.Batch(cmds...)
}

// renderAnswer re-renders the last answer at the current width.
func (v *AskView) renderAnswer() {
	if v.outcome == nil || v.loading {
		return
	}
	ans := v.outcome.Answer

	var header string
	switch ans.Kind {
	case ai.TextAnswer:
		header = StyleSuccess.Render("Jawaban AI") + StyleDimmed.Render(" ("+v.svc.Assistant.Model()+")")
	case ai.EmptyAnswer:
		header = StyleWarning.Render("Jawaban kosong")
	case ai.TransportFailure:
		header = StyleError.Render("Gagal memanggil model")
	}
	v.viewport.SetContent(header + "\n" + v.markdown(ans.Text))
}

func (v *AskView) markdown(text string) string {
	width := v.width - 4
	if width < 20 {
		width = 20
	}
	if v.renderer == nil || v.rendererWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			applog.Warn("glamour: %v", err)
			return text
		}
		v.renderer, v.rendererWidth = r, width
	}
	out, err := v.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

func (v *AskView) View() string {
	title := StylePrompt.Render("Instruksi / Prompt ke AI")
	if !v.editor.Focused() {
		title += StyleDimmed.Render("  (e untuk mengedit)")
	}

	limit := fmt.Sprintf("Batas baris: %s", StyleBold.Render(fmt.Sprint(v.rowLimit))) +
		StyleDimmed.Render(fmt.Sprintf("  (%d–%d, +/-)  sumber: %s", minRowLimit, maxRowLimit, v.svc.SourceLabel()))

	notice := ""
	if v.notice != "" {
		notice = StyleWarning.Render("⚠ " + v.notice)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		v.editor.View(),
		limit,
		notice,
		v.viewport.Render(),
	)
}
