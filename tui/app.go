// app.go is the top-level Bubble Tea model that orchestrates all views.
//
// Flow:
//  1. Start in the loading phase while the dataset is fetched
//  2. On success → switch to the tabbed view (Data, Ask, History)
//  3. A failed load stays on the loading screen with retry
//
// Key design decisions:
//   - Two phases: "loading" and "main"
//   - Tab-based navigation between views
//   - Command mode (`:`) for quick actions
//   - Jump mode (`/`) for quick view switching
//   - Help overlay (`?`) toggled on/off
//   - Async results are delivered to every view, so an answer that
//     arrives after switching tabs still lands in the Ask view
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/DachengChen/liturgiAI/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const appVersion = "0.2.0"

// Tab indices.
const (
	TabData = iota
	TabAsk
	TabHistory
)

// AppPhase tracks whether the dataset is ready.
type AppPhase int

const (
	PhaseLoading AppPhase = iota
	PhaseMain
)

// InputMode determines what keystrokes do in main phase.
type InputMode int

const (
	ModeNormal InputMode = iota
	ModeCommand
	ModeJump
)

// App is the root Bubble Tea model.
type App struct {
	phase   AppPhase
	loadErr error

	svc  *session.Service
	sess *session.Session

	views     []View
	activeTab int

	width     int
	height    int
	mode      InputMode
	cmdInput  string
	showHelp  bool
	statusMsg string
}

// NewApp creates the application for one session.
func NewApp(svc *session.Service, sess *session.Session, rowLimit int) *App {
	a := &App{
		phase: PhaseLoading,
		svc:   svc,
		sess:  sess,
	}
	a.views = []View{
		NewDataView(svc),
		NewAskView(svc, sess, rowLimit),
		NewHistoryView(sess),
	}
	a.activeTab = TabData
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.views[TabData].Init()
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resizeViews()
		return a, nil

	case DatasetMsg:
		if msg.Err != nil && a.phase == PhaseLoading {
			a.loadErr = msg.Err
		} else if msg.Err == nil && a.phase == PhaseLoading {
			a.phase = PhaseMain
			a.loadErr = nil
		}

	case StatusMsg:
		a.statusMsg = string(msg)
		return a, nil

	case CacheClearedMsg:
		a.statusMsg = "cache cleared"

	case tea.KeyMsg:
		if a.phase == PhaseLoading {
			return a.updateLoading(msg)
		}
		a.statusMsg = ""
		return a.handleKey(msg)
	}

	return a, a.broadcast(msg)
}

// broadcast hands a non-key message to every view.
func (a *App) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i, v := range a.views {
		updated, cmd := v.Update(msg)
		a.views[i] = updated
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (a *App) resizeViews() {
	// Header(1) + Status(1) + Borders(2) = 4 lines of chrome
	contentW := a.width - 2
	viewH := a.height - 4
	for _, v := range a.views {
		v.SetSize(contentW, viewH)
	}
}

func (a *App) updateLoading(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return a, tea.Quit
	case "r":
		if a.loadErr != nil {
			a.loadErr = nil
			return a, a.views[TabData].Init()
		}
	}
	return a, nil
}

// handleKey processes keyboard input in main phase.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.mode {
	case ModeCommand:
		return a.handleCommandMode(msg)
	case ModeJump:
		return a.handleJumpMode(msg)
	default:
		return a.handleNormalMode(msg)
	}
}

func (a *App) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// When the active view is accepting text input, only intercept
	// non-text keys. Let everything else pass through.
	textMode := a.views[a.activeTab].WantsTextInput()

	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "tab":
		return a.switchTab((a.activeTab + 1) % len(a.views))
	case "shift+tab":
		return a.switchTab((a.activeTab + len(a.views) - 1) % len(a.views))
	case "f1":
		return a.switchTab(TabData)
	case "f2":
		return a.switchTab(TabAsk)
	case "f3":
		return a.switchTab(TabHistory)
	}

	if !textMode {
		switch msg.String() {
		case "q":
			return a, tea.Quit
		case "1", "2", "3":
			return a.switchTab(int(msg.String()[0] - '1'))
		case ":":
			a.mode = ModeCommand
			a.cmdInput = ""
			return a, nil
		case "/":
			a.mode = ModeJump
			a.cmdInput = ""
			return a, nil
		case "?":
			a.showHelp = !a.showHelp
			return a, nil
		}
	}

	return a, a.forward(msg)
}

func (a *App) forward(msg tea.Msg) tea.Cmd {
	updated, cmd := a.views[a.activeTab].Update(msg)
	a.views[a.activeTab] = updated
	return cmd
}

func (a *App) handleCommandMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		cmd := a.executeCommand(a.cmdInput)
		a.mode = ModeNormal
		a.cmdInput = ""
		return a, cmd
	case "esc":
		a.mode = ModeNormal
		a.cmdInput = ""
		return a, nil
	case "backspace":
		a.cmdInput = dropLastRune(a.cmdInput)
		return a, nil
	default:
		switch msg.Type {
		case tea.KeyRunes:
			a.cmdInput += string(msg.Runes)
		case tea.KeySpace:
			a.cmdInput += " "
		}
		return a, nil
	}
}

func (a *App) handleJumpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		idx := a.findView(a.cmdInput)
		a.mode = ModeNormal
		a.cmdInput = ""
		if idx < 0 {
			return a, nil
		}
		return a.switchTab(idx)
	case "esc":
		a.mode = ModeNormal
		a.cmdInput = ""
		return a, nil
	case "backspace":
		a.cmdInput = dropLastRune(a.cmdInput)
		return a, nil
	default:
		if msg.Type == tea.KeyRunes {
			a.cmdInput += string(msg.Runes)
		}
		return a, nil
	}
}

func dropLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}

func (a *App) switchTab(idx int) (tea.Model, tea.Cmd) {
	if idx >= 0 && idx < len(a.views) {
		a.activeTab = idx
		a.showHelp = false
		return a, a.views[a.activeTab].Init()
	}
	return a, nil
}

func (a *App) findView(name string) int {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, v := range a.views {
		if strings.Contains(strings.ToLower(v.Name()), name) {
			return i
		}
	}
	a.statusMsg = "view not found: " + name
	return -1
}

func (a *App) executeCommand(input string) tea.Cmd {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil
	}
	switch fields[0] {
	case "q", "quit":
		return tea.Quit
	case "reload", "r":
		a.activeTab = TabData
		return a.views[TabData].Init()
	case "clear", "clear-cache":
		svc := a.svc
		return func() tea.Msg {
			svc.ClearCache()
			return CacheClearedMsg{}
		}
	case "rows":
		if len(fields) != 2 {
			a.statusMsg = "usage: rows <n>"
			return nil
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			a.statusMsg = "rows: not a number: " + fields[1]
			return nil
		}
		ask := a.views[TabAsk].(*AskView)
		ask.rowLimit = clampRowLimit(n)
		a.statusMsg = fmt.Sprintf("row limit set to %d", ask.rowLimit)
		return nil
	default:
		a.statusMsg = "unknown command: " + input
		return nil
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if a.width == 0 {
		return "loading..."
	}

	header := a.renderHeader()

	frameHeight := a.height - 4
	if frameHeight < 0 {
		frameHeight = 0
	}
	frameBox := StyleBorder.
		Width(a.width - 2).
		Height(frameHeight)

	var inner string
	switch {
	case a.phase == PhaseLoading:
		inner = a.renderLoading()
	case a.showHelp:
		inner = a.renderHelp()
	default:
		inner = a.views[a.activeTab].View()
	}

	return header + "\n" + frameBox.Render(inner) + "\n" + a.renderStatusBar()
}

func (a *App) renderLoading() string {
	if a.loadErr != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			StyleError.Render("Gagal memuat data liturgi"),
			"",
			a.loadErr.Error(),
			"",
			StyleDimmed.Render("r retry  │  q quit"),
		)
	}
	return StyleDimmed.Render("⏳ Memuat data liturgi dari " + a.svc.SourceLabel() + "...")
}

// renderHeader draws a simple text bar: logo + version + tabs + model.
func (a *App) renderHeader() string {
	left := StyleBold.Render("⛪ liturgi") + StyleDimmed.Render(" v"+appVersion)

	var tabs string
	if a.phase == PhaseMain {
		for i, v := range a.views {
			label := fmt.Sprintf("%d %s", i+1, v.Name())
			if i == a.activeTab {
				tabs += StyleTabActive.Render(label)
			} else {
				tabs += StyleTabInactive.Render(label)
			}
		}
		tabs = "  " + tabs
	}

	content := left + tabs
	right := StyleSuccess.Render("⚡ "+a.svc.Assistant.Name()+" · "+a.svc.Assistant.Model()) +
		StyleDimmed.Render("  "+a.sess.ID.String()[:8])
	gap := a.width - lipgloss.Width(content) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Width(a.width).
		Render(content + strings.Repeat(" ", gap) + right)
}

func (a *App) renderStatusBar() string {
	var content string

	switch a.mode {
	case ModeCommand:
		content = StylePrompt.Render(":") + a.cmdInput + "█"
	case ModeJump:
		content = StylePrompt.Render("/") + a.cmdInput + "█"
	default:
		if a.statusMsg != "" {
			content = StyleWarning.Render(a.statusMsg)
		} else {
			var parts []string
			for _, h := range a.getHelpItems() {
				parts = append(parts,
					StyleHelpKey.Render(h.Key)+" "+StyleHelpDesc.Render(h.Desc))
			}
			content = strings.Join(parts, "  │  ")
		}
	}

	return StyleStatusBar.Width(a.width).Render(content)
}

func (a *App) getHelpItems() []KeyBinding {
	global := []KeyBinding{
		{Key: "Tab", Desc: "next view"},
		{Key: "?", Desc: "help"},
		{Key: "Ctrl+C", Desc: "quit"},
	}
	if a.phase != PhaseMain {
		return global
	}
	return append(a.views[a.activeTab].ShortHelp(), global...)
}

func (a *App) renderHelp() string {
	help := []string{
		StyleTitle.Render("⌨ liturgi Keyboard Shortcuts"),
		"",
		StyleHelpKey.Render("Tab / Shift+Tab") + "  Switch between views",
		StyleHelpKey.Render("1 2 3 / F1-F3") + "    Data, Ask, History",
		StyleHelpKey.Render("/") + "                Jump to view by name",
		StyleHelpKey.Render("?") + "                Toggle this help",
		StyleHelpKey.Render("q / Ctrl+C") + "       Quit",
		"",
		StyleTitle.Render("Data"),
		"",
		StyleHelpKey.Render("r") + "                Reload (uses the cache)",
		StyleHelpKey.Render("c") + "                Clear cache and reload",
		"",
		StyleTitle.Render("Ask"),
		"",
		StyleHelpKey.Render("Ctrl+S") + "           Send instruction to the AI",
		StyleHelpKey.Render("Esc / e") + "          Leave / enter the editor",
		StyleHelpKey.Render("+ / -") + "            Row limit ±10 (10–500)",
		StyleHelpKey.Render("Ctrl+R") + "           Restore default instruction",
		"",
		StyleTitle.Render("Commands"),
		"",
		StyleHelpKey.Render(":reload") + "          Reload the dataset",
		StyleHelpKey.Render(":clear") + "           Clear the dataset cache",
		StyleHelpKey.Render(":rows <n>") + "        Set the row limit",
		StyleHelpKey.Render(":quit") + "            Quit",
		"",
		StyleDimmed.Render("Press ? to close"),
	}

	return lipgloss.NewStyle().
		Width(a.width-4).
		Padding(1, 2).
		Render(strings.Join(help, "\n"))
}
