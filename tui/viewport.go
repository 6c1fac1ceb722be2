// viewport.go is the scrollable text pane shared by the Data, Ask and
// History views. Content may carry ANSI styling (glamour output, lipgloss
// tables), so widths are measured in terminal cells, not bytes.
package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Viewport is a scrollable text area.
type Viewport struct {
	width    int
	height   int
	content  []string
	scrollY  int
	scrollX  int
	wrapText bool
}

// NewViewport creates a viewport with the given dimensions.
func NewViewport(width, height int) *Viewport {
	return &Viewport{width: width, height: height}
}

// SetContent replaces the content.
func (v *Viewport) SetContent(content string) {
	v.SetContentLines(strings.Split(content, "\n"))
}

// SetContentLines replaces the content with pre-split lines.
func (v *Viewport) SetContentLines(lines []string) {
	v.content = lines
	v.clampScroll()
}

// SetSize updates the dimensions.
func (v *Viewport) SetSize(width, height int) {
	if height < 1 {
		height = 1
	}
	v.width = width
	v.height = height
	v.clampScroll()
}

// ToggleWrap switches between hard-wrapping and horizontal scrolling.
func (v *Viewport) ToggleWrap() {
	v.wrapText = !v.wrapText
	v.scrollX = 0
	v.clampScroll()
}

func (v *Viewport) ScrollUp(n int) {
	v.scrollY -= n
	v.clampScroll()
}

func (v *Viewport) ScrollDown(n int) {
	v.scrollY += n
	v.clampScroll()
}

func (v *Viewport) ScrollLeft(n int) {
	if v.wrapText {
		return
	}
	v.scrollX -= n
	if v.scrollX < 0 {
		v.scrollX = 0
	}
}

func (v *Viewport) ScrollRight(n int) {
	if !v.wrapText {
		v.scrollX += n
	}
}

func (v *Viewport) PageUp()   { v.ScrollUp(v.height) }
func (v *Viewport) PageDown() { v.ScrollDown(v.height) }

// Home scrolls to the top-left corner.
func (v *Viewport) Home() {
	v.scrollY = 0
	v.scrollX = 0
}

// End scrolls to the bottom.
func (v *Viewport) End() {
	v.scrollY = v.maxScrollY()
}

// HandleKey applies the common scroll bindings. It reports whether the
// key was consumed.
func (v *Viewport) HandleKey(key string) bool {
	switch key {
	case "up", "k":
		v.ScrollUp(1)
	case "down", "j":
		v.ScrollDown(1)
	case "left", "h":
		v.ScrollLeft(4)
	case "right", "l":
		v.ScrollRight(4)
	case "pgup":
		v.PageUp()
	case "pgdown", " ":
		v.PageDown()
	case "home", "g":
		v.Home()
	case "end", "G":
		v.End()
	case "w":
		v.ToggleWrap()
	default:
		return false
	}
	return true
}

// Render returns the visible portion of the content.
func (v *Viewport) Render() string {
	if len(v.content) == 0 {
		return ""
	}

	lines := v.lines()
	end := v.scrollY + v.height
	if end > len(lines) {
		end = len(lines)
	}
	var visible []string
	if v.scrollY < len(lines) {
		visible = append(visible, lines[v.scrollY:end]...)
	}
	if !v.wrapText {
		for i, line := range visible {
			visible[i] = ansi.Cut(line, v.scrollX, v.scrollX+v.width)
		}
	}
	for len(visible) < v.height {
		visible = append(visible, "")
	}

	return lipgloss.JoinVertical(lipgloss.Left, strings.Join(visible, "\n"), v.scrollIndicator(len(lines)))
}

// lines returns the content, hard-wrapped to the width when wrapping is on.
func (v *Viewport) lines() []string {
	if !v.wrapText || v.width <= 0 {
		return v.content
	}
	var out []string
	for _, line := range v.content {
		out = append(out, strings.Split(ansi.Hardwrap(line, v.width, true), "\n")...)
	}
	return out
}

func (v *Viewport) clampScroll() {
	if maxY := v.maxScrollY(); v.scrollY > maxY {
		v.scrollY = maxY
	}
	if v.scrollY < 0 {
		v.scrollY = 0
	}
}

func (v *Viewport) maxScrollY() int {
	max := len(v.lines()) - v.height
	if max < 0 {
		return 0
	}
	return max
}

func (v *Viewport) scrollIndicator(total int) string {
	if total <= v.height {
		return ""
	}
	pct := (v.scrollY + v.height) * 100 / total
	if pct > 100 {
		pct = 100
	}
	label := " " + strconv.Itoa(pct) + "% (" + strconv.Itoa(v.scrollY+1) + "/" + strconv.Itoa(total) + ")"
	rule := v.width - ansi.StringWidth(label)
	if rule < 0 {
		rule = 0
	}
	return StyleDimmed.Render(strings.Repeat("─", rule) + label)
}
