// view_data.go: dataset browser.
//
// Shows the loaded liturgy table in a bubbles table, the row/column
// counts and the number of services per month.
package tui

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/DachengChen/liturgiAI/dataset"
	"github.com/DachengChen/liturgiAI/session"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxColumnWidth = 28

type DataView struct {
	svc     *session.Service
	table   table.Model
	data    *dataset.Dataset
	months  []dataset.MonthCount
	loading bool
	err     error
	width   int
	height  int
}

func NewDataView(svc *session.Service) *DataView {
	t := table.New(table.WithFocused(true), table.WithHeight(10))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorSecondary).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(ColorPrimary).
		Background(ColorHighlightBg).
		Bold(false)
	t.SetStyles(styles)

	return &DataView{svc: svc, table: t}
}

func (v *DataView) Name() string { return "Data" }

func (v *DataView) WantsTextInput() bool { return false }

func (v *DataView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.table.SetWidth(width)
	v.resizeTable()
}

// resizeTable gives the table whatever the summary lines leave over.
func (v *DataView) resizeTable() {
	h := v.height - lipgloss.Height(v.summary()) - 1
	if h < 3 {
		h = 3
	}
	v.table.SetHeight(h)
}

func (v *DataView) ShortHelp() []KeyBinding {
	return []KeyBinding{
		{Key: "↑/↓", Desc: "rows"},
		{Key: "r", Desc: "reload"},
		{Key: "c", Desc: "clear cache"},
	}
}

func (v *DataView) Init() tea.Cmd {
	if v.data != nil || v.loading {
		return nil
	}
	return v.load()
}

func (v *DataView) load() tea.Cmd {
	v.loading = true
	svc := v.svc
	return func() tea.Msg {
		ds, err := svc.Dataset(context.Background())
		return DatasetMsg{Dataset: ds, Err: err}
	}
}

func (v *DataView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case DatasetMsg:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.setData(msg.Dataset)
		}
		return v, nil

	case CacheClearedMsg:
		v.data = nil
		return v, v.load()

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return v, v.load()
		case "c":
			svc := v.svc
			return v, func() tea.Msg {
				svc.ClearCache()
				return CacheClearedMsg{}
			}
		}
		var cmd tea.Cmd
		v.table, cmd = v.table.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *DataView) setData(ds *dataset.Dataset) {
	v.data = ds
	v.months = dataset.MonthCounts(ds)

	cols := make([]table.Column, len(ds.Columns))
	for i, name := range ds.Columns {
		cols[i] = table.Column{Title: name, Width: columnWidth(ds, i)}
	}
	rows := make([]table.Row, len(ds.Rows))
	for i, r := range ds.Rows {
		rows[i] = table.Row(r)
	}
	// Rows must be cleared before the column count changes.
	v.table.SetRows(nil)
	v.table.SetColumns(cols)
	v.table.SetRows(rows)
	v.table.GotoTop()
	v.resizeTable()
}

// columnWidth fits the header and the first rows, capped at maxColumnWidth.
func columnWidth(ds *dataset.Dataset, col int) int {
	w := utf8.RuneCountInString(ds.Columns[col])
	for i, row := range ds.Rows {
		if i == 50 {
			break
		}
		if n := utf8.RuneCountInString(row[col]); n > w {
			w = n
		}
	}
	if w > maxColumnWidth {
		w = maxColumnWidth
	}
	return w
}

func (v *DataView) summary() string {
	if v.data == nil {
		return ""
	}
	head := StyleTitle.Render("📖 "+v.svc.SourceLabel()) + "\n" +
		fmt.Sprintf("%s baris · %d kolom", formatInt(v.data.Len()), len(v.data.Columns))

	if len(v.months) == 0 {
		return head + "\n" + StyleDimmed.Render("Tidak ada kolom "+dataset.DateColumn+".")
	}

	parts := make([]string, len(v.months))
	for i, m := range v.months {
		parts[i] = StyleHelpKey.Render(m.Month) + " " + StyleDimmed.Render(fmt.Sprint(m.Count))
	}
	months := lipgloss.NewStyle().Width(v.width).Render(strings.Join(parts, "  "))
	return head + "\n" + StyleDimmed.Render("Ibadah per bulan:") + "\n" + months
}

func (v *DataView) View() string {
	switch {
	case v.loading && v.data == nil:
		return StyleDimmed.Render("⏳ Memuat data liturgi...")
	case v.err != nil:
		return StyleError.Render("ERROR: "+v.err.Error()) + "\n\n" +
			StyleDimmed.Render("Press r to retry.")
	case v.data == nil:
		return ""
	}

	body := v.table.View()
	if v.data.Len() == 0 {
		body = StyleDimmed.Render("(dataset kosong)")
	}
	return lipgloss.JoinVertical(lipgloss.Left, v.summary(), "", body)
}

// formatInt renders n with dot thousands separators.
func formatInt(n int) string {
	s := fmt.Sprint(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
