// messages.go defines Bubble Tea messages used for async communication.
//
// Dataset loads, AI requests and history reads run in tea.Cmd goroutines
// and report back through these types, so the UI never blocks.
package tui

import (
	"github.com/DachengChen/liturgiAI/dataset"
	"github.com/DachengChen/liturgiAI/history"
	"github.com/DachengChen/liturgiAI/session"
)

// DatasetMsg is sent when the (cached) dataset load completes.
type DatasetMsg struct {
	Dataset *dataset.Dataset
	Err     error
}

// AskResultMsg is sent when an ask round trip completes.
type AskResultMsg struct {
	Outcome *session.Outcome
	Err     error
}

// HistoryMsg carries the newest history entries.
type HistoryMsg struct {
	Entries []history.Entry
	Err     error
}

// HistoryChangedMsg tells the History view to refresh.
type HistoryChangedMsg struct{}

// CacheClearedMsg is sent after the dataset cache was invalidated.
type CacheClearedMsg struct{}

// StatusMsg is a transient status message for the status bar.
type StatusMsg string
