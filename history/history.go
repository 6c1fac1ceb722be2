// Package history records every question asked and answer received.
//
// Two interchangeable stores implement Store: Memory keeps entries for
// one interactive session only, SQL appends them to a qa_history table
// through gorm (PostgreSQL or a local SQLite file). Both return entries
// newest first.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/DachengChen/liturgiAI/config"
)

// ErrWrite is wrapped by Append failures.
var ErrWrite = errors.New("history write failed")

// Entry is one recorded question/answer pair.
type Entry struct {
	ID          int64
	AskedAt     time.Time
	SourceTable string
	RowLimit    *int
	Instruction string
	PromptSent  string
	Answer      string
	Model       string
}

// Store is an append-only Q&A log.
type Store interface {
	// Append records e and returns it with ID and AskedAt assigned.
	Append(ctx context.Context, e Entry) (Entry, error)

	// Recent returns up to n entries, newest first. n <= 0 returns all.
	Recent(ctx context.Context, n int) ([]Entry, error)

	Close() error
}

// Open builds the store selected by cfg.
func Open(cfg config.HistoryConfig) (Store, error) {
	switch cfg.Backend {
	case config.HistoryMemory, "":
		return NewMemory(), nil
	case config.HistorySQLite:
		return OpenSQLite(cfg.Path, cfg.MaxStoredChars)
	case config.HistoryPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("history.dsn is empty (set LITURGI_HISTORY_DSN)")
		}
		return OpenPostgres(cfg.DSN, cfg.MaxStoredChars)
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
	}
}

// trimRunes keeps at most max characters of s.
func trimRunes(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

// IntPtr is a small helper for Entry.RowLimit.
func IntPtr(n int) *int { return &n }
