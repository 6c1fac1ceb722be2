// Package session wires the dataset, prompt, ai and history packages into
// the ask flow shared by the TUI and the CLI.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/DachengChen/liturgiAI/ai"
	"github.com/DachengChen/liturgiAI/applog"
	"github.com/DachengChen/liturgiAI/config"
	"github.com/DachengChen/liturgiAI/dataset"
	"github.com/DachengChen/liturgiAI/history"
	"github.com/DachengChen/liturgiAI/prompt"
	"github.com/google/uuid"
)

// Session is the per-user context: the last answer shown and the history
// store it records into. It is passed explicitly, never held globally.
type Session struct {
	ID          uuid.UUID
	LastAnswer  *ai.Answer
	LastRequest *prompt.Request
	History     history.Store
}

// New starts a session recording into store.
func New(store history.Store) *Session {
	return &Session{ID: uuid.New(), History: store}
}

// Outcome is the result of one ask.
type Outcome struct {
	Request    *prompt.Request
	Answer     ai.Answer
	Entry      history.Entry
	HistoryErr error
	Elapsed    time.Duration
}

// Service holds the process-wide pieces: one dataset cache, the
// configured source, the prompt builder and the assistant.
type Service struct {
	Cache     *dataset.Cache
	Source    dataset.Source
	Builder   *prompt.Builder
	Assistant *ai.Assistant
	Clock     func() time.Time
}

// NewService builds a Service from configuration.
func NewService(cfg *config.AppConfig) (*Service, error) {
	src, err := dataset.FromConfig(cfg.Source)
	if err != nil {
		return nil, err
	}
	provider, err := ai.NewProvider(cfg.AI)
	if err != nil {
		return nil, fmt.Errorf("ai provider: %w", err)
	}
	return &Service{
		Cache:     dataset.NewCache(),
		Source:    src,
		Builder:   prompt.NewBuilder(cfg.Prompt.MaxChars),
		Assistant: ai.NewAssistant(provider),
		Clock:     time.Now,
	}, nil
}

// Dataset returns the enriched dataset, loading the source on a cache miss.
func (s *Service) Dataset(ctx context.Context) (*dataset.Dataset, error) {
	raw, err := s.Cache.Get(ctx, s.Source)
	if err != nil {
		return nil, err
	}
	return dataset.Enrich(raw), nil
}

// ClearCache drops the cached dataset so the next read reloads it.
func (s *Service) ClearCache() {
	s.Cache.Invalidate(s.Source.Key())
}

// SourceLabel names the dataset in prompts and history.
func (s *Service) SourceLabel() string { return s.Source.Label() }

// Ask builds the prompt from the current dataset, asks the assistant and
// records the exchange. The only error returned is a dataset failure; a
// failed history write is reported in Outcome.HistoryErr and does not
// prevent sess.LastAnswer from being set.
func (s *Service) Ask(ctx context.Context, sess *Session, instruction string, rowLimit int) (*Outcome, error) {
	start := s.now()

	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	req := s.Builder.Build(ds, instruction, s.Source.Label(), rowLimit)
	if req.Truncated {
		applog.Warn("session %s: %s", sess.ID, req.Notice())
	}

	answer := s.Assistant.Ask(ctx, req.Prompt)
	sess.LastRequest = req
	sess.LastAnswer = &answer

	out := &Outcome{Request: req, Answer: answer}

	entry := history.Entry{
		SourceTable: s.Source.Label(),
		Instruction: instruction,
		PromptSent:  req.Prompt,
		Answer:      answer.Text,
		Model:       s.Assistant.Model(),
	}
	if rowLimit > 0 {
		entry.RowLimit = history.IntPtr(rowLimit)
	}
	if sess.History != nil {
		saved, err := sess.History.Append(ctx, entry)
		if err != nil {
			applog.Warn("session %s: history not saved: %v", sess.ID, err)
			out.HistoryErr = err
			out.Entry = entry
		} else {
			out.Entry = saved
		}
	}

	out.Elapsed = s.now().Sub(start)
	applog.Event("ask", "session=%s kind=%s model=%s rows=%d chars=%d/%d elapsed=%s",
		sess.ID, answer.Kind, s.Assistant.Model(), rowLimit, req.ExcerptChars, req.OriginalChars, out.Elapsed)
	return out, nil
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}
