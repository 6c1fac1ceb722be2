package ai

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

// AnswerKind tags how an ask ended.
type AnswerKind int

const (
	// TextAnswer carries the model's reply.
	TextAnswer AnswerKind = iota
	// EmptyAnswer means the model replied without usable text.
	EmptyAnswer
	// TransportFailure means the call itself failed.
	TransportFailure
)

func (k AnswerKind) String() string {
	switch k {
	case TextAnswer:
		return "text"
	case EmptyAnswer:
		return "empty"
	case TransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// Answer is what the user sees. Text is always displayable: for
// EmptyAnswer and TransportFailure it holds a placeholder, and Err keeps
// the underlying cause.
type Answer struct {
	Kind AnswerKind
	Text string
	Err  error
}

// OK reports whether the model produced a real answer.
func (a Answer) OK() bool { return a.Kind == TextAnswer }

// Assistant asks the liturgy persona one question at a time.
type Assistant struct {
	provider Provider
	system   string
}

// NewAssistant wraps provider with the fixed liturgy persona.
func NewAssistant(provider Provider) *Assistant {
	return &Assistant{provider: provider, system: systemPromptLiturgy}
}

// Name returns the provider display name.
func (a *Assistant) Name() string { return a.provider.Name() }

// Model is the identifier both called and recorded in history.
func (a *Assistant) Model() string { return a.provider.Model() }

// Ask sends prompt as the sole user turn. It never returns an error:
// failures are folded into the Answer.
func (a *Assistant) Ask(ctx context.Context, prompt string) Answer {
	messages := []Message{
		{Role: "system", Content: a.system},
		{Role: "user", Content: prompt},
	}

	LogAIRequest("Ask", a.provider.Name(), map[string]string{
		"model":        a.provider.Model(),
		"prompt_chars": strconv.Itoa(utf8.RuneCountInString(prompt)),
		"prompt":       prompt,
	})
	text, err := a.provider.Chat(ctx, messages)
	LogAIResponse("Ask", text, err)

	return classify(text, err)
}

func classify(text string, err error) Answer {
	switch {
	case err == nil && strings.TrimSpace(text) != "":
		return Answer{Kind: TextAnswer, Text: text}
	case err == nil:
		return Answer{Kind: EmptyAnswer, Text: PlaceholderEmpty, Err: ErrMalformedResponse}
	case errors.Is(err, ErrMalformedResponse):
		return Answer{Kind: EmptyAnswer, Text: PlaceholderEmpty, Err: err}
	default:
		return Answer{Kind: TransportFailure, Text: placeholderTransport + err.Error(), Err: err}
	}
}
