// Package ai defines the interface for AI assistant providers and the
// Assistant that turns their replies into a displayable Answer.
//
// Design decisions:
//   - Provider is an interface so we can swap backends (OpenAI, Anthropic,
//     Gemini, Groq, Ollama) without changing the session or TUI code.
//   - All methods accept context for cancellation (async-friendly).
//   - Providers return errors; only Assistant converts them into
//     placeholder answers, so vendors stay easy to test.
package ai

import (
	"context"
	"errors"
)

// Message represents a chat message.
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// ErrMalformedResponse is wrapped when a vendor answered but the reply
// held no usable text.
var ErrMalformedResponse = errors.New("response has no text")

// Provider is the interface all AI backends must implement.
type Provider interface {
	// Chat sends a conversation and returns the assistant's reply.
	Chat(ctx context.Context, messages []Message) (string, error)

	// Name returns the provider name for display.
	Name() string

	// Model returns the exact model identifier sent to the vendor.
	Model() string
}
