package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Ollama implements the Provider interface for a local Ollama server.
type Ollama struct {
	host   string
	model  string
	client *http.Client
}

var _ Provider = (*Ollama)(nil)

// NewOllama creates an Ollama provider.
func NewOllama(host, model string) *Ollama {
	if host == "" {
		host = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.2"
	}
	return &Ollama{host: strings.TrimRight(host, "/"), model: model, client: http.DefaultClient}
}

func (o *Ollama) Name() string {
	return fmt.Sprintf("Ollama (%s)", o.model)
}

func (o *Ollama) Model() string { return o.model }

func (o *Ollama) Chat(ctx context.Context, messages []Message) (string, error) {
	body := map[string]interface{}{
		"model":    o.model,
		"messages": withSystem(messages),
		"stream":   false,
	}

	var result struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := postJSON(ctx, o.client, "ollama", o.host+"/api/chat", nil, body, &result); err != nil {
		return "", fmt.Errorf("%w (is Ollama running at %s?)", err, o.host)
	}

	if strings.TrimSpace(result.Message.Content) == "" {
		return "", fmt.Errorf("%w: ollama returned empty response", ErrMalformedResponse)
	}
	return result.Message.Content, nil
}
