package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// Groq implements the Provider interface for Groq's OpenAI-compatible
// chat completions endpoint.
type Groq struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

var _ Provider = (*Groq)(nil)

// NewGroq creates a Groq provider.
func NewGroq(apiKey, model string) *Groq {
	if model == "" {
		model = "llama-3.1-8b-instant"
	}
	return &Groq{apiKey: apiKey, model: model, baseURL: groqBaseURL, client: http.DefaultClient}
}

func (g *Groq) Name() string {
	return fmt.Sprintf("Groq (%s)", g.model)
}

func (g *Groq) Model() string { return g.model }

func (g *Groq) Chat(ctx context.Context, messages []Message) (string, error) {
	body := map[string]interface{}{
		"model":    g.model,
		"messages": withSystem(messages),
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	err := postJSON(ctx, g.client, "groq", strings.TrimRight(g.baseURL, "/")+"/chat/completions",
		map[string]string{"Authorization": "Bearer " + g.apiKey}, body, &result)
	if err != nil {
		return "", err
	}

	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: groq returned no choices", ErrMalformedResponse)
	}
	return result.Choices[0].Message.Content, nil
}
