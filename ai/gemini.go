package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// Gemini implements the Provider interface with the Google GenAI SDK.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string

	once      sync.Once
	client    *genai.Client
	clientErr error
}

var _ Provider = (*Gemini)(nil)

// NewGemini creates a Gemini provider. The SDK client is created on first
// use; an empty baseURL keeps the SDK's default endpoint.
func NewGemini(apiKey, model, baseURL string) *Gemini {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &Gemini{apiKey: apiKey, model: model, baseURL: baseURL}
}

func (g *Gemini) Name() string {
	return fmt.Sprintf("Gemini (%s)", g.model)
}

func (g *Gemini) Model() string { return g.model }

func (g *Gemini) sdk(ctx context.Context) (*genai.Client, error) {
	g.once.Do(func() {
		cfg := &genai.ClientConfig{
			APIKey:  g.apiKey,
			Backend: genai.BackendGeminiAPI,
		}
		if g.baseURL != "" {
			cfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
		}
		g.client, g.clientErr = genai.NewClient(ctx, cfg)
	})
	if g.clientErr != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", g.clientErr)
	}
	return g.client, nil
}

func (g *Gemini) Chat(ctx context.Context, messages []Message) (string, error) {
	client, err := g.sdk(ctx)
	if err != nil {
		return "", err
	}

	system := systemPromptLiturgy
	var contents []*genai.Content
	for _, m := range messages {
		switch m.Role {
		case "system":
			system = m.Content
		case "assistant":
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	text := geminiText(resp)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: gemini returned no content", ErrMalformedResponse)
	}
	return text, nil
}

// geminiText prefers the SDK's Text() accessor and falls back to
// concatenating every text part of the first candidate.
func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	if t := resp.Text(); strings.TrimSpace(t) != "" {
		return t
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}
