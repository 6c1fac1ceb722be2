package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const openAIBaseURL = "https://api.openai.com/v1"

// OpenAI implements the Provider interface for OpenAI's Responses API.
type OpenAI struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

var _ Provider = (*OpenAI)(nil)

// NewOpenAI creates an OpenAI provider. An empty baseURL uses the public API.
func NewOpenAI(apiKey, model, baseURL string) *OpenAI {
	if model == "" {
		model = "gpt-5.1"
	}
	if baseURL == "" {
		baseURL = openAIBaseURL
	}
	return &OpenAI{apiKey: apiKey, model: model, baseURL: strings.TrimRight(baseURL, "/"), client: http.DefaultClient}
}

func (o *OpenAI) Name() string {
	return fmt.Sprintf("OpenAI (%s)", o.model)
}

func (o *OpenAI) Model() string { return o.model }

// responsesReply is the subset of a Responses API reply we read.
// output_text is the convenience field; output[].content[].text is the
// structured form every reply carries.
type responsesReply struct {
	OutputText string `json:"output_text"`
	Output     []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

func (r *responsesReply) text() string {
	if strings.TrimSpace(r.OutputText) != "" {
		return r.OutputText
	}
	var sb strings.Builder
	for _, item := range r.Output {
		for _, c := range item.Content {
			if c.Text != "" {
				sb.WriteString(c.Text)
			}
		}
	}
	return sb.String()
}

func (o *OpenAI) Chat(ctx context.Context, messages []Message) (string, error) {
	body := map[string]interface{}{
		"model": o.model,
		"input": withSystem(messages),
	}

	var result responsesReply
	err := postJSON(ctx, o.client, "openai", o.baseURL+"/responses",
		map[string]string{"Authorization": "Bearer " + o.apiKey}, body, &result)
	if err != nil {
		return "", err
	}

	text := result.text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: openai returned no output text", ErrMalformedResponse)
	}
	return text, nil
}
