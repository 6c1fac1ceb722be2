package ai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	json "github.com/goccy/go-json"
)

// postJSON marshals body, POSTs it to url, and decodes a 200 reply into out.
// Non-200 replies become "<vendor> API error (code): body".
func postJSON(ctx context.Context, client *http.Client, vendor, url string, headers map[string]string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", vendor, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s API error (%d): %s", vendor, resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: %s parse error: %v", ErrMalformedResponse, vendor, err)
	}
	return nil
}

type chatMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// withSystem converts messages for chat-style APIs, prepending the
// liturgy persona when the caller supplied no system turn.
func withSystem(messages []Message) []chatMsg {
	out := make([]chatMsg, 0, len(messages)+1)
	hasSystem := false
	for _, m := range messages {
		if m.Role == "system" {
			hasSystem = true
		}
		out = append(out, chatMsg(m))
	}
	if !hasSystem {
		out = append([]chatMsg{{Role: "system", Content: systemPromptLiturgy}}, out...)
	}
	return out
}
