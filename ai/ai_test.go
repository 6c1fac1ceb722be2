package ai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DachengChen/liturgiAI/config"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openAIServer(t *testing.T, status int, reply string, seen *map[string]interface{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/responses", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		if seen != nil {
			body, _ := io.ReadAll(r.Body)
			assert.NoError(t, json.Unmarshal(body, seen))
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIOutputText(t *testing.T) {
	var seen map[string]interface{}
	srv := openAIServer(t, http.StatusOK, `{"output_text":"Jawaban utama"}`, &seen)

	p := NewOpenAI("sk-test", "gpt-5.1", srv.URL)
	got, err := p.Chat(context.Background(), []Message{{Role: "user", Content: "halo"}})
	require.NoError(t, err)
	assert.Equal(t, "Jawaban utama", got)

	assert.Equal(t, "gpt-5.1", seen["model"])
	input := seen["input"].([]interface{})
	require.Len(t, input, 2)
	assert.Equal(t, "system", input[0].(map[string]interface{})["role"])
	assert.Equal(t, systemPromptLiturgy, input[0].(map[string]interface{})["content"])
}

func TestOpenAIFallsBackToOutputList(t *testing.T) {
	reply := `{"output":[{"type":"reasoning","content":[]},{"type":"message","content":[{"type":"output_text","text":"Dari daftar output"}]}]}`
	srv := openAIServer(t, http.StatusOK, reply, nil)

	got, err := NewOpenAI("sk-test", "", srv.URL).Chat(context.Background(), []Message{{Role: "user", Content: "x"}})
	require.NoError(t, err)
	assert.Equal(t, "Dari daftar output", got)
}

func TestOpenAIMissingBothFields(t *testing.T) {
	srv := openAIServer(t, http.StatusOK, `{"id":"resp_1","output":[]}`, nil)

	_, err := NewOpenAI("sk-test", "", srv.URL).Chat(context.Background(), []Message{{Role: "user", Content: "x"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedResponse))
}

func TestOpenAIHTTPError(t *testing.T) {
	srv := openAIServer(t, http.StatusTooManyRequests, `{"error":"rate limited"}`, nil)

	_, err := NewOpenAI("sk-test", "", srv.URL).Chat(context.Background(), []Message{{Role: "user", Content: "x"}})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMalformedResponse))
	assert.Contains(t, err.Error(), "429")
}

func TestGroqChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"dari groq"}}]}`)
	}))
	defer srv.Close()

	g := NewGroq("gsk", "")
	g.baseURL = srv.URL
	got, err := g.Chat(context.Background(), []Message{{Role: "user", Content: "x"}})
	require.NoError(t, err)
	assert.Equal(t, "dari groq", got)
}

func TestAnthropicTextBlocks(t *testing.T) {
	var seen map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &seen)
		_, _ = io.WriteString(w, `{"content":[{"type":"text","text":"a"},{"type":"tool_use"},{"type":"text","text":"b"}]}`)
	}))
	defer srv.Close()

	a := NewAnthropic("k", "")
	a.baseURL = srv.URL
	got, err := a.Chat(context.Background(), []Message{{Role: "system", Content: "persona"}, {Role: "user", Content: "x"}})
	require.NoError(t, err)
	assert.Equal(t, "ab", got)
	assert.Equal(t, "persona", seen["system"])
	assert.Len(t, seen["messages"], 1)
}

func TestOllamaEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"message":{"content":""}}`)
	}))
	defer srv.Close()

	_, err := NewOllama(srv.URL, "").Chat(context.Background(), []Message{{Role: "user", Content: "x"}})
	assert.True(t, errors.Is(err, ErrMalformedResponse))
}

func TestGeminiAgainstBaseURL(t *testing.T) {
	var seen map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-test:generateContent"), r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &seen)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Januari: 5 ibadah"}]}}]}`)
	}))
	defer srv.Close()

	g := NewGemini("k", "gemini-test", srv.URL)
	got, err := g.Chat(context.Background(), []Message{{Role: "system", Content: "persona"}, {Role: "user", Content: "x"}})
	require.NoError(t, err)
	assert.Equal(t, "Januari: 5 ibadah", got)
	assert.Contains(t, seen, "systemInstruction")
}

func TestGeminiNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[]}`)
	}))
	defer srv.Close()

	_, err := NewGemini("k", "", srv.URL).Chat(context.Background(), []Message{{Role: "user", Content: "x"}})
	assert.True(t, errors.Is(err, ErrMalformedResponse))
}

type stubProvider struct {
	text     string
	err      error
	messages []Message
}

func (s *stubProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	s.messages = messages
	return s.text, s.err
}
func (s *stubProvider) Name() string  { return "stub" }
func (s *stubProvider) Model() string { return "stub-1" }

func TestAssistantTextAnswer(t *testing.T) {
	p := &stubProvider{text: "Pola lagu: ..."}
	a := NewAssistant(p)

	ans := a.Ask(context.Background(), "prompt")
	assert.Equal(t, TextAnswer, ans.Kind)
	assert.True(t, ans.OK())
	assert.Equal(t, "Pola lagu: ...", ans.Text)
	require.Len(t, p.messages, 2)
	assert.Equal(t, Message{Role: "system", Content: systemPromptLiturgy}, p.messages[0])
	assert.Equal(t, Message{Role: "user", Content: "prompt"}, p.messages[1])
	assert.Equal(t, "stub-1", a.Model())
}

func TestAssistantEmptyAnswer(t *testing.T) {
	for _, p := range []*stubProvider{
		{text: "   "},
		{err: ErrMalformedResponse},
	} {
		ans := NewAssistant(p).Ask(context.Background(), "prompt")
		assert.Equal(t, EmptyAnswer, ans.Kind)
		assert.Equal(t, PlaceholderEmpty, ans.Text)
		assert.Error(t, ans.Err)
	}
}

func TestAssistantTransportFailure(t *testing.T) {
	p := &stubProvider{err: errors.New("dial tcp: connection refused")}
	ans := NewAssistant(p).Ask(context.Background(), "prompt")
	assert.Equal(t, TransportFailure, ans.Kind)
	assert.Contains(t, ans.Text, "connection refused")
	assert.Contains(t, ans.Text, "Terjadi kesalahan")
}

func TestAssistantOverHTTPWithMissingFields(t *testing.T) {
	srv := openAIServer(t, http.StatusOK, `{}`, nil)
	ans := NewAssistant(NewOpenAI("sk-test", "", srv.URL)).Ask(context.Background(), "p")
	assert.Equal(t, EmptyAnswer, ans.Kind)
	assert.Equal(t, PlaceholderEmpty, ans.Text)
}

func TestAssistantOverHTTPWithBadJSON(t *testing.T) {
	srv := openAIServer(t, http.StatusOK, `not json`, nil)
	ans := NewAssistant(NewOpenAI("sk-test", "", srv.URL)).Ask(context.Background(), "p")
	assert.Equal(t, EmptyAnswer, ans.Kind)
}

func TestPlaceholderProvider(t *testing.T) {
	p := &Placeholder{}
	got, err := p.Chat(context.Background(), []Message{{Role: "user", Content: "abc"}})
	require.NoError(t, err)
	assert.Contains(t, got, "3 karakter")

	_, err = p.Chat(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrMalformedResponse))
}

func TestNewProvider(t *testing.T) {
	cfg := config.DefaultAIConfig()

	p, err := NewProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "placeholder", p.Model())

	cfg.Provider = "openai"
	_, err = NewProvider(cfg)
	assert.Error(t, err, "missing key")

	cfg.OpenAI.APIKey = "sk"
	p, err = NewProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "gpt-5.1", p.Model())

	cfg.Provider = "groq"
	cfg.Groq.APIKey = "gsk"
	p, err = NewProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "llama-3.1-8b-instant", p.Model())

	cfg.Provider = "gemini"
	cfg.Gemini.APIKey = "g"
	cfg.Gemini.BaseURL = "http://127.0.0.1:1"
	p, err = NewProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", p.Model())
	assert.Equal(t, "http://127.0.0.1:1", p.(*Gemini).baseURL)

	cfg.Provider = "unknown"
	_, err = NewProvider(cfg)
	assert.Error(t, err)
}
