package ai

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"
)

// Placeholder is a mock AI provider for development and demos without
// an API key.
type Placeholder struct {
	Delay time.Duration
}

var _ Provider = (*Placeholder)(nil)

func NewPlaceholder() *Placeholder {
	return &Placeholder{Delay: 300 * time.Millisecond}
}

func (p *Placeholder) Name() string {
	return "placeholder"
}

func (p *Placeholder) Model() string { return "placeholder" }

func (p *Placeholder) Chat(ctx context.Context, messages []Message) (string, error) {
	// Simulate network latency
	select {
	case <-time.After(p.Delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	if len(messages) == 0 {
		return "", fmt.Errorf("%w: no messages provided", ErrMalformedResponse)
	}

	last := messages[len(messages)-1].Content
	return fmt.Sprintf("### Jawaban contoh\n\n"+
		"Prompt yang diterima berisi %d karakter.\n\n"+
		"Ini adalah jawaban placeholder. Atur provider AI (openai, anthropic, gemini, groq, ollama) "+
		"di `~/.liturgi/config.yaml` untuk mendapatkan analisis sebenarnya.\n\n"+
		"Contoh pertanyaan:\n"+
		"- Lagu pembukaan apa yang paling sering dipakai?\n"+
		"- Kitab mana yang paling sering dibacakan?\n"+
		"- Bagaimana variasi tema khotbah per bulan?", utf8.RuneCountInString(last)), nil
}
