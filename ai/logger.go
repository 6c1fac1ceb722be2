// logger.go provides file-based logging for ALL AI interactions.
//
// Logs are written to ~/.liturgi/logs/ai.log as zerolog JSON lines,
// one request and one response event per ask.
package ai

import (
	"sync"

	"github.com/DachengChen/liturgiAI/applog"
	"github.com/rs/zerolog"
)

var (
	logOnce sync.Once
	aiLog   = zerolog.Nop()
)

func logger() *zerolog.Logger {
	logOnce.Do(func() {
		if l, err := applog.OpenFile("ai.log"); err == nil {
			aiLog = l
		}
	})
	return &aiLog
}

// LogAIRequest logs any AI request with the given operation name and input details.
func LogAIRequest(operation string, provider string, details map[string]string) {
	ev := logger().Info().
		Str("kind", "request").
		Str("op", operation).
		Str("provider", provider)
	for k, v := range details {
		ev = ev.Str(k, v)
	}
	ev.Send()
}

// LogAIResponse logs any AI response with the given operation name.
func LogAIResponse(operation string, response string, err error) {
	var ev *zerolog.Event
	if err != nil {
		ev = logger().Error().Err(err)
	} else {
		ev = logger().Info()
	}
	ev.Str("kind", "response").
		Str("op", operation).
		Str("response", response).
		Send()
}
