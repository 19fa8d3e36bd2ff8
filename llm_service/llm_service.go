package llm_service

import (
	"context"
	"strconv"
	"time"
)

type LLMService interface {
	CallLLM(ctx context.Context, config map[string]interface{}, prompt string) (string, error)
}

// Options carries the external-call policy shared by the concrete services:
// a per-call timeout and a bounded retry with fixed backoff. Both come from
// configuration rather than being hardcoded into each client.
type Options struct {
	Timeout time.Duration
	Retries int
	Backoff time.Duration
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 120 * time.Second
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
	if o.Backoff <= 0 {
		o.Backoff = 5 * time.Second
	}
	return o
}

// Helper function to safely parse float values from loosely typed config maps.
func safeParseFloat(value interface{}, defaultValue float64) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case string:
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return defaultValue
}
