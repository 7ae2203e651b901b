package embedding

import (
	"context"
	"errors"
)

// ErrUnavailable marks provider failures (timeout, auth, malformed response).
// The orchestrator treats it as retryable within its bounded retry budget.
var ErrUnavailable = errors.New("embedding provider unavailable")

// Provider turns text into a fixed-length vector.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}
