package rag

import (
	"context"
)

// Pipeline answers questions over the rows it was built from. Implementations
// are chosen when a session is configured, never per call.
type Pipeline interface {
	Answer(ctx context.Context, question string) (string, error)
}
