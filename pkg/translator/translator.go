package translator

import (
	"context"
	"errors"
	"fmt"
)

type Provider interface {
	Translate(ctx context.Context, texts []string, options *TranslateOptions) ([]string, error)
}

var (
	ErrLengthMismatch = errors.New("translation count does not match input")
)

type TranslateOptions struct {
	Source string
	Target string
}

// Check verifies that a provider returned one translation per input line.
func Check(texts, result []string) error {
	if len(texts) != len(result) {
		return fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(result), len(texts))
	}

	return nil
}
