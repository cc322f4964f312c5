package passthrough

import (
	"context"

	"github.com/adrianliechti/scanslate/pkg/translator"
)

var _ translator.Provider = (*Translator)(nil)

const DefaultPrefix = "translated output: "

// Translator is a placeholder that prefixes every line instead of translating
// it. Useful for wiring tests and local runs without a model.
type Translator struct {
	prefix string
}

type Option func(*Translator)

func WithPrefix(prefix string) Option {
	return func(t *Translator) {
		t.prefix = prefix
	}
}

func New(options ...Option) (*Translator, error) {
	t := &Translator{
		prefix: DefaultPrefix,
	}

	for _, option := range options {
		option(t)
	}

	return t, nil
}

func (t *Translator) Translate(ctx context.Context, texts []string, options *translator.TranslateOptions) ([]string, error) {
	result := make([]string, len(texts))

	for i, text := range texts {
		result[i] = t.prefix + text
	}

	return result, nil
}
