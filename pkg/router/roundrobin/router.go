package roundrobin

import (
	"context"
	"errors"
	"math/rand"

	"github.com/adrianliechti/scanslate/pkg/translator"
)

var _ translator.Provider = (*Translator)(nil)

type Translator struct {
	translators []translator.Provider
}

func NewTranslator(translators ...translator.Provider) (*Translator, error) {
	result := []translator.Provider{}

	for _, t := range translators {
		if t == nil {
			continue
		}

		result = append(result, t)
	}

	if len(result) == 0 {
		return nil, errors.New("no translators configured")
	}

	return &Translator{
		translators: result,
	}, nil
}

func (t *Translator) Translate(ctx context.Context, texts []string, options *translator.TranslateOptions) ([]string, error) {
	index := rand.Intn(len(t.translators))
	provider := t.translators[index]

	return provider.Translate(ctx, texts, options)
}
