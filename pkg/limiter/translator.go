package limiter

import (
	"context"

	"github.com/adrianliechti/scanslate/pkg/translator"

	"golang.org/x/time/rate"
)

var _ translator.Provider = (*Translator)(nil)

type Translator struct {
	limiter  *rate.Limiter
	provider translator.Provider
}

// NewTranslator throttles p to limit calls per second. A non-positive limit
// returns p unchanged.
func NewTranslator(limit int, p translator.Provider) translator.Provider {
	if limit <= 0 {
		return p
	}

	return &Translator{
		limiter:  rate.NewLimiter(rate.Limit(limit), limit),
		provider: p,
	}
}

func (t *Translator) Translate(ctx context.Context, texts []string, options *translator.TranslateOptions) ([]string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	return t.provider.Translate(ctx, texts, options)
}
