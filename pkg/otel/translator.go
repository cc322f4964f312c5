package otel

import (
	"context"

	"github.com/adrianliechti/scanslate/pkg/translator"

	"go.opentelemetry.io/otel/attribute"
)

type Translator interface {
	otelSetup()
	translator.Provider
}

type observableTranslator struct {
	*observer
	translator translator.Provider
}

func NewTranslator(typ, id string, p translator.Provider) Translator {
	return &observableTranslator{
		observer:   newObserver("translate", typ, id),
		translator: p,
	}
}

func (t *observableTranslator) otelSetup() {}

func (t *observableTranslator) Translate(ctx context.Context, texts []string, options *translator.TranslateOptions) ([]string, error) {
	ctx, span, started := t.start(ctx, "translate")

	if options != nil {
		span.SetAttributes(
			attribute.String("translate.source", options.Source),
			attribute.String("translate.target", options.Target),
		)
	}

	result, err := t.translator.Translate(ctx, texts, options)
	t.end(ctx, span, started, len(result), err)

	return result, err
}
