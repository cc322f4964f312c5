package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/adrianliechti/scanslate/pkg/provider"
	"github.com/adrianliechti/scanslate/pkg/translator"

	"github.com/google/jsonschema-go/jsonschema"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var _ translator.Provider = (*Translator)(nil)

type Translator struct {
	completer provider.Completer

	schema *provider.Schema
}

type input struct {
	Lines []string `json:"lines"`
}

type output struct {
	Translations []string `json:"translations" jsonschema:"one translated string per input line, in input order"`
}

func New(completer provider.Completer) (*Translator, error) {
	if completer == nil {
		return nil, errors.New("completer is required")
	}

	s, err := jsonschema.For[output](nil)

	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(s)

	if err != nil {
		return nil, err
	}

	var schema map[string]any

	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, err
	}

	strict := true

	return &Translator{
		completer: completer,

		schema: &provider.Schema{
			Name:        "translations",
			Description: "translated lines",

			Strict: &strict,
			Schema: schema,
		},
	}, nil
}

func (t *Translator) Translate(ctx context.Context, texts []string, options *translator.TranslateOptions) ([]string, error) {
	if options == nil {
		options = new(translator.TranslateOptions)
	}

	if len(texts) == 0 {
		return []string{}, nil
	}

	data, err := json.Marshal(input{Lines: texts})

	if err != nil {
		return nil, err
	}

	temperature := float32(0)

	messages := []provider.Message{
		provider.SystemMessage(instructions(options.Source, options.Target, len(texts))),
		provider.UserMessage(string(data)),
	}

	completion, err := t.completer.Complete(ctx, messages, &provider.CompleteOptions{
		Temperature: &temperature,
		Schema:      t.schema,
	})

	if err != nil {
		return nil, err
	}

	if completion.Message == nil {
		return nil, errors.New("empty completion")
	}

	var result output

	if err := json.Unmarshal([]byte(stripFences(completion.Message.Text())), &result); err != nil {
		return nil, fmt.Errorf("invalid translation response: %w", err)
	}

	if err := translator.Check(texts, result.Translations); err != nil {
		return nil, err
	}

	return result.Translations, nil
}

func instructions(source, target string, count int) string {
	var sb strings.Builder

	sb.WriteString("You are a translation engine for text recognized from images.\n")

	if source != "" {
		fmt.Fprintf(&sb, "Translate each entry of the \"lines\" array from %s to %s.\n", languageName(source), languageName(target))
	} else {
		fmt.Fprintf(&sb, "Detect the language and translate each entry of the \"lines\" array to %s.\n", languageName(target))
	}

	fmt.Fprintf(&sb, "Return exactly %d translations in the same order, one per line, without merging, splitting or reordering entries.\n", count)
	sb.WriteString("Keep numbers, codes and proper names unchanged. Return only the JSON object.")

	return sb.String()
}

func languageName(tag string) string {
	t, err := language.Parse(tag)

	if err != nil {
		return tag
	}

	if name := display.English.Tags().Name(t); name != "" {
		return fmt.Sprintf("%s (%s)", name, t.String())
	}

	return t.String()
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	return strings.TrimSpace(s)
}
