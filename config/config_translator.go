package config

import (
	"errors"
	"strings"

	"github.com/adrianliechti/scanslate/pkg/limiter"
	"github.com/adrianliechti/scanslate/pkg/otel"
	"github.com/adrianliechti/scanslate/pkg/provider"
	"github.com/adrianliechti/scanslate/pkg/provider/anthropic"
	"github.com/adrianliechti/scanslate/pkg/provider/google"
	"github.com/adrianliechti/scanslate/pkg/provider/openai"
	"github.com/adrianliechti/scanslate/pkg/router/roundrobin"
	"github.com/adrianliechti/scanslate/pkg/translator"
	"github.com/adrianliechti/scanslate/pkg/translator/llm"
	"github.com/adrianliechti/scanslate/pkg/translator/passthrough"
)

type translatorConfig struct {
	Type string `yaml:"type"`

	URL   string `yaml:"url"`
	Token string `yaml:"token"`

	Model string `yaml:"model"`

	Prefix string `yaml:"prefix"`

	Limit int `yaml:"limit"`

	Translators []string `yaml:"translators"`
}

type translatorContext struct {
	Translators []translator.Provider
}

func (cfg *Config) RegisterTranslator(id string, t translator.Provider) {
	if cfg.translators == nil {
		cfg.translators = make(map[string]translator.Provider)
	}

	if cfg.translator == "" {
		cfg.translator = id
	}

	cfg.translators[id] = t
}

// Translator returns the active translator, or the one registered under id.
func (cfg *Config) Translator(id ...string) (translator.Provider, error) {
	name := cfg.translator

	if len(id) > 0 && id[0] != "" {
		name = id[0]
	}

	t, ok := cfg.translators[name]

	if !ok {
		return nil, errors.New("translator not found: " + name)
	}

	return t, nil
}

func (cfg *Config) registerTranslators(f *configFile) error {
	var configs map[string]translatorConfig

	if !f.Translators.IsZero() {
		if err := f.Translators.Decode(&configs); err != nil {
			return err
		}

		// mapping nodes alternate key and value; walking keys keeps file order
		for _, node := range f.Translators.Content {
			id := node.Value

			config, ok := configs[id]

			if !ok {
				continue
			}

			context := translatorContext{}

			for _, ref := range config.Translators {
				t, err := cfg.Translator(ref)

				if err != nil {
					return err
				}

				context.Translators = append(context.Translators, t)
			}

			t, err := createTranslator(id, config, context)

			if err != nil {
				return err
			}

			cfg.track(t)

			t = limiter.NewTranslator(config.Limit, t)

			if _, ok := t.(otel.Translator); !ok {
				t = otel.NewTranslator(config.Type, id, t)
			}

			cfg.RegisterTranslator(id, t)
		}
	}

	if len(cfg.translators) == 0 {
		t, err := passthrough.New()

		if err != nil {
			return err
		}

		cfg.RegisterTranslator("passthrough", otel.NewTranslator("passthrough", "passthrough", t))
	}

	if f.Translator != "" {
		if _, ok := cfg.translators[f.Translator]; !ok {
			return errors.New("translator not found: " + f.Translator)
		}

		cfg.translator = f.Translator
	}

	return nil
}

func createTranslator(id string, cfg translatorConfig, context translatorContext) (translator.Provider, error) {
	switch strings.ToLower(cfg.Type) {
	case "openai", "anthropic", "google":
		return llmTranslator(id, cfg)

	case "passthrough":
		return passthroughTranslator(cfg)

	case "roundrobin":
		return roundrobinTranslator(cfg, context)

	default:
		return nil, errors.New("invalid translator type: " + cfg.Type)
	}
}

func llmTranslator(id string, cfg translatorConfig) (translator.Provider, error) {
	if cfg.Model == "" {
		return nil, errors.New("translator " + id + ": model is required")
	}

	completer, err := createCompleter(cfg)

	if err != nil {
		return nil, err
	}

	return llm.New(completer)
}

func createCompleter(cfg translatorConfig) (provider.Completer, error) {
	switch strings.ToLower(cfg.Type) {
	case "openai":
		var options []openai.Option

		if cfg.Token != "" {
			options = append(options, openai.WithToken(cfg.Token))
		}

		return openai.NewCompleter(cfg.URL, cfg.Model, options...)

	case "anthropic":
		var options []anthropic.Option

		if cfg.Token != "" {
			options = append(options, anthropic.WithToken(cfg.Token))
		}

		return anthropic.NewCompleter(cfg.URL, cfg.Model, options...)

	case "google":
		var options []google.Option

		if cfg.Token != "" {
			options = append(options, google.WithToken(cfg.Token))
		}

		return google.NewCompleter(cfg.URL, cfg.Model, options...)

	default:
		return nil, errors.New("invalid completer type: " + cfg.Type)
	}
}

func passthroughTranslator(cfg translatorConfig) (translator.Provider, error) {
	var options []passthrough.Option

	if cfg.Prefix != "" {
		options = append(options, passthrough.WithPrefix(cfg.Prefix))
	}

	return passthrough.New(options...)
}

func roundrobinTranslator(cfg translatorConfig, context translatorContext) (translator.Provider, error) {
	return roundrobin.NewTranslator(context.Translators...)
}
