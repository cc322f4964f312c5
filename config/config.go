package config

import (
	"errors"
	"io"
	"os"

	"github.com/adrianliechti/scanslate/pkg/imaging"
	"github.com/adrianliechti/scanslate/pkg/ocr"
	"github.com/adrianliechti/scanslate/pkg/pipeline"
	"github.com/adrianliechti/scanslate/pkg/translator"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Address string
	Origins []string

	Source string
	Target string

	MaxSize int

	Detector   ocr.Detector
	Recognizer ocr.Recognizer

	translator  string
	translators map[string]translator.Provider

	closers []io.Closer
}

var DefaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8000",
	"https://*.vercel.app",
}

type configFile struct {
	Server serverConfig `yaml:"server"`

	Languages languagesConfig `yaml:"languages"`

	Image imageConfig `yaml:"image"`

	OCR ocrConfig `yaml:"ocr"`

	Translator  string    `yaml:"translator"`
	Translators yaml.Node `yaml:"translators"`
}

type serverConfig struct {
	Address string   `yaml:"address"`
	Origins []string `yaml:"origins"`
}

type languagesConfig struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

type imageConfig struct {
	MaxSize int `yaml:"max_size"`
}

// Load reads the YAML file at path. A missing file yields the built-in
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}

		data = nil
	}

	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	file, err := parseFile(data)

	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Address: ":8000",
		Origins: DefaultOrigins,

		Source: pipeline.DefaultSource,
		Target: pipeline.DefaultTarget,

		MaxSize: imaging.DefaultMaxSize,

		translators: make(map[string]translator.Provider),
	}

	if file.Server.Address != "" {
		cfg.Address = file.Server.Address
	}

	if len(file.Server.Origins) > 0 {
		cfg.Origins = file.Server.Origins
	}

	if file.Languages.Source != "" {
		cfg.Source = file.Languages.Source
	}

	if file.Languages.Target != "" {
		cfg.Target = file.Languages.Target
	}

	if file.Image.MaxSize > 0 {
		cfg.MaxSize = file.Image.MaxSize
	}

	if err := cfg.registerOCR(file); err != nil {
		cfg.Close()
		return nil, err
	}

	if err := cfg.registerTranslators(file); err != nil {
		cfg.Close()
		return nil, err
	}

	return cfg, nil
}

func parseFile(data []byte) (*configFile, error) {
	var file configFile

	data = []byte(os.ExpandEnv(string(data)))

	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	return &file, nil
}

func (cfg *Config) Close() error {
	var result error

	for i := len(cfg.closers) - 1; i >= 0; i-- {
		result = errors.Join(result, cfg.closers[i].Close())
	}

	cfg.closers = nil

	return result
}

func (cfg *Config) track(v any) {
	if c, ok := v.(io.Closer); ok {
		cfg.closers = append(cfg.closers, c)
	}
}
