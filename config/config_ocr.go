package config

import (
	"errors"
	"strings"

	"github.com/adrianliechti/scanslate/pkg/ocr"
	"github.com/adrianliechti/scanslate/pkg/ocr/tesseract"
	"github.com/adrianliechti/scanslate/pkg/otel"
)

type ocrConfig struct {
	Type string `yaml:"type"`

	Device    string   `yaml:"device"`
	Languages []string `yaml:"languages"`
}

func (cfg *Config) registerOCR(f *configFile) error {
	config := f.OCR

	if config.Type == "" {
		config.Type = "tesseract"
	}

	engine, err := createOCR(config)

	if err != nil {
		return err
	}

	cfg.track(engine)

	cfg.Detector = otel.NewDetector(config.Type, "ocr", engine)
	cfg.Recognizer = otel.NewRecognizer(config.Type, "ocr", engine)

	return nil
}

func createOCR(cfg ocrConfig) (ocr.Engine, error) {
	switch strings.ToLower(cfg.Type) {
	case "tesseract":
		return tesseractOCR(cfg)

	default:
		return nil, errors.New("invalid ocr type: " + cfg.Type)
	}
}

func tesseractOCR(cfg ocrConfig) (ocr.Engine, error) {
	switch strings.ToLower(cfg.Device) {
	case "", "auto", "cpu":
	default:
		return nil, errors.New("unsupported tesseract device: " + cfg.Device)
	}

	var options []tesseract.Option

	if len(cfg.Languages) > 0 {
		options = append(options, tesseract.WithLanguages(cfg.Languages...))
	}

	return tesseract.New(options...)
}
