package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/adrianliechti/scanslate/pkg/imaging"
	"github.com/adrianliechti/scanslate/pkg/ocr"
	"github.com/adrianliechti/scanslate/pkg/text"
	"github.com/adrianliechti/scanslate/pkg/translator"

	"github.com/google/uuid"
	"golang.org/x/text/language"
)

const (
	DefaultSource = "en"
	DefaultTarget = "de"
)

// NoImage is the failure message for requests without image data.
const NoImage = "No image provided"

type Pipeline struct {
	*Config

	detector   ocr.Detector
	recognizer ocr.Recognizer
	translator translator.Provider
}

type Config struct {
	source string
	target string

	maxSize int

	logger *slog.Logger
}

type Option func(*Config)

func WithSource(source string) Option {
	return func(c *Config) {
		c.source = source
	}
}

func WithTarget(target string) Option {
	return func(c *Config) {
		c.target = target
	}
}

func WithMaxSize(size int) Option {
	return func(c *Config) {
		c.maxSize = size
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.logger = logger
	}
}

func New(detector ocr.Detector, recognizer ocr.Recognizer, translator translator.Provider, options ...Option) (*Pipeline, error) {
	cfg := &Config{
		source: DefaultSource,
		target: DefaultTarget,

		maxSize: imaging.DefaultMaxSize,

		logger: slog.Default(),
	}

	for _, option := range options {
		option(cfg)
	}

	if detector == nil || recognizer == nil {
		return nil, ocr.ErrUnavailable
	}

	if translator == nil {
		return nil, errors.New("translator is required")
	}

	source, err := parseLanguage(cfg.source, DefaultSource)

	if err != nil {
		return nil, err
	}

	target, err := parseLanguage(cfg.target, DefaultTarget)

	if err != nil {
		return nil, err
	}

	cfg.source = source
	cfg.target = target

	if cfg.maxSize <= 0 {
		cfg.maxSize = imaging.DefaultMaxSize
	}

	return &Pipeline{
		Config: cfg,

		detector:   detector,
		recognizer: recognizer,
		translator: translator,
	}, nil
}

func (p *Pipeline) Source() string {
	return p.source
}

func (p *Pipeline) Target() string {
	return p.target
}

// Extract runs OCR over a bounded copy of the image, normalizes the joined
// text and translates it as one unit with the default language pair.
func (p *Pipeline) Extract(ctx context.Context, data []byte) (*Extraction, error) {
	img, err := imaging.Decode(data)

	if err != nil {
		return nil, err
	}

	img = imaging.Resize(img, p.maxSize)

	lines, err := p.recognize(ctx, img)

	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(lines))

	for _, l := range lines {
		texts = append(texts, l.Text)
	}

	raw := strings.Join(texts, "\n")
	normalized := text.Normalize(raw)

	result := &Extraction{
		OCRText: raw,
	}

	if normalized == "" {
		return result, nil
	}

	translated, err := p.translate(ctx, []string{normalized}, p.source, p.target)

	if err != nil {
		return nil, err
	}

	result.TranslatedText = translated[0]

	return result, nil
}

// Infer runs the per-line path and never returns an error: every failure,
// including a panic in a predictor, is reported in the envelope.
func (p *Pipeline) Infer(ctx context.Context, req InferRequest) (result *Result) {
	if strings.TrimSpace(req.Image) == "" {
		return &Result{
			Error: NoImage,
		}
	}

	started := time.Now()

	logger := p.logger.With("request", uuid.NewString())

	defer func() {
		if r := recover(); r != nil {
			result = p.fail(logger, started, fmt.Errorf("panic: %v", r), debug.Stack())
		}
	}()

	page, err := p.infer(ctx, req)

	if err != nil {
		return p.fail(logger, started, err, debug.Stack())
	}

	pages := []Page{*page}

	var texts []string
	var translations []string

	for _, page := range pages {
		for _, l := range page.Lines {
			texts = append(texts, l.Text)
			translations = append(translations, l.Translation)
		}
	}

	logger.InfoContext(ctx, "inference completed", "lines", len(texts))

	return &Result{
		Success: true,

		Text:           strings.Join(texts, "\n"),
		TranslatedText: strings.Join(translations, "\n"),

		Pages: pages,

		ProcessingTime: time.Since(started).Seconds(),
	}
}

func (p *Pipeline) infer(ctx context.Context, req InferRequest) (*Page, error) {
	source, err := parseLanguage(req.Language, p.source)

	if err != nil {
		return nil, err
	}

	target, err := parseLanguage(req.TargetLanguage, p.target)

	if err != nil {
		return nil, err
	}

	data, err := imaging.DecodeBase64(req.Image)

	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(data)

	if err != nil {
		return nil, err
	}

	lines, err := p.recognize(ctx, img)

	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()

	page := &Page{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),

		Lines: make([]TextLine, 0, len(lines)),
	}

	if len(lines) == 0 {
		return page, nil
	}

	texts := make([]string, len(lines))

	for i, l := range lines {
		texts[i] = l.Text
	}

	translations, err := p.translate(ctx, texts, source, target)

	if err != nil {
		return nil, err
	}

	for i, l := range lines {
		page.Lines = append(page.Lines, TextLine{
			Text:        l.Text,
			Translation: translations[i],

			Box:     l.Box,
			Polygon: toPolygon(l),

			Confidence: l.Confidence,
		})
	}

	return page, nil
}

// recognize returns the trimmed, non-empty lines in reading order.
func (p *Pipeline) recognize(ctx context.Context, img image.Image) ([]ocr.Line, error) {
	regions, err := p.detector.Detect(ctx, img, nil)

	if err != nil {
		return nil, fmt.Errorf("detection failed: %w", err)
	}

	if len(regions) == 0 {
		return nil, nil
	}

	lines, err := p.recognizer.Recognize(ctx, img, regions, nil)

	if err != nil {
		return nil, fmt.Errorf("recognition failed: %w", err)
	}

	result := make([]ocr.Line, 0, len(lines))

	for _, l := range lines {
		l.Text = strings.TrimSpace(l.Text)

		if l.Text == "" {
			continue
		}

		result = append(result, l)
	}

	return result, nil
}

func (p *Pipeline) translate(ctx context.Context, texts []string, source, target string) ([]string, error) {
	result, err := p.translator.Translate(ctx, texts, &translator.TranslateOptions{
		Source: source,
		Target: target,
	})

	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}

	if err := translator.Check(texts, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (p *Pipeline) fail(logger *slog.Logger, started time.Time, err error, stack []byte) *Result {
	logger.Error("inference failed", "error", err, "stack", string(stack))

	return &Result{
		Error: err.Error(),

		ProcessingTime: time.Since(started).Seconds(),
	}
}

func parseLanguage(value, fallback string) (string, error) {
	value = strings.TrimSpace(value)

	if value == "" {
		value = fallback
	}

	tag, err := language.Parse(value)

	if err != nil {
		return "", fmt.Errorf("invalid language %q: %w", value, err)
	}

	return tag.String(), nil
}

func toPolygon(l ocr.Line) [][2]float64 {
	points := l.Polygon

	if len(points) == 0 {
		points = l.Box.Polygon()
	}

	result := make([][2]float64, len(points))

	for i, p := range points {
		result[i] = p
	}

	return result
}
