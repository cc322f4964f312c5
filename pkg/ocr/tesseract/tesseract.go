package tesseract

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"strings"

	"github.com/adrianliechti/scanslate/pkg/imaging"
	"github.com/adrianliechti/scanslate/pkg/ocr"

	"github.com/otiai10/gosseract/v2"
)

var _ ocr.Engine = (*Engine)(nil)

// Engine runs detection and recognition on the local tesseract library. A new
// native client is created per call since handles must not be shared across
// goroutines.
type Engine struct {
	languages []string

	clientFactory func() *gosseract.Client
}

type Option func(*Engine)

func WithLanguages(languages ...string) Option {
	return func(e *Engine) {
		e.languages = languages
	}
}

func New(options ...Option) (*Engine, error) {
	e := &Engine{
		clientFactory: gosseract.NewClient,
	}

	for _, option := range options {
		option(e)
	}

	if len(e.languages) == 0 {
		e.languages = []string{"eng"}
	}

	return e, nil
}

func (e *Engine) Detect(ctx context.Context, img image.Image, options *ocr.DetectOptions) ([]ocr.Region, error) {
	data, err := imaging.EncodePNG(img)

	if err != nil {
		return nil, err
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetLanguage(e.languages...); err != nil {
		return nil, fmt.Errorf("%w: %w", ocr.ErrUnavailable, err)
	}

	if err := c.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_TEXTLINE)

	if err != nil {
		return nil, fmt.Errorf("detect lines: %w", err)
	}

	bounds := img.Bounds()
	regions := make([]ocr.Region, 0, len(boxes))

	for _, b := range boxes {
		rect := b.Box.Intersect(bounds)

		if rect.Empty() || strings.TrimSpace(b.Word) == "" {
			continue
		}

		box := ocr.BoxFromRect(rect)

		regions = append(regions, ocr.Region{
			Box:     box,
			Polygon: box.Polygon(),

			Confidence: b.Confidence / 100.0,
		})
	}

	return regions, nil
}

func (e *Engine) Recognize(ctx context.Context, img image.Image, regions []ocr.Region, options *ocr.RecognizeOptions) ([]ocr.Line, error) {
	if options == nil {
		options = new(ocr.RecognizeOptions)
	}

	if len(regions) == 0 {
		return []ocr.Line{}, nil
	}

	languages := e.languages

	if len(options.Languages) > 0 {
		languages = options.Languages
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetLanguage(languages...); err != nil {
		return nil, fmt.Errorf("%w: %w", ocr.ErrUnavailable, err)
	}

	if err := c.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return nil, fmt.Errorf("set page segmentation: %w", err)
	}

	lines := make([]ocr.Line, 0, len(regions))

	for _, r := range regions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := imaging.EncodePNG(crop(img, r.Box.Rect()))

		if err != nil {
			return nil, err
		}

		if err := c.SetImageFromBytes(data); err != nil {
			return nil, fmt.Errorf("set image: %w", err)
		}

		text, err := c.Text()

		if err != nil {
			return nil, fmt.Errorf("recognize line: %w", err)
		}

		lines = append(lines, ocr.Line{
			Text: strings.TrimSpace(text),

			Box:     r.Box,
			Polygon: r.Polygon,

			Confidence: r.Confidence,
		})
	}

	return lines, nil
}

func crop(img image.Image, rect image.Rectangle) image.Image {
	rect = rect.Intersect(img.Bounds())

	if sub, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	}); ok {
		return sub.SubImage(rect)
	}

	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), img, rect.Min, draw.Src)

	return dst
}
