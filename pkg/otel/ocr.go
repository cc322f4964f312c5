package otel

import (
	"context"
	"image"

	"github.com/adrianliechti/scanslate/pkg/ocr"
)

type Detector interface {
	otelSetup()
	ocr.Detector
}

type observableDetector struct {
	*observer
	detector ocr.Detector
}

func NewDetector(typ, id string, d ocr.Detector) Detector {
	return &observableDetector{
		observer: newObserver("detect", typ, id),
		detector: d,
	}
}

func (d *observableDetector) otelSetup() {}

func (d *observableDetector) Detect(ctx context.Context, img image.Image, options *ocr.DetectOptions) ([]ocr.Region, error) {
	ctx, span, started := d.start(ctx, "detect")

	result, err := d.detector.Detect(ctx, img, options)
	d.end(ctx, span, started, len(result), err)

	return result, err
}

type Recognizer interface {
	otelSetup()
	ocr.Recognizer
}

type observableRecognizer struct {
	*observer
	recognizer ocr.Recognizer
}

func NewRecognizer(typ, id string, r ocr.Recognizer) Recognizer {
	return &observableRecognizer{
		observer:   newObserver("recognize", typ, id),
		recognizer: r,
	}
}

func (r *observableRecognizer) otelSetup() {}

func (r *observableRecognizer) Recognize(ctx context.Context, img image.Image, regions []ocr.Region, options *ocr.RecognizeOptions) ([]ocr.Line, error) {
	ctx, span, started := r.start(ctx, "recognize")

	result, err := r.recognizer.Recognize(ctx, img, regions, options)
	r.end(ctx, span, started, len(result), err)

	return result, err
}
