package ocr

import (
	"context"
	"errors"
	"image"
)

type Detector interface {
	Detect(ctx context.Context, img image.Image, options *DetectOptions) ([]Region, error)
}

type Recognizer interface {
	Recognize(ctx context.Context, img image.Image, regions []Region, options *RecognizeOptions) ([]Line, error)
}

// Engine is a predictor that covers both detection and recognition.
type Engine interface {
	Detector
	Recognizer
}

var (
	ErrUnavailable = errors.New("ocr engine unavailable")
)

type DetectOptions struct {
}

type RecognizeOptions struct {
	Languages []string
}

type Point [2]float64

// Box is an axis aligned rectangle as [x1, y1, x2, y2].
type Box [4]float64

func (b Box) Rect() image.Rectangle {
	return image.Rect(int(b[0]), int(b[1]), int(b[2]), int(b[3]))
}

func (b Box) Polygon() []Point {
	return []Point{
		{b[0], b[1]},
		{b[2], b[1]},
		{b[2], b[3]},
		{b[0], b[3]},
	}
}

func BoxFromRect(r image.Rectangle) Box {
	return Box{float64(r.Min.X), float64(r.Min.Y), float64(r.Max.X), float64(r.Max.Y)}
}

// Region is a detected text area in reading order.
type Region struct {
	Box     Box
	Polygon []Point

	Confidence float64
}

type Line struct {
	Text string

	Box     Box
	Polygon []Point

	Confidence float64
}
