package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/adrianliechti/scanslate/pkg/pipeline"
)

type ExtractionService struct {
	Options []RequestOption
}

func NewExtractionService(opts ...RequestOption) ExtractionService {
	return ExtractionService{
		Options: opts,
	}
}

type Extraction = pipeline.Extraction

type Image struct {
	Name   string
	Reader io.Reader
}

type ExtractionRequest struct {
	Image Image
}

func (r *ExtractionService) New(ctx context.Context, input ExtractionRequest, opts ...RequestOption) (*Extraction, error) {
	cfg := newRequestConfig(append(r.Options, opts...)...)

	if input.Image.Reader == nil {
		return nil, errors.New("image is required")
	}

	name := input.Image.Name

	if name == "" {
		name = "image"
	}

	var data bytes.Buffer
	w := multipart.NewWriter(&data)

	f, err := w.CreateFormFile("image", name)

	if err != nil {
		return nil, err
	}

	if _, err := io.Copy(f, input.Image.Reader); err != nil {
		return nil, err
	}

	w.Close()

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(cfg.URL, "/")+"/ocr-translate", &data)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := cfg.Client.Do(cfg.newRequest(req))

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, convertError(resp)
	}

	var result Extraction

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

func convertError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return errors.New(resp.Status + ": " + body.Error)
	}

	return errors.New(resp.Status)
}
