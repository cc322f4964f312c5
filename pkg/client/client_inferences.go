package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/adrianliechti/scanslate/pkg/pipeline"
)

type InferenceService struct {
	Options []RequestOption
}

func NewInferenceService(opts ...RequestOption) InferenceService {
	return InferenceService{
		Options: opts,
	}
}

type Inference = pipeline.Result

type Page = pipeline.Page
type TextLine = pipeline.TextLine

type InferenceRequest struct {
	Image []byte

	Language       string
	TargetLanguage string
}

// New returns the envelope as reported by the server. A failed inference is
// returned as an error carrying the server message.
func (r *InferenceService) New(ctx context.Context, input InferenceRequest, opts ...RequestOption) (*Inference, error) {
	cfg := newRequestConfig(append(r.Options, opts...)...)

	body := pipeline.InferRequest{
		Language:       input.Language,
		TargetLanguage: input.TargetLanguage,
	}

	if len(input.Image) > 0 {
		body.Image = base64.StdEncoding.EncodeToString(input.Image)
	}

	var data bytes.Buffer

	if err := json.NewEncoder(&data).Encode(body); err != nil {
		return nil, err
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(cfg.URL, "/")+"/infer", &data)
	req.Header.Set("Content-Type", "application/json")

	resp, err := cfg.Client.Do(cfg.newRequest(req))

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, convertError(resp)
	}

	var result Inference

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	if !result.Success {
		return &result, errors.New(result.Error)
	}

	return &result, nil
}
