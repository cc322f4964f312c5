package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

type StatusService struct {
	Options []RequestOption
}

func NewStatusService(opts ...RequestOption) StatusService {
	return StatusService{
		Options: opts,
	}
}

type Status struct {
	Status string `json:"status"`
}

func (r *StatusService) Get(ctx context.Context, opts ...RequestOption) (*Status, error) {
	cfg := newRequestConfig(append(r.Options, opts...)...)

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(cfg.URL, "/")+"/", nil)

	resp, err := cfg.Client.Do(cfg.newRequest(req))

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(resp.Status)
	}

	var result Status

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}
