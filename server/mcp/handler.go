package mcp

import (
	"context"
	"net/http"

	"github.com/adrianliechti/scanslate/pkg/pipeline"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type Service interface {
	Infer(ctx context.Context, req pipeline.InferRequest) *pipeline.Result
}

type Handler struct {
	service Service

	server  *mcp.Server
	handler http.Handler
}

type ToolInput struct {
	Image string `json:"image_b64" jsonschema:"base64 encoded image, plain or as data URL"`

	Language       string `json:"language,omitempty" jsonschema:"BCP 47 tag of the source language"`
	TargetLanguage string `json:"target_language,omitempty" jsonschema:"BCP 47 tag of the target language"`
}

type ToolOutput struct {
	Success bool `json:"success"`

	Text           string `json:"text,omitempty"`
	TranslatedText string `json:"translated_text,omitempty"`

	Pages []pipeline.Page `json:"pages,omitempty"`

	Error string `json:"error,omitempty"`

	ProcessingTime float64 `json:"processing_time"`
}

func New(service Service, version string) *Handler {
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "scanslate",
		Version: version,
	}, nil)

	h := &Handler{
		service: service,
		server:  s,
	}

	mcp.AddTool(s, &mcp.Tool{
		Name:        "ocr_translate",
		Description: "Recognize the text in an image and translate every line into the target language.",
	}, h.handleTranslate)

	h.handler = mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s
	}, nil)

	return h
}

func (h *Handler) Attach(r chi.Router) {
	r.Handle("/mcp", h.handler)
}

func (h *Handler) Server() *mcp.Server {
	return h.server
}

func (h *Handler) handleTranslate(ctx context.Context, req *mcp.CallToolRequest, input ToolInput) (*mcp.CallToolResult, ToolOutput, error) {
	result := h.service.Infer(ctx, pipeline.InferRequest{
		Image: input.Image,

		Language:       input.Language,
		TargetLanguage: input.TargetLanguage,
	})

	return nil, ToolOutput{
		Success: result.Success,

		Text:           result.Text,
		TranslatedText: result.TranslatedText,

		Pages: result.Pages,

		Error: result.Error,

		ProcessingTime: result.ProcessingTime,
	}, nil
}
