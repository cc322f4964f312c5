package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/adrianliechti/scanslate/pkg/imaging"
	"github.com/adrianliechti/scanslate/pkg/pipeline"

	"github.com/go-chi/chi/v5"
)

const maxUploadSize = 32 << 20

type Service interface {
	Extract(ctx context.Context, data []byte) (*pipeline.Extraction, error)
	Infer(ctx context.Context, req pipeline.InferRequest) *pipeline.Result
}

type Handler struct {
	service Service
}

func New(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) Attach(r chi.Router) {
	r.Get("/", h.handleStatus)

	r.Post("/ocr-translate", h.handleTranslate)
	r.Post("/infer", h.handleInfer)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJson(w, StatusResponse{
		Status: "server running",
	})
}

func (h *Handler) handleTranslate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, _, err := r.FormFile("image")

	if err != nil {
		writeError(w, http.StatusBadRequest, imaging.ErrNoImage)
		return
	}

	defer file.Close()

	data, err := io.ReadAll(file)

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.service.Extract(r.Context(), data)

	if err != nil {
		if errors.Is(err, imaging.ErrNoImage) || errors.Is(err, imaging.ErrInvalidImage) {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJson(w, result)
}

func (h *Handler) handleInfer(w http.ResponseWriter, r *http.Request) {
	var req pipeline.InferRequest

	// an unreadable body is treated like a request without an image
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req = pipeline.InferRequest{}
	}

	writeJson(w, h.service.Infer(r.Context(), req))
}

func writeJson(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	if code >= 500 {
		slog.Error("server error", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(ErrorResponse{
		Error: err.Error(),
	})
}
