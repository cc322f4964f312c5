package api_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adrianliechti/scanslate/pkg/ocr"
	"github.com/adrianliechti/scanslate/pkg/pipeline"
	"github.com/adrianliechti/scanslate/pkg/translator"
	"github.com/adrianliechti/scanslate/server/api"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	lines []string
	err   error
}

func (e *fakeEngine) Detect(ctx context.Context, img image.Image, options *ocr.DetectOptions) ([]ocr.Region, error) {
	if e.err != nil {
		return nil, e.err
	}

	regions := make([]ocr.Region, len(e.lines))

	for i := range e.lines {
		regions[i] = ocr.Region{Box: ocr.Box{0, float64(i), 10, float64(i + 1)}}
	}

	return regions, nil
}

func (e *fakeEngine) Recognize(ctx context.Context, img image.Image, regions []ocr.Region, options *ocr.RecognizeOptions) ([]ocr.Line, error) {
	lines := make([]ocr.Line, len(regions))

	for i, r := range regions {
		lines[i] = ocr.Line{Text: e.lines[i], Box: r.Box}
	}

	return lines, nil
}

type upperTranslator struct{}

func (upperTranslator) Translate(ctx context.Context, texts []string, options *translator.TranslateOptions) ([]string, error) {
	result := make([]string, len(texts))

	for i, text := range texts {
		result[i] = strings.ToUpper(text)
	}

	return result, nil
}

func newServer(t *testing.T, engine *fakeEngine) *httptest.Server {
	p, err := pipeline.New(engine, engine, upperTranslator{}, pipeline.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)

	r := chi.NewRouter()
	api.New(p).Attach(r)

	s := httptest.NewServer(r)
	t.Cleanup(s.Close)

	return s
}

func testImage(t *testing.T) []byte {
	img := image.NewGray(image.Rect(0, 0, 20, 20))
	img.Set(1, 1, color.White)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

func upload(t *testing.T, url, field string, data []byte) *http.Response {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	f, err := w.CreateFormFile(field, "image.png")
	require.NoError(t, err)

	_, err = f.Write(data)
	require.NoError(t, err)

	require.NoError(t, w.Close())

	resp, err := http.Post(url+"/ocr-translate", w.FormDataContentType(), &body)
	require.NoError(t, err)

	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(data)
}

func TestStatus(t *testing.T) {
	s := newServer(t, &fakeEngine{})

	resp, err := http.Get(s.URL + "/")
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"status":"server running"}`, readBody(t, resp))
}

func TestTranslate(t *testing.T) {
	s := newServer(t, &fakeEngine{lines: []string{"Name:", "Alice"}})

	resp := upload(t, s.URL, "image", testImage(t))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"ocr_text":"Name:\nAlice","translated_text":"NAME: ALICE"}`, readBody(t, resp))
}

func TestTranslateMissingImage(t *testing.T) {
	s := newServer(t, &fakeEngine{})

	resp := upload(t, s.URL, "file", testImage(t))

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, readBody(t, resp), `"error"`)
}

func TestTranslateInvalidImage(t *testing.T) {
	s := newServer(t, &fakeEngine{})

	resp := upload(t, s.URL, "image", []byte("garbage"))

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTranslateInferenceFailure(t *testing.T) {
	s := newServer(t, &fakeEngine{err: errors.New("model crashed")})

	resp := upload(t, s.URL, "image", testImage(t))

	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Contains(t, readBody(t, resp), "model crashed")
}

func TestInfer(t *testing.T) {
	s := newServer(t, &fakeEngine{lines: []string{"Hello", "World"}})

	body := `{"image_b64":"` + base64.StdEncoding.EncodeToString(testImage(t)) + `","target_language":"fr"}`

	resp, err := http.Post(s.URL+"/infer", "application/json", strings.NewReader(body))
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := readBody(t, resp)

	require.Contains(t, data, `"success":true`)
	require.Contains(t, data, `"text":"Hello\nWorld"`)
	require.Contains(t, data, `"translated_text":"HELLO\nWORLD"`)
	require.Contains(t, data, `"width":20`)
}

func TestInferNoImage(t *testing.T) {
	s := newServer(t, &fakeEngine{})

	for _, body := range []string{`{}`, `not json`} {
		resp, err := http.Post(s.URL+"/infer", "application/json", strings.NewReader(body))
		require.NoError(t, err)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.JSONEq(t, `{"success":false,"error":"No image provided","processing_time":0}`, readBody(t, resp))

		resp.Body.Close()
	}
}

func TestInferFailure(t *testing.T) {
	s := newServer(t, &fakeEngine{err: errors.New("model crashed")})

	body := `{"image_b64":"` + base64.StdEncoding.EncodeToString(testImage(t)) + `"}`

	resp, err := http.Post(s.URL+"/infer", "application/json", strings.NewReader(body))
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := readBody(t, resp)

	require.Contains(t, data, `"success":false`)
	require.Contains(t, data, "model crashed")
}
