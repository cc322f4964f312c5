package client_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adrianliechti/scanslate/pkg/client"

	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Write([]byte(`{"status":"server running"}`))
	})

	mux.HandleFunc("POST /ocr-translate", func(w http.ResponseWriter, r *http.Request) {
		file, _, err := r.FormFile("image")

		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"no image provided"}`))
			return
		}

		data, _ := io.ReadAll(file)

		json.NewEncoder(w).Encode(map[string]string{
			"ocr_text":        string(data),
			"translated_text": "translated output: " + string(data),
		})
	})

	mux.HandleFunc("POST /infer", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)

		if req["image_b64"] == "" {
			w.Write([]byte(`{"success":false,"error":"No image provided","processing_time":0}`))
			return
		}

		require.Equal(t, "aGVsbG8=", req["image_b64"])
		require.Equal(t, "fr", req["target_language"])

		w.Write([]byte(`{"success":true,"text":"hello","translated_text":"bonjour","pages":[{"width":1,"height":1,"lines":[{"text":"hello","translation":"bonjour","bbox":[0,0,1,1],"polygon":[[0,0],[1,0],[1,1],[0,1]]}]}],"processing_time":0.5}`))
	})

	s := httptest.NewServer(mux)
	t.Cleanup(s.Close)

	return s
}

func TestStatus(t *testing.T) {
	s := newServer(t)
	c := client.New(s.URL, client.WithToken("secret"))

	status, err := c.Status.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "server running", status.Status)
}

func TestExtraction(t *testing.T) {
	s := newServer(t)
	c := client.New(s.URL)

	result, err := c.Extractions.New(context.Background(), client.ExtractionRequest{
		Image: client.Image{Name: "scan.png", Reader: bytes.NewReader([]byte("hello"))},
	})

	require.NoError(t, err)
	require.Equal(t, "hello", result.OCRText)
	require.Equal(t, "translated output: hello", result.TranslatedText)
}

func TestExtractionRequiresImage(t *testing.T) {
	c := client.New("http://localhost")

	_, err := c.Extractions.New(context.Background(), client.ExtractionRequest{})
	require.Error(t, err)
}

func TestInference(t *testing.T) {
	s := newServer(t)
	c := client.New(s.URL)

	result, err := c.Inferences.New(context.Background(), client.InferenceRequest{
		Image:          []byte("hello"),
		TargetLanguage: "fr",
	})

	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, "bonjour", result.TranslatedText)
	require.Equal(t, 0.5, result.ProcessingTime)

	require.Len(t, result.Pages, 1)
	require.Equal(t, [4]float64{0, 0, 1, 1}, result.Pages[0].Lines[0].Box)
}

func TestInferenceFailure(t *testing.T) {
	s := newServer(t)
	c := client.New(s.URL)

	result, err := c.Inferences.New(context.Background(), client.InferenceRequest{})

	require.EqualError(t, err, "No image provided")
	require.False(t, result.Success)
}
