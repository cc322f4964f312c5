package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adrianliechti/scanslate/pkg/provider"

	"github.com/stretchr/testify/require"
)

func TestComplete(t *testing.T) {
	var body map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-test:generateContent"), r.URL.Path)

		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &body))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"responseId": "resp-1",
			"candidates": [
				{
					"content": {"role": "model", "parts": [{"text": "{\"translations\":[\"Hallo\"]}"}]},
					"finishReason": "STOP"
				}
			],
			"usageMetadata": {"promptTokenCount": 7, "candidatesTokenCount": 3}
		}`))
	}))
	defer server.Close()

	c, err := NewCompleter(server.URL, "gemini-test", WithToken("test-token"))
	require.NoError(t, err)

	completion, err := c.Complete(context.Background(), []provider.Message{
		provider.SystemMessage("translate"),
		provider.UserMessage("Hello"),
	}, &provider.CompleteOptions{
		Schema: &provider.Schema{
			Name:   "translations",
			Schema: map[string]any{"type": "object"},
		},
	})

	require.NoError(t, err)

	require.Equal(t, `{"translations":["Hallo"]}`, completion.Message.Text())
	require.Equal(t, provider.CompletionReasonStop, completion.Reason)
	require.Equal(t, &provider.Usage{InputTokens: 7, OutputTokens: 3}, completion.Usage)

	require.Contains(t, body, "systemInstruction")
	require.Contains(t, body, "generationConfig")
}
