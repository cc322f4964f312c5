package config

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	defer cfg.Close()

	require.Equal(t, ":8000", cfg.Address)
	require.Equal(t, DefaultOrigins, cfg.Origins)
	require.Equal(t, "en", cfg.Source)
	require.Equal(t, "de", cfg.Target)
	require.Equal(t, 1280, cfg.MaxSize)

	require.NotNil(t, cfg.Detector)
	require.NotNil(t, cfg.Recognizer)

	tr, err := cfg.Translator()
	require.NoError(t, err)

	result, err := tr.Translate(context.Background(), []string{"hello"}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"translated output: hello"}, result)
}

func TestParse(t *testing.T) {
	t.Setenv("TEST_OPENAI_TOKEN", "sk-test")

	data := `
server:
  address: ":9000"
  origins:
    - https://example.com

languages:
  source: fr
  target: es

image:
  max_size: 640

ocr:
  type: tesseract
  device: cpu
  languages: [eng, fra]

translator: pool

translators:
  echo:
    type: passthrough
    prefix: "echo: "

  gpt:
    type: openai
    model: gpt-4o-mini
    token: ${TEST_OPENAI_TOKEN}
    limit: 5

  pool:
    type: roundrobin
    translators: [echo, gpt]
`

	cfg, err := Parse([]byte(data))
	require.NoError(t, err)

	defer cfg.Close()

	require.Equal(t, ":9000", cfg.Address)
	require.Equal(t, []string{"https://example.com"}, cfg.Origins)
	require.Equal(t, "fr", cfg.Source)
	require.Equal(t, "es", cfg.Target)
	require.Equal(t, 640, cfg.MaxSize)

	for _, id := range []string{"echo", "gpt", "pool"} {
		_, err := cfg.Translator(id)
		require.NoError(t, err, id)
	}

	echo, err := cfg.Translator("echo")
	require.NoError(t, err)

	result, err := echo.Translate(context.Background(), []string{"a"}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"echo: a"}, result)
}

func TestParseFirstTranslatorIsDefault(t *testing.T) {
	data := `
translators:
  second:
    type: passthrough
    prefix: "2: "
  first:
    type: passthrough
    prefix: "1: "
`

	cfg, err := Parse([]byte(data))
	require.NoError(t, err)

	tr, err := cfg.Translator()
	require.NoError(t, err)

	result, err := tr.Translate(context.Background(), []string{"x"}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"2: x"}, result)
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"unknown translator type": `
translators:
  x:
    type: babelfish
`,
		"missing model": `
translators:
  x:
    type: anthropic
`,
		"unknown active translator": `
translator: missing
`,
		"unknown reference": `
translators:
  pool:
    type: roundrobin
    translators: [missing]
`,
		"unsupported device": `
ocr:
  device: cuda
`,
		"unknown ocr type": `
ocr:
  type: surya
`,
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			require.Error(t, err)
		})
	}
}
