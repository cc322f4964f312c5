package google

import (
	"context"
	"errors"

	"github.com/adrianliechti/scanslate/pkg/provider"

	"google.golang.org/genai"
)

var _ provider.Completer = (*Completer)(nil)

type Completer struct {
	*Config
	client *genai.Client
}

func NewCompleter(url, model string, options ...Option) (*Completer, error) {
	cfg := &Config{
		url:   url,
		model: model,
	}

	for _, option := range options {
		option(cfg)
	}

	config := &genai.ClientConfig{
		APIKey:  cfg.token,
		Backend: genai.BackendGeminiAPI,

		HTTPClient: cfg.client,
	}

	if cfg.url != "" {
		config.HTTPOptions = genai.HTTPOptions{
			BaseURL: cfg.url,
		}
	}

	client, err := genai.NewClient(context.Background(), config)

	if err != nil {
		return nil, err
	}

	return &Completer{
		Config: cfg,
		client: client,
	}, nil
}

func (c *Completer) Complete(ctx context.Context, messages []provider.Message, options *provider.CompleteOptions) (*provider.Completion, error) {
	if options == nil {
		options = new(provider.CompleteOptions)
	}

	contents, config, err := c.convertContentRequest(messages, options)

	if err != nil {
		return nil, err
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)

	if err != nil {
		return nil, err
	}

	if len(resp.Candidates) == 0 {
		return nil, errors.New("no candidate returned")
	}

	result := &provider.Completion{
		ID:    resp.ResponseID,
		Model: c.model,

		Reason: toCompletionReason(resp.Candidates[0].FinishReason),

		Message: &provider.Message{
			Role: provider.MessageRoleAssistant,
		},
	}

	if text := resp.Text(); text != "" {
		result.Message.Content = append(result.Message.Content, provider.TextContent(text))
	}

	if resp.UsageMetadata != nil {
		result.Usage = &provider.Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}

	return result, nil
}

func (c *Completer) convertContentRequest(messages []provider.Message, options *provider.CompleteOptions) ([]*genai.Content, *genai.GenerateContentConfig, error) {
	config := &genai.GenerateContentConfig{
		Temperature: options.Temperature,
	}

	var contents []*genai.Content

	for _, m := range messages {
		switch m.Role {
		case provider.MessageRoleSystem:
			config.SystemInstruction = genai.NewContentFromText(m.Text(), genai.RoleUser)

		case provider.MessageRoleUser:
			contents = append(contents, genai.NewContentFromText(m.Text(), genai.RoleUser))

		case provider.MessageRoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Text(), genai.RoleModel))

		default:
			return nil, nil, errors.New("unsupported message role: " + string(m.Role))
		}
	}

	if options.Format == provider.CompletionFormatJSON {
		config.ResponseMIMEType = "application/json"
	}

	if options.Schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseJsonSchema = options.Schema.Schema
	}

	return contents, config, nil
}

func toCompletionReason(reason genai.FinishReason) provider.CompletionReason {
	switch reason {
	case genai.FinishReasonStop:
		return provider.CompletionReasonStop

	case genai.FinishReasonMaxTokens:
		return provider.CompletionReasonLength

	case genai.FinishReasonSafety, genai.FinishReasonProhibitedContent:
		return provider.CompletionReasonFilter
	}

	return ""
}
