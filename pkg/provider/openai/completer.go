package openai

import (
	"context"
	"errors"

	"github.com/adrianliechti/scanslate/pkg/provider"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/shared"
)

var _ provider.Completer = (*Completer)(nil)

type Completer struct {
	*Config
	completions openai.ChatCompletionService
}

func NewCompleter(url, model string, options ...Option) (*Completer, error) {
	cfg := &Config{
		url:   url,
		model: model,
	}

	for _, option := range options {
		option(cfg)
	}

	return &Completer{
		Config:      cfg,
		completions: openai.NewChatCompletionService(cfg.Options()...),
	}, nil
}

func (c *Completer) Complete(ctx context.Context, messages []provider.Message, options *provider.CompleteOptions) (*provider.Completion, error) {
	if options == nil {
		options = new(provider.CompleteOptions)
	}

	req, err := c.convertCompletionRequest(messages, options)

	if err != nil {
		return nil, err
	}

	completion, err := c.completions.New(ctx, *req)

	if err != nil {
		return nil, err
	}

	if len(completion.Choices) == 0 {
		return nil, errors.New("no completion choice returned")
	}

	choice := completion.Choices[0]

	result := &provider.Completion{
		ID:    completion.ID,
		Model: completion.Model,

		Reason: toCompletionReason(string(choice.FinishReason)),

		Message: &provider.Message{
			Role: provider.MessageRoleAssistant,
		},

		Usage: &provider.Usage{
			InputTokens:  int(completion.Usage.PromptTokens),
			OutputTokens: int(completion.Usage.CompletionTokens),
		},
	}

	if choice.Message.Content != "" {
		result.Message.Content = append(result.Message.Content, provider.TextContent(choice.Message.Content))
	}

	if choice.Message.Refusal != "" {
		result.Message.Content = append(result.Message.Content, provider.RefusalContent(choice.Message.Refusal))
	}

	return result, nil
}

func (c *Completer) convertCompletionRequest(input []provider.Message, options *provider.CompleteOptions) (*openai.ChatCompletionNewParams, error) {
	req := &openai.ChatCompletionNewParams{
		Model: c.model,
	}

	messages, err := convertMessages(input)

	if err != nil {
		return nil, err
	}

	req.Messages = messages

	if options.MaxTokens != nil {
		req.MaxCompletionTokens = openai.Int(int64(*options.MaxTokens))
	}

	if options.Temperature != nil {
		req.Temperature = openai.Float(float64(*options.Temperature))
	}

	if options.Format == provider.CompletionFormatJSON {
		req.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	if options.Schema != nil {
		schema := shared.ResponseFormatJSONSchemaJSONSchemaParam{
			Name:   options.Schema.Name,
			Schema: options.Schema.Schema,
		}

		if options.Schema.Description != "" {
			schema.Description = openai.String(options.Schema.Description)
		}

		if options.Schema.Strict != nil {
			schema.Strict = openai.Bool(*options.Schema.Strict)
		}

		req.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: schema,
			},
		}
	}

	return req, nil
}

func convertMessages(messages []provider.Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	var result []openai.ChatCompletionMessageParamUnion

	for _, m := range messages {
		switch m.Role {
		case provider.MessageRoleSystem:
			result = append(result, openai.SystemMessage(m.Text()))

		case provider.MessageRoleUser:
			result = append(result, openai.UserMessage(m.Text()))

		case provider.MessageRoleAssistant:
			result = append(result, openai.AssistantMessage(m.Text()))

		default:
			return nil, errors.New("unsupported message role: " + string(m.Role))
		}
	}

	return result, nil
}

func toCompletionReason(reason string) provider.CompletionReason {
	switch reason {
	case "stop":
		return provider.CompletionReasonStop

	case "length":
		return provider.CompletionReasonLength

	case "content_filter":
		return provider.CompletionReasonFilter
	}

	return ""
}
