package anthropic

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/adrianliechti/scanslate/pkg/provider"

	"github.com/anthropics/anthropic-sdk-go"
)

var _ provider.Completer = (*Completer)(nil)

type Completer struct {
	*Config
	messages anthropic.MessageService
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
		Config:   cfg,
		messages: anthropic.NewMessageService(cfg.Options()...),
	}, nil
}

func (c *Completer) Complete(ctx context.Context, messages []provider.Message, options *provider.CompleteOptions) (*provider.Completion, error) {
	if options == nil {
		options = new(provider.CompleteOptions)
	}

	req, err := c.convertMessageRequest(messages, options)

	if err != nil {
		return nil, err
	}

	message, err := c.messages.New(ctx, *req)

	if err != nil {
		return nil, err
	}

	result := &provider.Completion{
		ID:    message.ID,
		Model: string(message.Model),

		Reason: toCompletionReason(message.StopReason),

		Message: &provider.Message{
			Role: provider.MessageRoleAssistant,
		},

		Usage: toUsage(message.Usage),
	}

	for _, block := range message.Content {
		switch block.Type {
		case "text":
			if block.Text != "" {
				result.Message.Content = append(result.Message.Content, provider.TextContent(block.Text))
			}

		case "tool_use":
			// structured output is forced through a single tool call
			if options.Schema != nil && block.Name == options.Schema.Name {
				result.Message.Content = append(result.Message.Content, provider.TextContent(string(block.Input)))
			}
		}
	}

	return result, nil
}

func (c *Completer) convertMessageRequest(input []provider.Message, options *provider.CompleteOptions) (*anthropic.MessageNewParams, error) {
	req := &anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(8192),
	}

	var system []anthropic.TextBlockParam
	var messages []anthropic.MessageParam

	if options.MaxTokens != nil {
		req.MaxTokens = int64(*options.MaxTokens)
	}

	if options.Temperature != nil {
		req.Temperature = anthropic.Float(float64(*options.Temperature))
	}

	for _, m := range input {
		switch m.Role {
		case provider.MessageRoleSystem:
			for _, c := range m.Content {
				if c.Text != "" {
					system = append(system, anthropic.TextBlockParam{Text: c.Text})
				}
			}

		case provider.MessageRoleUser:
			var blocks []anthropic.ContentBlockParamUnion

			for _, c := range m.Content {
				if c.Text != "" {
					blocks = append(blocks, anthropic.NewTextBlock(c.Text))
				}
			}

			messages = append(messages, anthropic.NewUserMessage(blocks...))

		case provider.MessageRoleAssistant:
			var blocks []anthropic.ContentBlockParamUnion

			for _, c := range m.Content {
				if c.Text != "" {
					blocks = append(blocks, anthropic.NewTextBlock(c.Text))
				}
			}

			messages = append(messages, anthropic.NewAssistantMessage(blocks...))

		default:
			return nil, errors.New("unsupported message role: " + string(m.Role))
		}
	}

	if options.Schema != nil {
		var schema anthropic.ToolInputSchemaParam

		schemaData, _ := json.Marshal(options.Schema.Schema)

		if err := json.Unmarshal(schemaData, &schema); err != nil {
			return nil, errors.New("invalid schema")
		}

		tool := anthropic.ToolParam{
			Name: options.Schema.Name,

			InputSchema: schema,
		}

		if options.Schema.Description != "" {
			tool.Description = anthropic.String(options.Schema.Description)
		}

		req.ToolChoice = anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{
				Name: options.Schema.Name,
			},
		}

		req.Tools = []anthropic.ToolUnionParam{{OfTool: &tool}}
	}

	if len(system) > 0 {
		req.System = system
	}

	req.Messages = messages

	return req, nil
}

func toCompletionReason(reason anthropic.StopReason) provider.CompletionReason {
	switch reason {
	case anthropic.StopReasonEndTurn, anthropic.StopReasonStopSequence, anthropic.StopReasonToolUse:
		return provider.CompletionReasonStop

	case anthropic.StopReasonMaxTokens:
		return provider.CompletionReasonLength

	case anthropic.StopReasonRefusal:
		return provider.CompletionReasonFilter
	}

	return ""
}

func toUsage(usage anthropic.Usage) *provider.Usage {
	if usage.InputTokens == 0 && usage.OutputTokens == 0 {
		return nil
	}

	return &provider.Usage{
		InputTokens:  int(usage.InputTokens),
		OutputTokens: int(usage.OutputTokens),
	}
}
