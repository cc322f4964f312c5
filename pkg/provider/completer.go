package provider

import (
	"context"
	"strings"
)

type Completer interface {
	Complete(ctx context.Context, messages []Message, options *CompleteOptions) (*Completion, error)
}

type Message struct {
	Role MessageRole

	Content []Content
}

func SystemMessage(text string) Message {
	return Message{
		Role: MessageRoleSystem,

		Content: []Content{
			TextContent(text),
		},
	}
}

func UserMessage(text string) Message {
	return Message{
		Role: MessageRoleUser,

		Content: []Content{
			TextContent(text),
		},
	}
}

func AssistantMessage(text string) Message {
	return Message{
		Role: MessageRoleAssistant,

		Content: []Content{
			TextContent(text),
		},
	}
}

func (m Message) Text() string {
	var parts []string

	for _, c := range m.Content {
		if c.Text != "" {
			parts = append(parts, c.Text)
		}
	}

	return strings.Join(parts, "\n\n")
}

type MessageRole string

const (
	MessageRoleSystem    MessageRole = "system"
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

type Content struct {
	Text    string
	Refusal string
}

func TextContent(val string) Content {
	return Content{
		Text: val,
	}
}

func RefusalContent(val string) Content {
	return Content{
		Refusal: val,
	}
}

type CompleteOptions struct {
	MaxTokens   *int
	Temperature *float32

	Format CompletionFormat
	Schema *Schema
}

type Schema struct {
	Name        string
	Description string

	Strict *bool

	Schema map[string]any
}

type Completion struct {
	ID    string
	Model string

	Reason CompletionReason

	Message *Message

	Usage *Usage
}

type CompletionFormat string

const (
	CompletionFormatJSON CompletionFormat = "json"
)

type CompletionReason string

const (
	CompletionReasonStop   CompletionReason = "stop"
	CompletionReasonLength CompletionReason = "length"
	CompletionReasonFilter CompletionReason = "filter"
)

type Usage struct {
	InputTokens  int
	OutputTokens int
}
