package advisor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"

	"kantong/internal/chat"
)

const (
	completionTemperature = 0.7
	completionMaxTokens   = 500
)

// Client wraps an OpenAI-compatible streaming chat-completion endpoint.
type Client struct {
	client *openai.Client
	model  string
}

func NewClient(apiKey, baseURL, model string) *Client {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// StreamChat sends the system instruction plus conversation history and
// streams the completion. Each delta is passed to onDelta as it arrives; the
// accumulated reply is returned once the stream ends.
func (c *Client) StreamChat(ctx context.Context, system string, history []*chat.Message, onDelta func(string)) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: system,
	})

	for _, msg := range history {
		role := openai.ChatMessageRoleUser
		if msg.Role == chat.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}

		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	stream, err := c.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: completionTemperature,
		MaxTokens:   completionMaxTokens,
		Stream:      true,
	})
	if err != nil {
		return "", fmt.Errorf("starting completion stream: %w", err)
	}
	defer stream.Close()

	var reply strings.Builder

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return "", fmt.Errorf("receiving completion delta: %w", err)
		}

		if len(resp.Choices) == 0 {
			continue
		}

		delta := resp.Choices[0].Delta.Content
		if delta == "" {
			continue
		}

		reply.WriteString(delta)

		if onDelta != nil {
			onDelta(delta)
		}
	}

	return reply.String(), nil
}
