// Package claude talks to the Anthropic Messages API.
package claude

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spigell/talentscout/internal/prompt"
)

const (
	providerName = "anthropic"
	defaultModel = "claude-3-5-haiku-latest"
	maxTokens    = 2048
)

// Client sends one user message with a system prompt per completion.
type Client struct {
	client anthropic.Client
	model  string
}

// New creates a client for apiKey. A non-empty baseURL overrides the API root.
func New(apiKey, model, baseURL string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("anthropic api key is required")
	}
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// One attempt per user action.
		option.WithMaxRetries(0),
	}
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &Client{client: anthropic.NewClient(opts...), model: model}, nil
}

// Complete sends the pair and joins the text blocks of the reply.
func (c *Client) Complete(ctx context.Context, p prompt.Pair) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(p.Temperature),
		System:      []anthropic.TextBlockParam{{Text: p.System}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(p.User)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	var parts []string
	for _, block := range msg.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			parts = append(parts, strings.TrimSpace(block.Text))
		}
	}

	return strings.Join(parts, "\n"), nil
}

func (c *Client) Provider() string { return providerName }

func (c *Client) Model() string { return c.model }
