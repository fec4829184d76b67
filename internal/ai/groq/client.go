// Package groq talks to Groq's OpenAI-compatible chat completions endpoint.
package groq

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/talentscout/internal/prompt"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	providerName = "groq"

	// DefaultModel is the model used when none is configured.
	DefaultModel = "llama-3.1-8b-instant"
	// DefaultBaseURL is Groq's OpenAI-compatible API root.
	DefaultBaseURL = "https://api.groq.com/openai/v1"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// Client sends one system and one user message per completion.
type Client struct {
	llm   contentGenerator
	model string
}

// New creates a client for apiKey. Empty model and baseURL use the Groq defaults.
func New(apiKey, model, baseURL string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("groq api key is required")
	}
	if model = strings.TrimSpace(model); model == "" {
		model = DefaultModel
	}
	if baseURL = strings.TrimSpace(baseURL); baseURL == "" {
		baseURL = DefaultBaseURL
	}

	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(model),
		openai.WithBaseURL(baseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("create groq client: %w", err)
	}

	return &Client{llm: llm, model: model}, nil
}

// Complete runs one chat completion with the pair's temperature.
func (c *Client) Complete(ctx context.Context, p prompt.Pair) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, p.System),
		llms.TextParts(llms.ChatMessageTypeHuman, p.User),
	}

	resp, err := c.llm.GenerateContent(ctx, messages,
		llms.WithModel(c.model),
		llms.WithTemperature(p.Temperature),
	)
	if err != nil {
		return "", fmt.Errorf("groq chat completion: %w", err)
	}

	if resp == nil || len(resp.Choices) == 0 {
		return "", errors.New("groq returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Content), nil
}

func (c *Client) Provider() string { return providerName }

func (c *Client) Model() string { return c.model }
