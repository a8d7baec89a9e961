// Package claude provides the Anthropic text-generation backend
package claude

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/bobmcallan/brief/internal/common"
	"github.com/bobmcallan/brief/internal/interfaces"
)

const (
	DefaultModel     = "claude-sonnet-4-5-20250929"
	defaultMaxTokens = 3000
)

// Client implements the TextGenerator interface on the Anthropic Messages API
type Client struct {
	client    *anthropic.Client
	model     anthropic.Model
	maxTokens int64
	logger    *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = anthropic.Model(model)
		}
	}
}

// WithMaxTokens sets the response token limit
func WithMaxTokens(maxTokens int64) ClientOption {
	return func(c *Client) {
		if maxTokens > 0 {
			c.maxTokens = maxTokens
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Anthropic client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	c := &Client{
		client:    &client,
		model:     anthropic.Model(DefaultModel),
		maxTokens: defaultMaxTokens,
		logger:    common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name identifies the backend
func (c *Client) Name() string {
	return "claude"
}

// Generate produces text from a system instruction and a user prompt
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	c.logger.Debug().Str("model", string(c.model)).Msg("Generating content")

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("no content generated")
	}

	return text, nil
}

// Ensure Client implements TextGenerator
var _ interfaces.TextGenerator = (*Client)(nil)
