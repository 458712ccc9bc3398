package provider

import (
	"context"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicProvider extracts findings via the Anthropic Messages API.
type AnthropicProvider struct {
	base
	client anthropic.Client
}

// NewAnthropicProvider creates a new Anthropic provider.
func NewAnthropicProvider(cfg Config) (*AnthropicProvider, error) {
	opts := []option.RequestOption{
		// Retries are owned by the shared template, not the SDK.
		option.WithMaxRetries(0),
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	p := &AnthropicProvider{
		client: anthropic.NewClient(opts...),
	}
	p.base = newBase(NameAnthropic, cfg, p.doCall)
	return p, nil
}

func (p *AnthropicProvider) doCall(ctx context.Context, system, user string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: 8192,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", p.classify(err)
	}

	var content string
	for _, block := range resp.Content {
		if b, ok := block.AsAny().(anthropic.TextBlock); ok {
			content = b.Text
		}
	}
	return content, nil
}

func (p *AnthropicProvider) classify(err error) error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		return classifyHTTP(p.name, apierr.StatusCode, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return newError(KindServer, p.name, "request timed out", err)
	}
	return newError(KindServer, p.name, "request failed", err)
}

func init() {
	Register(NameAnthropic, func(cfg Config) (Provider, error) {
		return NewAnthropicProvider(cfg)
	})
}
