package provider

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIProvider extracts findings via the OpenAI Chat Completions API.
type OpenAIProvider struct {
	base
	client openai.Client
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg Config) (*OpenAIProvider, error) {
	opts := []option.RequestOption{
		option.WithMaxRetries(0),
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	p := &OpenAIProvider{
		client: openai.NewClient(opts...),
	}
	p.base = newBase(NameOpenAI, cfg, p.doCall)
	return p, nil
}

func (p *OpenAIProvider) doCall(ctx context.Context, system, user string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		MaxTokens:   openai.Int(8192),
		Temperature: openai.Float(0.1),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", p.classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", newError(KindServer, p.name, "no choices in response", nil)
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) classify(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return classifyHTTP(p.name, apierr.StatusCode, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return newError(KindServer, p.name, "request timed out", err)
	}
	return newError(KindServer, p.name, "request failed", err)
}

func init() {
	Register(NameOpenAI, func(cfg Config) (Provider, error) {
		return NewOpenAIProvider(cfg)
	})
}
