package provider

import (
	"context"
	"errors"
	"sync"

	"google.golang.org/genai"
)

// GeminiProvider extracts findings via the Gemini API.
type GeminiProvider struct {
	base
	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiProvider creates a new Gemini provider. The underlying client
// is created lazily on first call because the SDK requires a context.
func NewGeminiProvider(cfg Config) (*GeminiProvider, error) {
	p := &GeminiProvider{}
	p.base = newBase(NameGemini, cfg, p.doCall)
	return p, nil
}

func (p *GeminiProvider) getClient(ctx context.Context) (*genai.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return p.client, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, newError(KindAuth, p.name, "client initialization failed", err)
	}
	p.client = client
	return client, nil
}

func (p *GeminiProvider) doCall(ctx context.Context, system, user string) (string, error) {
	client, err := p.getClient(ctx)
	if err != nil {
		return "", err
	}

	contents := []*genai.Content{
		{Parts: []*genai.Part{{Text: user}}},
	}

	result, err := client.Models.GenerateContent(ctx, p.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		},
	})
	if err != nil {
		return "", p.classify(err)
	}

	text := result.Text()
	if text == "" {
		return "", newError(KindServer, p.name, "empty response", nil)
	}
	return text, nil
}

func (p *GeminiProvider) classify(err error) error {
	var apierr genai.APIError
	if errors.As(err, &apierr) {
		return classifyHTTP(p.name, apierr.Code, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return newError(KindServer, p.name, "request timed out", err)
	}
	return newError(KindServer, p.name, "request failed", err)
}

func init() {
	Register(NameGemini, func(cfg Config) (Provider, error) {
		return NewGeminiProvider(cfg)
	})
}
