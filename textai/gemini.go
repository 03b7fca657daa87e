package textai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

var _ Generator = (*Gemini)(nil)

// Gemini generates completions with the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

type geminiConfig struct {
	client  *http.Client
	baseURL string
}

type Option func(*geminiConfig)

func WithHTTPClient(client *http.Client) Option {
	return func(c *geminiConfig) {
		c.client = client
	}
}

// WithBaseURL points the client at another endpoint, e.g. a proxy.
func WithBaseURL(url string) Option {
	return func(c *geminiConfig) {
		c.baseURL = url
	}
}

func NewGemini(ctx context.Context, token, model string, options ...Option) (*Gemini, error) {
	if token == "" {
		return nil, errors.New("missing Gemini API key")
	}

	cfg := &geminiConfig{}
	for _, option := range options {
		option(cfg)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  token,
		Backend: genai.BackendGeminiAPI,

		HTTPClient: cfg.client,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: cfg.baseURL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not create Gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  model,
	}, nil
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("empty response")
	}
	return text, nil
}
