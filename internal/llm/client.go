// Package llm talks to the remote model that backs the remote extraction engine.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Generator produces a completion for a prompt
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Supported providers
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

const (
	defaultOpenAIURL   = "https://api.openai.com"
	defaultOllamaURL   = "http://localhost:11434"
	defaultOpenAIModel = "gpt-4o-mini"
	defaultOllamaModel = "llama3.2"
)

// StatusError is returned for non-200 responses
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// Client generates completions over HTTP
type Client struct {
	provider string
	baseURL  string
	apiKey   string
	model    string
	client   *http.Client
}

// Options configures a Client. Empty fields take provider defaults.
type Options struct {
	Provider string
	BaseURL  string
	APIKey   string
	Model    string
	// HTTPClient overrides the default client; request deadlines come from ctx
	HTTPClient *http.Client
}

// NewClient creates a client for the given provider
func NewClient(opts Options) (*Client, error) {
	c := &Client{
		provider: strings.ToLower(strings.TrimSpace(opts.Provider)),
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		apiKey:   opts.APIKey,
		model:    opts.Model,
		client:   opts.HTTPClient,
	}
	if c.provider == "" {
		c.provider = ProviderOpenAI
	}

	switch c.provider {
	case ProviderOpenAI:
		if c.apiKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		if c.baseURL == "" {
			c.baseURL = defaultOpenAIURL
		}
		if c.model == "" {
			c.model = defaultOpenAIModel
		}
	case ProviderOllama:
		if c.baseURL == "" {
			c.baseURL = defaultOllamaURL
		}
		if c.model == "" {
			c.model = defaultOllamaModel
		}
	default:
		return nil, fmt.Errorf("unknown provider %q", opts.Provider)
	}

	if c.client == nil {
		c.client = &http.Client{Timeout: 60 * time.Second}
	}
	return c, nil
}

// Provider returns the provider name
func (c *Client) Provider() string { return c.provider }

// Model returns the model used for generation
func (c *Client) Model() string { return c.model }

// Generate sends prompt to the model and returns its raw text response
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("empty prompt")
	}
	if c.provider == ProviderOllama {
		return c.generateOllama(ctx, prompt)
	}
	return c.generateOpenAI(ctx, prompt)
}

// ollama /api/generate
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func (c *Client) generateOllama(ctx context.Context, prompt string) (string, error) {
	var result generateResponse
	err := c.post(ctx, "/api/generate", generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Format: "json",
	}, &result)
	if err != nil {
		return "", err
	}
	return result.Response, nil
}

// openai /v1/chat/completions
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) generateOpenAI(ctx context.Context, prompt string) (string, error) {
	var result chatResponse
	err := c.post(ctx, "/v1/chat/completions", chatRequest{
		Model:          c.model,
		Messages:       []chatMessage{{Role: "user", Content: prompt}},
		Temperature:    0,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}, &result)
	if err != nil {
		return "", err
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return result.Choices[0].Message.Content, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", c.provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Provider: c.provider, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
