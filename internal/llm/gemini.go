package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Client wraps the Gemini API for plain text generation.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini client authenticated with an API key.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{client: client, model: model}, nil
}

// GenerateContent sends a prompt to the model and returns the response text.
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		// Lower temperature for more consistent structured output
		Temperature:     genai.Ptr[float32](0.2),
		MaxOutputTokens: 4096,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no response candidates returned")
	}
	return text, nil
}
