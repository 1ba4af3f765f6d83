package agent

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiAgent drives a seat through Google's Gemini API.
type GeminiAgent struct {
	client *genai.Client
	model  string
}

func NewGeminiAgent(ctx context.Context, apiKey, model string) (*GeminiAgent, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiAgent{client: client, model: model}, nil
}

func (a *GeminiAgent) Name() string {
	return "Gemini - " + a.model
}

func (a *GeminiAgent) Respond(ctx context.Context, prompt, systemMessage string, temperature float64, maxTokens int) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(temperature)),
		MaxOutputTokens: int32(maxTokens),
	}
	if systemMessage != "" {
		cfg.SystemInstruction = genai.NewContentFromText(systemMessage, genai.RoleUser)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	result, err := a.client.Models.GenerateContent(ctx, a.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty gemini response", ErrUnavailable)
	}
	return text, nil
}
