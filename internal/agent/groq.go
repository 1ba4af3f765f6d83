package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const groqEndpoint = "https://api.groq.com/openai/v1/chat/completions"

// GroqAgent drives a seat through Groq's OpenAI-compatible chat API.
type GroqAgent struct {
	apiKey string
	model  string
	client *http.Client
}

func NewGroqAgent(apiKey, model string) *GroqAgent {
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}
	return &GroqAgent{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (a *GroqAgent) Name() string {
	return "Groq - " + a.model
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const (
	maxRetries = 5
	baseDelay  = 1 * time.Second
	maxDelay   = 30 * time.Second
)

func (a *GroqAgent) Respond(ctx context.Context, prompt, systemMessage string, temperature float64, maxTokens int) (string, error) {
	var messages []chatMessage
	if systemMessage != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemMessage})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	reqBody := chatRequest{
		Model:       a.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	buf, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var lastErr error
	delay := baseDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		// Wait before retry (skip on first attempt)
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
			case <-time.After(delay):
			}
			delay *= 2
			if delay > maxDelay {
				delay = maxDelay
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, groqEndpoint, bytes.NewReader(buf))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := a.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			lastErr = fmt.Errorf("rate limited (429), attempt %d/%d", attempt+1, maxRetries+1)
			continue
		}
		if resp.StatusCode >= 300 {
			resp.Body.Close()
			return "", fmt.Errorf("%w: groq status %s", ErrUnavailable, resp.Status)
		}

		var cr chatResponse
		if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
			resp.Body.Close()
			return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		resp.Body.Close()

		if len(cr.Choices) == 0 {
			return "", fmt.Errorf("%w: no choices returned", ErrUnavailable)
		}
		return cr.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("%w: max retries exceeded: %v", ErrUnavailable, lastErr)
}
