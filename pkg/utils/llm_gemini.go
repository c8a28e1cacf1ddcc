package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiClient implements LLMClientInterface using Google's Gemini models
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(apiKey, model string) (*GeminiClient, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiClient) Provider() string { return "gemini" }

func (c *GeminiClient) GenerateText(ctx context.Context, req LLMRequest) (RawModelReply, error) {
	m := c.client.GenerativeModel(c.model)
	m.SetTemperature(req.Temperature)
	if req.MaxOutputTokens > 0 {
		m.SetMaxOutputTokens(req.MaxOutputTokens)
	}
	if req.JSONOnly {
		m.ResponseMIMEType = "application/json"
	}
	if req.SystemPrompt != "" {
		m.SystemInstruction = genai.NewUserContent(genai.Text(req.SystemPrompt))
	}

	started := time.Now()
	resp, err := m.GenerateContent(ctx, genai.Text(req.UserPrompt))
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
			return RawModelReply{}, fmt.Errorf("gemini: %w: %v", ErrModelQuotaExceeded, err)
		}
		if IsQuotaError(err) {
			return RawModelReply{}, fmt.Errorf("gemini: %w: %v", ErrModelQuotaExceeded, err)
		}
		return RawModelReply{}, fmt.Errorf("gemini API call failed: %w", err)
	}

	var text strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text.WriteString(string(t))
			}
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return RawModelReply{}, ErrEmptyModelReply
	}

	return RawModelReply{
		Text:     text.String(),
		Provider: c.Provider(),
		Model:    c.model,
		Latency:  time.Since(started),
	}, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}
