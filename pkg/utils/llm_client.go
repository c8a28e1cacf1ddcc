package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// LLMRequest is a single-turn prompt for a text generation backend.
type LLMRequest struct {
	SystemPrompt    string
	UserPrompt      string
	Temperature     float32
	MaxOutputTokens int32
	// JSONOnly asks the backend for a JSON mime type when it supports one.
	JSONOnly bool
}

// RawModelReply is whatever text came back from the backend, before any parsing.
type RawModelReply struct {
	Text     string
	Provider string
	Model    string
	Latency  time.Duration
}

// LLMClientInterface is implemented by every language-model backend.
type LLMClientInterface interface {
	GenerateText(ctx context.Context, req LLMRequest) (RawModelReply, error)
	Provider() string
}

// NewLLMClient picks a backend by provider name. An empty api key means the pipeline
// runs in degraded mode, so no client is returned and no error either.
func NewLLMClient(provider, apiKey, model string) (LLMClientInterface, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, nil
	}
	switch strings.ToLower(provider) {
	case "openai":
		return NewOpenAIClient(apiKey, model), nil
	case "gemini", "":
		client, err := NewGeminiClient(apiKey, model)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s. Use 'openai' or 'gemini'", provider)
	}
}

// IsQuotaError reports whether err means the credential is valid but rate limited.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrModelQuotaExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "resource exhausted") ||
		strings.Contains(msg, "quota")
}
