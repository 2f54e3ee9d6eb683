package generate

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mymuse/adstudio/internal/prompt"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAICompat is the second-choice remote backend. With a custom base URL
// it serves any OpenAI-compatible endpoint, Groq included.
type OpenAICompat struct {
	client *openai.Client
	model  string
	name   string
}

// NewOpenAICompat builds the backend. baseURL may be empty for the OpenAI
// default; name labels the endpoint in logs ("openai", "groq").
func NewOpenAICompat(apiKey, baseURL, model, name string) *OpenAICompat {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	if name == "" {
		name = "openai"
	}
	return &OpenAICompat{client: openai.NewClientWithConfig(cfg), model: model, name: name}
}

func (o *OpenAICompat) Name() string { return o.name }

func (o *OpenAICompat) Complete(ctx context.Context, p prompt.Prompt) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var lastErr error
	backoff := initialBackoff

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       o.model,
			Temperature: temperature,
			MaxTokens:   maxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: p.System},
				{Role: openai.ChatMessageRoleUser, Content: p.User},
			},
		})
		if err != nil {
			lastErr = fmt.Errorf("%s API error (attempt %d/%d): %w", o.name, attempt, maxRetries, err)
			if attempt < maxRetries {
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(backoff):
				}
				backoff *= time.Duration(backoffMult)
			}
			continue
		}

		if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
			lastErr = fmt.Errorf("empty response from %s (attempt %d/%d)", o.name, attempt, maxRetries)
			if attempt < maxRetries {
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(backoff):
				}
				backoff *= time.Duration(backoffMult)
			}
			continue
		}

		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	}

	return "", lastErr
}
