// Package openai backs the chat assistant with the OpenAI chat completions
// API. It is wired in only when an API key is configured; the simulated
// responder remains the default.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const systemPrompt = "You are a farming assistant for a field telemetry dashboard. " +
	"Answer questions about soil, weather, crops, and irrigation in two or three short sentences."

// Responder implements chat.Responder against the chat completions API.
type Responder struct {
	client openai.Client
	model  string
}

// NewResponder creates a responder for the given API key and model.
func NewResponder(apiKey, model string) (*Responder, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key not set")
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &Responder{client: client, model: model}, nil
}

// Reply sends the user's message through a single completion call.
func (r *Responder) Reply(ctx context.Context, userText string) (string, error) {
	resp, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(r.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userText),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}
	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", errors.New("empty completion returned")
	}
	return reply, nil
}
