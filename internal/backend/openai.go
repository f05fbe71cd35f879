package backend

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIModel talks to any OpenAI-compatible chat completions endpoint,
// including Ollama's /v1 surface.
type OpenAIModel struct {
	client      openai.Client
	model       string
	temperature float64
}

// NewOpenAIModel creates a model client. A nil httpClient uses the SDK default.
func NewOpenAIModel(baseURL, apiKey, model string, temperature float64, httpClient *http.Client) *OpenAIModel {
	opts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &OpenAIModel{
		client:      openai.NewClient(opts...),
		model:       model,
		temperature: temperature,
	}
}

func (m *OpenAIModel) Name() string {
	return fmt.Sprintf("OpenAI-compatible (%s)", m.model)
}

func (m *OpenAIModel) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       openai.ChatModel(m.model),
		Temperature: openai.Float(m.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("openai: completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: response has no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Available lists the server's models with a short deadline.
func (m *OpenAIModel) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	_, err := m.client.Models.List(ctx)
	return err == nil
}
