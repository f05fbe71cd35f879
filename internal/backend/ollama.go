package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// OllamaModel talks to an Ollama server through its native /api/chat route.
type OllamaModel struct {
	BaseURL     string
	Model       string
	Temperature float64
	Client      *http.Client
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
}

func (o *OllamaModel) Name() string {
	return fmt.Sprintf("Ollama (%s)", o.Model)
}

func (o *OllamaModel) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(ollamaChatRequest{
		Model:    o.Model,
		Messages: []ollamaMessage{{Role: "user", Content: prompt}},
		Stream:   false,
		Options:  ollamaOptions{Temperature: o.Temperature},
	})
	if err != nil {
		return "", fmt.Errorf("ollama: marshal request: %w", err)
	}

	url := strings.TrimRight(o.BaseURL, "/") + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ollama: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama: unexpected status %d", resp.StatusCode)
	}

	var chatResp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("ollama: decode response: %w", err)
	}

	return strings.TrimSpace(chatResp.Message.Content), nil
}

func (o *OllamaModel) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(o.BaseURL, "/")+"/", nil)
	if err != nil {
		return false
	}

	resp, err := o.Client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
