package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/buckai/buckai-server/config"
)

// ChatMessage is one turn in a completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// CompleteChat forwards messages to the configured OpenAI-compatible
// completion endpoint and returns the assistant's reply text.
func CompleteChat(ctx context.Context, messages []ChatMessage) (string, error) {
	cfg := config.Get()
	if cfg.AIAPIKey == "" {
		return "", fmt.Errorf("ai proxy not configured")
	}

	payload, err := json.Marshal(completionRequest{
		Model:    cfg.AIModel,
		Messages: messages,
	})
	if err != nil {
		return "", err
	}

	timeout := time.Duration(cfg.AITimeoutSec) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	url := strings.TrimRight(cfg.AIBaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.AIAPIKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	var parsed completionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("unexpected completion response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("completion upstream error: %s", parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK || len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion upstream status %d", resp.StatusCode)
	}
	return parsed.Choices[0].Message.Content, nil
}
