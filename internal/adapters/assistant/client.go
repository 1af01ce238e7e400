package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"eventbooking/internal/domain"
)

// Config selects the wire protocol and endpoint of the model server.
type Config struct {
	Provider    string
	URL         string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// New returns the client for cfg.Provider: "ollama" speaks the Ollama chat API,
// anything else the plain {context, question} -> {text} protocol.
func New(cfg Config) domain.AssistantClient {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.Provider == "ollama" {
		return &ollamaClient{client: httpClient, url: cfg.URL, model: cfg.Model, temperature: cfg.Temperature}
	}
	return &plainClient{client: httpClient, url: cfg.URL}
}

type askRequest struct {
	Context  string `json:"context"`
	Question string `json:"question"`
}

type askResponse struct {
	Text string `json:"text"`
}

type plainClient struct {
	client *http.Client
	url    string
}

func (c *plainClient) Ask(ctx context.Context, contextText, question string) (string, error) {
	var out askResponse
	if err := postJSON(ctx, c.client, c.url, askRequest{Context: contextText, Question: question}, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Text) == "" {
		return "", fmt.Errorf("%w: empty response", domain.ErrAssistantUnavailable)
	}
	return out.Text, nil
}

// postJSON posts body and decodes a 200 response into out. Every failure wraps ErrAssistantUnavailable.
func postJSON(ctx context.Context, client *http.Client, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", domain.ErrAssistantUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrAssistantUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: model server returned status %d", domain.ErrAssistantUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", domain.ErrAssistantUnavailable, err)
	}
	return nil
}
