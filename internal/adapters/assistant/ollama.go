package assistant

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"eventbooking/internal/domain"
)

const systemPrompt = `You are the assistant of an event booking platform.
Answer using only the facts in the context block. The first line of the context is the role
of the person asking (guest, organizer or participant). If the context does not contain the
answer, say so plainly and suggest where in the app the user can look. Never invent events,
bookings, prices or numbers. Keep answers short.`

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
}

type ollamaResponse struct {
	Message ollamaMessage `json:"message"`
}

type ollamaClient struct {
	client      *http.Client
	url         string
	model       string
	temperature float64
}

func (c *ollamaClient) Ask(ctx context.Context, contextText, question string) (string, error) {
	req := ollamaRequest{
		Model: c.model,
		Messages: []ollamaMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt(contextText, question)},
		},
		Options: ollamaOptions{Temperature: c.temperature},
	}
	var out ollamaResponse
	if err := postJSON(ctx, c.client, c.url, req, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Message.Content) == "" {
		return "", fmt.Errorf("%w: empty message content", domain.ErrAssistantUnavailable)
	}
	return out.Message.Content, nil
}

func userPrompt(contextText, question string) string {
	var b strings.Builder
	b.WriteString("---BEGIN CONTEXT---\n")
	b.WriteString(contextText)
	b.WriteString("\n---END CONTEXT---\n\n")
	b.WriteString("Question: ")
	b.WriteString(question)
	return b.String()
}
