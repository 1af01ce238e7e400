package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventbooking/internal/clock"
	"eventbooking/internal/domain"
	"eventbooking/internal/metrics"
)

const (
	maxQuestionLen = 2000

	emptyQuestionReply = "I didn't receive a question. Please type what you'd like to know about your events or bookings."
	unavailableReply   = "I had trouble contacting the AI backend. Please try again in a moment."
	failureReply       = "Something went wrong while answering your question. Please try again or contact the administrator if it persists."
)

type assistantService struct {
	builder        domain.QueryContextBuilder
	client         domain.AssistantClient
	clock          clock.Clock
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewAssistantService answers chat messages. timeout bounds the context build only;
// the model call is bounded by the client's own timeout.
func NewAssistantService(builder domain.QueryContextBuilder, client domain.AssistantClient, clk clock.Clock, logger *slog.Logger, timeout time.Duration) domain.AssistantService {
	return &assistantService{builder: builder, client: client, clock: clk, logger: logger, contextTimeout: timeout}
}

func (s *assistantService) Chat(ctx context.Context, actor domain.Actor, message string) (*domain.AssistantReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return &domain.AssistantReply{Reply: emptyQuestionReply, Intent: domain.IntentUnknown}, nil
	}
	if len(message) > maxQuestionLen {
		return nil, domain.NewValidationError(fmt.Sprintf("message must be at most %d characters", maxQuestionLen))
	}

	qc, err := s.buildContext(ctx, actor, message)
	if err != nil {
		return nil, err
	}

	start := s.clock.Now()
	text, err := s.client.Ask(ctx, qc.Text, message)
	elapsed := s.clock.Now().Sub(start)
	if err != nil {
		reply := failureReply
		if errors.Is(err, domain.ErrAssistantUnavailable) {
			reply = unavailableReply
		}
		s.logger.WarnContext(ctx, "assistant call failed", "intent", qc.Intent, "err", err)
		metrics.AssistantRequest(string(qc.Intent), metrics.ResultFallback, elapsed)
		return &domain.AssistantReply{Reply: reply, Intent: qc.Intent, Fallback: true}, nil
	}
	metrics.AssistantRequest(string(qc.Intent), metrics.ResultSuccess, elapsed)
	return &domain.AssistantReply{Reply: text, Intent: qc.Intent}, nil
}

// buildContext finishes its read-only transaction before the model is called.
func (s *assistantService) buildContext(ctx context.Context, actor domain.Actor, message string) (domain.QueryContext, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.builder.Build(ctx, actor, message)
}
