// Package llm talks to the chat-completion backend behind the weather and
// chat-support endpoints.
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/couchcryptid/launch-feasibility-service/internal/config"
	"github.com/couchcryptid/launch-feasibility-service/internal/domain"
)

// Errors surfaced to HTTP callers with their own status codes.
var (
	ErrRateLimited     = errors.New("rate limits exceeded")
	ErrPaymentRequired = errors.New("payment required")
	ErrNotConfigured   = errors.New("LLM_API_KEY is not configured")
)

// UpstreamError is any other non-2xx answer from the backend.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("llm upstream error: status %d: %s", e.StatusCode, e.Body)
}

// Request is one chat completion call. System is sent ahead of Messages.
type Request struct {
	Model    string
	System   string
	Messages []domain.ChatMessage
}

// Client completes or streams a conversation.
type Client interface {
	// Complete returns the full assistant reply.
	Complete(ctx context.Context, req Request) (string, error)
	// Stream returns a text/event-stream body of OpenAI-style chunk events
	// terminated by "data: [DONE]". The caller must close it.
	Stream(ctx context.Context, req Request) (io.ReadCloser, error)
}

// Outcome classifies err as a metrics label.
func Outcome(err error) string {
	var upstream *UpstreamError
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrPaymentRequired):
		return "payment_required"
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.As(err, &upstream):
		return "upstream_error"
	default:
		return "error"
	}
}

// New returns the backend selected by cfg.LLMProvider.
func New(cfg *config.Config, logger *slog.Logger) (Client, error) {
	switch cfg.LLMProvider {
	case config.LLMProviderGateway:
		return NewGatewayClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMTimeout, logger), nil
	case config.LLMProviderAnthropic:
		return NewAnthropicClient(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMTimeout, logger), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.LLMProvider)
	}
}

// statusError maps a backend HTTP status to the package errors.
func statusError(status int, body string) error {
	switch status {
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusPaymentRequired:
		return ErrPaymentRequired
	default:
		return &UpstreamError{StatusCode: status, Body: body}
	}
}
