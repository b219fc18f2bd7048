package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/launch-feasibility-service/internal/domain"
	"github.com/couchcryptid/launch-feasibility-service/internal/observability"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// GatewayClient speaks the OpenAI-compatible chat completions protocol.
type GatewayClient struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// NewGatewayClient creates a gateway client. timeout bounds a whole completion
// and the wait for the first response byte of a stream.
func NewGatewayClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *GatewayClient {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = timeout
	return &GatewayClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		timeout:    timeout,
		httpClient: &http.Client{Transport: transport},
		logger:     logger,
	}
}

// Complete sends a non-streamed completion and returns the first choice.
func (c *GatewayClient) Complete(ctx context.Context, req Request) (string, error) {
	ctx, span := observability.Tracer().Start(ctx, "llm.gateway.complete")
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", req.Model))

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.post(ctx, req, false)
	if err != nil {
		recordSpanError(span, err)
		return "", err
	}
	defer resp.Body.Close()

	var body completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		err = fmt.Errorf("decode completion: %w", err)
		recordSpanError(span, err)
		return "", err
	}
	if len(body.Choices) == 0 {
		return "", nil
	}
	return body.Choices[0].Message.Content, nil
}

// Stream starts a streamed completion and hands back the upstream body as is.
func (c *GatewayClient) Stream(ctx context.Context, req Request) (io.ReadCloser, error) {
	ctx, span := observability.Tracer().Start(ctx, "llm.gateway.stream")
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", req.Model))

	resp, err := c.post(ctx, req, true)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	return resp.Body, nil
}

func (c *GatewayClient) post(ctx context.Context, req Request, stream bool) (*http.Response, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal(completionRequest{
		Model:    req.Model,
		Messages: withSystem(req.System, req.Messages),
		Stream:   stream,
	})
	if err != nil {
		return nil, fmt.Errorf("encode completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("llm gateway request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.WarnContext(ctx, "llm gateway error", "status", resp.StatusCode, "body", string(body))
		return nil, statusError(resp.StatusCode, string(body))
	}
	return resp, nil
}

func withSystem(system string, history []domain.ChatMessage) []domain.ChatMessage {
	if system == "" {
		return history
	}
	msgs := make([]domain.ChatMessage, 0, len(history)+1)
	msgs = append(msgs, domain.ChatMessage{Role: domain.RoleSystem, Content: system})
	return append(msgs, history...)
}

func recordSpanError(span trace.Span, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// OpenAI-compatible wire types.

type completionRequest struct {
	Model    string               `json:"model"`
	Messages []domain.ChatMessage `json:"messages"`
	Stream   bool                 `json:"stream"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
