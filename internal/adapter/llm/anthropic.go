package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"
	"github.com/couchcryptid/launch-feasibility-service/internal/domain"
	"github.com/couchcryptid/launch-feasibility-service/internal/observability"
	"go.opentelemetry.io/otel/attribute"
)

const anthropicMaxTokens = 4096

// AnthropicMessager is the part of the SDK message service the client calls.
type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
	NewStreaming(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) *ssestream.Stream[anthropic.MessageStreamEventUnion]
}

// AnthropicClient serves completions from the Anthropic Messages API. Streams
// are re-encoded as OpenAI-style chunks so browser consumers see one format.
type AnthropicClient struct {
	messages AnthropicMessager
	timeout  time.Duration
	logger   *slog.Logger
}

// NewAnthropicClient creates a client for apiKey. baseURL may be empty to use
// the SDK default. Requests are never retried.
func NewAnthropicClient(apiKey, baseURL string, timeout time.Duration, logger *slog.Logger) *AnthropicClient {
	if apiKey == "" {
		return &AnthropicClient{timeout: timeout, logger: logger}
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	c := anthropic.NewClient(opts...)
	return &AnthropicClient{messages: &c.Messages, timeout: timeout, logger: logger}
}

// Complete returns the concatenated text blocks of the reply.
func (c *AnthropicClient) Complete(ctx context.Context, req Request) (string, error) {
	if c.messages == nil {
		return "", ErrNotConfigured
	}
	ctx, span := observability.Tracer().Start(ctx, "llm.anthropic.complete")
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", req.Model))

	resp, err := c.messages.New(ctx, buildParams(req), option.WithRequestTimeout(c.timeout))
	if err != nil {
		err = c.mapError(ctx, err)
		recordSpanError(span, err)
		return "", err
	}

	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return sb.String(), nil
}

// Stream starts a streamed reply. Request-level failures are returned
// directly; failures after the first event end the body with an error.
func (c *AnthropicClient) Stream(ctx context.Context, req Request) (io.ReadCloser, error) {
	if c.messages == nil {
		return nil, ErrNotConfigured
	}
	ctx, span := observability.Tracer().Start(ctx, "llm.anthropic.stream")
	span.SetAttributes(attribute.String("llm.model", req.Model))

	stream := c.messages.NewStreaming(ctx, buildParams(req))
	if err := stream.Err(); err != nil {
		_ = stream.Close()
		err = c.mapError(ctx, err)
		recordSpanError(span, err)
		span.End()
		return nil, err
	}

	pr, pw := io.Pipe()
	go func() {
		defer span.End()
		defer stream.Close()
		pw.CloseWithError(c.pump(stream, pw))
	}()
	return pr, nil
}

func (c *AnthropicClient) pump(stream *ssestream.Stream[anthropic.MessageStreamEventUnion], w io.Writer) error {
	for stream.Next() {
		event := stream.Current()
		delta, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent)
		if !ok {
			continue
		}
		text, ok := delta.Delta.AsAny().(anthropic.TextDelta)
		if !ok || text.Text == "" {
			continue
		}
		if err := writeChunk(w, text.Text); err != nil {
			return err
		}
	}
	if err := stream.Err(); err != nil {
		c.logger.Warn("anthropic stream interrupted", "error", err)
		return fmt.Errorf("anthropic stream: %w", err)
	}
	_, err := io.WriteString(w, "data: [DONE]\n\n")
	return err
}

func (c *AnthropicClient) mapError(ctx context.Context, err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		c.logger.WarnContext(ctx, "anthropic API error", "status", apiErr.StatusCode, "error", err)
		return statusError(apiErr.StatusCode, apiErr.Error())
	}
	return fmt.Errorf("anthropic request: %w", err)
}

func buildParams(req Request) anthropic.MessageNewParams {
	msgs := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == domain.RoleAssistant {
			msgs = append(msgs, anthropic.NewAssistantMessage(block))
		} else {
			msgs = append(msgs, anthropic.NewUserMessage(block))
		}
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: anthropicMaxTokens,
		Messages:  msgs,
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	return params
}

// writeChunk emits one OpenAI-style streaming chunk.
func writeChunk(w io.Writer, content string) error {
	var chunk streamChunk
	chunk.Choices = []streamChoice{{}}
	chunk.Choices[0].Delta.Content = content
	b, err := json.Marshal(chunk)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", b)
	return err
}

type streamChunk struct {
	Choices []streamChoice `json:"choices"`
}

type streamChoice struct {
	Delta struct {
		Content string `json:"content"`
	} `json:"delta"`
}
