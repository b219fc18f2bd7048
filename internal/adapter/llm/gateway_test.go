package llm

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/launch-feasibility-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRequest() Request {
	return Request{
		Model:  "openai/gpt-5",
		System: "You are a helpful assistant.",
		Messages: []domain.ChatMessage{
			{Role: domain.RoleUser, Content: "Is Mahia a good launch site?"},
		},
	}
}

func TestGatewayClient_Complete(t *testing.T) {
	var got completionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"Clear skies."}}]}`)
	}))
	defer srv.Close()

	c := NewGatewayClient(srv.URL+"/v1", "secret", 5*time.Second, discardLogger())
	out, err := c.Complete(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "Clear skies.", out)

	assert.Equal(t, "openai/gpt-5", got.Model)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, domain.ChatMessage{Role: domain.RoleSystem, Content: "You are a helpful assistant."}, got.Messages[0])
	assert.Equal(t, domain.RoleUser, got.Messages[1].Role)
}

func TestGatewayClient_CompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	c := NewGatewayClient(srv.URL, "secret", 5*time.Second, discardLogger())
	out, err := c.Complete(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestGatewayClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{"rate limited", http.StatusTooManyRequests, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrRateLimited)
		}},
		{"payment required", http.StatusPaymentRequired, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrPaymentRequired)
		}},
		{"server error", http.StatusInternalServerError, func(t *testing.T, err error) {
			var upstream *UpstreamError
			require.ErrorAs(t, err, &upstream)
			assert.Equal(t, http.StatusInternalServerError, upstream.StatusCode)
			assert.Equal(t, "model overloaded", upstream.Body)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				calls++
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, "model overloaded")
			}))
			defer srv.Close()

			c := NewGatewayClient(srv.URL, "secret", 5*time.Second, discardLogger())

			_, err := c.Complete(context.Background(), testRequest())
			require.Error(t, err)
			tt.check(t, err)

			_, err = c.Stream(context.Background(), testRequest())
			require.Error(t, err)
			tt.check(t, err)

			assert.Equal(t, 2, calls, "one attempt per call")
		})
	}
}

func TestGatewayClient_NotConfigured(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("backend must not be called without an API key")
	}))
	defer srv.Close()

	c := NewGatewayClient(srv.URL, "", 5*time.Second, discardLogger())
	_, err := c.Complete(context.Background(), testRequest())
	require.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, "LLM_API_KEY is not configured", err.Error())

	_, err = c.Stream(context.Background(), testRequest())
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestGatewayClient_StreamPassesBodyThrough(t *testing.T) {
	const sse = "data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n\n" +
		"data: [DONE]\n\n"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req completionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, sse)
	}))
	defer srv.Close()

	c := NewGatewayClient(srv.URL, "secret", 5*time.Second, discardLogger())
	body, err := c.Stream(context.Background(), testRequest())
	require.NoError(t, err)
	defer body.Close()

	got, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, sse, string(got))
}

func TestWithSystem(t *testing.T) {
	history := []domain.ChatMessage{{Role: domain.RoleUser, Content: "hi"}}
	assert.Equal(t, history, withSystem("", history))
	assert.Len(t, withSystem("sys", history), 2)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "success", Outcome(nil))
	assert.Equal(t, "rate_limited", Outcome(ErrRateLimited))
	assert.Equal(t, "payment_required", Outcome(ErrPaymentRequired))
	assert.Equal(t, "not_configured", Outcome(ErrNotConfigured))
	assert.Equal(t, "upstream_error", Outcome(&UpstreamError{StatusCode: 503}))
	assert.Equal(t, "error", Outcome(context.DeadlineExceeded))
}
