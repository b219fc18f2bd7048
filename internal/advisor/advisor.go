// Package advisor produces the LLM-backed weather report and relays
// support chat conversations.
package advisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/launch-feasibility-service/internal/adapter/llm"
	"github.com/couchcryptid/launch-feasibility-service/internal/domain"
	"github.com/couchcryptid/launch-feasibility-service/internal/observability"
)

// ErrNoAnalysis is returned when the backend answers with empty content.
var ErrNoAnalysis = errors.New("no analysis received from AI")

// Request kinds used as metric labels.
const (
	kindWeather = "weather"
	kindChat    = "chat"
)

// WeatherReport is the body of a successful weather analysis.
type WeatherReport struct {
	Analysis string `json:"analysis"`
}

// Models selects the backend model per request kind.
type Models struct {
	Weather string
	Chat    string
}

// Advisor wraps an llm.Client with the service prompts.
type Advisor struct {
	client  llm.Client
	models  Models
	metrics *observability.Metrics
	logger  *slog.Logger
}

// New creates an Advisor.
func New(client llm.Client, models Models, metrics *observability.Metrics, logger *slog.Logger) *Advisor {
	return &Advisor{
		client:  client,
		models:  models,
		metrics: metrics,
		logger:  logger,
	}
}

// Weather asks the backend for a launch weather assessment of the requested site.
func (a *Advisor) Weather(ctx context.Context, req domain.WeatherRequest) (WeatherReport, error) {
	if err := req.Validate(); err != nil {
		return WeatherReport{}, err
	}
	coords := req.Coordinates()
	season, now := domain.CurrentSeason(coords.Lat)

	a.logger.InfoContext(ctx, "analyzing weather",
		"lat", coords.Lat,
		"lng", coords.Lng,
		"location", req.LocationName,
		"season", season,
	)

	start := time.Now()
	content, err := a.client.Complete(ctx, llm.Request{
		Model:  a.models.Weather,
		System: weatherSystemPrompt,
		Messages: []domain.ChatMessage{
			{Role: domain.RoleUser, Content: weatherPrompt(req.LocationName, coords, now, season)},
		},
	})
	if err == nil && strings.TrimSpace(content) == "" {
		err = ErrNoAnalysis
	}
	a.observe(kindWeather, start, err)
	if err != nil {
		return WeatherReport{}, err
	}

	a.logger.InfoContext(ctx, "weather analysis completed", "chars", len(content))
	return WeatherReport{Analysis: content}, nil
}

// Chat prepends the support system prompt to the conversation and returns the
// backend event stream. The caller must close it.
func (a *Advisor) Chat(ctx context.Context, req domain.ChatRequest) (io.ReadCloser, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	a.logger.InfoContext(ctx, "chat support request received", "turns", len(req.Messages))

	start := time.Now()
	stream, err := a.client.Stream(ctx, llm.Request{
		Model:    a.models.Chat,
		System:   chatSystemPrompt,
		Messages: req.Messages,
	})
	a.observe(kindChat, start, err)
	if err != nil {
		return nil, err
	}
	return stream, nil
}

func (a *Advisor) observe(kind string, start time.Time, err error) {
	a.metrics.LLMRequests.WithLabelValues(kind, outcome(err)).Inc()
	a.metrics.LLMDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

func outcome(err error) string {
	if errors.Is(err, ErrNoAnalysis) {
		return "empty"
	}
	return llm.Outcome(err)
}
