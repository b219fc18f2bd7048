package httpadapter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/launch-feasibility-service/internal/advisor"
	"github.com/couchcryptid/launch-feasibility-service/internal/domain"
	"github.com/couchcryptid/launch-feasibility-service/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultWriteTimeout bounds non-streaming responses when Deps.WriteTimeout is unset.
const DefaultWriteTimeout = 10 * time.Second

// ErrDraining is reported by the readiness probe once shutdown has begun.
var ErrDraining = errors.New("server is draining")

// Analyzer scores a launch location.
type Analyzer interface {
	Analyze(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisReport, error)
}

// Advisor answers the LLM-backed endpoints.
type Advisor interface {
	Weather(ctx context.Context, req domain.WeatherRequest) (advisor.WeatherReport, error)
	Chat(ctx context.Context, req domain.ChatRequest) (io.ReadCloser, error)
}

// Deps are the collaborators behind the API routes. Geocoder may be nil, in
// which case /reverse-geocode answers with the coordinate fallback name.
type Deps struct {
	Analyzer     Analyzer
	Advisor      Advisor
	Geocoder     domain.ReverseGeocoder
	Metrics      *observability.Metrics
	WriteTimeout time.Duration
}

// Server exposes the feasibility API alongside health, readiness, and metrics
// endpoints.
type Server struct {
	httpServer *http.Server
	deps       Deps
	draining   atomic.Bool
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the API routes plus /healthz, /readyz,
// and /metrics.
func NewServer(addr string, deps Deps, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	writeTimeout := deps.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      otelhttp.NewHandler(withCORS(mux), "http.server"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: writeTimeout,
			IdleTimeout:  60 * time.Second,
		},
		deps:   deps,
		logger: logger,
	}

	s.route(mux, "POST /analyze-location", "analyze_location", s.handleAnalyzeLocation)
	s.route(mux, "POST /analyze-weather", "analyze_weather", s.handleAnalyzeWeather)
	s.route(mux, "POST /chat-support", "chat_support", s.handleChatSupport)
	s.route(mux, "GET /reverse-geocode", "reverse_geocode", s.handleReverseGeocode)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(s))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// MarkDraining flips /readyz to 503 so load balancers stop routing new
// traffic before Shutdown closes the listener.
func (s *Server) MarkDraining() {
	s.draining.Store(true)
}

// CheckReadiness implements the readiness probe.
func (s *Server) CheckReadiness(_ context.Context) error {
	if s.draining.Load() {
		return ErrDraining
	}
	return nil
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.MarkDraining()
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) route(mux *http.ServeMux, pattern, name string, h http.HandlerFunc) {
	mux.Handle(pattern, instrument(name, s.deps.Metrics, h))
}
