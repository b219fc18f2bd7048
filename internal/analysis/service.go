// Package analysis runs one location feasibility analysis end to end.
package analysis

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/launch-feasibility-service/internal/domain"
	"github.com/couchcryptid/launch-feasibility-service/internal/observability"
)

// DefaultLookupTimeout bounds the country lookup when none is configured.
const DefaultLookupTimeout = 5 * time.Second

// EventPublisher hands analysis events to the event stream.
type EventPublisher interface {
	Publish(ctx context.Context, evt domain.AnalysisEvent) error
}

// Service validates a request, resolves the country once, and scores all six
// categories. Country lookup failures degrade to a nil record.
type Service struct {
	countries     domain.CountryProvider
	publisher     EventPublisher
	lookupTimeout time.Duration
	metrics       *observability.Metrics
	logger        *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher publishes an event after every successful analysis.
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithLookupTimeout overrides DefaultLookupTimeout.
func WithLookupTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.lookupTimeout = d
		}
	}
}

// NewService creates a Service.
func NewService(countries domain.CountryProvider, metrics *observability.Metrics, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		countries:     countries,
		lookupTimeout: DefaultLookupTimeout,
		metrics:       metrics,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze returns the complete report for req. The only error it returns is a
// validation failure wrapping domain.ErrInvalidRequest.
func (s *Service) Analyze(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisReport, error) {
	if err := req.Validate(); err != nil {
		return domain.AnalysisReport{}, err
	}
	coords := *req.Coordinates

	s.logger.InfoContext(ctx, "analyzing location",
		"location", req.Location,
		"lat", coords.Lat,
		"lng", coords.Lng,
		"rocket_type", req.RocketType,
	)

	country := s.lookupCountry(ctx, coords)
	report := domain.BuildReport(coords, country, req.RocketType, req.ModelSubType)

	for category, level := range report.Levels() {
		s.metrics.ReportLevels.WithLabelValues(string(category), string(level)).Inc()
	}

	if s.publisher != nil {
		s.publish(ctx, domain.NewAnalysisEvent(req, country, report))
	}
	return report, nil
}

func (s *Service) lookupCountry(ctx context.Context, coords domain.Coordinates) *domain.CountryRecord {
	if s.countries == nil {
		return nil
	}
	lookupCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	country, err := s.countries.LookupCountry(lookupCtx, coords)
	if err != nil {
		s.logger.WarnContext(ctx, "country lookup failed, scoring without country data",
			"lat", coords.Lat,
			"lng", coords.Lng,
			"error", err,
		)
		return nil
	}
	if country == nil {
		s.logger.InfoContext(ctx, "no country at location", "lat", coords.Lat, "lng", coords.Lng)
	}
	return country
}

func (s *Service) publish(ctx context.Context, evt domain.AnalysisEvent) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.metrics.EventsPublished.WithLabelValues("error").Inc()
		s.logger.WarnContext(ctx, "publish analysis event failed", "event_id", evt.ID, "error", err)
		return
	}
	s.metrics.EventsPublished.WithLabelValues("success").Inc()
}
