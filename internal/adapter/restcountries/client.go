// Package restcountries looks up national metadata for a coordinate using the
// REST Countries API.
package restcountries

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/launch-feasibility-service/internal/domain"
	"github.com/couchcryptid/launch-feasibility-service/internal/observability"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// DefaultBaseURL is the public REST Countries v3.1 endpoint.
const DefaultBaseURL = "https://restcountries.com/v3.1"

// Client implements domain.CountryProvider.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a REST Countries client. Every lookup is a single attempt
// bounded by timeout.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		metrics:    metrics,
		logger:     logger,
	}
}

// LookupCountry returns the first country the API reports for coords, or nil
// when the API answers with an empty list.
func (c *Client) LookupCountry(ctx context.Context, coords domain.Coordinates) (*domain.CountryRecord, error) {
	ctx, span := observability.Tracer().Start(ctx, "restcountries.lookup")
	defer span.End()
	span.SetAttributes(
		attribute.Float64("geo.lat", coords.Lat),
		attribute.Float64("geo.lng", coords.Lng),
	)

	record, err := c.lookup(ctx, coords)
	switch {
	case err != nil:
		c.metrics.CountryLookups.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case record == nil:
		c.metrics.CountryLookups.WithLabelValues("absent").Inc()
	default:
		c.metrics.CountryLookups.WithLabelValues("found").Inc()
		span.SetAttributes(attribute.String("country.code", record.Code))
	}
	return record, err
}

func (c *Client) lookup(ctx context.Context, coords domain.Coordinates) (*domain.CountryRecord, error) {
	u := fmt.Sprintf("%s/latlng/%s,%s", c.baseURL, formatCoord(coords.Lat), formatCoord(coords.Lng))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.CountryLookupDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("country lookup request: %w", err)
	}
	defer resp.Body.Close()

	// The API answers 404 when no country contains the point.
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("restcountries API error: status %d: %s", resp.StatusCode, body)
	}

	var countries []country
	if err := json.NewDecoder(resp.Body).Decode(&countries); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(countries) == 0 {
		return nil, nil
	}

	rec := countries[0].toRecord()
	c.logger.Debug("country resolved",
		"lat", coords.Lat,
		"lng", coords.Lng,
		"country", rec.Name,
	)
	return rec, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// REST Countries v3.1 response types.

type country struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	CCA2        string  `json:"cca2"`
	UNMember    bool    `json:"unMember"`
	Independent bool    `json:"independent"`
	Landlocked  bool    `json:"landlocked"`
	Population  int64   `json:"population"`
	Area        float64 `json:"area"`
}

func (c country) toRecord() *domain.CountryRecord {
	rec := &domain.CountryRecord{
		Name:        c.Name.Common,
		Code:        c.CCA2,
		UNMember:    c.UNMember,
		Independent: c.Independent,
		Landlocked:  c.Landlocked,
		Population:  c.Population,
		Area:        c.Area,
	}
	if rec.Population < 0 {
		rec.Population = 0
	}
	if rec.Area < 0 {
		rec.Area = 0
	}
	return rec
}
