// Package nominatim reverse geocodes coordinates with OpenStreetMap's Nominatim API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/launch-feasibility-service/internal/domain"
	"github.com/couchcryptid/launch-feasibility-service/internal/observability"
	"go.opentelemetry.io/otel/codes"
)

const (
	providerName = "nominatim"

	// DefaultBaseURL is the public Nominatim endpoint. Fair use is one request per second.
	DefaultBaseURL = "https://nominatim.openstreetmap.org"

	// Nominatim usage policy requires an identifying User-Agent:
	// https://operations.osmfoundation.org/policies/nominatim/
	userAgent = "Launch-Feasibility-Service/1.0 (https://github.com/couchcryptid/launch-feasibility-service)"
)

// HTTPClient is the subset of *http.Client the provider needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client implements domain.ReverseGeocoder against the Nominatim /reverse endpoint.
type Client struct {
	client  HTTPClient
	baseURL string
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewClient creates a Nominatim client using the public endpoint.
func NewClient(timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return NewClientWithHTTP(&http.Client{Timeout: timeout}, DefaultBaseURL, metrics, logger)
}

// NewClientWithHTTP creates a client with a custom HTTP client and base URL.
func NewClientWithHTTP(client HTTPClient, baseURL string, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		client:  client,
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// ReverseGeocode returns the display name Nominatim reports for lat/lng. An
// unnamed point (open ocean) yields an empty result and no error.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (domain.GeocodingResult, error) {
	ctx, span := observability.Tracer().Start(ctx, "nominatim.reverse_geocode")
	defer span.End()

	start := time.Now()
	result, err := c.reverse(ctx, lat, lng)
	c.metrics.GeocodeAPIDuration.WithLabelValues(providerName).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.GeocodeRequests.WithLabelValues(providerName, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case result.DisplayName == "":
		c.metrics.GeocodeRequests.WithLabelValues(providerName, "empty").Inc()
	default:
		c.metrics.GeocodeRequests.WithLabelValues(providerName, "success").Inc()
	}
	return result, err
}

func (c *Client) reverse(ctx context.Context, lat, lng float64) (domain.GeocodingResult, error) {
	reqURL, err := url.Parse(c.baseURL + "/reverse")
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("parse base URL: %w", err)
	}
	query := reqURL.Query()
	query.Set("format", "json")
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("reverse geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.GeocodingResult{}, fmt.Errorf("nominatim API returned status %d: %s", resp.StatusCode, body)
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("decode nominatim response: %w", err)
	}
	if r.Error != "" {
		c.logger.DebugContext(ctx, "nominatim has no place for point", "lat", lat, "lng", lng, "reason", r.Error)
		return domain.GeocodingResult{}, nil
	}

	result := domain.GeocodingResult{
		DisplayName: r.DisplayName,
		PlaceName:   r.Name,
	}
	// Nominatim encodes coordinates as strings; unparsable values are left zero.
	result.Lat, _ = strconv.ParseFloat(r.Lat, 64)
	result.Lng, _ = strconv.ParseFloat(r.Lon, 64)
	return result, nil
}

type response struct {
	DisplayName string `json:"display_name"`
	Name        string `json:"name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Error       string `json:"error"`
}
