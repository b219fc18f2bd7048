// Package googlemaps reverse geocodes coordinates with the Google Geocoding API.
package googlemaps

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/launch-feasibility-service/internal/domain"
	"github.com/couchcryptid/launch-feasibility-service/internal/observability"
	"go.opentelemetry.io/otel/codes"
	"googlemaps.github.io/maps"
)

const providerName = "google"

// APIClient is the part of *maps.Client the provider calls.
type APIClient interface {
	ReverseGeocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// Provider implements domain.ReverseGeocoder on top of the Google Maps client.
type Provider struct {
	client  APIClient
	metrics *observability.Metrics
	log     *slog.Logger
}

// NewProvider wraps an existing API client.
func NewProvider(client APIClient, metrics *observability.Metrics, log *slog.Logger) *Provider {
	return &Provider{client: client, metrics: metrics, log: log}
}

// NewClient builds a Google Maps client authenticated with apiKey.
func NewClient(apiKey string) (*maps.Client, error) {
	if apiKey == "" {
		return nil, errors.New("API key is required for Google provider")
	}
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create Google Maps client: %w", err)
	}
	return client, nil
}

// ReverseGeocode returns the formatted address of the best match for lat/lng.
// ZERO_RESULTS yields an empty result and no error.
func (p *Provider) ReverseGeocode(ctx context.Context, lat, lng float64) (domain.GeocodingResult, error) {
	ctx, span := observability.Tracer().Start(ctx, "googlemaps.reverse_geocode")
	defer span.End()

	p.log.DebugContext(ctx, "reverse geocoding using Google Maps", "lat", lat, "lng", lng)

	start := time.Now()
	results, err := p.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: lat, Lng: lng},
	})
	p.metrics.GeocodeAPIDuration.WithLabelValues(providerName).Observe(time.Since(start).Seconds())

	if err != nil {
		p.metrics.GeocodeRequests.WithLabelValues(providerName, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.GeocodingResult{}, fmt.Errorf("google reverse geocode: %w", err)
	}
	if len(results) == 0 {
		p.metrics.GeocodeRequests.WithLabelValues(providerName, "empty").Inc()
		return domain.GeocodingResult{}, nil
	}

	p.metrics.GeocodeRequests.WithLabelValues(providerName, "success").Inc()
	best := results[0]
	return domain.GeocodingResult{
		DisplayName: best.FormattedAddress,
		PlaceName:   localityName(best.AddressComponents),
		Lat:         best.Geometry.Location.Lat,
		Lng:         best.Geometry.Location.Lng,
	}, nil
}

// localityName picks the most specific settlement-level component.
func localityName(components []maps.AddressComponent) string {
	for _, want := range []string{"locality", "administrative_area_level_2", "administrative_area_level_1", "country"} {
		for _, c := range components {
			for _, t := range c.Types {
				if t == want {
					return c.LongName
				}
			}
		}
	}
	return ""
}
