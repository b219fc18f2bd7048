// Package geocoder builds the configured reverse geocoding provider.
package geocoder

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/launch-feasibility-service/internal/adapter/googlemaps"
	"github.com/couchcryptid/launch-feasibility-service/internal/adapter/mapbox"
	"github.com/couchcryptid/launch-feasibility-service/internal/adapter/nominatim"
	"github.com/couchcryptid/launch-feasibility-service/internal/config"
	"github.com/couchcryptid/launch-feasibility-service/internal/domain"
	"github.com/couchcryptid/launch-feasibility-service/internal/observability"
)

// ErrDisabled is returned by New when GEOCODER_PROVIDER is "none".
var ErrDisabled = errors.New("reverse geocoding disabled")

// New returns the provider named by cfg.GeocoderProvider wrapped in an LRU
// cache of cfg.GeocoderCacheSize entries.
func New(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) (domain.ReverseGeocoder, error) {
	var provider domain.ReverseGeocoder

	switch cfg.GeocoderProvider {
	case config.GeocoderNominatim:
		provider = nominatim.NewClient(cfg.GeocoderTimeout, metrics, logger)
	case config.GeocoderMapbox:
		if cfg.GeocoderToken == "" {
			return nil, errors.New("token is required for Mapbox provider")
		}
		provider = mapbox.NewClient(cfg.GeocoderToken, cfg.GeocoderTimeout, metrics, logger)
	case config.GeocoderGoogle:
		client, err := googlemaps.NewClient(cfg.GeocoderToken)
		if err != nil {
			return nil, err
		}
		provider = googlemaps.NewProvider(client, metrics, logger)
	case config.GeocoderNone:
		return nil, ErrDisabled
	default:
		return nil, fmt.Errorf("unsupported geocoder provider: %s", cfg.GeocoderProvider)
	}

	return NewCachedGeocoder(provider, cfg.GeocoderCacheSize, metrics), nil
}
