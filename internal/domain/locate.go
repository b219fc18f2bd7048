package domain

import (
	"context"
	"fmt"
	"log/slog"
)

// Geocoding outcomes recorded in GeocodingResult.Source.
const (
	GeoSourceReverse  = "reverse"
	GeoSourceFallback = "fallback"
	GeoSourceFailed   = "failed"
)

// ResolveLocationName reverse geocodes coords for display. If geocoder is nil,
// returns nothing, or fails, the result falls back to the formatted
// coordinates with Source set accordingly (graceful degradation).
func ResolveLocationName(ctx context.Context, coords Coordinates, geocoder ReverseGeocoder, logger *slog.Logger) GeocodingResult {
	fallback := GeocodingResult{
		DisplayName: FallbackLocationName(coords),
		Lat:         coords.Lat,
		Lng:         coords.Lng,
		Source:      GeoSourceFallback,
	}
	if geocoder == nil {
		return fallback
	}

	result, err := geocoder.ReverseGeocode(ctx, coords.Lat, coords.Lng)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"lat", coords.Lat,
			"lng", coords.Lng,
			"error", err,
		)
		fallback.Source = GeoSourceFailed
		return fallback
	}
	if result.DisplayName == "" {
		return fallback
	}

	result.Lat = coords.Lat
	result.Lng = coords.Lng
	result.Source = GeoSourceReverse
	return result
}

// FallbackLocationName formats coords the way the map widgets label an
// unnamed point.
func FallbackLocationName(coords Coordinates) string {
	return fmt.Sprintf("%.4f, %.4f", coords.Lat, coords.Lng)
}
