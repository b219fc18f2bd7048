package domain

import "context"

// GeocodingResult contains place data returned by a reverse geocoding provider.
type GeocodingResult struct {
	DisplayName string  `json:"displayName"`
	PlaceName   string  `json:"placeName,omitempty"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Source      string  `json:"source,omitempty"` // "reverse", "fallback", "failed"
}

// ReverseGeocoder turns coordinates into a human-readable place name.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (GeocodingResult, error)
}
