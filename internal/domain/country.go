package domain

import "context"

// CountryProvider looks up the country containing a coordinate.
type CountryProvider interface {
	// LookupCountry returns the country at coords. A nil record with a nil
	// error means the provider answered but had no match.
	LookupCountry(ctx context.Context, coords Coordinates) (*CountryRecord, error)
}
