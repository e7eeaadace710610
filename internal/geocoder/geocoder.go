// Package geocoder resolves free-form addresses to coordinates and
// structured location fields before a bootcamp is persisted.
package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bootcamp_backend/internal/config"
	"bootcamp_backend/internal/logger"
	"bootcamp_backend/pkg/apperrors"

	geo "github.com/codingsince1985/geo-golang"
	"github.com/codingsince1985/geo-golang/mapquest/open"
	"github.com/codingsince1985/geo-golang/openstreetmap"
	"github.com/redis/go-redis/v9"
)

// cacheTTL bounds how long a resolved address stays cached.
const cacheTTL = 24 * time.Hour

// Location is the resolved form of an address.
type Location struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formatted_address"`
	Street           string  `json:"street"`
	City             string  `json:"city"`
	State            string  `json:"state"`
	Zipcode          string  `json:"zipcode"`
	Country          string  `json:"country"`
}

type Service interface {
	Geocode(ctx context.Context, address string) (*Location, error)
}

type service struct {
	coder geo.Geocoder
	cache *redis.Client
}

// New builds a geocoding service for the configured provider. cache may
// be nil, in which case every lookup goes to the provider.
func New(cfg config.GeocoderConfig, cache *redis.Client) Service {
	var coder geo.Geocoder
	switch cfg.Provider {
	case "mapquest":
		coder = open.Geocoder(cfg.APIKey)
	default:
		coder = openstreetmap.Geocoder()
	}
	return &service{coder: coder, cache: cache}
}

func (s *service) Geocode(ctx context.Context, address string) (*Location, error) {
	if loc := s.fromCache(ctx, address); loc != nil {
		return loc, nil
	}

	point, err := s.coder.Geocode(address)
	if err != nil {
		return nil, apperrors.ErrUpstream(err, "geocoder", "geocoding provider request failed")
	}
	if point == nil {
		return nil, apperrors.NewBadRequestError("address could not be geocoded")
	}

	loc := &Location{
		Latitude:  point.Lat,
		Longitude: point.Lng,
	}

	// Reverse lookup fills the structured address fields; a failure here
	// still leaves usable coordinates.
	if addr, err := s.coder.ReverseGeocode(point.Lat, point.Lng); err == nil && addr != nil {
		loc.FormattedAddress = addr.FormattedAddress
		loc.Street = addr.Street
		loc.City = addr.City
		loc.State = addr.State
		loc.Zipcode = addr.Postcode
		loc.Country = addr.Country
	} else if err != nil {
		logger.WithError(err).Warn("reverse geocode failed", "address", address)
	}

	s.toCache(ctx, address, loc)
	return loc, nil
}

func (s *service) fromCache(ctx context.Context, address string) *Location {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, cacheKey(address)).Bytes()
	if err != nil {
		return nil
	}
	var loc Location
	if err := json.Unmarshal(raw, &loc); err != nil {
		return nil
	}
	return &loc
}

func (s *service) toCache(ctx context.Context, address string, loc *Location) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(loc)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(address), raw, cacheTTL).Err(); err != nil {
		logger.WithError(err).Warn("failed to cache geocode result", "address", address)
	}
}

func cacheKey(address string) string {
	return fmt.Sprintf("geocode:%s", address)
}
