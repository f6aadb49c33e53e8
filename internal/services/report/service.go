// Package report runs the postal code to forecast pipeline and renders its result.
package report

import (
	"context"

	"github.com/pkg/errors"

	"wxballoon/internal/cache"
	"wxballoon/internal/models"
	"wxballoon/pkg/logger"
)

type LocationResolver interface {
	Resolve(ctx context.Context, code models.PostalCode) (models.LocationRecord, error)
}

type WeatherResolver interface {
	Resolve(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error)
}

type (
	LocationCache = cache.Store[models.PostalCode, models.LocationRecord]
	WeatherCache  = cache.Store[models.PostalCode, models.WeatherSnapshot]
)

type Service struct {
	locations *LocationCache
	forecasts *WeatherCache
	locator   LocationResolver
	weather   WeatherResolver
	l         *logger.Logger
}

func NewService(locations *LocationCache, forecasts *WeatherCache, locator LocationResolver, weather WeatherResolver, l *logger.Logger) *Service {
	return &Service{
		locations: locations,
		forecasts: forecasts,
		locator:   locator,
		weather:   weather,
		l:         l,
	}
}

// Run resolves code to a rendered report. Fresh results are written through to
// the caches; the first error ends the run.
func (s *Service) Run(ctx context.Context, code models.PostalCode) (Report, error) {
	loc, err := s.location(ctx, code)
	if err != nil {
		return Report{}, err
	}

	if err := models.ValidateCoordinates(loc.Lat, loc.Lon); err != nil {
		s.l.Warning("rejecting coordinates", map[string]any{"postalCode": code.String(), "lat": loc.Lat, "lon": loc.Lon})
		return Report{}, errors.Wrap(err, "validate coordinates")
	}

	snap, err := s.forecast(ctx, code, loc)
	if err != nil {
		return Report{}, err
	}

	r := Format(snap, loc.FullAddress)
	s.l.Info("report ready", map[string]any{"postalCode": code.String(), "title": r.Title})

	return r, nil
}

func (s *Service) location(ctx context.Context, code models.PostalCode) (models.LocationRecord, error) {
	cached, status := s.locations.Get(code)
	s.l.Info("location cache lookup", map[string]any{"postalCode": code.String(), "status": status.String()})

	if status == cache.Hit {
		s.l.Info("using cached location", map[string]any{
			"postalCode":   code.String(),
			"fullAddress":  cached.FullAddress,
			"titleAddress": cached.TitleAddress,
			"lat":          cached.Lat,
			"lon":          cached.Lon,
			"storedAt":     cached.FetchedAt,
		})
		return cached, nil
	}

	loc, err := s.locator.Resolve(ctx, code)
	if err != nil {
		return models.LocationRecord{}, errors.Wrap(err, "resolve location")
	}

	return s.locations.Put(code, loc), nil
}

func (s *Service) forecast(ctx context.Context, code models.PostalCode, loc models.LocationRecord) (models.WeatherSnapshot, error) {
	cached, status := s.forecasts.Get(code)
	s.l.Info("weather cache lookup", map[string]any{"postalCode": code.String(), "status": status.String()})

	if status == cache.Hit {
		s.l.Info("using cached weather", map[string]any{"postalCode": code.String(), "storedAt": cached.FetchedAt})
		return cached, nil
	}

	snap, err := s.weather.Resolve(ctx, loc.Lat, loc.Lon)
	if err != nil {
		return models.WeatherSnapshot{}, errors.Wrap(err, "resolve weather")
	}

	return s.forecasts.Put(code, snap), nil
}
