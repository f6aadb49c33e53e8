package weather

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"wxballoon/internal/models"
	"wxballoon/pkg/logger"
)

// ForecastRepository is a two-day forecast provider.
type ForecastRepository interface {
	Name() string
	FetchForecast(ctx context.Context, lat, lon float64) (models.WeatherForecast, error)
}

// Resolver turns coordinates into a stamped two-day forecast.
type Resolver struct {
	repo ForecastRepository
	l    *logger.Logger
	now  func() time.Time
}

func NewResolver(repo ForecastRepository, l *logger.Logger) *Resolver {
	return &Resolver{
		repo: repo,
		l:    l,
		now:  time.Now,
	}
}

// WithClock replaces the clock used to stamp snapshots.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

func (r *Resolver) Resolve(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error) {
	r.l.Debug("fetching forecast", map[string]any{"repo": r.repo.Name(), "lat": lat, "lon": lon})

	forecast, err := r.repo.FetchForecast(ctx, lat, lon)
	if err != nil {
		return models.WeatherSnapshot{}, errors.Wrapf(err, "fetch forecast from %s", r.repo.Name())
	}

	r.l.Info("successfully fetched forecast", map[string]any{
		"repo":     r.repo.Name(),
		"today":    forecast.Today.String(),
		"tomorrow": forecast.Tomorrow.String(),
	})

	return models.WeatherSnapshot{Forecast: forecast, FetchedAt: r.now()}, nil
}
