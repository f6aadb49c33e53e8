// Package location resolves a postal code to an address and its coordinates.
package location

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"wxballoon/internal/models"
	"wxballoon/internal/repositories"
	"wxballoon/pkg/logger"
)

const (
	defaultPrefecture = "不明"
	defaultCity       = "な地域"
)

type PostalDirectory interface {
	Lookup(ctx context.Context, code models.PostalCode) ([]repositories.PostalEntry, error)
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lon float64, err error)
}

type Resolver struct {
	directory PostalDirectory
	geocoder  Geocoder
	l         *logger.Logger
	now       func() time.Time
}

func NewResolver(directory PostalDirectory, geocoder Geocoder, l *logger.Logger) *Resolver {
	return &Resolver{
		directory: directory,
		geocoder:  geocoder,
		l:         l,
		now:       time.Now,
	}
}

func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// Resolve looks the code up in the postal directory and geocodes the full
// address. Coordinates are returned unchecked.
func (r *Resolver) Resolve(ctx context.Context, code models.PostalCode) (models.LocationRecord, error) {
	entries, err := r.directory.Lookup(ctx, code)
	if err != nil {
		return models.LocationRecord{}, errors.Wrap(err, "postal directory lookup")
	}
	if len(entries) == 0 {
		return models.LocationRecord{}, errors.Wrap(models.ErrEmptyLocationData, "postal directory lookup")
	}

	full, title := ComposeAddress(entries[0])
	r.l.Info("composed address", map[string]any{
		"postalCode":   code.String(),
		"fullAddress":  full,
		"titleAddress": title,
	})

	lat, lon, err := r.geocoder.Geocode(ctx, full)
	if err != nil {
		return models.LocationRecord{}, errors.Wrap(err, "geocode address")
	}

	return models.LocationRecord{
		FullAddress:  full,
		TitleAddress: title,
		Lat:          lat,
		Lon:          lon,
		FetchedAt:    r.now(),
	}, nil
}

// ComposeAddress builds the full and title addresses of a directory entry.
// Absent parts fall back to 不明 / な地域 / "", so an entry without any names
// reads 不明な地域 for both.
func ComposeAddress(entry repositories.PostalEntry) (full, title string) {
	prefecture, city, town := defaultPrefecture, defaultCity, ""
	if ja := entry.Ja; ja != nil {
		if ja.Prefecture != nil {
			prefecture = *ja.Prefecture
		}
		if ja.Address1 != nil {
			city = *ja.Address1
		}
		if ja.Address2 != nil {
			town = *ja.Address2
		}
	}

	full = prefecture + city + town
	title = prefecture + city
	if full == models.UnknownRegion {
		title = models.UnknownRegion
	}

	return full, title
}
