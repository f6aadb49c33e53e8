package models

import (
	"fmt"
	"time"
)

// DayForecast is one day of a forecast with temperatures truncated to whole degrees.
type DayForecast struct {
	Condition string `json:"weather" validate:"required"`
	MaxTempC  int    `json:"maxTemp"`
	MinTempC  int    `json:"minTemp"`
}

// NewDayForecast truncates the source temperatures toward zero.
func NewDayForecast(condition string, maxTempC, minTempC float64) DayForecast {
	return DayForecast{
		Condition: condition,
		MaxTempC:  int(maxTempC),
		MinTempC:  int(minTempC),
	}
}

type dayForecastJSON struct {
	Condition string `json:"weather" validate:"required"`
	MaxTempC  *int   `json:"maxTemp" validate:"required"`
	MinTempC  *int   `json:"minTemp" validate:"required"`
}

// UnmarshalJSON requires every field; a missing temperature is not zero degrees.
func (d *DayForecast) UnmarshalJSON(b []byte) error {
	var w dayForecastJSON
	if err := decodeStrict(b, &w); err != nil {
		return err
	}
	*d = DayForecast{Condition: w.Condition, MaxTempC: *w.MaxTempC, MinTempC: *w.MinTempC}
	return nil
}

func (d DayForecast) String() string {
	return fmt.Sprintf("%s (%d°C/%d°C)", d.Condition, d.MaxTempC, d.MinTempC)
}

type WeatherForecast struct {
	Today    DayForecast `json:"today"`
	Tomorrow DayForecast `json:"tomorrow"`
}

// WeatherSnapshot is a two-day forecast as cached per postal code.
type WeatherSnapshot struct {
	Forecast  WeatherForecast `json:"weatherData"`
	FetchedAt time.Time       `json:"timestamp" validate:"required"`
}

type weatherSnapshotJSON struct {
	Forecast *struct {
		Today    *DayForecast `json:"today" validate:"required"`
		Tomorrow *DayForecast `json:"tomorrow" validate:"required"`
	} `json:"weatherData" validate:"required"`
	FetchedAt time.Time `json:"timestamp" validate:"required"`
}

// UnmarshalJSON requires the forecast for both days to be present.
func (s *WeatherSnapshot) UnmarshalJSON(b []byte) error {
	var w weatherSnapshotJSON
	if err := decodeStrict(b, &w); err != nil {
		return err
	}
	*s = WeatherSnapshot{
		Forecast:  WeatherForecast{Today: *w.Forecast.Today, Tomorrow: *w.Forecast.Tomorrow},
		FetchedAt: w.FetchedAt,
	}
	return nil
}

func (s WeatherSnapshot) Stamp() time.Time {
	return s.FetchedAt
}

func (s WeatherSnapshot) WithStamp(t time.Time) WeatherSnapshot {
	s.FetchedAt = t
	return s
}

func (s WeatherSnapshot) Validate() error {
	return validate.Struct(s)
}
