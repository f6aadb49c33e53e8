package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePostalCode(t *testing.T) {
	for _, raw := range []string{"1000001", "9999999", "0600000"} {
		plain, err := NormalizePostalCode(raw)
		require.NoError(t, err)

		hyphenated, err := NormalizePostalCode(raw[:3] + "-" + raw[3:])
		require.NoError(t, err)

		assert.Equal(t, PostalCode(raw), plain)
		assert.Equal(t, plain, hyphenated)
	}
}

func TestNormalizePostalCode_TrimsSpace(t *testing.T) {
	code, err := NormalizePostalCode("  100-0001\n")
	require.NoError(t, err)
	assert.Equal(t, PostalCode("1000001"), code)
}

func TestNormalizePostalCode_InvalidFormat(t *testing.T) {
	invalid := []string{
		"",
		"100001",
		"10000011",
		"10-00001",
		"1000-001",
		"100--0001",
		"abcdefg",
		"１０００００１",
		"100 0001",
		"100-000a",
	}

	for _, raw := range invalid {
		_, err := NormalizePostalCode(raw)
		assert.ErrorIs(t, err, ErrInvalidFormat, "input %q", raw)
	}
}

func TestPostalCode_Segments(t *testing.T) {
	first, second := PostalCode("1000001").Segments()
	assert.Equal(t, "100", first)
	assert.Equal(t, "0001", second)
}

func TestValidateCoordinates(t *testing.T) {
	assert.NoError(t, ValidateCoordinates(35.0, 139.0))
	assert.NoError(t, ValidateCoordinates(90, 180))
	assert.NoError(t, ValidateCoordinates(-90, -180))

	for _, c := range [][2]float64{{91, 0}, {-91, 0}, {0, 181}, {0, -181}} {
		err := ValidateCoordinates(c[0], c[1])
		assert.ErrorIs(t, err, ErrInvalidCoordinates, "lat=%v lon=%v", c[0], c[1])
	}
}

func TestNewDayForecast_Truncates(t *testing.T) {
	d := NewDayForecast("晴れ", 15.7, -2.9)
	assert.Equal(t, 15, d.MaxTempC)
	assert.Equal(t, -2, d.MinTempC)
	assert.Equal(t, "晴れ (15°C/-2°C)", d.String())
}

func TestLocationRecord_Validate(t *testing.T) {
	rec := LocationRecord{
		FullAddress:  "東京都千代田区丸の内",
		TitleAddress: "東京都千代田区",
		Lat:          35.68,
		Lon:          139.76,
		FetchedAt:    time.Now(),
	}
	assert.NoError(t, rec.Validate())

	rec.FullAddress = ""
	assert.Error(t, rec.Validate())
}

func TestStampedRecords(t *testing.T) {
	ts := time.Date(2025, 7, 25, 9, 0, 0, 0, time.UTC)

	rec := LocationRecord{}.WithStamp(ts)
	assert.Equal(t, ts, rec.Stamp())

	snap := WeatherSnapshot{}.WithStamp(ts)
	assert.Equal(t, ts, snap.Stamp())
}

func TestStatusError(t *testing.T) {
	var err error = &StatusError{Kind: ErrDirectoryService, StatusCode: 500}

	assert.ErrorIs(t, err, ErrDirectoryService)
	assert.NotErrorIs(t, err, ErrUnsupportedPostalCode)
	assert.Contains(t, err.Error(), "status 500")

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, 500, statusErr.StatusCode)
}

func TestLocationRecord_UnmarshalJSON(t *testing.T) {
	var rec LocationRecord
	require.NoError(t, json.Unmarshal([]byte(`{"location": "x", "titleLocation": "x", "lat": 0, "lon": 0, "timestamp": "2024-05-01T09:00:00Z"}`), &rec))
	assert.Equal(t, 0.0, rec.Lat, "zero is a valid coordinate when present")

	tests := map[string]string{
		"no lat":        `{"location": "x", "titleLocation": "x", "lon": 139.7, "timestamp": "2024-05-01T09:00:00Z"}`,
		"no lon":        `{"location": "x", "titleLocation": "x", "lat": 35.6, "timestamp": "2024-05-01T09:00:00Z"}`,
		"no timestamp":  `{"location": "x", "titleLocation": "x", "lat": 35.6, "lon": 139.7}`,
		"empty address": `{"location": "", "titleLocation": "x", "lat": 35.6, "lon": 139.7, "timestamp": "2024-05-01T09:00:00Z"}`,
		"unknown key":   `{"location": "x", "titleLocation": "x", "lat": 35.6, "lon": 139.7, "timestamp": "2024-05-01T09:00:00Z", "zip": 1}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			var rec LocationRecord
			assert.Error(t, json.Unmarshal([]byte(body), &rec))
		})
	}
}

func TestWeatherSnapshot_UnmarshalJSON(t *testing.T) {
	snap := WeatherSnapshot{
		Forecast: WeatherForecast{
			Today:    NewDayForecast("晴れ", 15.7, 5.2),
			Tomorrow: NewDayForecast("雨", 0, -3.1),
		},
		FetchedAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var got WeatherSnapshot
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, snap.Forecast, got.Forecast)
	assert.True(t, snap.FetchedAt.Equal(got.FetchedAt))

	day := `{"weather": "晴れ", "maxTemp": 15, "minTemp": 5}`
	tests := map[string]string{
		"no weatherData": `{"timestamp": "2024-05-01T09:00:00Z"}`,
		"no tomorrow":    `{"weatherData": {"today": ` + day + `}, "timestamp": "2024-05-01T09:00:00Z"}`,
		"no max temp":    `{"weatherData": {"today": ` + day + `, "tomorrow": {"weather": "雨", "minTemp": 1}}, "timestamp": "2024-05-01T09:00:00Z"}`,
		"empty weather":  `{"weatherData": {"today": ` + day + `, "tomorrow": {"weather": "", "maxTemp": 2, "minTemp": 1}}, "timestamp": "2024-05-01T09:00:00Z"}`,
		"unknown key":    `{"weatherData": {"today": ` + day + `, "tomorrow": ` + day + `, "later": ` + day + `}, "timestamp": "2024-05-01T09:00:00Z"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			var got WeatherSnapshot
			assert.Error(t, json.Unmarshal([]byte(body), &got))
		})
	}
}

func TestWeatherSnapshot_ValidateRequiresConditions(t *testing.T) {
	snap := WeatherSnapshot{FetchedAt: time.Now()}
	assert.Error(t, snap.Validate())

	snap.Forecast = WeatherForecast{Today: NewDayForecast("晴れ", 1, 0), Tomorrow: NewDayForecast("雨", 1, 0)}
	assert.NoError(t, snap.Validate())
}
