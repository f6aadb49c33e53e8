package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wxballoon/internal/models"
)

func TestFlexFloat_UnmarshalJSON(t *testing.T) {
	var v struct {
		A FlexFloat `json:"a"`
		B FlexFloat `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": "35.6812", "b": 139.7671}`), &v))
	assert.InDelta(t, 35.6812, float64(v.A), 1e-9)
	assert.InDelta(t, 139.7671, float64(v.B), 1e-9)

	assert.Error(t, json.Unmarshal([]byte(`{"a": "north"}`), &v))
	assert.Error(t, json.Unmarshal([]byte(`{"a": true}`), &v))
}

func TestNominatimRepository_Geocode_Success(t *testing.T) {
	var gotQuery map[string][]string
	var gotUA string
	srv := newMockServer(t, http.StatusOK, `[{"place_id": 1, "lat": "35.6812", "lon": "139.7671", "display_name": "千代田"}]`,
		func(r *http.Request) {
			gotQuery = r.URL.Query()
			gotUA = r.Header.Get("User-Agent")
		})

	l, _ := newTestLogger()
	repo := NewNominatimRepository(srv.URL, testUserAgent, l, srv.Client())

	lat, lon, err := repo.Geocode(context.Background(), "東京都千代田区千代田")
	require.NoError(t, err)

	assert.InDelta(t, 35.6812, lat, 1e-9)
	assert.InDelta(t, 139.7671, lon, 1e-9)
	assert.Equal(t, []string{"東京都千代田区千代田"}, gotQuery["q"])
	assert.Equal(t, []string{"json"}, gotQuery["format"])
	assert.Equal(t, []string{"1"}, gotQuery["limit"])
	assert.Equal(t, testUserAgent, gotUA)
}

func TestNominatimRepository_Geocode_NumericCoordinates(t *testing.T) {
	srv := newMockServer(t, http.StatusOK, `[{"lat": 43.06, "lon": 141.35}]`, nil)
	l, _ := newTestLogger()
	repo := NewNominatimRepository(srv.URL, testUserAgent, l, srv.Client())

	lat, lon, err := repo.Geocode(context.Background(), "北海道札幌市")
	require.NoError(t, err)
	assert.InDelta(t, 43.06, lat, 1e-9)
	assert.InDelta(t, 141.35, lon, 1e-9)
}

func TestNominatimRepository_Geocode_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   error
	}{
		{"empty result", http.StatusOK, `[]`, models.ErrGeocodingEmptyResult},
		{"rate limited", http.StatusTooManyRequests, ``, models.ErrGeocodingService},
		{"server error", http.StatusBadGateway, ``, models.ErrGeocodingService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newMockServer(t, tt.status, tt.body, nil)
			l, _ := newTestLogger()
			repo := NewNominatimRepository(srv.URL, testUserAgent, l, srv.Client())

			_, _, err := repo.Geocode(context.Background(), "どこか")
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestNominatimRepository_Geocode_StatusCarried(t *testing.T) {
	srv := newMockServer(t, http.StatusForbidden, ``, nil)
	l, _ := newTestLogger()
	repo := NewNominatimRepository(srv.URL, testUserAgent, l, srv.Client())

	_, _, err := repo.Geocode(context.Background(), "どこか")

	var se *models.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusForbidden, se.StatusCode)
}

func TestNominatimRepository_Geocode_InvalidJSON(t *testing.T) {
	srv := newMockServer(t, http.StatusOK, `{"lat": "1"}`, nil)
	l, _ := newTestLogger()
	repo := NewNominatimRepository(srv.URL, testUserAgent, l, srv.Client())

	_, _, err := repo.Geocode(context.Background(), "どこか")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse nominatim JSON response")
}
