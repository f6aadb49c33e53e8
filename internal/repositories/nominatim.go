package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"wxballoon/internal/models"
	"wxballoon/pkg/logger"
)

const NominatimBaseURL = "https://nominatim.openstreetmap.org/search"

// FlexFloat decodes a JSON number or a numeric JSON string.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid numeric string %q: %w", s, err)
		}
		*f = FlexFloat(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

type nominatimResult struct {
	Lat FlexFloat `json:"lat"`
	Lon FlexFloat `json:"lon"`
}

type NominatimRepository struct {
	BaseURL    string
	UserAgent  string
	httpClient HTTPClient
	l          *logger.Logger
}

func NewNominatimRepository(baseURL, userAgent string, l *logger.Logger, httpClient HTTPClient) *NominatimRepository {
	if baseURL == "" {
		baseURL = NominatimBaseURL
	}

	return &NominatimRepository{
		BaseURL:    baseURL,
		UserAgent:  userAgent,
		httpClient: httpClient,
		l:          l,
	}
}

func (n *NominatimRepository) Name() string {
	return "nominatim"
}

// Geocode returns the coordinates of the best match for address.
func (n *NominatimRepository) Geocode(ctx context.Context, address string) (float64, float64, error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")

	resp, err := get(ctx, n.httpClient, n.BaseURL+"?"+params.Encode(), n.UserAgent, n.Name(), n.l)
	if err != nil {
		return 0, 0, err
	}

	if !isSuccess(resp.StatusCode) {
		return 0, 0, &models.StatusError{Kind: models.ErrGeocodingService, StatusCode: resp.StatusCode}
	}

	var results []nominatimResult
	if err := json.Unmarshal(resp.Body, &results); err != nil {
		return 0, 0, fmt.Errorf("failed to parse %s JSON response: %w", n.Name(), err)
	}

	if len(results) == 0 {
		return 0, 0, fmt.Errorf("%w: %s", models.ErrGeocodingEmptyResult, address)
	}

	lat, lon := float64(results[0].Lat), float64(results[0].Lon)
	n.l.Info("geocoded address", map[string]any{"address": address, "lat": lat, "lon": lon})

	return lat, lon, nil
}
