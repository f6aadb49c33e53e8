package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"wxballoon/internal/models"
	"wxballoon/pkg/logger"
)

const (
	WeatherAPIBaseURL = "https://api.weatherapi.com/v1/forecast.json"
	ForecastDays      = 2
)

type WeatherAPIRepository struct {
	BaseURL    string
	APIKey     string
	Lang       string
	UserAgent  string
	httpClient HTTPClient
	l          *logger.Logger
}

func NewWeatherAPIRepository(baseURL, apiKey, lang, userAgent string, l *logger.Logger, httpClient HTTPClient) (*WeatherAPIRepository, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("API key cannot be empty")
	}
	if baseURL == "" {
		baseURL = WeatherAPIBaseURL
	}

	return &WeatherAPIRepository{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Lang:       lang,
		UserAgent:  userAgent,
		httpClient: httpClient,
		l:          l,
	}, nil
}

func (w *WeatherAPIRepository) Name() string {
	return "weatherapi"
}

type WeatherAPIResponse struct {
	Forecast *struct {
		Forecastday []struct {
			Day *struct {
				MaxTempC  float64 `json:"maxtemp_c"`
				MinTempC  float64 `json:"mintemp_c"`
				Condition struct {
					Text string `json:"text"`
				} `json:"condition"`
			} `json:"day"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

// FetchForecast returns today's and tomorrow's forecast at the coordinates.
func (w *WeatherAPIRepository) FetchForecast(ctx context.Context, lat, lon float64) (models.WeatherForecast, error) {
	var forecast models.WeatherForecast

	params := url.Values{}
	params.Set("key", w.APIKey)
	params.Set("q", strconv.FormatFloat(lat, 'f', -1, 64)+","+strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("days", strconv.Itoa(ForecastDays))
	if w.Lang != "" {
		params.Set("lang", w.Lang)
	}

	resp, err := get(ctx, w.httpClient, w.BaseURL+"?"+params.Encode(), w.UserAgent, w.Name(), w.l)
	if err != nil {
		return forecast, err
	}

	if !isSuccess(resp.StatusCode) {
		return forecast, &models.StatusError{Kind: models.ErrWeatherService, StatusCode: resp.StatusCode}
	}

	var response WeatherAPIResponse
	if err := json.Unmarshal(resp.Body, &response); err != nil {
		return forecast, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if response.Forecast == nil || len(response.Forecast.Forecastday) < ForecastDays {
		return forecast, models.ErrIncompleteWeatherData
	}

	days := make([]models.DayForecast, 0, ForecastDays)
	for i, fd := range response.Forecast.Forecastday[:ForecastDays] {
		if fd.Day == nil {
			return forecast, fmt.Errorf("%w: day %d has no summary", models.ErrIncompleteWeatherData, i)
		}
		days = append(days, models.NewDayForecast(fd.Day.Condition.Text, fd.Day.MaxTempC, fd.Day.MinTempC))
	}

	forecast.Today, forecast.Tomorrow = days[0], days[1]

	w.l.Info("parsed API response", map[string]any{
		"days":     len(response.Forecast.Forecastday),
		"today":    forecast.Today.String(),
		"tomorrow": forecast.Tomorrow.String(),
	})

	return forecast, nil
}
