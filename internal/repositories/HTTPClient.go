package repositories

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"wxballoon/pkg/logger"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

type response struct {
	StatusCode int
	Status     string
	Body       []byte
}

// get performs a GET and returns the raw body whatever the status. Only
// transport and read failures are returned as errors.
func get(ctx context.Context, client HTTPClient, rawURL, userAgent, source string, l *logger.Logger) (response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return response{}, fmt.Errorf("failed to create %s request: %w", source, err)
	}
	req.Header.Set("Accept", "application/json")
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	l.Info("making "+source+" request", map[string]any{"url": redact(req)})

	resp, err := client.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("failed to do %s request: %w", source, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, fmt.Errorf("failed to read %s response body: %w", source, err)
	}

	l.Info("received "+source+" response", map[string]any{
		"status":     resp.StatusCode,
		"statusText": resp.Status,
	})
	l.Debug(source+" response body", map[string]any{"body": string(body)})

	return response{StatusCode: resp.StatusCode, Status: resp.Status, Body: body}, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// redact drops the API key from logged URLs.
func redact(req *http.Request) string {
	u := *req.URL
	q := u.Query()
	if q.Has("key") {
		q.Set("key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
