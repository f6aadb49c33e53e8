package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"wxballoon/internal/models"
	"wxballoon/pkg/logger"
)

const PostalDirectoryBaseURL = "https://madefor.github.io/postal-code-api/api/v1"

// JapaneseAddress holds the optional address parts of a directory entry.
// A nil field was absent or null in the response.
type JapaneseAddress struct {
	Prefecture *string `json:"prefecture"`
	Address1   *string `json:"address1"`
	Address2   *string `json:"address2"`
}

type PostalEntry struct {
	Ja *JapaneseAddress `json:"ja"`
}

type postalDirectoryResponse struct {
	Data []PostalEntry `json:"data"`
}

type PostalDirectoryRepository struct {
	BaseURL    string
	UserAgent  string
	httpClient HTTPClient
	l          *logger.Logger
}

func NewPostalDirectoryRepository(baseURL, userAgent string, l *logger.Logger, httpClient HTTPClient) *PostalDirectoryRepository {
	if baseURL == "" {
		baseURL = PostalDirectoryBaseURL
	}

	return &PostalDirectoryRepository{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		UserAgent:  userAgent,
		httpClient: httpClient,
		l:          l,
	}
}

func (p *PostalDirectoryRepository) Name() string {
	return "postal directory"
}

// Lookup returns the directory entries for code. A 404 is ErrUnsupportedPostalCode.
func (p *PostalDirectoryRepository) Lookup(ctx context.Context, code models.PostalCode) ([]PostalEntry, error) {
	head, tail := code.Segments()
	url := fmt.Sprintf("%s/%s/%s.json", p.BaseURL, head, tail)

	resp, err := get(ctx, p.httpClient, url, p.UserAgent, p.Name(), p.l)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", models.ErrUnsupportedPostalCode, code)
	}
	if !isSuccess(resp.StatusCode) {
		return nil, &models.StatusError{Kind: models.ErrDirectoryService, StatusCode: resp.StatusCode}
	}

	var parsed postalDirectoryResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse %s JSON response: %w", p.Name(), err)
	}

	if len(parsed.Data) == 0 {
		return nil, models.ErrEmptyLocationData
	}

	p.l.Info("parsed postal directory response", map[string]any{"entries": len(parsed.Data)})

	return parsed.Data, nil
}
