package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"station_monitor/internal/models"
)

// HTTPSource reads station status from a remote server's
// GET /api/station-status/:station endpoint.
type HTTPSource struct {
	base   string
	client *http.Client
}

func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPSource{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

var _ StatusSource = (*HTTPSource)(nil)

func (s *HTTPSource) LookupStatus(ctx context.Context, station string) (*models.StationStatus, error) {
	endpoint := s.base + "/api/station-status/" + url.PathEscape(station)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get status %s: %w", station, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("get status %s: unexpected status %d", station, resp.StatusCode)
	}

	var st models.StationStatus
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return nil, fmt.Errorf("decode status %s: %w", station, err)
	}
	return &st, nil
}
