// Package remote містить клієнт мережевого сервісу місій
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"drone-survey-system/internal/domain"
	"drone-survey-system/pkg/metrics"
)

// maxResponseSize обмежує розмір відповіді сервісу
const maxResponseSize = 1 << 20

// MissionClient отримує окремі місії з мережевого сервісу
type MissionClient struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

// NewMissionClient створює клієнт для сервісу за адресою baseURL
func NewMissionClient(baseURL string, timeout time.Duration, m *metrics.Metrics) *MissionClient {
	return &MissionClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    m,
	}
}

// remoteMission описує місію у форматі сервісу: id може бути числом,
// статус може бути "scheduled"
type remoteMission struct {
	domain.Mission
	ID     json.RawMessage `json:"id"`
	Status string          `json:"status"`
}

// FetchMission отримує місію за ID. Повертає domain.ErrNotFound для 404.
func (c *MissionClient) FetchMission(ctx context.Context, id string) (*domain.Mission, error) {
	start := time.Now()
	if c.metrics != nil {
		defer func() {
			c.metrics.RemoteFetchDuration.Observe(time.Since(start).Seconds())
		}()
	}

	endpoint := fmt.Sprintf("%s/api/missions/%s", c.baseURL, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch mission %s: %w", id, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("remote mission %s: %w", id, domain.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("failed to fetch mission %s: unexpected status %d", id, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read mission %s: %w", id, err)
	}

	mission, err := decodeMission(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode mission %s: %w", id, err)
	}

	if mission.ID != id {
		return nil, fmt.Errorf("remote mission id %q does not match requested %q", mission.ID, id)
	}

	return mission, nil
}

func decodeMission(body []byte) (*domain.Mission, error) {
	var raw remoteMission
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	id, err := decodeID(raw.ID)
	if err != nil {
		return nil, err
	}

	status, err := domain.ParseMissionStatus(raw.Status)
	if err != nil {
		return nil, err
	}

	mission := raw.Mission
	mission.ID = id
	mission.Status = status
	return &mission, nil
}

// decodeID приймає рядковий або числовий ідентифікатор
func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", &domain.ValidationError{Field: "id", Reason: "must be present"}
	}

	if raw[0] == '"' {
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			return "", err
		}
		return id, nil
	}

	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return "", errors.New("id must be a string or a number")
	}
	return num.String(), nil
}
