package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// APIFlusher is the normal delivery channel: an authenticated POST to the
// activity flush endpoint. The server resolves the user from the bearer
// token, so the local user id is not part of the payload.
type APIFlusher struct {
	Endpoint string
	Token    string
	Client   *http.Client
}

func NewAPIFlusher(endpoint, token string) *APIFlusher {
	return &APIFlusher{
		Endpoint: endpoint,
		Token:    token,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type flushPayload struct {
	ActivityDate     string `json:"activity_date"`
	TimeSpentMinutes int    `json:"time_spent_minutes"`
}

func (f *APIFlusher) Flush(ctx context.Context, userID int64, day time.Time, minutes int) error {
	body, err := json.Marshal(flushPayload{
		ActivityDate:     day.Format("2006-01-02"),
		TimeSpentMinutes: minutes,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.Token)

	resp, err := f.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("flush rejected: %s", resp.Status)
	}
	return nil
}
