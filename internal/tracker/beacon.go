package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// BeaconFlusher is the last-resort delivery channel used at teardown. It
// fires a single POST and discards the response; the caller may not survive
// long enough for a normal round trip.
type BeaconFlusher struct {
	Endpoint string
	Token    string
	Client   *http.Client
}

func NewBeaconFlusher(endpoint, token string) *BeaconFlusher {
	return &BeaconFlusher{
		Endpoint: endpoint,
		Token:    token,
		Client:   &http.Client{Timeout: 3 * time.Second},
	}
}

type beaconPayload struct {
	Token            string `json:"token"`
	ActivityDate     string `json:"activity_date"`
	TimeSpentMinutes int    `json:"time_spent_minutes"`
}

func (b *BeaconFlusher) Flush(ctx context.Context, userID int64, day time.Time, minutes int) error {
	body, err := json.Marshal(beaconPayload{
		Token:            b.Token,
		ActivityDate:     day.Format("2006-01-02"),
		TimeSpentMinutes: minutes,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.Client.Do(req)
	if err != nil {
		return err
	}
	// Fire and forget: the body is irrelevant.
	resp.Body.Close()
	return nil
}
