// Package status pushes notification lifecycle transitions back to the
// ingestion API. Reporting is fire-and-forget: a failed report is logged
// and swallowed, never blocking or failing the delivery worker.
package status

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/wb-go/wbf/zlog"
)

// Update is the status callback payload.
type Update struct {
	NotificationID string `json:"notification_id"`
	Status         string `json:"status"`
	Error          string `json:"error,omitempty"`
	Timestamp      string `json:"timestamp"`
}

// Reporter posts status updates to the gateway's internal callback endpoint.
type Reporter struct {
	gatewayURL string
	client     *http.Client

	wg sync.WaitGroup
}

// NewReporter creates a reporter targeting the given gateway base URL.
func NewReporter(gatewayURL string, timeout time.Duration) *Reporter {
	return &Reporter{
		gatewayURL: gatewayURL,
		client:     &http.Client{Timeout: timeout},
	}
}

// Report spawns a goroutine that pushes the transition and swallows any
// failure. It never blocks the caller beyond the JSON encode.
func (r *Reporter) Report(notificationID, notifStatus, errMsg string) {
	r.wg.Add(1)

	go func() {
		defer r.wg.Done()

		if err := r.post(Update{
			NotificationID: notificationID,
			Status:         notifStatus,
			Error:          errMsg,
			Timestamp:      time.Now().UTC().Format(time.RFC3339),
		}); err != nil {
			zlog.Logger.Warn().Err(err).
				Str("notification_id", notificationID).
				Str("status", notifStatus).
				Msg("failed to report status")
		}
	}()
}

// Wait blocks until all in-flight reports finish. Used during shutdown.
func (r *Reporter) Wait() {
	r.wg.Wait()
}

func (r *Reporter) post(update Update) error {
	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("marshal status update: %w", err)
	}

	url := r.gatewayURL + "/api/notifications/status"

	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build status request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("send status request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("status endpoint returned %s", resp.Status)
	}

	return nil
}
