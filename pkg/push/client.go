// Package push provides a simple client for sending push notifications
// through an FCM-style HTTP gateway.
//
// It allows creating a client with a server key and sending messages to
// device tokens. Designed to be used as a provider adapter in the delivery
// worker.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Client represents a push gateway client used to send notifications.
type Client struct {
	url       string       // send endpoint of the push gateway
	serverKey string       // server key for authentication
	client    *http.Client // HTTP client used to make requests
}

// NewClient creates a new push Client for the given endpoint and server key.
func NewClient(url, serverKey string) *Client {
	return &Client{
		url:       url,
		serverKey: serverKey,
		client:    &http.Client{},
	}
}

// sendRequest represents the payload for the push gateway send API.
type sendRequest struct {
	To           string            `json:"to"` // device token to send to
	Notification pushNotification  `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type pushNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Send delivers a push notification to the specified device token.
//
// It constructs the request payload, sends an HTTP POST to the push
// gateway, and returns an error if the request fails or the gateway
// responds with a non-200 status.
func (c *Client) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	reqBody := sendRequest{
		To: token,
		Notification: pushNotification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+c.serverKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push gateway error: %s", resp.Status)
	}

	return nil
}
