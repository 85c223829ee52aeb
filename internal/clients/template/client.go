// Package template is a client for the template store collaborator.
package template

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/wb-go/wbf/retry"

	"github.com/avkhn/notify-pipeline/internal/apperrors"
)

// Rendered is a resolved template: subject and body with placeholders still
// in place. Substitution happens in the worker.
type Rendered struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Client calls the template store HTTP API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a template store client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// EnsureExists confirms the template code is known to the store. It is the
// ingestion-time check that keeps unrenderable requests out of the queue.
func (c *Client) EnsureExists(ctx context.Context, strategy retry.Strategy, code string) error {
	url := fmt.Sprintf("%s/api/templates/%s", c.baseURL, code)

	return retry.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("build template request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("%w: template store: %v", apperrors.ErrUnavailable, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return fmt.Errorf("%w: template %s", apperrors.ErrNotFound, code)
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("%w: template store returned %s", apperrors.ErrUnavailable, resp.Status)
		}

		return nil
	}, strategy)
}

// Get fetches the rendered-template source for the given code and language.
func (c *Client) Get(ctx context.Context, strategy retry.Strategy, code, language string) (Rendered, error) {
	if language == "" {
		language = "en"
	}

	url := fmt.Sprintf("%s/api/templates/%s?language=%s", c.baseURL, code, language)

	var out Rendered

	err := retry.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("build template request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("%w: template store: %v", apperrors.ErrUnavailable, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return fmt.Errorf("%w: template %s", apperrors.ErrNotFound, code)
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("%w: template store returned %s", apperrors.ErrUnavailable, resp.Status)
		}

		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return fmt.Errorf("decode template response: %w", err)
		}

		return nil
	}, strategy)
	if err != nil {
		return Rendered{}, err
	}

	return out, nil
}
