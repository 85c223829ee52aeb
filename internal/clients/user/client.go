// Package user is a client for the user directory collaborator. Profiles
// are cached in Redis so repeated submissions for the same user do not hit
// the directory every time.
package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/avkhn/notify-pipeline/internal/apperrors"
)

// Preferences holds the per-channel opt-in flags.
type Preferences struct {
	Email bool `json:"email"`
	Push  bool `json:"push"`
}

// Profile is the user directory record needed by the pipeline.
type Profile struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	PushToken   string      `json:"push_token,omitempty"`
	Preferences Preferences `json:"preferences"`
}

// Allows reports whether the profile has the given notification type enabled.
func (p Profile) Allows(notificationType string) bool {
	switch notificationType {
	case "email":
		return p.Preferences.Email
	case "push":
		return p.Preferences.Push
	default:
		return false
	}
}

type cache interface {
	SetWithRetry(ctx context.Context, strategy retry.Strategy, key string, value interface{}) error
	GetWithRetry(ctx context.Context, strategy retry.Strategy, key string) (string, error)
}

// Client calls the user directory HTTP API.
type Client struct {
	baseURL string
	client  *http.Client
	cache   cache
}

// NewClient creates a user directory client with the given Redis cache.
func NewClient(baseURL string, timeout time.Duration, cache cache) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		cache:   cache,
	}
}

// Get fetches a user profile, preferring the cache. It returns
// apperrors.ErrNotFound for unknown users and apperrors.ErrUnavailable when
// the directory cannot be reached.
func (c *Client) Get(ctx context.Context, strategy retry.Strategy, userID string) (Profile, error) {
	key := cacheKey(userID)

	cached, err := c.cache.GetWithRetry(ctx, strategy, key)
	if err != nil && !errors.Is(err, redis.Nil) {
		zlog.Logger.Warn().Err(err).Str("user_id", userID).Msg("failed to read user cache")
	}

	if err == nil && cached != "" {
		var p Profile
		if err := json.Unmarshal([]byte(cached), &p); err == nil {
			return p, nil
		}

		zlog.Logger.Warn().Str("user_id", userID).Msg("invalid cached user profile, refetching")
	}

	p, err := c.fetch(ctx, strategy, userID)
	if err != nil {
		return Profile{}, err
	}

	if encoded, err := json.Marshal(p); err == nil {
		if err := c.cache.SetWithRetry(ctx, strategy, key, string(encoded)); err != nil {
			zlog.Logger.Warn().Err(err).Str("user_id", userID).Msg("failed to cache user profile")
		}
	}

	return p, nil
}

func (c *Client) fetch(ctx context.Context, strategy retry.Strategy, userID string) (Profile, error) {
	url := fmt.Sprintf("%s/api/users/%s", c.baseURL, userID)

	var p Profile

	err := retry.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("build user request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("%w: user directory: %v", apperrors.ErrUnavailable, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("%w: user directory returned %s", apperrors.ErrUnavailable, resp.Status)
		}

		if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
			return fmt.Errorf("decode user response: %w", err)
		}

		return nil
	}, strategy)
	if err != nil {
		return Profile{}, err
	}

	return p, nil
}

func cacheKey(userID string) string {
	return "user:" + userID
}
