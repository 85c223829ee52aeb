package user

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/retry"

	"github.com/avkhn/notify-pipeline/internal/apperrors"
)

type memCache struct {
	values map[string]string
}

func newMemCache() *memCache {
	return &memCache{values: map[string]string{}}
}

func (c *memCache) SetWithRetry(ctx context.Context, strategy retry.Strategy, key string, value interface{}) error {
	c.values[key] = fmt.Sprint(value)
	return nil
}

func (c *memCache) GetWithRetry(ctx context.Context, strategy retry.Strategy, key string) (string, error) {
	v, ok := c.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

var strategy = retry.Strategy{Attempts: 1}

func TestGet_FetchesAndCaches(t *testing.T) {
	requests := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "/api/users/u1", r.URL.Path)

		json.NewEncoder(w).Encode(Profile{
			ID:          "u1",
			Email:       "u1@example.com",
			Preferences: Preferences{Email: true},
		})
	}))
	defer srv.Close()

	cache := newMemCache()
	c := NewClient(srv.URL, time.Second, cache)

	p, err := c.Get(context.Background(), strategy, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1@example.com", p.Email)
	assert.True(t, p.Allows("email"))
	assert.False(t, p.Allows("push"))

	// Second read must come from the cache.
	_, err = c.Get(context.Background(), strategy, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, requests)
}

func TestGet_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, newMemCache())

	_, err := c.Get(context.Background(), strategy, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGet_DirectoryUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, newMemCache())

	_, err := c.Get(context.Background(), strategy, "u1")
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
}

func TestGet_ConnectionRefused(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 100*time.Millisecond, newMemCache())

	_, err := c.Get(context.Background(), strategy, "u1")
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
}

func TestGet_InvalidCachedProfileRefetches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Profile{ID: "u1", Email: "u1@example.com"})
	}))
	defer srv.Close()

	cache := newMemCache()
	cache.values["user:u1"] = "{corrupt"

	c := NewClient(srv.URL, time.Second, cache)

	p, err := c.Get(context.Background(), strategy, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1@example.com", p.Email)
}

func TestAllows_UnknownTypeIsDenied(t *testing.T) {
	p := Profile{Preferences: Preferences{Email: true, Push: true}}
	assert.False(t, p.Allows("sms"))
}
