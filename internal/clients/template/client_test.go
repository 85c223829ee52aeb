package template

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/retry"

	"github.com/avkhn/notify-pipeline/internal/apperrors"
)

var strategy = retry.Strategy{Attempts: 1}

func TestEnsureExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/templates/welcome", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)

	assert.NoError(t, c.EnsureExists(context.Background(), strategy, "welcome"))
}

func TestEnsureExists_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)

	err := c.EnsureExists(context.Background(), strategy, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/templates/welcome", r.URL.Path)
		assert.Equal(t, "ru", r.URL.Query().Get("language"))

		json.NewEncoder(w).Encode(Rendered{Subject: "Hi {{name}}", Body: "Welcome"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)

	out, err := c.Get(context.Background(), strategy, "welcome", "ru")
	require.NoError(t, err)
	assert.Equal(t, "Hi {{name}}", out.Subject)
	assert.Equal(t, "Welcome", out.Body)
}

func TestGet_DefaultsLanguage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "en", r.URL.Query().Get("language"))
		json.NewEncoder(w).Encode(Rendered{Subject: "s", Body: "b"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)

	_, err := c.Get(context.Background(), strategy, "welcome", "")
	assert.NoError(t, err)
}

func TestGet_StoreUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)

	_, err := c.Get(context.Background(), strategy, "welcome", "en")
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
}

func TestGet_RetriesTransientFailure(t *testing.T) {
	attempts := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(Rendered{Subject: "s", Body: "b"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)

	_, err := c.Get(context.Background(), retry.Strategy{Attempts: 2, Delay: time.Millisecond}, "welcome", "en")
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}
