package omdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kevindaniel6700/movie-time/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...func(*Config)) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := Config{BaseURL: server.URL + "/", APIKey: "test-key", Timeout: time.Second, BreakerFailures: 3}
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewClient(cfg)
}

func TestFetchPosterURL(t *testing.T) {
	var gotQuery atomic.Value
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query())
		w.Write([]byte(`{"Title":"Inception","Poster":"https://m.media-amazon.com/inception.jpg","Response":"True"}`))
	})

	poster, err := client.FetchPosterURL(context.Background(), "Inception", 2010)
	require.NoError(t, err)
	assert.Equal(t, "https://m.media-amazon.com/inception.jpg", poster)

	q := gotQuery.Load().(url.Values)
	assert.Equal(t, []string{"test-key"}, q["apikey"])
	assert.Equal(t, []string{"Inception"}, q["t"])
	assert.Equal(t, []string{"2010"}, q["y"])
}

func TestFetchPosterURLWithoutYear(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("y"))
		w.Write([]byte(`{"Poster":"http://img/x.jpg","Response":"True"}`))
	})

	poster, err := client.FetchPosterURL(context.Background(), "Untitled", 0)
	require.NoError(t, err)
	assert.Equal(t, "http://img/x.jpg", poster)
}

func TestFetchPosterURLInvalidPoster(t *testing.T) {
	for _, body := range []string{
		`{"Poster":"N/A","Response":"True"}`,
		`{"Poster":"","Response":"True"}`,
		`{"Poster":"ftp://img/x.jpg","Response":"True"}`,
		`{"Response":"False","Error":"Movie not found!"}`,
	} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})
		poster, err := client.FetchPosterURL(context.Background(), "Nope", 1999)
		require.NoError(t, err, body)
		assert.Empty(t, poster, body)
	}
}

func TestFetchPosterURLErrors(t *testing.T) {
	t.Run("status khác 200", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		_, err := client.FetchPosterURL(context.Background(), "X", 0)
		assert.ErrorContains(t, err, "status 503")
	})

	t.Run("body sai định dạng", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>`))
		})
		_, err := client.FetchPosterURL(context.Background(), "X", 0)
		assert.Error(t, err)
	})

	t.Run("timeout được áp dụng", func(t *testing.T) {
		release := make(chan struct{})
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}, func(c *Config) { c.Timeout = 50 * time.Millisecond })
		defer close(release)

		start := time.Now()
		_, err := client.FetchPosterURL(context.Background(), "Slow", 0)
		assert.Error(t, err)
		assert.Less(t, time.Since(start), 2*time.Second)
	})

	t.Run("thiếu api key", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("không được gọi OMDb khi thiếu api key")
		}, func(c *Config) { c.APIKey = "" })
		_, err := client.FetchPosterURL(context.Background(), "X", 0)
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})
}

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	for i := 0; i < 3; i++ {
		_, err := client.FetchPosterURL(context.Background(), "X", 0)
		assert.Error(t, err)
	}
	_, err := client.FetchPosterURL(context.Background(), "X", 0)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.True(t, IsRejected(err))
	assert.EqualValues(t, 3, calls.Load())
}

func TestCircuitBreakerClosesAfterOpenWindow(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"Poster":"https://img/x.jpg","Response":"True"}`))
	}, func(c *Config) { c.BreakerOpen = 20 * time.Millisecond })

	for i := 0; i < 3; i++ {
		_, err := client.FetchPosterURL(context.Background(), "X", 0)
		assert.False(t, IsRejected(err), "lỗi thật từ OMDb không phải lỗi breaker")
	}
	_, err := client.FetchPosterURL(context.Background(), "X", 0)
	require.True(t, IsRejected(err))

	time.Sleep(40 * time.Millisecond)
	poster, err := client.FetchPosterURL(context.Background(), "X", 0)
	require.NoError(t, err)
	assert.Equal(t, "https://img/x.jpg", poster)
	assert.False(t, IsRejected(nil))
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(&config.Configuration{
		OMDbAPIURL:            "http://omdb.local/",
		OMDbAPIKey:            "k",
		PosterLookupTimeout:   3 * time.Second,
		PosterBreakerFailures: 7,
		PosterBreakerOpen:     time.Minute,
	})
	assert.Equal(t, Config{BaseURL: "http://omdb.local/", APIKey: "k", Timeout: 3 * time.Second, BreakerFailures: 7, BreakerOpen: time.Minute}, cfg)
}
