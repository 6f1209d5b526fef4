// Package omdb là client gọi OMDb API để lấy poster của phim.
package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Kevindaniel6700/movie-time/config"
	"github.com/Kevindaniel6700/movie-time/internal/logger"
)

const (
	defaultTimeout         = 10 * time.Second
	defaultBreakerFailures = 5
	breakerOpenTimeout     = 30 * time.Second
	notAvailable           = "N/A"
)

// ErrMissingAPIKey được trả về khi chưa cấu hình OMDB_API_KEY
var ErrMissingAPIKey = errors.New("omdb: api key is not configured")

// Config là cấu hình của client
type Config struct {
	BaseURL         string
	APIKey          string
	Timeout         time.Duration
	BreakerFailures int
	BreakerOpen     time.Duration // Thời gian mạch ở trạng thái open
}

// ConfigFrom lấy cấu hình OMDb từ cấu hình server
func ConfigFrom(c *config.Configuration) Config {
	return Config{
		BaseURL:         c.OMDbAPIURL,
		APIKey:          c.OMDbAPIKey,
		Timeout:         c.PosterLookupTimeout,
		BreakerFailures: c.PosterBreakerFailures,
		BreakerOpen:     c.PosterBreakerOpen,
	}
}

// movieResponse là phần response OMDb mà client dùng tới
type movieResponse struct {
	Title    string `json:"Title"`
	Poster   string `json:"Poster"`
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

// Client gọi OMDb với timeout rõ ràng và circuit breaker.
// Lỗi mạng, status khác 200 và body sai định dạng được breaker tính là thất bại,
// "không tìm thấy phim" thì không.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	timeout    time.Duration
	breaker    *gobreaker.CircuitBreaker
}

// NewClient tạo client mới, giá trị thiếu trong cfg dùng mặc định
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.BreakerFailures <= 0 {
		cfg.BreakerFailures = defaultBreakerFailures
	}
	if cfg.BreakerOpen <= 0 {
		cfg.BreakerOpen = breakerOpenTimeout
	}
	failures := uint32(cfg.BreakerFailures)

	settings := gobreaker.Settings{
		Name:        "omdb",
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpen,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithModule("omdb").WithField("breaker", name).
				Warnf("Circuit breaker đổi trạng thái %s -> %s", from, to)
		},
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		timeout:    cfg.Timeout,
		breaker:    gobreaker.NewCircuitBreaker(settings),
	}
}

// FetchPosterURL tìm poster theo tiêu đề (và năm nếu > 0).
// Trả về chuỗi rỗng khi OMDb không có poster hợp lệ.
func (c *Client) FetchPosterURL(ctx context.Context, title string, year int) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.lookup(ctx, title, year)
	})
	if err != nil {
		return "", fmt.Errorf("omdb lookup %q: %w", title, err)
	}

	resp := result.(*movieResponse)
	if !isValidPoster(resp.Poster) {
		return "", nil
	}
	return resp.Poster, nil
}

func (c *Client) lookup(ctx context.Context, title string, year int) (*movieResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("t", title)
	if year > 0 {
		params.Set("y", strconv.Itoa(year))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OMDb API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var result movieResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON response: %w", err)
	}
	return &result, nil
}

// IsRejected cho biết lỗi đến từ breaker (mạch đang mở hoặc half-open đã đủ request),
// tức là OMDb chưa được gọi. Caller nên chờ rồi thử lại thay vì coi là lookup thất bại.
func IsRejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// isValidPoster: khác rỗng, khác "N/A" và là URL http(s)
func isValidPoster(poster string) bool {
	return poster != "" && poster != notAvailable && strings.HasPrefix(poster, "http")
}
