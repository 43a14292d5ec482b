// Package tmdb fetches movie metadata from The Movie Database and imports it
// into the catalog.
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/metrics"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

var (
	// ErrNotFound is returned for a 404 from the API. It does not count
	// against the circuit breaker.
	ErrNotFound = errors.New("tmdb: not found")
	// ErrNoAPIKey is returned when the client was built without a key.
	ErrNoAPIKey = errors.New("tmdb: api key not configured")
)

const maxBodyBytes = 4 << 20

type Config struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	RatePerSec float64

	// FailureThreshold consecutive failures open the breaker for OpenTimeout.
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// Client is a rate limited TMDB API client guarded by a circuit breaker.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 4
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	burst := int(cfg.RatePerSec)
	if burst < 1 {
		burst = 1
	}

	threshold := cfg.FailureThreshold
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSec), burst),
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:        "tmdb",
			MaxRequests: 1,
			Timeout:     cfg.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
				metrics.BreakerState.WithLabelValues(name).Set(float64(to))
			},
		}),
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

func (c *Client) GetMovie(ctx context.Context, id int) (*MovieDetails, error) {
	var out MovieDetails
	if err := c.get(ctx, "/movie/"+strconv.Itoa(id), nil, &out); err != nil {
		return nil, fmt.Errorf("movie %d: %w", id, err)
	}
	return &out, nil
}

func (c *Client) GetCredits(ctx context.Context, id int) (*Credits, error) {
	var out Credits
	if err := c.get(ctx, "/movie/"+strconv.Itoa(id)+"/credits", nil, &out); err != nil {
		return nil, fmt.Errorf("credits %d: %w", id, err)
	}
	return &out, nil
}

func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*MoviePage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(max(page, 1)))

	var out MoviePage
	if err := c.get(ctx, "/search/movie", params, &out); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return &out, nil
}

func (c *Client) PopularMovies(ctx context.Context, page int) (*MoviePage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(max(page, 1)))

	var out MoviePage
	if err := c.get(ctx, "/movie/popular", params, &out); err != nil {
		return nil, fmt.Errorf("popular page %d: %w", page, err)
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if c.apiKey == "" {
		return ErrNoAPIKey
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	endpoint := c.baseURL + path + "?" + params.Encode()

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.fetch(ctx, endpoint)
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to unmarshal JSON response: %w", err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("TMDB API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
