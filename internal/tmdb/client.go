// Package tmdb is the client for the external movie metadata service. It
// owns credentials, retries, rate limiting, and response caching; callers
// get plain search/details/credits lookups and see failures verbatim.
package tmdb

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/marco/movielog/internal/retry"
	"github.com/marco/movielog/internal/tmdb/cache"
)

const (
	apiBaseURL   = "https://api.themoviedb.org/3"
	imageBaseURL = "https://image.tmdb.org/t/p"
	posterSize   = "w500"
)

// Client is a TMDB API client.
type Client struct {
	apiKey         string
	language       string
	httpClient     *http.Client
	rateDelay      time.Duration
	maxAttempts    int
	initialBackoff time.Duration
	cache          cache.Cache
	cacheTTL       time.Duration
}

// ClientConfig holds configuration for the TMDB client.
type ClientConfig struct {
	APIKey           string
	Language         string
	RateLimitDelayMs int
	MaxAttempts      int
	InitialBackoffMs int
	Cache            cache.Cache
	CacheTTLDays     int
}

// NewClient creates a TMDB client, filling unset options with defaults.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Language == "" {
		cfg.Language = "en-US"
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialBackoffMs <= 0 {
		cfg.InitialBackoffMs = 1000
	}
	if cfg.CacheTTLDays <= 0 {
		cfg.CacheTTLDays = 30
	}
	return &Client{
		apiKey:         cfg.APIKey,
		language:       cfg.Language,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		rateDelay:      time.Duration(cfg.RateLimitDelayMs) * time.Millisecond,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: time.Duration(cfg.InitialBackoffMs) * time.Millisecond,
		cache:          cfg.Cache,
		cacheTTL:       time.Duration(cfg.CacheTTLDays) * 24 * time.Hour,
	}
}

// PosterURL returns the full image URL for a TMDB poster path, or "" when
// the movie has no poster.
func PosterURL(posterPath string) string {
	if posterPath == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s%s", imageBaseURL, posterSize, posterPath)
}

// SearchMovies searches by title and returns all candidates on the first
// results page, preserving the service's own relevance ranking. A year of
// 0 leaves the search unconstrained.
func (c *Client) SearchMovies(title string, year int) ([]Movie, error) {
	cacheKey := fmt.Sprintf("tmdb:search:%s:%d", title, year)
	if data, found := c.getFromCache(cacheKey); found {
		var cached []Movie
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("query", title)
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}
	params.Set("language", c.language)
	params.Set("page", "1")

	var resp searchResponse
	searchURL := fmt.Sprintf("%s/search/movie?%s", apiBaseURL, params.Encode())
	if err := c.getJSON(searchURL, &resp); err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}

	if data, err := json.Marshal(resp.Results); err == nil {
		c.setToCache(cacheKey, data)
	}
	time.Sleep(c.rateDelay)

	return resp.Results, nil
}

// MovieDetails fetches detailed information about a movie by TMDB id.
func (c *Client) MovieDetails(tmdbID int) (*MovieDetails, error) {
	cacheKey := fmt.Sprintf("tmdb:movie:%d", tmdbID)
	if data, found := c.getFromCache(cacheKey); found {
		var cached MovieDetails
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)

	var details MovieDetails
	detailsURL := fmt.Sprintf("%s/movie/%d?%s", apiBaseURL, tmdbID, params.Encode())
	if err := c.getJSON(detailsURL, &details); err != nil {
		return nil, fmt.Errorf("failed to get movie details: %w", err)
	}

	if data, err := json.Marshal(details); err == nil {
		c.setToCache(cacheKey, data)
	}
	time.Sleep(c.rateDelay)

	return &details, nil
}

// MovieCredits fetches cast and crew for a movie by TMDB id.
func (c *Client) MovieCredits(tmdbID int) (*Credits, error) {
	cacheKey := fmt.Sprintf("tmdb:credits:%d", tmdbID)
	if data, found := c.getFromCache(cacheKey); found {
		var cached Credits
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)

	var credits Credits
	creditsURL := fmt.Sprintf("%s/movie/%d/credits?%s", apiBaseURL, tmdbID, params.Encode())
	if err := c.getJSON(creditsURL, &credits); err != nil {
		return nil, fmt.Errorf("failed to get movie credits: %w", err)
	}

	if data, err := json.Marshal(credits); err == nil {
		c.setToCache(cacheKey, data)
	}
	time.Sleep(c.rateDelay)

	return &credits, nil
}

// getJSON performs a GET with retry and decodes the response body.
func (c *Client) getJSON(requestURL string, out any) error {
	resp, err := c.doRequestWithRetry(requestURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("TMDB API error (status %d): %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// doRequestWithRetry executes an HTTP GET, retrying transient failures and
// rate limits with exponential backoff.
func (c *Client) doRequestWithRetry(requestURL string) (*http.Response, error) {
	var resp *http.Response
	var lastErr error

	err := retry.Retry(func() error {
		var reqErr error
		resp, reqErr = c.httpClient.Get(requestURL)
		if reqErr != nil {
			lastErr = reqErr
			return reqErr
		}

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			statusErr := fmt.Errorf("TMDB API error (status %d): %s", resp.StatusCode, string(body))
			lastErr = statusErr
			return statusErr
		}
		return nil
	}, c.maxAttempts, c.initialBackoff)

	if err != nil {
		return nil, lastErr
	}
	return resp, nil
}

func (c *Client) getFromCache(key string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	return c.cache.Get(key)
}

func (c *Client) setToCache(key string, data []byte) {
	if c.cache == nil {
		return
	}
	// Cache failures never fail the lookup itself.
	_ = c.cache.Set(key, data, c.cacheTTL)
}
