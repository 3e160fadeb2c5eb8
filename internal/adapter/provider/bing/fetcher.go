// Package bing adapts the Bing dictionary web pages to the lookup pipeline.
// The fetcher knows the URL layout; the extractor knows the HTML layout.
// Nothing outside this package depends on either.
package bing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/heartmarshall/wordbook/internal/config"
	"github.com/heartmarshall/wordbook/internal/domain"
	"github.com/heartmarshall/wordbook/internal/provider"
)

const searchPath = "/dict/search"

// ErrBodyTooLarge is returned when a page exceeds the configured body cap.
// Truncated markup would extract as a silently incomplete entry.
var ErrBodyTooLarge = errors.New("bing: response body too large")

// Fetcher downloads the dictionary page for a word.
type Fetcher struct {
	baseURL    string
	userAgent  string
	retryDelay time.Duration
	maxBody    int64
	httpClient *http.Client
	log        *slog.Logger
}

// NewFetcher creates a Fetcher from DictionaryConfig.
func NewFetcher(cfg config.DictionaryConfig, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		retryDelay: cfg.RetryDelay,
		maxBody:    cfg.MaxBodyBytes,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "bing"),
	}
}

// Fetch issues one GET for word and returns the page markup.
// Transport failures (including the client timeout) come back as
// *domain.NetworkError, non-200 responses as *domain.HTTPStatusError.
func (f *Fetcher) Fetch(ctx context.Context, word string) (provider.Markup, error) {
	reqURL := f.baseURL + searchPath + "?q=" + url.QueryEscape(word)

	f.log.DebugContext(ctx, "bing request", slog.String("word", word))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("bing: create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.doWithRetry(ctx, req, word)
	if err != nil {
		f.log.ErrorContext(ctx, "bing request failed", slog.String("word", word), slog.String("error", err.Error()))
		return nil, fmt.Errorf("bing: fetch %q: %w", word, &domain.NetworkError{Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bing: fetch %q: %w", word, &domain.HTTPStatusError{StatusCode: resp.StatusCode})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("bing: read body: %w", &domain.NetworkError{Err: err})
	}
	if int64(len(body)) > f.maxBody {
		f.log.WarnContext(ctx, "bing response over size cap",
			slog.String("word", word),
			slog.Int64("max_bytes", f.maxBody),
		)
		return nil, fmt.Errorf("fetch %q: %w", word, ErrBodyTooLarge)
	}

	f.log.DebugContext(ctx, "bing response",
		slog.String("word", word),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)),
	)

	return provider.Markup(body), nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (f *Fetcher) doWithRetry(ctx context.Context, req *http.Request, word string) (*http.Response, error) {
	resp, err := f.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}

	// Don't retry if context is already cancelled.
	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	f.log.WarnContext(ctx, "bing retry", slog.String("word", word), slog.String("reason", reason))

	// Close body from the failed attempt before retrying.
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	timer := time.NewTimer(f.retryDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	return f.httpClient.Do(req)
}
