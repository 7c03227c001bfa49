package importer

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"catalog/manager/internal/config"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// Fetcher loads the raw HTML of a source, either a local path or an http(s) URL
type Fetcher interface {
	Fetch(ctx context.Context, source string) (string, error)
	Close() error
}

type fetcher struct {
	rl         ratelimit.Limiter
	httpClient *resty.Client
}

func NewFetcher(cfg config.ImportConfig) Fetcher {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	return &fetcher{
		rl:         rl,
		httpClient: client,
	}
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func (f *fetcher) Fetch(ctx context.Context, source string) (string, error) {
	if !isRemote(source) {
		data, err := os.ReadFile(strings.TrimPrefix(source, "file://"))
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", source, err)
		}
		return string(data), nil
	}

	f.rl.Take()

	resp, err := f.httpClient.R().
		SetContext(ctx).
		Get(source)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return "", fmt.Errorf("failed to fetch %s: %w", source, err)
	}

	if resp.IsError() {
		return "", fmt.Errorf("HTTP error fetching %s: %d %s", source, resp.StatusCode(), resp.Status())
	}

	log.Debugf("Fetched %s (%d bytes)", source, len(resp.String()))
	return resp.String(), nil
}

func (f *fetcher) Close() error {
	return f.httpClient.Close()
}
