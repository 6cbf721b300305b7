package driven

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/balkantv/panelworker/internal/cachestore"
	"github.com/balkantv/panelworker/internal/request"
)

// NetworkHTTPFetcher implements the NetworkFetcher port using a plain
// HTTP client. The whole response is read into a snapshot so the
// caller can clone it for dual use.
type NetworkHTTPFetcher struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewNetworkHTTPFetcher creates a new HTTP fetcher. A zero timeout
// means no client-side timeout: a hung fetch then blocks only the
// event that issued it.
func NewNetworkHTTPFetcher(timeout time.Duration, logger *slog.Logger) *NetworkHTTPFetcher {
	return &NetworkHTTPFetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch performs the network fetch and captures the response as a
// snapshot. Non-2xx statuses are returned in the snapshot, not as
// errors; an error means the fetch itself failed.
func (f *NetworkHTTPFetcher) Fetch(ctx context.Context, req request.FetchRequest) (cachestore.Snapshot, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method(), req.URL(), nil)
	if err != nil {
		return cachestore.Snapshot{}, fmt.Errorf("failed to create fetch request: %w", err)
	}

	resp, err := f.httpClient.Do(httpReq)
	if err != nil {
		f.logger.Debug("network fetch failed", "method", req.Method(), "url", req.URL(), "error", err)
		return cachestore.Snapshot{}, fmt.Errorf("network fetch failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return cachestore.Snapshot{}, fmt.Errorf("failed to read fetch response body: %w", err)
	}

	f.logger.Debug("network fetch completed", "method", req.Method(), "url", req.URL(), "status", resp.StatusCode, "bytes", len(body))

	return cachestore.NewSnapshot(resp.StatusCode, resp.Header, body), nil
}
