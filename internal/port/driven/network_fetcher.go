package driven

import (
	"context"

	"github.com/balkantv/panelworker/internal/cachestore"
	"github.com/balkantv/panelworker/internal/request"
)

// NetworkFetcher is the driven port for performing the actual network
// fetch of an intercepted request. The response is captured as a
// snapshot so callers can clone it for dual use (store + return).
//
// A non-2xx response is not an error: the snapshot carries whatever
// status the origin returned. An error means the fetch itself failed
// (unreachable host, timeout, cancelled context).
type NetworkFetcher interface {
	Fetch(ctx context.Context, req request.FetchRequest) (cachestore.Snapshot, error)
}
