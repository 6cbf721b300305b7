package driver

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/balkantv/panelworker/internal/application"
	"github.com/balkantv/panelworker/internal/cachestore"
	"github.com/balkantv/panelworker/internal/port/driven"
	"github.com/balkantv/panelworker/internal/request"
)

// GatewayHTTPHandler is the interception surface: every panel request
// not claimed by the API routes lands here, gets modeled as a fetch
// and handed to the dispatcher. Until the lifecycle reaches active the
// handler passes traffic straight through to the origin.
type GatewayHTTPHandler struct {
	origin    string
	dispatch  *application.DispatchService
	lifecycle *application.LifecycleService
	fetcher   driven.NetworkFetcher
	logger    *slog.Logger
}

// NewGatewayHTTPHandler creates the interception handler. origin is
// the panel origin relative request paths resolve against.
func NewGatewayHTTPHandler(
	origin string,
	dispatch *application.DispatchService,
	lifecycle *application.LifecycleService,
	fetcher driven.NetworkFetcher,
	logger *slog.Logger,
) *GatewayHTTPHandler {
	return &GatewayHTTPHandler{
		origin:    strings.TrimSuffix(origin, "/"),
		dispatch:  dispatch,
		lifecycle: lifecycle,
		fetcher:   fetcher,
		logger:    logger,
	}
}

// ServeHTTP models the incoming request as an intercepted fetch and
// writes the resolved snapshot back.
func (h *GatewayHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := h.fetchRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request URL")
		return
	}

	var snap cachestore.Snapshot
	if h.lifecycle.State() != application.StateActive {
		// Not yet in control of the page: plain pass-through.
		snap, err = h.fetcher.Fetch(r.Context(), req)
	} else {
		snap, err = h.dispatch.Dispatch(r.Context(), req)
	}
	if err != nil {
		h.logger.Warn("fetch could not be resolved", "url", req.URL(), "error", err)
		writeError(w, http.StatusBadGateway, "upstream unreachable")
		return
	}

	writeSnapshot(w, snap)
}

// fetchRequest builds the intercepted fetch from the incoming request.
// An absolute-form request URL is used as-is; the usual origin-form
// path is resolved against the panel origin.
func (h *GatewayHTTPHandler) fetchRequest(r *http.Request) (request.FetchRequest, error) {
	target := r.URL.String()
	if !r.URL.IsAbs() {
		target = h.origin + r.URL.RequestURI()
	}
	return request.NewFetchRequest(r.Method, target, isNavigation(r))
}

// isNavigation reports whether the request is a page navigation rather
// than a subresource load. Browsers mark navigations with
// Sec-Fetch-Mode; an HTML Accept header is the fallback signal.
func isNavigation(r *http.Request) bool {
	if mode := r.Header.Get("Sec-Fetch-Mode"); mode != "" {
		return mode == "navigate"
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// writeSnapshot replays a stored or fetched response.
func writeSnapshot(w http.ResponseWriter, snap cachestore.Snapshot) {
	header := w.Header()
	for key, values := range snap.Header() {
		for _, value := range values {
			header.Add(key, value)
		}
	}
	w.WriteHeader(snap.StatusCode())
	_, _ = w.Write(snap.Body())
}
