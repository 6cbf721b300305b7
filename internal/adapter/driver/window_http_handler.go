package driver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/balkantv/panelworker/internal/notification"
)

// windowRegistrar is the client-facing half of the window registry:
// panel windows announce themselves on load and retract on unload.
type windowRegistrar interface {
	Register(ctx context.Context, w notification.Window) (notification.Window, error)
	Unregister(ctx context.Context, id string) error
	List(ctx context.Context) ([]notification.Window, error)
}

// WindowHTTPHandler handles window registration for panel clients.
type WindowHTTPHandler struct {
	registry windowRegistrar
}

// NewWindowHTTPHandler creates a new HTTP handler for window registration.
func NewWindowHTTPHandler(registry windowRegistrar) *WindowHTTPHandler {
	return &WindowHTTPHandler{registry: registry}
}

// registerWindowRequest represents the JSON body for registering a window.
type registerWindowRequest struct {
	URL string `json:"url"`
}

// windowResponse represents a window in JSON format.
type windowResponse struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	Controlled bool   `json:"controlled"`
}

// ServeHTTP routes the request to the appropriate handler based on method and path.
func (h *WindowHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/windows")

	// POST /api/windows - register an open window
	if r.Method == http.MethodPost && path == "" {
		h.handleRegister(w, r)
		return
	}

	// GET /api/windows - list open windows
	if r.Method == http.MethodGet && path == "" {
		h.handleList(w, r)
		return
	}

	// DELETE /api/windows/{id} - unregister a window
	if r.Method == http.MethodDelete && path != "" {
		id := strings.TrimPrefix(path, "/")
		h.handleUnregister(w, r, id)
		return
	}

	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// handleRegister handles POST /api/windows
func (h *WindowHTTPHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerWindowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "window url is required")
		return
	}

	win, err := h.registry.Register(r.Context(), notification.Window{URL: req.URL})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, windowResponse{
		ID:         win.ID,
		URL:        win.URL,
		Controlled: win.Controlled,
	})
}

// handleList handles GET /api/windows
func (h *WindowHTTPHandler) handleList(w http.ResponseWriter, r *http.Request) {
	windows, err := h.registry.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	response := make([]windowResponse, len(windows))
	for i, win := range windows {
		response[i] = windowResponse{
			ID:         win.ID,
			URL:        win.URL,
			Controlled: win.Controlled,
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// handleUnregister handles DELETE /api/windows/{id}
func (h *WindowHTTPHandler) handleUnregister(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.registry.Unregister(r.Context(), id); err != nil {
		if errors.Is(err, notification.ErrWindowNotFound) {
			writeError(w, http.StatusNotFound, notification.ErrWindowNotFound.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
