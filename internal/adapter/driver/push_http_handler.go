package driver

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/balkantv/panelworker/internal/application"
	"github.com/balkantv/panelworker/internal/notification"
)

// maxPushPayload caps inbound push payloads. Push services enforce a
// 4 KB limit, so anything larger is garbage.
const maxPushPayload = 8 * 1024

// notificationViewer lists the currently visible notifications. The
// in-memory presenter implements it.
type notificationViewer interface {
	Visible(ctx context.Context) ([]notification.Notification, error)
}

// PushHTTPHandler handles inbound push messages and the notification
// endpoints panel clients poll.
type PushHTTPHandler struct {
	service *application.PushService
	viewer  notificationViewer
}

// NewPushHTTPHandler creates a new HTTP handler for push delivery.
func NewPushHTTPHandler(service *application.PushService, viewer notificationViewer) *PushHTTPHandler {
	return &PushHTTPHandler{service: service, viewer: viewer}
}

// notificationResponse represents a visible notification in JSON format.
type notificationResponse struct {
	ID         string                `json:"id"`
	Title      string                `json:"title"`
	Body       string                `json:"body"`
	Icon       string                `json:"icon,omitempty"`
	Badge      string                `json:"badge,omitempty"`
	Tag        string                `json:"tag,omitempty"`
	Vibration  []int                 `json:"vibration,omitempty"`
	URL        string                `json:"url,omitempty"`
	Actions    []notification.Action `json:"actions,omitempty"`
	ReceivedAt string                `json:"received_at"`
}

func toNotificationResponse(n notification.Notification) notificationResponse {
	return notificationResponse{
		ID:         n.ID,
		Title:      n.Title,
		Body:       n.Body,
		Icon:       n.Icon,
		Badge:      n.Badge,
		Tag:        n.Tag,
		Vibration:  n.Vibration,
		URL:        n.URL,
		Actions:    n.Actions,
		ReceivedAt: n.ReceivedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// ServeHTTP routes the request to the appropriate handler based on method and path.
func (h *PushHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// POST /api/push - inbound push message
	if r.Method == http.MethodPost && r.URL.Path == "/api/push" {
		h.handlePush(w, r)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/notifications")

	// GET /api/notifications - list visible notifications
	if r.Method == http.MethodGet && path == "" {
		h.handleList(w, r)
		return
	}

	// POST /api/notifications/{id}/click - notification click
	if r.Method == http.MethodPost && strings.HasSuffix(path, "/click") {
		id := strings.TrimSuffix(strings.TrimPrefix(path, "/"), "/click")
		h.handleClick(w, r, id)
		return
	}

	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// handlePush handles POST /api/push
func (h *PushHTTPHandler) handlePush(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxPushPayload))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read payload")
		return
	}

	n, err := h.service.HandlePush(r.Context(), raw)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toNotificationResponse(n))
}

// handleList handles GET /api/notifications
func (h *PushHTTPHandler) handleList(w http.ResponseWriter, r *http.Request) {
	visible, err := h.viewer.Visible(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	response := make([]notificationResponse, len(visible))
	for i, n := range visible {
		response[i] = toNotificationResponse(n)
	}

	writeJSON(w, http.StatusOK, response)
}

// handleClick handles POST /api/notifications/{id}/click
func (h *PushHTTPHandler) handleClick(w http.ResponseWriter, r *http.Request, id string) {
	if id == "" {
		writeError(w, http.StatusBadRequest, "notification id is required")
		return
	}

	if err := h.service.HandleClick(r.Context(), id); err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			writeError(w, http.StatusNotFound, notification.ErrNotificationNotFound.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
