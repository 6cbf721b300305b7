package driver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/balkantv/panelworker/internal/admin"
	"github.com/balkantv/panelworker/internal/application"
	"github.com/balkantv/panelworker/internal/subscription"
)

// SubscriptionHTTPHandler handles HTTP requests for subscription management.
type SubscriptionHTTPHandler struct {
	service *application.SubscriptionService
}

// NewSubscriptionHTTPHandler creates a new HTTP handler for subscriptions.
func NewSubscriptionHTTPHandler(service *application.SubscriptionService) *SubscriptionHTTPHandler {
	return &SubscriptionHTTPHandler{service: service}
}

// subscribeRequest represents the JSON body for creating a subscription.
type subscribeRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	ExpiresOn string `json:"expires_on"`
}

// renewRequest represents the JSON body for renewing a subscription.
type renewRequest struct {
	ExpiresOn string `json:"expires_on"`
}

// subscriptionResponse represents a subscription in JSON format.
type subscriptionResponse struct {
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	ExpiresOn string `json:"expires_on,omitempty"`
}

func toSubscriptionResponse(sub subscription.Subscription) subscriptionResponse {
	return subscriptionResponse{
		Username:  sub.Username(),
		Email:     sub.Email(),
		ExpiresOn: sub.ExpiresOn(),
	}
}

// writeSubscriptionError maps service failures to HTTP status codes.
func writeSubscriptionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, admin.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "invalid session")
	case errors.Is(err, admin.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, "admin privileges required")
	case errors.Is(err, subscription.ErrEmptyUsername):
		writeError(w, http.StatusBadRequest, subscription.ErrEmptyUsername.Error())
	case errors.Is(err, subscription.ErrInvalidExpiryDate):
		writeError(w, http.StatusBadRequest, subscription.ErrInvalidExpiryDate.Error())
	case errors.Is(err, subscription.ErrSubscriptionAlreadyExists):
		writeError(w, http.StatusConflict, subscription.ErrSubscriptionAlreadyExists.Error())
	case errors.Is(err, subscription.ErrSubscriptionNotFound):
		writeError(w, http.StatusNotFound, subscription.ErrSubscriptionNotFound.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// ServeHTTP routes the request to the appropriate handler based on method and path.
func (h *SubscriptionHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/subscriptions")

	// POST /api/subscriptions - create a subscription
	if r.Method == http.MethodPost && path == "" {
		h.handleSubscribe(w, r)
		return
	}

	// GET /api/subscriptions - list subscriptions
	if r.Method == http.MethodGet && path == "" {
		h.handleList(w, r)
		return
	}

	username := strings.TrimPrefix(path, "/")
	if username == "" {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r, username)
	case http.MethodPut:
		h.handleRenew(w, r, username)
	case http.MethodDelete:
		h.handleUnsubscribe(w, r, username)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleSubscribe handles POST /api/subscriptions
func (h *SubscriptionHTTPHandler) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token := bearerToken(r)
	if err := h.service.Subscribe(r.Context(), token, req.Username, req.Email, req.ExpiresOn); err != nil {
		writeSubscriptionError(w, err)
		return
	}

	sub, err := h.service.GetSubscription(r.Context(), token, req.Username)
	if err != nil {
		writeSubscriptionError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSubscriptionResponse(sub))
}

// handleList handles GET /api/subscriptions
func (h *SubscriptionHTTPHandler) handleList(w http.ResponseWriter, r *http.Request) {
	subscriptions, err := h.service.ListSubscriptions(r.Context(), bearerToken(r))
	if err != nil {
		writeSubscriptionError(w, err)
		return
	}

	response := make([]subscriptionResponse, len(subscriptions))
	for i, sub := range subscriptions {
		response[i] = toSubscriptionResponse(sub)
	}

	writeJSON(w, http.StatusOK, response)
}

// handleGet handles GET /api/subscriptions/{username}
func (h *SubscriptionHTTPHandler) handleGet(w http.ResponseWriter, r *http.Request, username string) {
	sub, err := h.service.GetSubscription(r.Context(), bearerToken(r), username)
	if err != nil {
		writeSubscriptionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSubscriptionResponse(sub))
}

// handleRenew handles PUT /api/subscriptions/{username}
func (h *SubscriptionHTTPHandler) handleRenew(w http.ResponseWriter, r *http.Request, username string) {
	var req renewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token := bearerToken(r)
	if err := h.service.Renew(r.Context(), token, username, req.ExpiresOn); err != nil {
		writeSubscriptionError(w, err)
		return
	}

	sub, err := h.service.GetSubscription(r.Context(), token, username)
	if err != nil {
		writeSubscriptionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSubscriptionResponse(sub))
}

// handleUnsubscribe handles DELETE /api/subscriptions/{username}
func (h *SubscriptionHTTPHandler) handleUnsubscribe(w http.ResponseWriter, r *http.Request, username string) {
	if err := h.service.Unsubscribe(r.Context(), bearerToken(r), username); err != nil {
		writeSubscriptionError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
