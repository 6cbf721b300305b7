package driver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/balkantv/panelworker/internal/admin"
	"github.com/balkantv/panelworker/internal/application"
)

// AdminHTTPHandler handles administrator verification and session
// management.
type AdminHTTPHandler struct {
	service *application.AdminService
}

// NewAdminHTTPHandler creates a new HTTP handler for admin sessions.
func NewAdminHTTPHandler(service *application.AdminService) *AdminHTTPHandler {
	return &AdminHTTPHandler{service: service}
}

// loginRequest represents the JSON body for admin verification.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// sessionResponse represents a session token in JSON format.
type sessionResponse struct {
	Token   string `json:"token"`
	IsAdmin bool   `json:"is_admin"`
}

// statusResponse represents the admin status in JSON format.
type statusResponse struct {
	IsAdmin bool `json:"is_admin"`
}

// ServeHTTP routes the request to the appropriate handler based on method and path.
func (h *AdminHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/admin/login":
		h.handleLogin(w, r)
	case r.Method == http.MethodGet && r.URL.Path == "/api/admin/status":
		h.handleStatus(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/api/admin/logout":
		h.handleLogout(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleLogin handles POST /api/admin/login
func (h *AdminHTTPHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.service.VerifyAdmin(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, admin.ErrInvalidArgument):
			writeError(w, http.StatusBadRequest, "username and password are required")
		case errors.Is(err, admin.ErrNotFound):
			writeError(w, http.StatusNotFound, "no administrator is configured")
		case errors.Is(err, admin.ErrPermissionDenied):
			writeError(w, http.StatusForbidden, "invalid credentials")
		default:
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{Token: token, IsAdmin: true})
}

// handleStatus handles GET /api/admin/status
func (h *AdminHTTPHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	isAdmin, err := h.service.IsAdmin(bearerToken(r))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid session")
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{IsAdmin: isAdmin})
}

// handleLogout handles POST /api/admin/logout
func (h *AdminHTTPHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	token, err := h.service.Logout(bearerToken(r))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid session")
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{Token: token, IsAdmin: false})
}
