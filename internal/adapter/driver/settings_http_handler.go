package driver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/balkantv/panelworker/internal/admin"
	"github.com/balkantv/panelworker/internal/application"
	"github.com/balkantv/panelworker/internal/settings"
)

// SettingsHTTPHandler handles payment-gateway settings reads and
// writes. Reads only ever return the masked projection.
type SettingsHTTPHandler struct {
	service *application.SettingsService
}

// NewSettingsHTTPHandler creates a new HTTP handler for gateway settings.
func NewSettingsHTTPHandler(service *application.SettingsService) *SettingsHTTPHandler {
	return &SettingsHTTPHandler{service: service}
}

// gatewayRequest represents the JSON body for saving gateway settings.
type gatewayRequest struct {
	APIKey      string `json:"api_key"`
	SecretKey   string `json:"secret_key"`
	CallbackURL string `json:"callback_url"`
	Mode        string `json:"mode"`
	Enabled     bool   `json:"enabled"`
}

// gatewayResponse represents the masked gateway settings in JSON format.
type gatewayResponse struct {
	APIKey      string `json:"api_key"`
	SecretKey   string `json:"secret_key"`
	CallbackURL string `json:"callback_url"`
	Mode        string `json:"mode"`
	Enabled     bool   `json:"enabled"`
	HasKeys     bool   `json:"has_keys"`
}

// ServeHTTP routes the request to the appropriate handler based on method.
func (h *SettingsHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/settings/gateway" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodPut:
		h.handleSave(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleGet handles GET /api/settings/gateway
func (h *SettingsHTTPHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	masked, err := h.service.GetGateway(r.Context(), bearerToken(r))
	if err != nil {
		switch {
		case errors.Is(err, admin.ErrUnauthenticated):
			writeError(w, http.StatusUnauthorized, "invalid session")
		case errors.Is(err, admin.ErrPermissionDenied):
			writeError(w, http.StatusForbidden, "admin privileges required")
		case errors.Is(err, settings.ErrSettingsNotFound):
			writeError(w, http.StatusNotFound, settings.ErrSettingsNotFound.Error())
		default:
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, gatewayResponse{
		APIKey:      masked.APIKey,
		SecretKey:   masked.SecretKey,
		CallbackURL: masked.CallbackURL,
		Mode:        masked.Mode,
		Enabled:     masked.Enabled,
		HasKeys:     masked.HasKeys,
	})
}

// handleSave handles PUT /api/settings/gateway
func (h *SettingsHTTPHandler) handleSave(w http.ResponseWriter, r *http.Request) {
	var req gatewayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.service.SaveGateway(r.Context(), bearerToken(r), req.APIKey, req.SecretKey, req.CallbackURL, req.Mode, req.Enabled)
	if err != nil {
		switch {
		case errors.Is(err, admin.ErrUnauthenticated):
			writeError(w, http.StatusUnauthorized, "invalid session")
		case errors.Is(err, admin.ErrPermissionDenied):
			writeError(w, http.StatusForbidden, "admin privileges required")
		case errors.Is(err, settings.ErrMissingKeys):
			writeError(w, http.StatusBadRequest, settings.ErrMissingKeys.Error())
		case errors.Is(err, settings.ErrInvalidMode):
			writeError(w, http.StatusBadRequest, settings.ErrInvalidMode.Error())
		default:
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
