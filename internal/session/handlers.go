package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nutrihaven/storefront/internal/common"
)

// Handler wires the session manager to HTTP.
type Handler struct {
	Manager *Manager
}

// Login signs in with a display name. No credentials are checked; this
// storefront's account area is a demonstration surface.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.Manager == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "session manager not configured", nil)
		return
	}
	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.Manager.Login(r.Context(), payload.Name); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{"loggedIn": true, "name": payload.Name},
	})
}

// Logout signs the customer out.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.Manager == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "session manager not configured", nil)
		return
	}
	if err := h.Manager.Logout(r.Context()); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{"loggedIn": false},
	})
}

// Me reports the current session.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	if h.Manager == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "session manager not configured", nil)
		return
	}
	name, err := h.Manager.UserName(r.Context())
	if err != nil {
		if errors.Is(err, ErrNotLoggedIn) {
			common.JSON(w, http.StatusOK, map[string]any{
				"data": map[string]any{"loggedIn": false},
			})
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{"loggedIn": true, "name": name},
	})
}
