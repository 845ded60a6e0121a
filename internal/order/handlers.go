package order

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nutrihaven/storefront/internal/common"
)

// Handler wires the order history to HTTP.
type Handler struct {
	Store *Store
}

// List returns the order history, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "order store not configured", nil)
		return
	}
	if !requireLogin(w, r) {
		return
	}
	orders := h.Store.List()
	page, perPage := common.ParsePagination(r, 10)
	start := (page - 1) * perPage
	if start > len(orders) {
		start = len(orders)
	}
	end := start + perPage
	if end > len(orders) {
		end = len(orders)
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"orders": orders[start:end],
			"pagination": common.Pagination{
				Page:       page,
				PerPage:    perPage,
				TotalItems: len(orders),
			},
		},
	})
}

// Get returns a single order by its display number.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "order store not configured", nil)
		return
	}
	if !requireLogin(w, r) {
		return
	}
	id := chi.URLParam(r, "id")
	o, err := h.Store.Get(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": o})
}

func requireLogin(w http.ResponseWriter, r *http.Request) bool {
	if _, ok := common.UserID(r.Context()); !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return false
	}
	return true
}
