package wishlist

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nutrihaven/storefront/internal/catalog"
	"github.com/nutrihaven/storefront/internal/common"
)

// Handler wires the wishlist store to HTTP.
type Handler struct {
	Store   *Store
	Catalog []catalog.Product
}

// List returns the saved products and the badge count.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "wishlist store not configured", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"items": h.Store.List(),
			"count": h.Store.Count(),
		},
	})
}

// Toggle flips a product's saved state and reports the new state.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "wishlist store not configured", nil)
		return
	}
	var payload struct {
		ProductID string `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	payload.ProductID = strings.TrimSpace(payload.ProductID)
	if payload.ProductID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "productId is required", nil)
		return
	}
	product, ok := catalog.ByID(h.Catalog, payload.ProductID)
	if !ok {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
		return
	}
	saved, err := h.Store.Toggle(r.Context(), itemFromProduct(product))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"saved": saved,
			"count": h.Store.Count(),
		},
	})
}

// Remove deletes a saved product.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "wishlist store not configured", nil)
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.Store.Remove(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	h.List(w, r)
}

// Clear empties the wishlist.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "wishlist store not configured", nil)
		return
	}
	if err := h.Store.Clear(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	h.List(w, r)
}

func itemFromProduct(p catalog.Product) Item {
	return Item{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		Image:         p.Image,
		Rating:        p.Rating,
		Category:      p.Category,
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
	}
}
