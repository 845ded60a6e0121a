package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nutrihaven/storefront/internal/catalog"
	"github.com/nutrihaven/storefront/internal/common"
	"github.com/nutrihaven/storefront/internal/events"
	"github.com/nutrihaven/storefront/internal/pricing"
)

// Handler wires the cart store to HTTP.
type Handler struct {
	Store   *Store
	Catalog []catalog.Product
	Rules   pricing.Rules
	Events  *events.Bus
}

// Get returns cart contents, the badge count and the pricing summary.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart store not configured", nil)
		return
	}
	h.writeCart(w, http.StatusOK)
}

// AddItem adds a product to the cart or increments its quantity.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart store not configured", nil)
		return
	}
	var payload struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
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
	item := Item{
		ID:            product.ID,
		Name:          product.Name,
		Price:         product.Price,
		DiscountPrice: product.DiscountPrice,
		Image:         product.Image,
		Quantity:      payload.Quantity,
	}
	if err := h.Store.Add(r.Context(), item); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeCart(w, http.StatusCreated)
}

// UpdateItem sets the quantity for a line item. Quantities below one leave
// the cart untouched.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart store not configured", nil)
		return
	}
	id := chi.URLParam(r, "id")
	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.Store.SetQuantity(r.Context(), id, payload.Quantity); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeCart(w, http.StatusOK)
}

// RemoveItem deletes a line item.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart store not configured", nil)
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.Store.Remove(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeCart(w, http.StatusOK)
}

// Clear empties the cart.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart store not configured", nil)
		return
	}
	if err := h.Store.Clear(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeCart(w, http.StatusOK)
}

// ApplyPromo validates a promo code against the pricing rules. A valid code
// sticks to the cart; an invalid one is rejected without touching the cart.
func (h *Handler) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart store not configured", nil)
		return
	}
	var payload struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	code := strings.TrimSpace(payload.Code)
	if code == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "code is required", nil)
		return
	}
	_, err := pricing.Compute(h.Store.PricingItems(), code, h.Rules)
	if errors.Is(err, pricing.ErrInvalidPromoCode) {
		h.emit(r, events.TopicPromoRejected, map[string]any{"code": code})
		common.JSONError(w, http.StatusUnprocessableEntity, "INVALID_PROMO", "promo code is not valid", map[string]any{"code": code})
		return
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.Store.SetPromo(code)
	h.emit(r, events.TopicPromoApplied, map[string]any{"code": code})
	h.writeCart(w, http.StatusOK)
}

// RemovePromo detaches the applied promo code.
func (h *Handler) RemovePromo(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart store not configured", nil)
		return
	}
	h.Store.SetPromo("")
	h.writeCart(w, http.StatusOK)
}

func (h *Handler) writeCart(w http.ResponseWriter, status int) {
	items := h.Store.List()
	totals, err := pricing.Compute(h.Store.PricingItems(), h.Store.Promo(), h.Rules)
	if err != nil && !errors.Is(err, pricing.ErrInvalidPromoCode) {
		h.writeError(w, err)
		return
	}
	common.JSON(w, status, map[string]any{
		"data": map[string]any{
			"items":   items,
			"count":   h.Store.Count(),
			"promo":   nullableString(h.Store.Promo()),
			"pricing": totals.Rounded(),
		},
	})
}

func (h *Handler) emit(r *http.Request, topic string, payload any) {
	if h.Events == nil {
		return
	}
	_, _ = h.Events.Emit(r.Context(), topic, payload)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if err == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unknown error", nil)
		return
	}
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusBadRequest
		}
		code := appErr.Code
		if code == "" {
			code = "BAD_REQUEST"
		}
		common.JSONError(w, status, code, appErr.Message, appErr.Details)
		return
	}
	switch {
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
	}
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
