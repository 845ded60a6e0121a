package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nutrihaven/storefront/internal/common"
)

// Handler wires the checkout flow to HTTP.
type Handler struct {
	Flow *Flow
}

// Begin starts the wizard at the shipping step.
func (h *Handler) Begin(w http.ResponseWriter, r *http.Request) {
	if h.Flow == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout flow not configured", nil)
		return
	}
	st, err := h.Flow.Begin(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": st})
}

// Current returns the wizard snapshot.
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	if h.Flow == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout flow not configured", nil)
		return
	}
	st, err := h.Flow.Current(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": st})
}

// Shipping submits the shipping form.
func (h *Handler) Shipping(w http.ResponseWriter, r *http.Request) {
	if h.Flow == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout flow not configured", nil)
		return
	}
	var in ShippingInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	st, err := h.Flow.SubmitShipping(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": st})
}

// Payment submits the payment form.
func (h *Handler) Payment(w http.ResponseWriter, r *http.Request) {
	if h.Flow == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout flow not configured", nil)
		return
	}
	var in PaymentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	st, err := h.Flow.SubmitPayment(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": st})
}

// Back steps the wizard backward.
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	if h.Flow == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout flow not configured", nil)
		return
	}
	st, err := h.Flow.Back(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": st})
}

// Submit places the order from the review step.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if h.Flow == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout flow not configured", nil)
		return
	}
	st, err := h.Flow.Submit(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": st})
}

// Cancel abandons the in-progress checkout.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	if h.Flow == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout flow not configured", nil)
		return
	}
	if err := h.Flow.Cancel(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusNoContent, nil)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if err == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unknown error", nil)
		return
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "form validation failed", validationErr.Fields)
		return
	}
	switch {
	case errors.Is(err, ErrNoCheckout):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, ErrEmptyCart):
		common.JSONError(w, http.StatusConflict, "EMPTY_CART", err.Error(), nil)
	case errors.Is(err, ErrAuthRequired):
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error(), nil)
	case errors.Is(err, ErrWrongStep):
		common.JSONError(w, http.StatusConflict, "WRONG_STEP", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
	}
}
