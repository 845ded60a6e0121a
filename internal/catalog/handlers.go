package catalog

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nutrihaven/storefront/internal/common"
)

// Handler exposes public catalog endpoints over a static product set.
type Handler struct {
	Catalog []Product
}

// NewHandler constructs a Handler serving the provided catalog.
func NewHandler(catalog []Product) *Handler {
	return &Handler{Catalog: catalog}
}

// Categories handles GET /api/v1/categories.
func (h *Handler) Categories(w http.ResponseWriter, _ *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{"data": Categories()})
}

// Products handles GET /api/v1/products with filtering and sorting.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	spec, err := ParseFilterSpec(r.URL.Query())
	if err != nil {
		h.writeError(w, err)
		return
	}
	items := Filter(h.Catalog, spec)
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       items,
		"pagination": common.Pagination{Page: 1, PerPage: len(items), TotalItems: len(items)},
	})
}

// ProductDetail handles GET /api/v1/products/{id}.
func (h *Handler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	product, ok := ByID(h.Catalog, id)
	if !ok {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": product})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		code := appErr.Code
		if code == "" {
			code = "INTERNAL"
		}
		common.JSONError(w, status, code, appErr.Message, appErr.Details)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
}
