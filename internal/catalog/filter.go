package catalog

import (
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/nutrihaven/storefront/internal/common"
)

// Sort keys accepted by the listing endpoint.
const (
	SortFeatured  = "featured"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
)

// Price-range defaults match the storefront slider bounds.
const (
	DefaultMinPrice = 0
	DefaultMaxPrice = 30
)

// FilterSpec captures the listing filters. Zero values are no-ops except the
// price bounds, which always apply.
type FilterSpec struct {
	Query      string
	Categories []string
	MinPrice   float64
	MaxPrice   float64
	Sort       string
}

// DefaultFilterSpec returns a spec that passes the whole catalog through in
// featured order.
func DefaultFilterSpec() FilterSpec {
	return FilterSpec{MinPrice: DefaultMinPrice, MaxPrice: DefaultMaxPrice, Sort: SortFeatured}
}

// ParseFilterSpec normalises raw query values into a FilterSpec. Parameters:
// q, categories (comma-joined), sort, minPrice, maxPrice.
func ParseFilterSpec(values url.Values) (FilterSpec, error) {
	spec := DefaultFilterSpec()
	spec.Query = strings.TrimSpace(values.Get("q"))

	if raw := strings.TrimSpace(values.Get("categories")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				spec.Categories = append(spec.Categories, trimmed)
			}
		}
	}

	if v := strings.TrimSpace(values.Get("minPrice")); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 {
			return spec, badRequest("minPrice", "minPrice must be a non-negative number", err)
		}
		spec.MinPrice = parsed
	}
	if v := strings.TrimSpace(values.Get("maxPrice")); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 {
			return spec, badRequest("maxPrice", "maxPrice must be a non-negative number", err)
		}
		spec.MaxPrice = parsed
	}
	if spec.MinPrice > spec.MaxPrice {
		return spec, badRequest("price", "minPrice cannot be greater than maxPrice", nil)
	}

	spec.Sort = normalizeSort(values.Get("sort"))
	return spec, nil
}

// Filter applies the spec's stages in order: text match, category set, price
// range, then a stable sort. The input is never mutated; an empty result is a
// valid outcome.
func Filter(catalog []Product, spec FilterSpec) []Product {
	result := make([]Product, 0, len(catalog))

	query := strings.ToLower(strings.TrimSpace(spec.Query))
	categories := map[string]struct{}{}
	for _, c := range spec.Categories {
		categories[c] = struct{}{}
	}

	for _, p := range catalog {
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		if len(categories) > 0 {
			if _, ok := categories[p.Category]; !ok {
				continue
			}
		}
		price := p.EffectivePrice()
		if price < spec.MinPrice || price > spec.MaxPrice {
			continue
		}
		result = append(result, p)
	}

	switch spec.Sort {
	case SortPriceLow:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].EffectivePrice() < result[j].EffectivePrice()
		})
	case SortPriceHigh:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].EffectivePrice() > result[j].EffectivePrice()
		})
	case SortRating:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Rating > result[j].Rating
		})
	default: // featured: featured items first, catalog order within groups
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].IsFeatured && !result[j].IsFeatured
		})
	}
	return result
}

func normalizeSort(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case SortPriceLow:
		return SortPriceLow
	case SortPriceHigh:
		return SortPriceHigh
	case SortRating:
		return SortRating
	default:
		return SortFeatured
	}
}

func badRequest(field, message string, err error) *common.AppError {
	return &common.AppError{
		Code:       "BAD_REQUEST",
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
		Details: map[string]any{
			"field": field,
		},
	}
}
