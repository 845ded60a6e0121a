package subscription

import (
	"net/http"

	"github.com/nutrihaven/storefront/internal/common"
)

// Plan is a recurring snack-box subscription tier.
type Plan struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	PricePerWeek float64  `json:"pricePerWeek"`
	Description  string   `json:"description"`
	Features     []string `json:"features"`
	Popular      bool     `json:"popular,omitempty"`
}

// Plans returns the subscription tiers in display order.
func Plans() []Plan {
	return []Plan{
		{
			ID:           "basic",
			Name:         "Basic Box",
			PricePerWeek: 2.46,
			Description:  "A light weekly taste of our bestsellers.",
			Features:     []string{"2 snack packs per week", "Standard delivery", "Pause anytime"},
		},
		{
			ID:           "standard",
			Name:         "Standard Box",
			PricePerWeek: 6.50,
			Description:  "Our most popular mix of nuts, fruits and berries.",
			Features:     []string{"5 snack packs per week", "Free delivery", "Swap items weekly", "Pause anytime"},
			Popular:      true,
		},
		{
			ID:           "premium",
			Name:         "Premium Box",
			PricePerWeek: 12.99,
			Description:  "The full pantry: every category, first access to new arrivals.",
			Features:     []string{"10 snack packs per week", "Free priority delivery", "Early access to new products", "Exclusive seasonal mixes"},
		},
	}
}

// ByID finds a plan.
func ByID(id string) (Plan, bool) {
	for _, p := range Plans() {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// Handler serves the subscription tiers.
type Handler struct{}

// List returns all plans.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{"data": Plans()})
}
