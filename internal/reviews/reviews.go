package reviews

import (
	"net/http"

	"github.com/nutrihaven/storefront/internal/common"
)

// Testimonial is a customer quote shown on the home page carousel.
type Testimonial struct {
	Quote    string `json:"quote"`
	Author   string `json:"author"`
	Rating   int    `json:"rating"`
	Image    string `json:"image"`
	Location string `json:"location"`
}

// Testimonials returns the customer quotes in carousel order.
func Testimonials() []Testimonial {
	return []Testimonial{
		{
			Quote:    "The quality of these dry fruits is exceptional! I've been ordering for months and have never been disappointed.",
			Author:   "Sarah Johnson",
			Rating:   5,
			Image:    "https://api.dicebear.com/7.x/avataaars/svg?seed=sarah",
			Location: "New York",
		},
		{
			Quote:    "The subscription service is so convenient. Fresh dry fruits delivered right to my door exactly when I need them.",
			Author:   "Michael Chen",
			Rating:   5,
			Image:    "https://api.dicebear.com/7.x/avataaars/svg?seed=michael",
			Location: "San Francisco",
		},
		{
			Quote:    "I love the variety of products available. The mixed nut box is my favorite for healthy snacking throughout the week.",
			Author:   "Priya Patel",
			Rating:   4,
			Image:    "https://api.dicebear.com/7.x/avataaars/svg?seed=priya",
			Location: "Chicago",
		},
		{
			Quote:    "The packaging is eco-friendly and the fruits always arrive fresh. Highly recommend their premium dates!",
			Author:   "David Wilson",
			Rating:   5,
			Image:    "https://api.dicebear.com/7.x/avataaars/svg?seed=david",
			Location: "Austin",
		},
		{
			Quote:    "Customer service is outstanding. Had an issue with my order and they resolved it immediately with a bonus gift!",
			Author:   "Emma Rodriguez",
			Rating:   5,
			Image:    "https://api.dicebear.com/7.x/avataaars/svg?seed=emma",
			Location: "Miami",
		},
	}
}

// Handler serves the testimonials.
type Handler struct{}

// List returns all testimonials.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{"data": Testimonials()})
}
