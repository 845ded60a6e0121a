package catalog

// Product is an immutable catalog entry created at seed time.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	DiscountPrice *float64 `json:"discountPrice,omitempty"`
	Image         string   `json:"image"`
	Rating        float64  `json:"rating"`
	IsNew         bool     `json:"isNew,omitempty"`
	IsFeatured    bool     `json:"isFeatured,omitempty"`
	Category      string   `json:"category"`
}

// EffectivePrice returns the discounted price when present.
func (p Product) EffectivePrice() float64 {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// Category is a filterable product group.
type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Categories returns the known product categories in display order.
func Categories() []Category {
	return []Category{
		{ID: "nuts", Label: "Nuts"},
		{ID: "fruits", Label: "Dried Fruits"},
		{ID: "berries", Label: "Berries"},
	}
}

func price(v float64) *float64 { return &v }

// Seed returns the static product catalog. Order here is the canonical
// catalog order that stable sorts must preserve.
func Seed() []Product {
	return []Product{
		{ID: "1", Name: "Premium Cashews", Price: 24.99, DiscountPrice: price(19.99), Image: "https://images.unsplash.com/photo-1563292769-4e05b684851a?w=400&q=80", Rating: 4.8, IsFeatured: true, Category: "nuts"},
		{ID: "2", Name: "Organic Almonds", Price: 22.99, Image: "https://images.unsplash.com/photo-1574570173583-e0c3e8083f82?w=400&q=80", Rating: 4.6, IsNew: true, IsFeatured: true, Category: "nuts"},
		{ID: "3", Name: "Dried Cranberries", Price: 18.99, DiscountPrice: price(15.99), Image: "https://images.unsplash.com/photo-1615485925600-97237c4fc1ec?w=400&q=80", Rating: 4.5, IsFeatured: true, Category: "berries"},
		{ID: "4", Name: "Pistachios", Price: 29.99, Image: "https://images.unsplash.com/photo-1616684000067-36952fde56ec?w=400&q=80", Rating: 4.9, IsFeatured: true, Category: "nuts"},
		{ID: "5", Name: "Mixed Berries", Price: 21.99, Image: "https://images.unsplash.com/photo-1596591868231-05e808fd131d?w=400&q=80", Rating: 4.7, IsFeatured: true, Category: "berries"},
		{ID: "6", Name: "Walnuts", Price: 26.99, DiscountPrice: price(23.99), Image: "https://images.unsplash.com/photo-1563412885-139e4045ec52?w=400&q=80", Rating: 4.6, IsFeatured: true, Category: "nuts"},
		{ID: "7", Name: "Dried Apricots", Price: 17.99, Image: "https://images.unsplash.com/photo-1596591868231-05e808fd131d?w=400&q=80", Rating: 4.4, Category: "fruits"},
		{ID: "8", Name: "Dried Figs", Price: 19.99, Image: "https://images.unsplash.com/photo-1596591868231-05e808fd131d?w=400&q=80", Rating: 4.3, Category: "fruits"},
		{ID: "9", Name: "Raisins", Price: 12.99, DiscountPrice: price(10.99), Image: "https://images.unsplash.com/photo-1596591868231-05e808fd131d?w=400&q=80", Rating: 4.2, Category: "fruits"},
		{ID: "10", Name: "Dates", Price: 15.99, Image: "https://images.unsplash.com/photo-1596591868231-05e808fd131d?w=400&q=80", Rating: 4.7, Category: "fruits"},
		{ID: "11", Name: "Hazelnuts", Price: 27.99, Image: "https://images.unsplash.com/photo-1596591868231-05e808fd131d?w=400&q=80", Rating: 4.5, Category: "nuts"},
		{ID: "12", Name: "Dried Blueberries", Price: 23.99, Image: "https://images.unsplash.com/photo-1596591868231-05e808fd131d?w=400&q=80", Rating: 4.6, Category: "berries"},
	}
}

// ByID finds a product in the catalog.
func ByID(catalog []Product, id string) (Product, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
