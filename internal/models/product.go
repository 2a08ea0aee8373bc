package models

// Product represents a fragrance parsed from the catalog text.
// Products are rebuilt on every catalog load and are never persisted.
type Product struct {
	ID            int      `json:"id" validate:"gt=0"`
	Name          string   `json:"name" validate:"required,max=200"`
	Description   string   `json:"description" validate:"omitempty,max=500"`
	Category      string   `json:"category" validate:"required"`
	Price         int      `json:"price" validate:"gt=0"`
	OriginalPrice *int     `json:"originalPrice"`
	Image         string   `json:"image" validate:"required"`
	Sizes         []string `json:"sizes" validate:"min=1,dive,required"`
	Rating        float64  `json:"rating" validate:"gte=0,lte=5"`
	Reviews       int      `json:"reviews" validate:"gte=0"`
	InStock       bool     `json:"inStock"`
	Features      []string `json:"features"`
}

// HasSize reports whether size is one of the sizes the product is sold in.
func (p Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}
