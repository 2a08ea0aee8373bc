package models

// CartLineItem is a single cart row. Name, price and image are copied from the
// product when the line is created and are not refreshed afterwards.
// The JSON shape matches the persisted laoud_cart entries.
type CartLineItem struct {
	ProductID int    `json:"id"`
	Name      string `json:"name"`
	Price     int    `json:"price"`
	Image     string `json:"image"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

// LineTotal is price multiplied by quantity.
func (i CartLineItem) LineTotal() int {
	return i.Price * i.Quantity
}
