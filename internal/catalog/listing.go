package catalog

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"laoud/internal/models"
)

// Sort orders understood by Filter.
const (
	SortName      = "name"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortNewest    = "newest"
)

// AllValue disables the category or price filter.
const AllValue = "all"

// openEndedMax marks the upper bound at which a price range is treated as "min and above".
const openEndedMax = 999999

// Query selects and orders products for display.
type Query struct {
	Category string `query:"category"`
	Price    string `query:"price"`
	Sort     string `query:"sort"`
}

// PriceRange is an inclusive price interval. Max == 0 means open-ended.
type PriceRange struct {
	Min int
	Max int
}

// Contains reports whether price falls in the range.
func (r PriceRange) Contains(price int) bool {
	if r.Max == 0 {
		return price >= r.Min
	}
	return price >= r.Min && price <= r.Max
}

// ParsePriceRange reads "min-max", "min-", "min+" or "all". The second result is
// false for "all", an empty string, or anything unreadable.
func ParsePriceRange(s string) (PriceRange, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, AllValue) {
		return PriceRange{}, false
	}
	if strings.HasSuffix(s, "+") {
		lo, err := strconv.Atoi(strings.TrimSuffix(s, "+"))
		if err != nil {
			return PriceRange{}, false
		}
		return PriceRange{Min: lo}, true
	}
	loText, hiText, _ := strings.Cut(s, "-")
	lo, err := strconv.Atoi(loText)
	if err != nil {
		return PriceRange{}, false
	}
	hi, err := strconv.Atoi(hiText)
	if err != nil || hi >= openEndedMax {
		return PriceRange{Min: lo}, true
	}
	return PriceRange{Min: lo, Max: hi}, true
}

// Filter applies q to products and returns a new slice; products is not modified.
// An unknown sort order keeps catalog order.
func Filter(products []models.Product, q Query) []models.Product {
	out := make([]models.Product, 0, len(products))
	rng, hasRange := ParsePriceRange(q.Price)
	for _, p := range products {
		if q.Category != "" && q.Category != AllValue && p.Category != q.Category {
			continue
		}
		if hasRange && !rng.Contains(p.Price) {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortName:
		c := collate.New(language.English, collate.IgnoreCase)
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[i].Name, out[j].Name) < 0
		})
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	}
	return out
}

// Categories lists the distinct category slugs in order of first appearance.
func Categories(products []models.Product) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}
