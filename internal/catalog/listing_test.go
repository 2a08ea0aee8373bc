package catalog_test

import (
	"testing"

	"laoud/internal/catalog"
	"laoud/internal/models"

	"github.com/stretchr/testify/assert"
)

func listingFixture() []models.Product {
	return []models.Product{
		{ID: 1, Name: "haya [LATTAFA]", Category: "lattafa", Price: 480},
		{ID: 2, Name: "ASAD [LATTAFA]", Category: "lattafa", Price: 380},
		{ID: 3, Name: "SUAVE [FRAGRANCE WORLD]", Category: "fragrance-world", Price: 350},
		{ID: 4, Name: "ÉCLAT [PENDORA SCENTS]", Category: "pendora-scents", Price: 900},
	}
}

func ids(products []models.Product) []int {
	out := make([]int, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestFilter_Category(t *testing.T) {
	products := listingFixture()

	assert.Equal(t, []int{1, 2}, ids(catalog.Filter(products, catalog.Query{Category: "lattafa"})))
	assert.Equal(t, []int{1, 2, 3, 4}, ids(catalog.Filter(products, catalog.Query{Category: "all"})))
	assert.Equal(t, []int{1, 2, 3, 4}, ids(catalog.Filter(products, catalog.Query{})))
	assert.Empty(t, catalog.Filter(products, catalog.Query{Category: "missing"}))
}

func TestFilter_PriceRange(t *testing.T) {
	products := listingFixture()

	assert.Equal(t, []int{2, 3}, ids(catalog.Filter(products, catalog.Query{Price: "350-400"})))
	assert.Equal(t, []int{1, 4}, ids(catalog.Filter(products, catalog.Query{Price: "400+"})))
	assert.Equal(t, []int{4}, ids(catalog.Filter(products, catalog.Query{Price: "500-999999"})))
	assert.Equal(t, []int{1, 2, 3, 4}, ids(catalog.Filter(products, catalog.Query{Price: "garbage"})))
}

func TestFilter_Sort(t *testing.T) {
	products := listingFixture()

	assert.Equal(t, []int{2, 4, 1, 3}, ids(catalog.Filter(products, catalog.Query{Sort: catalog.SortName})))
	assert.Equal(t, []int{3, 2, 1, 4}, ids(catalog.Filter(products, catalog.Query{Sort: catalog.SortPriceLow})))
	assert.Equal(t, []int{4, 1, 2, 3}, ids(catalog.Filter(products, catalog.Query{Sort: catalog.SortPriceHigh})))
	assert.Equal(t, []int{4, 3, 2, 1}, ids(catalog.Filter(products, catalog.Query{Sort: catalog.SortNewest})))
	assert.Equal(t, []int{1, 2, 3, 4}, ids(catalog.Filter(products, catalog.Query{Sort: "featured"})))

	// input order is left alone
	assert.Equal(t, []int{1, 2, 3, 4}, ids(products))
}

func TestParsePriceRange(t *testing.T) {
	tests := []struct {
		in   string
		want catalog.PriceRange
		ok   bool
	}{
		{"0-500", catalog.PriceRange{Min: 0, Max: 500}, true},
		{"1000+", catalog.PriceRange{Min: 1000}, true},
		{"1000-", catalog.PriceRange{Min: 1000}, true},
		{"1000-999999", catalog.PriceRange{Min: 1000}, true},
		{"all", catalog.PriceRange{}, false},
		{"", catalog.PriceRange{}, false},
		{"cheap-500", catalog.PriceRange{}, false},
	}
	for _, tt := range tests {
		got, ok := catalog.ParsePriceRange(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.True(t, catalog.PriceRange{Min: 100, Max: 200}.Contains(200))
	assert.False(t, catalog.PriceRange{Min: 100, Max: 200}.Contains(201))
	assert.True(t, catalog.PriceRange{Min: 100}.Contains(50000))
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"lattafa", "fragrance-world", "pendora-scents"}, catalog.Categories(listingFixture()))
}
