package catalog

import (
	_ "embed"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"laoud/internal/models"
)

//go:embed data/catalog.txt
var defaultCatalog string

// DefaultCatalogText returns the catalog listing bundled with the storefront.
func DefaultCatalogText() string {
	return defaultCatalog
}

// Reasons a catalog line produced no product.
const (
	SkipHeading   = "heading"
	SkipNoPrice   = "no price"
	SkipBadPrice  = "invalid price"
	SkipEmptyName = "empty name"
	SkipInvalid   = "invalid product"
)

var (
	lineBreak     = regexp.MustCompile(`\r?\n`)
	headingLine   = regexp.MustCompile(`(?i)^(perfume oils|images:?)\b`)
	leadingBullet = regexp.MustCompile(`^•\s*`)
	spacedDash    = regexp.MustCompile(`\s+[–—-]\s+`)
	currencyMark  = regexp.MustCompile(`(?i)R\s*(\d+)`)
	repeatedSpace = regexp.MustCompile(`\s{2,}`)
	priceToken    = regexp.MustCompile(`R(\d+)\b`)
)

// Defaults are the attributes every parsed product starts with.
type Defaults struct {
	Description string
	Sizes       []string
	Rating      float64
	Reviews     int
	InStock     bool
	Features    []string
}

// DefaultProductDefaults holds the storefront's placeholder product attributes.
var DefaultProductDefaults = Defaults{
	Description: "Premium fragrance from our curated collection.",
	Sizes:       []string{"50ml", "100ml"},
	Rating:      4.7,
	Reviews:     0,
	InStock:     true,
	Features:    []string{"Long-lasting", "Great value", "Customer favorite"},
}

// Skip records a catalog line that was ignored.
type Skip struct {
	Line   string
	Reason string
}

// Result is the outcome of parsing a catalog listing.
type Result struct {
	Products []models.Product
	Skipped  []Skip
}

// Parser converts free-form catalog text into products.
type Parser struct {
	labels   []Label
	images   ImageManifest
	defaults Defaults
	validate *validator.Validate
}

// Option configures a Parser.
type Option func(*Parser)

// WithLabels replaces the brand/type label set.
func WithLabels(labels []Label) Option {
	return func(p *Parser) { p.labels = labels }
}

// WithImageManifest replaces the slug to image extension manifest.
func WithImageManifest(m ImageManifest) Option {
	return func(p *Parser) { p.images = m }
}

// WithDefaults replaces the placeholder product attributes.
func WithDefaults(d Defaults) Option {
	return func(p *Parser) { p.defaults = d }
}

// NewParser creates a Parser using the default labels, manifest and product defaults.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		labels:   DefaultLabels,
		defaults: DefaultProductDefaults,
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.images == nil {
		p.images = DefaultImageManifest()
	}
	return p
}

// Parse returns the products described by raw. Lines that cannot be parsed are dropped.
func (p *Parser) Parse(raw string) []models.Product {
	return p.ParseReport(raw).Products
}

// ParseReport parses raw and also reports every line that was skipped.
// Product ids start at 1 for each call.
func (p *Parser) ParseReport(raw string) Result {
	var res Result
	nextID := 1

	for _, line := range lineBreak.Split(raw, -1) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if headingLine.MatchString(line) {
			res.Skipped = append(res.Skipped, Skip{Line: line, Reason: SkipHeading})
			continue
		}

		normalized := NormalizeLine(line)
		m := priceToken.FindStringSubmatch(normalized)
		if m == nil {
			res.Skipped = append(res.Skipped, Skip{Line: line, Reason: SkipNoPrice})
			continue
		}
		price, err := strconv.Atoi(m[1])
		if err != nil || price <= 0 {
			res.Skipped = append(res.Skipped, Skip{Line: line, Reason: SkipBadPrice})
			continue
		}

		category := DetectCategory(normalized, p.labels)
		for _, variant := range ExpandVariants(extractName(normalized, m[1])) {
			name := repeatedSpace.ReplaceAllString(strings.TrimSpace(variant), " ")
			slug := Slugify(name)
			if slug == "" {
				res.Skipped = append(res.Skipped, Skip{Line: line, Reason: SkipEmptyName})
				continue
			}

			product := p.newProduct(nextID, name, category, price, p.images.Resolve(slug))
			if err := p.validate.Struct(product); err != nil {
				res.Skipped = append(res.Skipped, Skip{Line: line, Reason: SkipInvalid})
				continue
			}
			res.Products = append(res.Products, product)
			nextID++
		}
	}
	return res
}

func (p *Parser) newProduct(id int, name, category string, price int, image string) models.Product {
	d := p.defaults
	return models.Product{
		ID:          id,
		Name:        name,
		Description: d.Description,
		Category:    category,
		Price:       price,
		Image:       image,
		Sizes:       append([]string(nil), d.Sizes...),
		Rating:      d.Rating,
		Reviews:     d.Reviews,
		InStock:     d.InStock,
		Features:    append([]string(nil), d.Features...),
	}
}

// NormalizeLine strips bullets, unifies dashes to " - ", compacts "R 350" to
// "R350" and collapses repeated whitespace.
func NormalizeLine(line string) string {
	s := leadingBullet.ReplaceAllString(line, "")
	s = spacedDash.ReplaceAllString(s, " - ")
	s = currencyMark.ReplaceAllString(s, "R${1}")
	s = repeatedSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// extractName returns the text before " - R<digits>", or before the first
// R<digits> token when the delimiter is missing.
func extractName(normalized, digits string) string {
	if idx := strings.Index(normalized, " - R"); idx != -1 {
		return strings.TrimSpace(normalized[:idx])
	}
	if idx := strings.Index(normalized, "R"+digits); idx > 0 {
		return strings.TrimSpace(normalized[:idx])
	}
	return normalized
}
