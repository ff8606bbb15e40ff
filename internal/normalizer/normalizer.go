// Package normalizer cleans raw product records into canonical form.
//
// Every normalization step is total: malformed input degrades to a
// documented default instead of returning an error, so a single bad
// record never aborts a batch.
package normalizer

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/shopstream/catalogpipe/pkg/types"
)

// Defaults for field constraints.
const (
	DefaultMaxTitleLength       = 150
	DefaultMaxDescriptionLength = 500
	DefaultCategorySeparator    = "/"
)

// Config controls field caps and defaults.
type Config struct {
	MaxTitleLength       int
	MaxDescriptionLength int
	DefaultPrice         float64
	CategorySeparator    string
}

// DefaultConfig returns the standard normalization configuration.
func DefaultConfig() Config {
	return Config{
		MaxTitleLength:       DefaultMaxTitleLength,
		MaxDescriptionLength: DefaultMaxDescriptionLength,
		DefaultPrice:         0.0,
		CategorySeparator:    DefaultCategorySeparator,
	}
}

// brandMapping groups known spelling variants under one canonical brand
// token, rendered upper-case on match. Matching is case-insensitive and
// exact-after-trim, never substring.
type brandMapping struct {
	canonical string
	variants  []string
}

var brandMappings = []brandMapping{
	{canonical: "h&m", variants: []string{"h&m", "h & m", "h and m", "hm"}},
	{canonical: "oura", variants: []string{"oura", "oura ring", "oura rings"}},
	{canonical: "whoop", variants: []string{"whoop", "whoop strap", "whoop band"}},
}

// availabilityMapping maps an availability status to input variants that
// imply it. Matching is by containment after stripping spaces, and the
// entries are checked in order with in_stock first, so "unavailable"
// resolves via its "available" substring rather than falling through.
type availabilityMapping struct {
	status   string
	variants []string
}

var availabilityMappings = []availabilityMapping{
	{status: types.AvailabilityInStock, variants: []string{"in stock", "instock", "available", "in_stock"}},
	{status: types.AvailabilityOutOfStock, variants: []string{"out of stock", "outofstock", "unavailable", "not available", "out_of_stock"}},
}

var (
	categorySepRe = regexp.MustCompile(`[>,\s]+`)
	priceRe       = regexp.MustCompile(`[\d.]+`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
	urlRe         = regexp.MustCompile(`(?i)^(https?://|www\.)[^\s/$.?#].[^\s]*$`)
)

// Normalizer cleans one raw record into a canonical Product.
type Normalizer struct {
	cfg    Config
	dupSep *regexp.Regexp
	log    *zap.Logger
}

// New creates a Normalizer. A nil logger disables logging.
func New(cfg Config, log *zap.Logger) *Normalizer {
	if cfg.MaxTitleLength <= 0 {
		cfg.MaxTitleLength = DefaultMaxTitleLength
	}
	if cfg.MaxDescriptionLength <= 0 {
		cfg.MaxDescriptionLength = DefaultMaxDescriptionLength
	}
	if cfg.CategorySeparator == "" {
		cfg.CategorySeparator = DefaultCategorySeparator
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Normalizer{
		cfg:    cfg,
		dupSep: regexp.MustCompile(regexp.QuoteMeta(cfg.CategorySeparator) + `+`),
		log:    log,
	}
}

// Normalize cleans a single raw record. It never fails: every malformed
// field value degrades to its documented default. The raw image_urls
// field is consumed to derive ImageLink and then dropped.
func (n *Normalizer) Normalize(raw types.RawProduct) types.Product {
	p := types.Product{
		ID:           n.normalizeID(raw),
		Brand:        n.normalizeBrand(raw.Get("brand")),
		Category:     n.normalizeCategory(raw.Get("category")),
		Price:        n.normalizePrice(raw.Get("price")),
		Availability: n.normalizeAvailability(raw.Get("availability")),
		ImageLink:    n.normalizeImageLink(raw.Get("image_urls")),
		Title:        n.normalizeText(raw.Get("title"), n.cfg.MaxTitleLength),
		Description:  n.normalizeText(raw.Get("description"), n.cfg.MaxDescriptionLength),
	}

	n.log.Debug("normalized product", zap.String("id", p.ID))
	return p
}

func (n *Normalizer) normalizeID(raw types.RawProduct) string {
	id := raw.Get("product_id")
	if id == "" {
		id = raw.Get("id")
	}
	return strings.TrimSpace(id)
}

func (n *Normalizer) normalizeBrand(brand string) string {
	if brand == "" {
		return ""
	}

	lower := strings.ToLower(strings.TrimSpace(brand))
	for _, m := range brandMappings {
		for _, v := range m.variants {
			if lower == v {
				return strings.ToUpper(m.canonical)
			}
		}
	}

	return titleCase(strings.TrimSpace(brand))
}

// normalizeCategory rewrites a free-form category into a lowercase
// hierarchical path, e.g. "Clothes > Women, Dresses" -> "clothes/women/dresses".
func (n *Normalizer) normalizeCategory(category string) string {
	if category == "" {
		return ""
	}

	out := strings.ToLower(strings.TrimSpace(category))
	out = categorySepRe.ReplaceAllString(out, n.cfg.CategorySeparator)
	out = n.dupSep.ReplaceAllString(out, n.cfg.CategorySeparator)
	return strings.Trim(out, n.cfg.CategorySeparator)
}

// normalizePrice extracts the first numeric substring and clamps it to
// >= 0. Empty or unparsable input yields the configured default.
func (n *Normalizer) normalizePrice(price string) float64 {
	price = strings.TrimSpace(price)
	if price == "" {
		return n.cfg.DefaultPrice
	}

	match := priceRe.FindString(price)
	if match == "" {
		return n.cfg.DefaultPrice
	}

	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return n.cfg.DefaultPrice
	}
	if v < 0 {
		return 0
	}
	return v
}

// normalizeAvailability maps free-form stock state onto the two canonical
// values. Unknown or ambiguous input is treated as out of stock.
func (n *Normalizer) normalizeAvailability(availability string) string {
	if availability == "" {
		return types.AvailabilityOutOfStock
	}

	compact := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(availability)), " ", "")
	for _, m := range availabilityMappings {
		for _, v := range m.variants {
			if strings.Contains(compact, strings.ReplaceAll(v, " ", "")) {
				return m.status
			}
		}
	}

	return types.AvailabilityOutOfStock
}

// normalizeImageLink takes the first segment of a pipe-delimited URL list
// and validates it. Invalid links yield empty string, never an error.
func (n *Normalizer) normalizeImageLink(imageURLs string) string {
	link := strings.TrimSpace(imageURLs)
	if link == "" {
		return ""
	}

	if idx := strings.IndexByte(link, '|'); idx >= 0 {
		link = strings.TrimSpace(link[:idx])
	}

	if link != "" && urlRe.MatchString(link) {
		return link
	}
	return ""
}

// normalizeText collapses whitespace runs and truncates to maxLength,
// replacing the final three characters with "..." on truncation.
func (n *Normalizer) normalizeText(text string, maxLength int) string {
	if text == "" {
		return ""
	}

	out := whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
	return Truncate(out, maxLength)
}

// Truncate caps s at maxLength runes, ending in "..." when cut. The
// ellipsis is always complete: the cut never lands mid-ellipsis.
func Truncate(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return "..."
	}
	return string(runes[:maxLength-3]) + "..."
}

// titleCase renders an unknown brand: a letter following any non-letter
// is upper-cased, every other letter is lower-cased. The boundary is any
// non-letter, not just whitespace, so "levi's" becomes "Levi'S" — kept
// as observable behavior.
func titleCase(s string) string {
	runes := []rune(s)
	prevLetter := false
	for i, r := range runes {
		if !unicode.IsLetter(r) {
			prevLetter = false
			continue
		}
		if prevLetter {
			runes[i] = unicode.ToLower(r)
		} else {
			runes[i] = unicode.ToUpper(r)
		}
		prevLetter = true
	}
	return string(runes)
}
