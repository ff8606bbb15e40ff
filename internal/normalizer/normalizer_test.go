package normalizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopstream/catalogpipe/pkg/types"
)

func TestNormalizeID(t *testing.T) {
	n := New(DefaultConfig(), nil)

	testCases := []struct {
		name string
		raw  types.RawProduct
		want string
	}{
		{name: "product_id preferred", raw: types.RawProduct{"product_id": "P1", "id": "X9"}, want: "P1"},
		{name: "id fallback", raw: types.RawProduct{"id": " X9 "}, want: "X9"},
		{name: "missing both", raw: types.RawProduct{"title": "t"}, want: ""},
		{name: "whitespace only", raw: types.RawProduct{"product_id": "   "}, want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, n.Normalize(tc.raw).ID)
		})
	}
}

func TestNormalizeBrand(t *testing.T) {
	n := New(DefaultConfig(), nil)

	testCases := []struct {
		in   string
		want string
	}{
		{"h&m", "H&M"},
		{"H & M", "H&M"},
		{"  h and m ", "H&M"},
		{"HM", "H&M"},
		{"oura ring", "OURA"},
		{"whoop strap", "WHOOP"},
		{"nike", "Nike"},
		{"the north face", "The North Face"},
		// The title-case boundary is any non-letter, not just spaces.
		{"levi's", "Levi'S"},
		{"dr. martens", "Dr. Martens"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got := n.Normalize(types.RawProduct{"brand": tc.in}).Brand
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeBrandNotSubstring(t *testing.T) {
	// Variant matching is exact-after-trim: a brand merely containing a
	// known variant must not canonicalize.
	n := New(DefaultConfig(), nil)
	got := n.Normalize(types.RawProduct{"brand": "hm fashion house"}).Brand
	assert.Equal(t, "Hm Fashion House", got)
}

func TestNormalizeCategory(t *testing.T) {
	n := New(DefaultConfig(), nil)

	testCases := []struct {
		in   string
		want string
	}{
		{"Clothes > Women, Dresses", "clothes/women/dresses"},
		{"clothes>women>dresses", "clothes/women/dresses"},
		{"Mens Tops", "mens/tops"},
		{"Men > Jeans", "men/jeans"},
		{">>leading, trailing,,", "leading/trailing"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got := n.Normalize(types.RawProduct{"category": tc.in}).Category
			assert.Equal(t, tc.want, got)
			assert.NotContains(t, got, ">")
			assert.NotContains(t, got, ",")
			assert.NotContains(t, got, "//")
		})
	}
}

func TestNormalizePrice(t *testing.T) {
	n := New(DefaultConfig(), nil)

	testCases := []struct {
		in   string
		want float64
	}{
		{"25.00", 25.0},
		{"$19.99", 19.99},
		{"USD 42", 42.0},
		{"-5", 5.0}, // minus sign is not part of the numeric match
		{"free", 0.0},
		{"", 0.0},
		{"...", 0.0},
		{"1.2.3", 0.0},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got := n.Normalize(types.RawProduct{"price": tc.in}).Price
			assert.InDelta(t, tc.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
		})
	}
}

func TestNormalizeAvailability(t *testing.T) {
	n := New(DefaultConfig(), nil)

	testCases := []struct {
		in   string
		want string
	}{
		{"In Stock", types.AvailabilityInStock},
		{"INSTOCK", types.AvailabilityInStock},
		{"available now", types.AvailabilityInStock},
		{"Out of Stock", types.AvailabilityOutOfStock},
		{"sold out elsewhere", types.AvailabilityOutOfStock},
		{"", types.AvailabilityOutOfStock},
		{"maybe", types.AvailabilityOutOfStock},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got := n.Normalize(types.RawProduct{"availability": tc.in}).Availability
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeImageLink(t *testing.T) {
	n := New(DefaultConfig(), nil)

	testCases := []struct {
		name string
		in   string
		want string
	}{
		{"plain https", "https://cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg"},
		{"pipe delimited takes first", "https://cdn.example.com/a.jpg | https://cdn.example.com/b.jpg", "https://cdn.example.com/a.jpg"},
		{"www prefix", "www.example.com/a.jpg", "www.example.com/a.jpg"},
		{"no scheme", "example.com/a.jpg", ""},
		{"garbage", "not a url", ""},
		{"empty", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := n.Normalize(types.RawProduct{"image_urls": tc.in}).ImageLink
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeText(t *testing.T) {
	n := New(DefaultConfig(), nil)

	p := n.Normalize(types.RawProduct{
		"title":       "  Organic   Cotton\t\tSlim  Jeans ",
		"description": "Comfortable\neveryday   wear",
	})
	assert.Equal(t, "Organic Cotton Slim Jeans", p.Title)
	assert.Equal(t, "Comfortable everyday wear", p.Description)
}

func TestNormalizeTextTruncation(t *testing.T) {
	n := New(DefaultConfig(), nil)

	long := strings.Repeat("a", 200)
	p := n.Normalize(types.RawProduct{"title": long})
	require.Len(t, p.Title, DefaultMaxTitleLength)
	assert.True(t, strings.HasSuffix(p.Title, "..."))

	longDesc := strings.Repeat("b", 600)
	p = n.Normalize(types.RawProduct{"description": longDesc})
	require.Len(t, p.Description, DefaultMaxDescriptionLength)
	assert.True(t, strings.HasSuffix(p.Description, "..."))
}

func TestNormalizeIdempotent(t *testing.T) {
	n := New(DefaultConfig(), nil)

	raw := types.RawProduct{
		"product_id":   "P42",
		"brand":        "Nike",
		"category":     "Women > Dresses",
		"price":        "35.50",
		"availability": "In Stock",
		"image_urls":   "https://cdn.example.com/a.jpg",
		"title":        "Summer  Dress",
		"description":  "Light and   breathable",
	}

	first := n.Normalize(raw)

	// Feed the normalized record back in as raw input.
	again := n.Normalize(types.RawProduct{
		"id":           first.ID,
		"brand":        first.Brand,
		"category":     first.Category,
		"price":        "35.5",
		"availability": first.Availability,
		"image_urls":   first.ImageLink,
		"title":        first.Title,
		"description":  first.Description,
	})

	assert.Equal(t, first, again)
}

func TestNormalizeScenario(t *testing.T) {
	// Reference scenario from the design doc.
	n := New(DefaultConfig(), nil)

	p := n.Normalize(types.RawProduct{
		"title":        "Organic Cotton Slim Jeans",
		"description":  "Comfortable everyday wear",
		"price":        "25.00",
		"category":     "Men > Jeans",
		"availability": "In Stock",
	})

	assert.Equal(t, "men/jeans", p.Category)
	assert.InDelta(t, 25.0, p.Price, 1e-9)
	assert.Equal(t, types.AvailabilityInStock, p.Availability)
	require.NoError(t, p.Validate())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijk", 10))
	assert.Equal(t, "...", Truncate("abcdef", 3))
}
