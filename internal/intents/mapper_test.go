package intents

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopstream/catalogpipe/pkg/types"
)

func TestExtractTextIntents(t *testing.T) {
	m := New()

	testCases := []struct {
		name  string
		title string
		desc  string
		want  []string
	}{
		{
			name:  "affordable from cheap",
			title: "Cheap basic tee",
			want:  []string{"affordable", "casual"},
		},
		{
			name:  "eco friendly and summer from organic cotton",
			title: "Organic cotton shirt",
			want:  []string{"eco_friendly", "summer"},
		},
		{
			name: "comfort from stretch",
			desc: "Soft stretch fabric",
			want: []string{"comfort"},
		},
		{
			name: "none",
			desc: "Plain item",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := m.Extract(types.Product{Title: tc.title, Description: tc.desc})
			for _, w := range tc.want {
				assert.Contains(t, got, w)
			}
		})
	}
}

func TestExtractPriceIntents(t *testing.T) {
	m := New()

	testCases := []struct {
		price float64
		fires bool
	}{
		{29.99, true},
		{0.01, true},
		{30.0, false},
		{0.0, false},
		{99.0, false},
	}

	for _, tc := range testCases {
		got := m.Extract(types.Product{Price: tc.price})
		if tc.fires {
			assert.Contains(t, got, "budget_friendly", "price %v", tc.price)
		} else {
			assert.NotContains(t, got, "budget_friendly", "price %v", tc.price)
		}
	}
}

func TestExtractCategoryIntents(t *testing.T) {
	m := New()

	got := m.Extract(types.Product{Category: "women/dresses"})
	assert.Contains(t, got, "dress_shopping")
	assert.NotContains(t, got, "cozy_wear")

	got = m.Extract(types.Product{Category: "men/hoodies"})
	assert.Contains(t, got, "cozy_wear")
	assert.NotContains(t, got, "dress_shopping")
}

func TestExtractSortedAndDeterministic(t *testing.T) {
	m := New()
	p := types.Product{
		Title:       "Organic Cotton Slim Jeans",
		Description: "Comfortable everyday wear",
		Price:       25.0,
		Category:    "men/jeans",
	}

	first := m.Extract(p)
	second := m.Extract(p)

	assert.Equal(t, first, second)
	assert.True(t, sort.StringsAreSorted(first))

	// Reference scenario tags.
	for _, want := range []string{"budget_friendly", "eco_friendly", "casual", "comfort"} {
		assert.Contains(t, first, want)
	}
}

func TestExtractNoDuplicates(t *testing.T) {
	m := New()
	// "comfortable" triggers both casual and comfort, each exactly once.
	got := m.Extract(types.Product{Description: "comfortable comfortable comfortable"})

	counts := make(map[string]int)
	for _, tag := range got {
		counts[tag]++
	}
	for tag, n := range counts {
		assert.Equal(t, 1, n, "tag %s duplicated", tag)
	}
}
