package matcher

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/stockflow/internal/domain/catalog"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "widget a", Normalize("  Widget   A "))
	assert.Equal(t, "widget a", Normalize("WIDGET\tA"))
	assert.Equal(t, "", Normalize("   "))
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "Widget A", "Widget A", 1.0},
		{"case and whitespace insensitive", "widget  a", "Widget A", 1.0},
		{"containment by length ratio", "USB Cable", "USB Cables", 9.0 / 10.0},
		{"single word containment", "Lamp", "Desk Lamp", 4.0 / 9.0},
		{"edit distance", "Premium Wireles Headphone", "Premium Wireless Headphones", 25.0 / 27.0},
		{"disjoint strings", "abc", "xyz", 0.0},
		{"empty against anything", "", "Widget", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSimilarityProperties(t *testing.T) {
	gofakeit.Seed(11)

	for range 50 {
		a := gofakeit.ProductName()
		b := gofakeit.ProductName()

		ab := Similarity(a, b)
		assert.InDelta(t, ab, Similarity(b, a), 1e-9, "symmetry for %q / %q", a, b)
		assert.GreaterOrEqual(t, ab, 0.0)
		assert.LessOrEqual(t, ab, 1.0)
		assert.InDelta(t, 1.0, Similarity(a, a), 1e-9)
	}
}

func products(names ...string) []catalog.Product {
	out := make([]catalog.Product, 0, len(names))
	for _, n := range names {
		out = append(out, catalog.Product{ID: uuid.New(), Name: n})
	}
	return out
}

func TestFindBestMatch(t *testing.T) {
	t.Run("empty catalog", func(t *testing.T) {
		assert.Nil(t, FindBestMatch("Widget", nil))
	})

	t.Run("highest similarity wins", func(t *testing.T) {
		cat := products("Standing Desk", "USB Cables", "Wireless Mouse")
		best := FindBestMatch("USB Cable", cat)
		require.NotNil(t, best)
		assert.Equal(t, "USB Cables", best.Product.Name)
		assert.InDelta(t, 0.9, best.Score, 1e-9)
	})

	t.Run("ties keep the earliest entry", func(t *testing.T) {
		cat := products("Widget AA", "Widget AB")
		best := FindBestMatch("Widget A", cat)
		require.NotNil(t, best)
		assert.Equal(t, "Widget AA", best.Product.Name)
	})
}

func TestFindExactMatch(t *testing.T) {
	cat := products("Premium Wireless Headphones", "Standing Desk")

	match := FindExactMatch("premium  WIRELESS headphones", cat)
	require.NotNil(t, match)
	assert.Equal(t, cat[0].ID, match.ID)

	assert.Nil(t, FindExactMatch("Premium Wireless Headphone", cat))
}

func TestSuggest(t *testing.T) {
	cat := products("Premium Wireless Headphones", "Standing Desk", "Wireless Mouse")

	t.Run("ranked by similarity", func(t *testing.T) {
		got := Suggest("Wireless Headphones", cat, 2)
		require.Len(t, got, 2)
		assert.Equal(t, "Premium Wireless Headphones", got[0].Product.Name)
		assert.True(t, got[0].Score > got[1].Score)
	})

	t.Run("limit larger than catalog", func(t *testing.T) {
		assert.Len(t, Suggest("Mouse", cat, 10), 3)
	})

	t.Run("empty catalog", func(t *testing.T) {
		assert.Nil(t, Suggest("Mouse", nil, 5))
	})

	t.Run("abbreviation is flagged as subsequence", func(t *testing.T) {
		got := Suggest("wrls mse", cat, 3)
		require.Len(t, got, 3)
		for _, s := range got {
			if s.Product.Name == "Wireless Mouse" {
				assert.True(t, s.Subsequence)
			}
		}
	})
}
