package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDetector() *Detector {
	return NewDetector(NewClassifier())
}

func TestDetectHeaderLayout(t *testing.T) {
	t.Run("all three families", func(t *testing.T) {
		lines := []string{
			"Item Name      Qty    Price",
			"USB Cable      12     4.99",
		}
		layout := testDetector().Detect(lines)

		require.True(t, layout.Detected())
		assert.Equal(t, LayoutHeader, layout.Source)
		assert.Equal(t, 0, layout.HeaderIndex)
		assert.Equal(t, []int{0, 15, 22}, layout.Offsets)
	})

	t.Run("two families suffice", func(t *testing.T) {
		lines := []string{"Product        Rate"}
		layout := testDetector().Detect(lines)

		require.True(t, layout.Detected())
		assert.Equal(t, LayoutHeader, layout.Source)
		assert.Len(t, layout.Offsets, 2)
	})

	t.Run("header below preamble", func(t *testing.T) {
		lines := []string{
			"Acme Supplies Ltd",
			"Description    Quantity    Amount",
		}
		layout := testDetector().Detect(lines)

		require.True(t, layout.Detected())
		assert.Equal(t, 1, layout.HeaderIndex)
	})
}

func TestDetectSpacingLayout(t *testing.T) {
	lines := []string{
		"Blue Ballpoint Pens    40    2.50",
		"Ergonomic Office Chair    10    299.50",
		"Wireless Keyboard    15    49.99",
		"Standing Desk Legs    8    89.00",
		"Cotton T Shirts    30    12.75",
	}
	layout := testDetector().Detect(lines)

	require.True(t, layout.Detected())
	assert.Equal(t, LayoutSpacing, layout.Source)
	assert.Equal(t, -1, layout.HeaderIndex)
	require.Len(t, layout.Offsets, 3)
	assert.Equal(t, 0, layout.Offsets[0])
	// offsets come from the first sample's whitespace runs
	assert.Equal(t, 23, layout.Offsets[1])
	assert.Equal(t, 29, layout.Offsets[2])
}

func TestDetectNoLayout(t *testing.T) {
	t.Run("too few lines for spacing stats", func(t *testing.T) {
		lines := []string{
			"Blue Ballpoint Pens    40    2.50",
			"Wireless Keyboard    15    49.99",
		}
		assert.False(t, testDetector().Detect(lines).Detected())
	})

	t.Run("single column prose", func(t *testing.T) {
		lines := []string{
			"first delivery arrived on time",
			"second delivery arrived on time",
			"third delivery arrived on time",
			"fourth delivery arrived on time",
			"fifth delivery arrived on time",
		}
		assert.False(t, testDetector().Detect(lines).Detected())
	})
}
