package parser

import (
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testExtractor() *Extractor {
	return NewExtractor(DefaultConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestExtractHeaderlessWideSpacing(t *testing.T) {
	text := "Premium Wireless Headphones    25    199.99\n" +
		"Ergonomic Office Chair    10    299.50"

	items := testExtractor().Extract(text)
	require.Len(t, items, 2)

	assert.Equal(t, "Premium Wireless Headphones", items[0].Name)
	assert.True(t, items[0].Quantity.Equal(decimal.NewFromInt(25)))
	assert.True(t, items[0].UnitPrice.Equal(decimal.NewFromFloat(199.99)))
	assert.GreaterOrEqual(t, items[0].Confidence, 75)

	assert.Equal(t, "Ergonomic Office Chair", items[1].Name)
	assert.True(t, items[1].Quantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, items[1].UnitPrice.Equal(decimal.NewFromFloat(299.50)))
	assert.GreaterOrEqual(t, items[1].Confidence, 75)
}

func TestExtractFooterLinesNeverBecomeItems(t *testing.T) {
	t.Run("among valid items", func(t *testing.T) {
		text := "Premium Wireless Headphones    25    199.99\n" +
			"Total: 1500"
		items := testExtractor().Extract(text)
		require.Len(t, items, 1)
		assert.Equal(t, "Premium Wireless Headphones", items[0].Name)
	})

	t.Run("in the last-resort pass", func(t *testing.T) {
		// short lines fall through the regular passes, so the aggressive
		// re-scan handles this document; the footer line must still be out
		text := "Total: 1500\nNails x5 @2.99"
		items := testExtractor().Extract(text)
		require.Len(t, items, 1)
		assert.Equal(t, "Nails x", items[0].Name)
		assert.Equal(t, 40, items[0].Confidence)
	})
}

func TestExtractByPositionWithHeader(t *testing.T) {
	text := "Item Name      Qty    Price\n" +
		"USB Cable      12     4.99"

	items := testExtractor().Extract(text)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "USB Cable", item.Name)
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(12)))
	assert.True(t, item.UnitPrice.Equal(decimal.NewFromFloat(4.99)))
	assert.Equal(t, 95, item.Confidence)
	assert.Equal(t, "USB Cable      12     4.99", item.SourceText)
}

func TestExtractPositionAndPatternNeverDoubleCount(t *testing.T) {
	// with a detected layout each data line yields exactly one item even
	// though the cascade would also accept it
	text := "Item Name      Qty    Price\n" +
		"USB Cable      12     4.99\n" +
		"Desk Lamp      5      24.99"

	items := testExtractor().Extract(text)
	assert.Len(t, items, 2)
}

func TestExtractPatternCascade(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantName   string
		wantQty    string
		wantPrice  string
		confidence int
	}{
		{"pipe delimited", "Desk Lamp | 5 | 24.99", "Desk Lamp", "5", "24.99", 98},
		{"tab delimited", "Desk Lamp\t5\t24.99", "Desk Lamp", "5", "24.99", 98},
		{"wide spacing", "Desk Lamp    5    24.99", "Desk Lamp", "5", "24.99", 95},
		{"double spacing", "Desk Lamp  5  24.99", "Desk Lamp", "5", "24.99", 90},
		{"serial prefix", "1. Desk Lamp 5 24.99", "Desk Lamp", "5", "24.99", 88},
		{"parenthetical name", "Mixer Grinder (500W) 3 149.00", "Mixer Grinder (500W)", "3", "149.00", 85},
		{"unit suffix", "Basmati Rice 25 kg 1200", "Basmati Rice", "25", "1200", 83},
		{"trailing currency", "Copper Wire 10 550 INR", "Copper Wire", "10", "550", 82},
		{"separator after name", "Office Chair - 4 299", "Office Chair", "4", "299", 80},
		{"single spacing", "Blue Pens 20 3.50", "Blue Pens", "20", "3.50", 78},
		{"generic triplet", "Red+Blue Markers 12 4.99", "Red+Blue Markers", "12", "4.99", 75},
		{"currency symbol before price", "Desk Lamp    5    $24.99", "Desk Lamp", "5", "24.99", 95},
		{"thousands separator", "Conference Table    2    1,499.00", "Conference Table", "2", "1499.00", 95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := testExtractor().Extract(tt.line)
			require.Len(t, items, 1)

			item := items[0]
			assert.Equal(t, tt.wantName, item.Name)
			assert.True(t, item.Quantity.Equal(decimal.RequireFromString(tt.wantQty)),
				"quantity %s != %s", item.Quantity, tt.wantQty)
			assert.True(t, item.UnitPrice.Equal(decimal.RequireFromString(tt.wantPrice)),
				"price %s != %s", item.UnitPrice, tt.wantPrice)
			assert.Equal(t, tt.confidence, item.Confidence)
		})
	}
}

func TestExtractRelaxedFallback(t *testing.T) {
	items := testExtractor().Extract("Premium Notebooks x12 @ 45.50 each")
	require.Len(t, items, 1)
	assert.True(t, items[0].Quantity.Equal(decimal.NewFromInt(12)))
	assert.True(t, items[0].UnitPrice.Equal(decimal.NewFromFloat(45.50)))
	assert.Equal(t, 60, items[0].Confidence)
}

func TestExtractLastResortSkipsMetadataLines(t *testing.T) {
	// both lines are too short for the relaxed pass, so only the aggressive
	// re-scan sees them; it must still skip the invoice metadata line
	text := "Invoice #4521\nNails x5 @2.99"
	items := testExtractor().Extract(text)
	require.Len(t, items, 1)
	assert.Equal(t, 40, items[0].Confidence)
	assert.NotContains(t, items[0].SourceText, "Invoice")
}

func TestExtractRelaxedAcceptsLongMetadataLines(t *testing.T) {
	// the metadata exclusion belongs to the last-resort pass only; a line
	// long enough for the relaxed pass is taken at its confidence
	items := testExtractor().Extract("Invoice Copies x12 @ 0.15 each")
	require.Len(t, items, 1)
	assert.Equal(t, 60, items[0].Confidence)
}

func TestExtractRejectsNonPositiveValues(t *testing.T) {
	items := testExtractor().Extract("Broken Widget    0    24.99")
	assert.Empty(t, items)
}

func TestExtractEmptyResultIsValid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty input", ""},
		{"prose without numbers", "this document holds nothing of interest"},
		{"footer only", "Subtotal 120.00\nGrand Total 1500.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, testExtractor().Extract(tt.text))
		})
	}
}

func TestParsePositive(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"25", "25", true},
		{"1,499.00", "1499.00", true},
		{" 42 ", "42", true},
		{"0", "", false},
		{"-5", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := parsePositive(tt.in)
		assert.Equal(t, tt.ok, ok, "parsePositive(%q)", tt.in)
		if tt.ok {
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)))
		}
	}
}
