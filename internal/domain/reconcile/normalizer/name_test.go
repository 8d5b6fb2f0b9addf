package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain name untouched", "Steel Bolt", "Steel Bolt"},
		{"numeric serial prefix", "1. Steel Bolt", "Steel Bolt"},
		{"paren serial prefix", "23) Steel Bolt", "Steel Bolt"},
		{"sr no prefix", "Sr. No. 4 Steel Bolt", "Steel Bolt"},
		{"sku prefix", "ABC-1023 Steel Bolt", "Steel Bolt"},
		{"short caps word kept", "LED Desk Lamp", "LED Desk Lamp"},
		{"trailing separator", "Steel Bolt -", "Steel Bolt"},
		{"trailing colon", "Steel Bolt:", "Steel Bolt"},
		{"whitespace collapsed", "Steel   Bolt\t Washer", "Steel Bolt Washer"},
		{"surrounding punctuation", "| Steel Bolt .", "Steel Bolt"},
		{"unit parenthetical dropped", "Basmati Rice (5 kg)", "Basmati Rice"},
		{"pcs parenthetical dropped", "Steel Bolt (10 pcs)", "Steel Bolt"},
		{"meaningful parenthetical kept", "Mixer Grinder (500W)", "Mixer Grinder (500W)"},
		{"descriptive parenthetical kept", "Paint (Matte White)", "Paint (Matte White)"},
		{"stacked unit parentheticals", "Basmati Rice (kg) (pcs)", "Basmati Rice"},
		{"stacked serial prefixes", "1. 2. Apple Crates", "Apple Crates"},
		{"separator exposed by paren strip", "Widget - (pcs)", "Widget"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanName(tt.in))
		})
	}
}

func TestCleanNameIdempotent(t *testing.T) {
	inputs := []string{
		"1. Steel Bolt",
		"ABC-1023 Basmati Rice (5 kg)",
		"Sr. No. 12 Mixer Grinder (500W) -",
		"  Steel   Bolt  ",
		"Blue Pens",
		"Basmati Rice (kg) (pcs)",
		"1. 2. Apple Crates 5",
		"Widget - (pcs)",
	}
	for _, in := range inputs {
		once := CleanName(in)
		assert.Equal(t, once, CleanName(once), "input %q", in)
	}
}

func TestInferCategory(t *testing.T) {
	ci := NewCategoryInferrer()

	tests := []struct {
		in   string
		want string
	}{
		{"Wireless Headphones Pro", "Electronics"},
		{"USB Charger Cable", "Electronics"},
		{"A4 Notebook Pack", "Office Supplies"},
		{"Ergonomic Office Chair", "Furniture"},
		{"Cotton T-Shirt", "Clothing"},
		{"Cordless Drill", "Tools"},
		{"Mystery Gadget", "General"},
		{"", "General"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ci.Infer(tt.in), "name %q", tt.in)
	}
}

func TestInferPrefersEarlierTableEntries(t *testing.T) {
	ci := NewCategoryInferrer()
	// both "monitor" (Electronics) and "stand" style words can appear; the
	// lowest table index must win regardless of position in the name
	assert.Equal(t, "Electronics", ci.Infer("Desk Monitor Stand"))
}
