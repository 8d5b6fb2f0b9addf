package parser

import "regexp"

// linePattern pairs one line-shape regexp with the confidence assigned to
// items it captures. Every pattern captures exactly (name, quantity, price),
// in that order.
type linePattern struct {
	name       string
	re         *regexp.Regexp
	confidence int
}

// currency symbols accepted directly before a price token.
const cur = `[$€£₹]?\s*`

// num matches a number with optional thousands separators and decimals.
const num = `\d[\d,]*(?:\.\d+)?`

// cascade is the ordered strategy list, strictly descending in specificity
// and confidence. The first pattern whose captures parse to positive numbers
// and a name longer than two characters wins; later patterns are not tried.
// Add, reorder or remove entries here without touching the control flow.
var cascade = []linePattern{
	{
		name:       "delimited_triplet",
		re:         regexp.MustCompile(`^(.+?)\s*[|\t]+\s*(` + num + `)\s*[|\t]+\s*` + cur + `(` + num + `)\s*$`),
		confidence: 98,
	},
	{
		name:       "wide_space_triplet",
		re:         regexp.MustCompile(`^(.+?)\s{3,}(` + num + `)\s{3,}` + cur + `(` + num + `)\s*$`),
		confidence: 95,
	},
	{
		name:       "double_space_triplet",
		re:         regexp.MustCompile(`^(.+?)\s{2,}(` + num + `)\s{2,}` + cur + `(` + num + `)\s*$`),
		confidence: 90,
	},
	{
		name:       "serial_prefix_triplet",
		re:         regexp.MustCompile(`^\s*\d+[.)]\s+(.+?)\s+(` + num + `)\s+` + cur + `(` + num + `)\s*$`),
		confidence: 88,
	},
	{
		name:       "parenthetical_name_triplet",
		re:         regexp.MustCompile(`^(.+?\([^)]*\))\s+(` + num + `)\s+` + cur + `(` + num + `)\s*$`),
		confidence: 85,
	},
	{
		name:       "unit_suffix_triplet",
		re:         regexp.MustCompile(`(?i)^(.+?)\s+(` + num + `)\s*(?:pcs|pc|units?|nos|kgs?|gms?|ltrs?|ml|pkts?|boxe?s?|dozen)\.?\s+` + cur + `(` + num + `)\s*$`),
		confidence: 83,
	},
	{
		name:       "trailing_currency_triplet",
		re:         regexp.MustCompile(`(?i)^(.+?)\s+(` + num + `)\s+(` + num + `)\s*(?:[$€£₹]|usd|eur|gbp|inr|rs\.?)\s*$`),
		confidence: 82,
	},
	{
		name:       "separator_name_triplet",
		re:         regexp.MustCompile(`^(.+?)\s*[:\-–]\s+(` + num + `)\s+` + cur + `(` + num + `)\s*$`),
		confidence: 80,
	},
	{
		name:       "single_space_triplet",
		re:         regexp.MustCompile(`^([A-Za-z][A-Za-z .&'/]*[A-Za-z.]) (` + num + `) ` + cur + `(` + num + `)\s*$`),
		confidence: 78,
	},
	{
		name:       "generic_triplet",
		re:         regexp.MustCompile(`^([^\d]+?)\s+(` + num + `)\s+` + cur + `(` + num + `)\s*$`),
		confidence: 75,
	},
}

// relaxedPattern is the single fallback shape: a leading non-digit run, then
// a number, then another number anywhere later in the line.
var relaxedPattern = regexp.MustCompile(`^([^\d]+?)(` + num + `)\D+?(` + num + `)`)

// lastResortSkip marks lines the aggressive final pass still refuses to
// touch. Checked as lowercase substrings.
var lastResortSkip = []string{"invoice", "date", "bill"}
