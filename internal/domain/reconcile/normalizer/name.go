// Package normalizer cleans extracted product names and assigns a best-guess
// category from keyword lookup. Cleanup is idempotent: applying it twice
// yields the same result as once.
package normalizer

import (
	"regexp"
	"strings"
)

var (
	// "1. ", "23) ", "Sr. No. 4 " style serial prefixes.
	serialPrefix = regexp.MustCompile(`(?i)^(?:sr\.?\s*no\.?\s*\d+\s+|\d+[.)]\s+)`)

	// SKU-looking prefix: a run of caps/digits/dashes containing at least
	// one digit, then whitespace. "ABC-1023 Steel Bolt" -> "Steel Bolt".
	// The digit requirement keeps acronyms like "LED" safe; a minimum
	// length of 3 keeps short codes like "A4" safe (checked in CleanName).
	skuPrefix = regexp.MustCompile(`^[A-Z0-9\-]*\d[A-Z0-9\-]*\s+`)

	whitespaceRun = regexp.MustCompile(`\s+`)

	// Trailing parenthetical stripped only when its contents look like a
	// unit or code word, not a meaningful qualifier.
	trailingParen = regexp.MustCompile(`\s*\(([^)]*)\)\s*$`)
)

// unit or code words that make a trailing parenthetical disposable.
var parenNoiseWords = map[string]struct{}{
	"pc": {}, "pcs": {}, "piece": {}, "pieces": {},
	"unit": {}, "units": {}, "nos": {}, "no": {},
	"kg": {}, "g": {}, "gm": {}, "ltr": {}, "l": {}, "ml": {},
	"box": {}, "pkt": {}, "set": {}, "pair": {}, "dozen": {},
	"code": {}, "ref": {}, "sku": {}, "item": {},
}

// CleanName applies the cleanup sequence to an extracted product name until
// it stops changing. One pass strips at most one serial prefix and one
// trailing parenthetical, and stripping a parenthetical can expose trailing
// punctuation, so a single pass is not a fixpoint.
func CleanName(name string) string {
	s := strings.TrimSpace(name)
	for {
		next := cleanOnce(s)
		if next == s {
			return s
		}
		s = next
	}
}

func cleanOnce(s string) string {
	s = serialPrefix.ReplaceAllString(s, "")
	if m := skuPrefix.FindString(s); len(strings.TrimSpace(m)) >= 3 {
		s = s[len(m):]
	}

	s = strings.TrimRight(s, ":-– ")
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = strings.Trim(s, " .,;:-–|/")

	if m := trailingParen.FindStringSubmatch(s); m != nil && isParenNoise(m[1]) {
		s = strings.TrimSpace(trailingParen.ReplaceAllString(s, ""))
	}

	return s
}

// isParenNoise reports whether every word inside the parenthetical is a unit
// or code word (possibly with a quantity, e.g. "10 pcs").
func isParenNoise(contents string) bool {
	fields := strings.Fields(strings.ToLower(strings.Trim(contents, " .")))
	if len(fields) == 0 {
		return false
	}
	matched := false
	for _, f := range fields {
		f = strings.Trim(f, ".")
		if isNumber(f) {
			continue
		}
		if _, ok := parenNoiseWords[f]; !ok {
			return false
		}
		matched = true
	}
	return matched
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != ',' {
			return false
		}
	}
	return true
}
