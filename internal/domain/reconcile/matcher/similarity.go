// Package matcher scores product-name similarity for fuzzy catalog lookup.
// Similarity is pure and deterministic: no I/O, no state.
package matcher

import (
	"strings"

	"github.com/FACorreiaa/stockflow/internal/domain/catalog"
)

// Normalize lowercases a name and collapses whitespace runs, the
// equivalence used for "exact" matching throughout reconciliation.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Similarity returns a score in [0,1]. Exact (case/whitespace-insensitive)
// equality scores 1.0; containment scores by length ratio; everything else
// scores by Levenshtein distance over the longer length. The function is
// symmetric in its arguments.
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return 1.0
	}

	ra, rb := []rune(na), []rune(nb)
	shorter, longer := ra, rb
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == 0 {
		return 0
	}

	if strings.Contains(string(longer), string(shorter)) {
		return float64(len(shorter)) / float64(len(longer))
	}

	distance := levenshtein(ra, rb)
	return float64(len(longer)-distance) / float64(len(longer))
}

// Match is the result of a best-match catalog scan.
type Match struct {
	Product catalog.Product
	Score   float64
}

// FindBestMatch returns the catalog entry with the highest similarity to
// name, or nil if the catalog is empty. Ties keep the earliest entry.
func FindBestMatch(name string, products []catalog.Product) *Match {
	var best *Match
	for _, p := range products {
		score := Similarity(name, p.Name)
		if best == nil || score > best.Score {
			best = &Match{Product: p, Score: score}
		}
	}
	return best
}

// FindExactMatch returns the first catalog entry whose normalized name
// equals the normalized input, or nil.
func FindExactMatch(name string, products []catalog.Product) *catalog.Product {
	target := Normalize(name)
	for i := range products {
		if Normalize(products[i].Name) == target {
			return &products[i]
		}
	}
	return nil
}

// levenshtein computes the classic edit distance using two rows.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minOf(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func minOf(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
