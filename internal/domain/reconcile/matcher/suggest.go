package matcher

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/FACorreiaa/stockflow/internal/domain/catalog"
)

// Suggestion is one ranked candidate for the review UI's target picker.
// It never feeds automatic mapping decisions.
type Suggestion struct {
	Product     catalog.Product `json:"product"`
	Score       float64         `json:"score"`
	Subsequence bool            `json:"subsequence"` // name is a fuzzy subsequence of the product name
}

// Suggest returns up to limit catalog entries closest to name, sorted by
// similarity (highest first). Subsequence hits rank above non-hits at equal
// similarity, which surfaces abbreviation-style matches ("wrls hdph") the
// edit distance alone would bury.
func Suggest(name string, products []catalog.Product, limit int) []Suggestion {
	if len(products) == 0 {
		return nil
	}

	suggestions := make([]Suggestion, 0, len(products))
	for _, p := range products {
		suggestions = append(suggestions, Suggestion{
			Product:     p,
			Score:       Similarity(name, p.Name),
			Subsequence: fuzzy.MatchNormalizedFold(name, p.Name),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		return suggestions[i].Subsequence && !suggestions[j].Subsequence
	})

	if limit > 0 && limit < len(suggestions) {
		suggestions = suggestions[:limit]
	}
	return suggestions
}
