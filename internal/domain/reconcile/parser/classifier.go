// Package parser recovers candidate product line-items from unstructured
// document text. It layers three strategies: a cheap line classifier, a
// column layout detector, and a descending cascade of line-shape patterns.
package parser

import (
	"strings"
	"unicode"

	"github.com/cloudflare/ahocorasick"
)

// SkipReason explains why a line was excluded from extraction. Reasons are
// diagnostic only; nothing downstream branches on them.
type SkipReason string

const (
	ReasonNone        SkipReason = ""
	ReasonFooterNoise SkipReason = "footer_noise"
	ReasonNumericOnly SkipReason = "numeric_only"
	ReasonTooShort    SkipReason = "too_short"
)

// Classification is the classifier's verdict for one line.
type Classification struct {
	Skip   bool
	Reason SkipReason
}

// footerVocabulary marks summary/footer/boilerplate lines. Matched as
// case-insensitive substrings, in a single Aho-Corasick pass.
var footerVocabulary = []string{
	"total",
	"subtotal",
	"page",
	"signature",
	"terms",
	"tax",
	"discount",
	"grand",
	"net",
	"amount due",
	"amount-due",
	"thank you",
	"thanks for",
}

// minLineLength is the shortest line worth attempting extraction on.
const minLineLength = 10

// Classifier filters noise lines before extraction. Rules apply in order:
// footer vocabulary, digits/punctuation-only, minimum length.
type Classifier struct {
	footer *ahocorasick.Matcher
}

// NewClassifier builds the classifier with the default footer vocabulary.
func NewClassifier() *Classifier {
	patterns := make([][]byte, len(footerVocabulary))
	for i, w := range footerVocabulary {
		patterns[i] = []byte(w)
	}
	return &Classifier{footer: ahocorasick.NewMatcher(patterns)}
}

// Classify decides whether the trimmed line at the given document index is a
// candidate data row. The index is unused by the current rules but kept so
// callers can report line positions alongside the verdict.
func (c *Classifier) Classify(line string, _ int) Classification {
	lower := strings.ToLower(line)
	if len(c.footer.Match([]byte(lower))) > 0 {
		return Classification{Skip: true, Reason: ReasonFooterNoise}
	}

	if isNumericOnly(line) {
		return Classification{Skip: true, Reason: ReasonNumericOnly}
	}

	if len(line) < minLineLength {
		return Classification{Skip: true, Reason: ReasonTooShort}
	}

	return Classification{}
}

// isNumericOnly reports whether the line holds no letters at all.
func isNumericOnly(line string) bool {
	for _, r := range line {
		if unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
