package normalizer

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// DefaultCategory is assigned when no keyword matches.
const DefaultCategory = "General"

// keywordEntry binds one lowercase keyword to its category. Order is
// priority: the earliest matching entry wins.
type keywordEntry struct {
	keyword  string
	category string
}

var categoryKeywords = []keywordEntry{
	// Electronics
	{"laptop", "Electronics"}, {"computer", "Electronics"}, {"phone", "Electronics"},
	{"mobile", "Electronics"}, {"tablet", "Electronics"}, {"monitor", "Electronics"},
	{"keyboard", "Electronics"}, {"mouse", "Electronics"}, {"headphone", "Electronics"},
	{"earphone", "Electronics"}, {"speaker", "Electronics"}, {"charger", "Electronics"},
	{"cable", "Electronics"}, {"adapter", "Electronics"}, {"battery", "Electronics"},
	{"camera", "Electronics"}, {"printer", "Electronics"}, {"router", "Electronics"},
	{"led", "Electronics"}, {"television", "Electronics"},

	// Office Supplies
	{"pen", "Office Supplies"}, {"pencil", "Office Supplies"}, {"paper", "Office Supplies"},
	{"notebook", "Office Supplies"}, {"stapler", "Office Supplies"}, {"folder", "Office Supplies"},
	{"marker", "Office Supplies"}, {"envelope", "Office Supplies"}, {"ink", "Office Supplies"},
	{"toner", "Office Supplies"}, {"clipboard", "Office Supplies"}, {"whiteboard", "Office Supplies"},

	// Furniture
	{"chair", "Furniture"}, {"table", "Furniture"}, {"desk", "Furniture"},
	{"sofa", "Furniture"}, {"shelf", "Furniture"}, {"cabinet", "Furniture"},
	{"drawer", "Furniture"}, {"stool", "Furniture"}, {"bench", "Furniture"},

	// Clothing
	{"shirt", "Clothing"}, {"trouser", "Clothing"}, {"jeans", "Clothing"},
	{"jacket", "Clothing"}, {"sock", "Clothing"}, {"shoe", "Clothing"},
	{"cap", "Clothing"}, {"dress", "Clothing"}, {"glove", "Clothing"},

	// Books
	{"book", "Books"}, {"novel", "Books"}, {"dictionary", "Books"},
	{"manual", "Books"}, {"guide", "Books"},

	// Tools
	{"hammer", "Tools"}, {"screwdriver", "Tools"}, {"wrench", "Tools"},
	{"drill", "Tools"}, {"saw", "Tools"}, {"plier", "Tools"},
	{"spanner", "Tools"}, {"toolkit", "Tools"},
}

// CategoryInferrer assigns a category from keyword membership, using a
// single Aho-Corasick pass over the cleaned name.
type CategoryInferrer struct {
	matcher *ahocorasick.Matcher
}

// NewCategoryInferrer builds the inferrer from the fixed keyword table.
func NewCategoryInferrer() *CategoryInferrer {
	patterns := make([][]byte, len(categoryKeywords))
	for i, e := range categoryKeywords {
		patterns[i] = []byte(e.keyword)
	}
	return &CategoryInferrer{matcher: ahocorasick.NewMatcher(patterns)}
}

// Infer returns the category of the first matching keyword in table order,
// or DefaultCategory when nothing matches.
func (ci *CategoryInferrer) Infer(cleanedName string) string {
	hits := ci.matcher.Match([]byte(strings.ToLower(cleanedName)))
	if len(hits) == 0 {
		return DefaultCategory
	}

	best := hits[0]
	for _, h := range hits[1:] {
		if h < best {
			best = h
		}
	}
	return categoryKeywords[best].category
}
