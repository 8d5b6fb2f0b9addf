package parser

import (
	"regexp"
	"sort"
	"strings"
)

// LayoutSource records which signal produced a layout.
type LayoutSource string

const (
	LayoutNone    LayoutSource = ""
	LayoutHeader  LayoutSource = "header"
	LayoutSpacing LayoutSource = "spacing"
)

// Layout describes inferred column boundaries within a block of lines.
// Offsets are approximate character start positions for name/quantity/price,
// sorted ascending. A zero Layout means "no layout": the extractor falls
// back to pattern matching alone.
type Layout struct {
	Offsets     []int
	HeaderIndex int
	Source      LayoutSource
}

// Detected reports whether any layout signal was found.
func (l Layout) Detected() bool { return l.Source != LayoutNone }

// keyword families a header line must hit at least two of.
var (
	nameKeywords  = []string{"item", "product", "name", "description"}
	qtyKeywords   = []string{"qty", "quantity", "units"}
	priceKeywords = []string{"price", "rate", "amount"}
)

const (
	spacingSampleSize  = 20
	spacingMinLines    = 5
	spacingMinAvgParts = 3.0
)

var multiSpaceRun = regexp.MustCompile(`\s{2,}`)

// Detector infers table-like column boundaries for a block of lines.
type Detector struct {
	classifier *Classifier
}

// NewDetector creates a layout detector sharing the given classifier.
func NewDetector(classifier *Classifier) *Detector {
	return &Detector{classifier: classifier}
}

// Detect never fails; absence of both the header and the spacing signal
// yields the zero Layout.
func (d *Detector) Detect(lines []string) Layout {
	if layout, ok := detectHeaderLayout(lines); ok {
		return layout
	}
	return d.detectSpacingLayout(lines)
}

// detectHeaderLayout looks for a header line containing at least two of the
// three keyword families and records the keyword character offsets as column
// starts.
func detectHeaderLayout(lines []string) (Layout, bool) {
	for i, line := range lines {
		lower := strings.ToLower(line)

		offsets := make([]int, 0, 3)
		families := 0
		for _, family := range [][]string{nameKeywords, qtyKeywords, priceKeywords} {
			if off := firstKeywordOffset(lower, family); off >= 0 {
				families++
				offsets = append(offsets, off)
			}
		}

		if families >= 2 {
			sort.Ints(offsets)
			return Layout{Offsets: offsets, HeaderIndex: i, Source: LayoutHeader}, true
		}
	}
	return Layout{}, false
}

func firstKeywordOffset(lower string, keywords []string) int {
	best := -1
	for _, kw := range keywords {
		if idx := strings.Index(lower, kw); idx >= 0 && (best < 0 || idx < best) {
			best = idx
		}
	}
	return best
}

// detectSpacingLayout infers columns from whitespace-run statistics when no
// header exists. It samples the first candidate lines, and if they split
// into three or more multi-space-separated parts on average, takes the last
// two whitespace runs of the first sample as the quantity and price column
// starts. This is deliberately crude; oddly formatted input can mis-split.
func (d *Detector) detectSpacingLayout(lines []string) Layout {
	nonTrivial := 0
	for _, line := range lines {
		if len(strings.TrimSpace(line)) >= minLineLength {
			nonTrivial++
		}
	}
	if nonTrivial < spacingMinLines {
		return Layout{}
	}

	samples := make([]string, 0, spacingSampleSize)
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if verdict := d.classifier.Classify(trimmed, i); verdict.Skip {
			continue
		}
		samples = append(samples, trimmed)
		if len(samples) == spacingSampleSize {
			break
		}
	}
	if len(samples) == 0 {
		return Layout{}
	}

	totalParts := 0
	for _, s := range samples {
		totalParts += len(multiSpaceRun.Split(s, -1))
	}
	if float64(totalParts)/float64(len(samples)) < spacingMinAvgParts {
		return Layout{}
	}

	runs := multiSpaceRun.FindAllStringIndex(samples[0], -1)
	if len(runs) < 2 {
		return Layout{}
	}

	qtyStart := runs[len(runs)-2][1]
	priceStart := runs[len(runs)-1][1]
	return Layout{
		Offsets:     []int{0, qtyStart, priceStart},
		HeaderIndex: -1,
		Source:      LayoutSpacing,
	}
}
