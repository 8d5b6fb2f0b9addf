package parser

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is a structured product guess recovered from one document line.
// Confidence is 0-100; SourceText keeps the original line for audit.
type LineItem struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Category   string          `json:"category,omitempty"`
	Confidence int             `json:"confidence"`
	SourceText string          `json:"source_text"`
}

// Config exposes the extractor's tuning knobs. The confidence values are
// product decisions, not derived quantities; defaults match the shipped
// behavior.
type Config struct {
	PositionConfidence   int // layout-sliced extraction
	FallbackConfidence   int // relaxed single-pattern pass
	LastResortConfidence int // document-wide aggressive re-scan
	FallbackMinLineLen   int // shortest line the relaxed pass touches
	MinNameLength        int // extracted name must exceed this
}

// DefaultConfig returns the shipped extraction thresholds.
func DefaultConfig() Config {
	return Config{
		PositionConfidence:   95,
		FallbackConfidence:   60,
		LastResortConfidence: 40,
		FallbackMinLineLen:   15,
		MinNameLength:        2,
	}
}

// Extractor turns classified lines into LineItems. Extraction never fails:
// lines that match nothing simply produce no candidate.
type Extractor struct {
	cfg        Config
	classifier *Classifier
	detector   *Detector
	logger     *slog.Logger
}

// NewExtractor creates an extractor with its own classifier and detector.
func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	classifier := NewClassifier()
	return &Extractor{
		cfg:        cfg,
		classifier: classifier,
		detector:   NewDetector(classifier),
		logger:     logger,
	}
}

var numberToken = regexp.MustCompile(num)

// Extract runs the full cascade over the document text and returns every
// accepted candidate. An empty result is a valid outcome, not an error.
func (e *Extractor) Extract(text string) []LineItem {
	lines := splitLines(text)
	layout := e.detector.Detect(lines)

	var items []LineItem
	for i, raw := range lines {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		// the zero layout's HeaderIndex is 0, which is a real data line
		if layout.Detected() && i == layout.HeaderIndex {
			continue
		}
		if verdict := e.classifier.Classify(trimmed, i); verdict.Skip {
			continue
		}

		if item, ok := e.extractByPosition(raw, trimmed, i, layout); ok {
			items = append(items, item)
			continue
		}
		if item, ok := e.extractByPattern(trimmed); ok {
			items = append(items, item)
			continue
		}
		if item, ok := e.extractRelaxed(trimmed, e.cfg.FallbackConfidence); ok {
			items = append(items, item)
		}
	}

	// Some inputs have no reliable separators at all. Rather than return
	// nothing, re-scan the whole document with the relaxed shape at low
	// confidence, skipping only obvious non-item lines.
	if len(items) == 0 {
		items = e.extractLastResort(lines)
		if len(items) > 0 {
			e.logger.Debug("last-resort extraction pass produced candidates",
				"count", len(items))
		}
	}

	return items
}

// extractByPosition slices the line at the layout's column offsets. Only
// attempted when a full three-column layout exists and the line sits after
// the header.
func (e *Extractor) extractByPosition(raw, trimmed string, index int, layout Layout) (LineItem, bool) {
	if !layout.Detected() || len(layout.Offsets) != 3 || index <= layout.HeaderIndex {
		return LineItem{}, false
	}

	line := strings.TrimRight(raw, "\r\n")
	nameStr := slice(line, layout.Offsets[0], layout.Offsets[1])
	qtyStr := slice(line, layout.Offsets[1], layout.Offsets[2])
	priceStr := slice(line, layout.Offsets[2], len(line))

	qty, qtyOK := firstPositiveNumber(qtyStr)
	price, priceOK := firstPositiveNumber(priceStr)
	name := cleanCapturedName(nameStr)
	if !qtyOK || !priceOK || len(name) <= e.cfg.MinNameLength {
		return LineItem{}, false
	}

	return e.newItem(name, qty, price, e.cfg.PositionConfidence, trimmed), true
}

// extractByPattern walks the cascade in order and stops at the first
// pattern whose captures survive validation. Lines without at least two
// words and two numeric tokens are never worth the regexp work.
func (e *Extractor) extractByPattern(trimmed string) (LineItem, bool) {
	if len(strings.Fields(trimmed)) < 2 || len(numberToken.FindAllString(trimmed, -1)) < 2 {
		return LineItem{}, false
	}

	for _, p := range cascade {
		m := p.re.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		qty, qtyOK := parsePositive(m[2])
		price, priceOK := parsePositive(m[3])
		name := cleanCapturedName(m[1])
		if !qtyOK || !priceOK || len(name) <= e.cfg.MinNameLength {
			continue
		}
		return e.newItem(name, qty, price, p.confidence, trimmed), true
	}
	return LineItem{}, false
}

// extractRelaxed applies the single fallback shape to longer lines.
func (e *Extractor) extractRelaxed(trimmed string, confidence int) (LineItem, bool) {
	if len(trimmed) <= e.cfg.FallbackMinLineLen {
		return LineItem{}, false
	}
	m := relaxedPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return LineItem{}, false
	}
	qty, qtyOK := parsePositive(m[2])
	price, priceOK := parsePositive(m[3])
	name := cleanCapturedName(m[1])
	if !qtyOK || !priceOK || len(name) <= e.cfg.MinNameLength {
		return LineItem{}, false
	}
	return e.newItem(name, qty, price, confidence, trimmed), true
}

// extractLastResort trades precision for non-emptiness: every line gets the
// relaxed shape, skipping only invoice metadata keywords and the footer
// vocabulary (footer lines must never become items, even here).
func (e *Extractor) extractLastResort(lines []string) []LineItem {
	var items []LineItem
	for _, raw := range lines {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || e.skipInLastResort(trimmed) {
			continue
		}
		m := relaxedPattern.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		qty, qtyOK := parsePositive(m[2])
		price, priceOK := parsePositive(m[3])
		name := cleanCapturedName(m[1])
		if !qtyOK || !priceOK || len(name) <= e.cfg.MinNameLength {
			continue
		}
		items = append(items, e.newItem(name, qty, price, e.cfg.LastResortConfidence, trimmed))
	}
	return items
}

func (e *Extractor) skipInLastResort(trimmed string) bool {
	lower := strings.ToLower(trimmed)
	for _, kw := range lastResortSkip {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return len(e.classifier.footer.Match([]byte(lower))) > 0
}

func (e *Extractor) newItem(name string, qty, price decimal.Decimal, confidence int, source string) LineItem {
	return LineItem{
		ID:         uuid.New(),
		Name:       name,
		Quantity:   qty,
		UnitPrice:  price,
		Confidence: confidence,
		SourceText: source,
	}
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	return lines
}

// slice returns line[from:to] clamped to the line's bounds.
func slice(line string, from, to int) string {
	if from > len(line) {
		return ""
	}
	if to > len(line) {
		to = len(line)
	}
	if from < 0 || from >= to {
		return ""
	}
	return line[from:to]
}

// firstPositiveNumber extracts the first number-like token from a column
// substring, tolerating currency symbols and surrounding text.
func firstPositiveNumber(s string) (decimal.Decimal, bool) {
	tok := numberToken.FindString(s)
	if tok == "" {
		return decimal.Decimal{}, false
	}
	return parsePositive(tok)
}

// parsePositive parses a captured number token, stripping thousands
// separators. Zero and negative values are rejected.
func parsePositive(tok string) (decimal.Decimal, bool) {
	tok = strings.ReplaceAll(strings.TrimSpace(tok), ",", "")
	d, err := decimal.NewFromString(tok)
	if err != nil || !d.IsPositive() {
		return decimal.Decimal{}, false
	}
	return d, true
}

// cleanCapturedName trims surrounding whitespace and separator punctuation
// from a captured name. Deeper normalization happens later in the pipeline.
func cleanCapturedName(s string) string {
	return strings.Trim(strings.TrimSpace(s), " .:-|\t")
}
