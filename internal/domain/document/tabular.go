package document

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// cellGap separates flattened cells. Four spaces keeps the downstream
// multi-space column split unambiguous even when cell values contain a
// single internal space.
const cellGap = "    "

// flattenDelimited renders a CSV/TSV payload as plain lines with cells
// joined by a wide whitespace gap.
func flattenDelimited(data []byte) (string, error) {
	data = normalizeText(data)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var b strings.Builder
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read delimited row: %w", err)
		}
		writeRow(&b, record)
	}

	if b.Len() == 0 {
		return "", ErrEmptyDocument
	}
	return b.String(), nil
}

// extractWorkbook renders the first sheet of an XLSX workbook as plain lines.
func extractWorkbook(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", ErrEmptyDocument
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	var b strings.Builder
	for _, row := range rows {
		writeRow(&b, row)
	}

	if b.Len() == 0 {
		return "", ErrEmptyDocument
	}
	return b.String(), nil
}

func writeRow(b *strings.Builder, cells []string) {
	trimmed := make([]string, 0, len(cells))
	empty := true
	for _, cell := range cells {
		cell = strings.TrimSpace(cell)
		if cell != "" {
			empty = false
		}
		trimmed = append(trimmed, cell)
	}
	if empty {
		return
	}
	b.WriteString(strings.TrimRight(strings.Join(trimmed, cellGap), " "))
	b.WriteByte('\n')
}

func detectDelimiter(data []byte) rune {
	sample := data
	if idx := bytes.IndexByte(sample, '\n'); idx > 0 {
		sample = sample[:idx]
	}
	delimiters := []rune{';', '\t', ',', '|'}
	best := ','
	bestCount := 0
	for _, d := range delimiters {
		if count := bytes.Count(sample, []byte(string(d))); count > bestCount {
			bestCount = count
			best = d
		}
	}
	return best
}
