// Package document converts uploaded files into the plain text the
// reconciliation pipeline consumes. Supported inputs are plain text, CSV/TSV
// (flattened to whitespace-columned lines) and XLSX. Scanned or image-only
// documents are out of scope; there is no OCR here.
package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrEmptyDocument indicates the uploaded file had no content.
var ErrEmptyDocument = errors.New("document is empty")

// ExtractionError is fatal to an import session: if the source text cannot
// be recovered, nothing downstream runs.
type ExtractionError struct {
	Name string // original file name
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract text from %q: %v", e.Name, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ExtractText converts an uploaded document into plain text, dispatching on
// the file extension. Unknown extensions are treated as plain text.
func ExtractText(name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", &ExtractionError{Name: name, Err: ErrEmptyDocument}
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".tsv":
		text, err := flattenDelimited(data)
		if err != nil {
			return "", &ExtractionError{Name: name, Err: err}
		}
		return text, nil
	case ".xlsx", ".xlsm":
		text, err := extractWorkbook(data)
		if err != nil {
			return "", &ExtractionError{Name: name, Err: err}
		}
		return text, nil
	case ".pdf":
		return "", &ExtractionError{Name: name, Err: ErrPDFNotSupported}
	default:
		return string(normalizeText(data)), nil
	}
}

// normalizeText strips a UTF-8 BOM and falls back to latin-1 decoding when
// the payload is not valid UTF-8.
func normalizeText(data []byte) []byte {
	data = stripUTF8BOM(data)
	if utf8.Valid(data) {
		return data
	}
	return decodeLatin1(data)
}

func stripUTF8BOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}

func decodeLatin1(data []byte) []byte {
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return []byte(string(runes))
}
