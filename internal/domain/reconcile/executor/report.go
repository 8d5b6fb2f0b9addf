package executor

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// WriteCSV writes the per-record results of a run as a CSV report, one row
// per processed candidate.
func WriteCSV(w io.Writer, summary Summary) error {
	rows := summary.Results
	if rows == nil {
		rows = []Result{}
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("failed to write import report: %w", err)
	}
	return nil
}
