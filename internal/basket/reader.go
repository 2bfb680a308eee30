package basket

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadOptions controls how a flat transaction file is parsed.
type ReadOptions struct {
	Delimiter rune // field delimiter, default ','
	Header    bool // skip the first row
	// Aliases maps raw item labels to canonical ones. Applied before
	// deduplication so label variants collapse into one vocabulary entry.
	Aliases map[string]string
}

// ReadFile parses a flat file of (transaction_id, item_label) rows into
// records. Rows may carry extra trailing columns; only the first two are
// used. Blank lines are skipped.
func ReadFile(path string, opts ReadOptions) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transaction file: %w", err)
	}
	defer f.Close()

	records, err := ReadRecords(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// ReadRecords parses delimited rows from r. Exported separately so tests
// and the watch command can parse from any reader.
func ReadRecords(r io.Reader, opts ReadOptions) ([]Record, error) {
	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.FieldsPerRecord = -1 // tolerate ragged rows; we validate below
	cr.TrimLeadingSpace = true

	var records []Record
	line := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line+1, err)
		}
		line++

		if opts.Header && line == 1 {
			continue
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("row %d: expected at least 2 columns, got %d: %w", line, len(row), ErrInvalidInput)
		}

		item := strings.TrimSpace(row[1])
		if canonical, ok := opts.Aliases[item]; ok {
			item = canonical
		}

		records = append(records, Record{
			TxID: strings.TrimSpace(row[0]),
			Item: item,
		})
	}

	return records, nil
}
