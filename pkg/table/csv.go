package table

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/sankeyflow/pkg/errors"
)

// HeaderMode controls whether the first CSV record is a header.
type HeaderMode int

const (
	// HeaderAuto treats the first record as a header when any of its weight
	// columns is non-empty and not a number.
	HeaderAuto HeaderMode = iota
	HeaderPresent
	HeaderAbsent
)

// CSVOptions configures [ReadCSV].
type CSVOptions struct {
	Comma  rune // Field delimiter (default ',')
	Header HeaderMode
}

// ReadCSV reads alternating label/weight columns. Empty labels are nulls;
// empty weights and the literals NaN, null and None are null weights.
// Header titles are taken from the label columns.
func ReadCSV(r io.Reader, opts CSVOptions) (*Table, error) {
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTable, err, "read csv")
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidTable, "csv is empty")
	}

	t := &Table{}
	if isHeader(records[0], opts.Header) {
		for i := 0; i < len(records[0]); i += 2 {
			t.Titles = append(t.Titles, strings.TrimSpace(records[0][i]))
		}
		records = records[1:]
	}

	for i, rec := range records {
		if len(rec)%2 != 0 {
			return nil, errors.New(errors.ErrCodeInvalidTable,
				"record %d: %d columns, want alternating label/weight pairs", i+1, len(rec))
		}
		row := make(Row, len(rec)/2)
		for s := range row {
			if label := strings.TrimSpace(rec[2*s]); label != "" {
				row[s].Label = L(label)
			}
			w, err := parseWeight(rec[2*s+1])
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidTable, err, "record %d stage %d", i+1, s)
			}
			row[s].Weight = w
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func isHeader(rec []string, mode HeaderMode) bool {
	switch mode {
	case HeaderPresent:
		return true
	case HeaderAbsent:
		return false
	}
	for i := 1; i < len(rec); i += 2 {
		if _, err := parseWeight(rec[i]); err != nil {
			return true
		}
	}
	return false
}

func parseWeight(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "null", "none":
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
