package table

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/sankeyflow/pkg/errors"
)

type tableJSON struct {
	Titles []string `json:"titles,omitempty"`
	Rows   [][]any  `json:"rows"`
}

// MarshalJSON flattens rows into alternating label/weight arrays with JSON
// nulls for null cells.
func (t *Table) MarshalJSON() ([]byte, error) {
	out := tableJSON{Titles: t.Titles, Rows: make([][]any, len(t.Rows))}
	for i, row := range t.Rows {
		flat := make([]any, 0, 2*len(row))
		for _, c := range row {
			var label, weight any
			if c.Label != nil {
				label = *c.Label
			}
			if c.Weight != nil {
				weight = *c.Weight
			}
			flat = append(flat, label, weight)
		}
		out.Rows[i] = flat
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the format written by [Table.MarshalJSON]. Labels
// must be strings or null and weights numbers or null.
func (t *Table) UnmarshalJSON(data []byte) error {
	var in tableJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTable, err, "decode table")
	}

	rows := make([]Row, len(in.Rows))
	for i, flat := range in.Rows {
		if len(flat)%2 != 0 {
			return errors.New(errors.ErrCodeInvalidTable,
				"row %d: %d fields, want alternating label/weight pairs", i, len(flat))
		}
		row := make(Row, len(flat)/2)
		for s := range row {
			switch v := flat[2*s].(type) {
			case nil:
			case string:
				row[s].Label = L(v)
			default:
				return errors.New(errors.ErrCodeInvalidTable, "row %d stage %d: label must be a string, got %v", i, s, v)
			}
			switch v := flat[2*s+1].(type) {
			case nil:
			case float64:
				row[s].Weight = W(v)
			default:
				return errors.New(errors.ErrCodeInvalidTable, "row %d stage %d: weight must be a number, got %v", i, s, v)
			}
		}
		rows[i] = row
	}

	*t = Table{Titles: in.Titles, Rows: rows}
	return nil
}

// ReadJSON decodes a table from r. It does not validate the result.
func ReadJSON(r io.Reader) (*Table, error) {
	var t Table
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidTable, err, "decode table")
	}
	return &t, nil
}
