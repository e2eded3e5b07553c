package table

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/sankeyflow/pkg/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		tbl  *Table
		code errors.Code
	}{
		{"valid", New(2).Append(Pair("a", 1), Pair("b", 1)), ""},
		{"null label ignores weight", New(2).Append(Pair("a", 1), Cell{Weight: W(math.NaN())}), ""},
		{"no rows", New(2), errors.ErrCodeInvalidTable},
		{"nil", nil, errors.ErrCodeInvalidTable},
		{"one stage", New(1).Append(Pair("a", 1)), errors.ErrCodeInvalidTable},
		{"ragged", &Table{Rows: []Row{{Pair("a", 1), Pair("b", 1)}, {Pair("a", 1)}}}, errors.ErrCodeInvalidTable},
		{"null weight", New(2).Append(Pair("a", 1), Cell{Label: L("b")}), errors.ErrCodeNullsPresent},
		{"nan weight", New(2).Append(Pair("a", math.NaN()), Pair("b", 1)), errors.ErrCodeNullsPresent},
		{"negative weight", New(2).Append(Pair("a", -1), Pair("b", 1)), errors.ErrCodeInvalidTable},
		{"infinite weight", New(2).Append(Pair("a", math.Inf(1)), Pair("b", 1)), errors.ErrCodeInvalidTable},
		{"title count", &Table{Titles: []string{"x"}, Rows: []Row{{Pair("a", 1), Pair("b", 1)}}}, errors.ErrCodeInvalidTable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tbl.Validate()
			if tt.code == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLabels(t *testing.T) {
	tbl := New(3).
		Append(Pair("b", 1), Pair("a", 1), Null).
		Append(Pair("c", 1), Pair("b", 1), Pair("d", 1))
	want := []string{"b", "a", "c", "d"}
	if diff := cmp.Diff(want, tbl.Labels()); diff != "" {
		t.Errorf("Labels() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCSV(t *testing.T) {
	in := `2020,w2020,2021,w2021
apple,10,apple,8
pear,NaN,,
plum,3,pear,
`
	tbl, err := ReadCSV(strings.NewReader(in), CSVOptions{})
	if err != nil {
		t.Fatalf("ReadCSV() error: %v", err)
	}
	if diff := cmp.Diff([]string{"2020", "2021"}, tbl.Titles); diff != "" {
		t.Errorf("titles mismatch (-want +got):\n%s", diff)
	}
	if len(tbl.Rows) != 3 || tbl.Stages() != 2 {
		t.Fatalf("rows %d stages %d", len(tbl.Rows), tbl.Stages())
	}
	if got := tbl.Rows[0][1].Value(); got != 8 {
		t.Errorf("row 0 stage 1 weight = %v", got)
	}
	if tbl.Rows[1][0].Weight != nil {
		t.Error("NaN should read as null weight")
	}
	if tbl.Rows[1][1].Participates() {
		t.Error("empty label should read as null")
	}
	if err := tbl.Validate(); !errors.Is(err, errors.ErrCodeNullsPresent) {
		t.Errorf("Validate() = %v, want NULLS_PRESENT", err)
	}
}

func TestReadCSVHeaderModes(t *testing.T) {
	in := "a,1,b,2\n"
	tbl, err := ReadCSV(strings.NewReader(in), CSVOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(tbl.Titles) != 0 || len(tbl.Rows) != 1 {
		t.Errorf("auto mode: titles %v rows %d", tbl.Titles, len(tbl.Rows))
	}

	tbl, err = ReadCSV(strings.NewReader(in), CSVOptions{Header: HeaderPresent})
	if err != nil {
		t.Fatal(err)
	}
	if len(tbl.Titles) != 2 || len(tbl.Rows) != 0 {
		t.Errorf("forced header: titles %v rows %d", tbl.Titles, len(tbl.Rows))
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"odd columns", "a,1,b\n"},
		{"bad weight", "a,1,b,2\nc,x,d,1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in), CSVOptions{Header: HeaderAbsent})
			if !errors.Is(err, errors.ErrCodeInvalidTable) {
				t.Errorf("error = %v, want INVALID_TABLE", err)
			}
		})
	}
}

func TestReadCSVTabs(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("a\t1\tb\t2\n"), CSVOptions{Comma: '\t'})
	if err != nil {
		t.Fatal(err)
	}
	if got := tbl.Rows[0][1].LabelOr(""); got != "b" {
		t.Errorf("label = %q", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	orig := New(2).Append(Pair("a", 1.5), Null).Append(Cell{Label: L("b")}, Pair("c", 2))
	orig.Titles = []string{"x", "y"}

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"titles":["x","y"],"rows":[["a",1.5,null,null],["b",null,"c",2]]}`
	if string(data) != want {
		t.Errorf("MarshalJSON = %s, want %s", data, want)
	}

	back, err := ReadJSON(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if mustHash(t, back) != mustHash(t, orig) {
		t.Error("round trip changed the table hash")
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []string{
		`{"rows": [["a", 1, "b"]]}`,
		`{"rows": [[1, 1, "b", 2]]}`,
		`{"rows": [["a", "1", "b", 2]]}`,
		`not json`,
	}
	for _, in := range tests {
		if _, err := ReadJSON(strings.NewReader(in)); !errors.Is(err, errors.ErrCodeInvalidTable) {
			t.Errorf("ReadJSON(%s) error = %v, want INVALID_TABLE", in, err)
		}
	}
}

func mustHash(t *testing.T, tbl *Table) string {
	t.Helper()
	h, err := tbl.Hash()
	if err != nil {
		t.Fatalf("Hash() error: %v", err)
	}
	return h
}

func TestHashDistinguishesTables(t *testing.T) {
	a := New(2).Append(Pair("a", 1), Pair("b", 1))
	b := New(2).Append(Pair("a", 1), Pair("b", 2))
	if mustHash(t, a) == mustHash(t, b) {
		t.Error("different tables should hash differently")
	}
}

func TestHashUnserialisable(t *testing.T) {
	for _, w := range []float64{math.Inf(1), math.NaN()} {
		tbl := New(2).Append(Pair("a", w), Pair("b", 1))
		h, err := tbl.Hash()
		if !errors.Is(err, errors.ErrCodeInvalidTable) || h != "" {
			t.Errorf("Hash() with weight %v = %q, %v; want INVALID_TABLE", w, h, err)
		}
	}
}

func TestImportFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	csvPath := write("flows.csv", "a,1,b,1\n")
	tsvPath := write("flows.tsv", "a\t1\tb\t1\n")
	jsonPath := write("flows.json", `{"rows":[["a",1,"b",1]]}`)
	for _, p := range []string{csvPath, tsvPath, jsonPath} {
		tbl, err := ImportFile(p)
		if err != nil {
			t.Errorf("ImportFile(%s) error: %v", filepath.Base(p), err)
			continue
		}
		if err := tbl.Validate(); err != nil {
			t.Errorf("ImportFile(%s) invalid: %v", filepath.Base(p), err)
		}
	}

	if _, err := ImportFile(filepath.Join(dir, "missing.csv")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}
	if _, err := ImportFile(write("flows.xlsx", "")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown extension error = %v", err)
	}
}
