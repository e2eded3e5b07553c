package table

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/sankeyflow/pkg/errors"
)

// ImportFile reads a table from path, choosing the reader by extension:
// .csv, .tsv (tab separated) or .json.
func ImportFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return ReadCSV(f, CSVOptions{})
	case ".tsv":
		return ReadCSV(f, CSVOptions{Comma: '\t'})
	case ".json":
		return ReadJSON(f)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported table format %q (want .csv, .tsv or .json)", ext)
	}
}
