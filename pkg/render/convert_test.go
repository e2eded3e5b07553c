package render

import (
	"testing"

	"github.com/matzehuels/sankeyflow/pkg/errors"
)

func TestConvertWithoutTool(t *testing.T) {
	old := converter
	converter = "sankeyflow-no-such-converter"
	t.Cleanup(func() { converter = old })

	if Available() {
		t.Fatal("Available() = true for a missing binary")
	}
	if _, err := ToPDF([]byte("<svg/>")); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPDF() error = %v, want UNSUPPORTED", err)
	}
	if _, err := ToPNG([]byte("<svg/>"), 2); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPNG() error = %v, want UNSUPPORTED", err)
	}
}

func TestToPDF(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`)
	pdf, err := ToPDF(svg)
	if err != nil {
		t.Fatalf("ToPDF() error: %v", err)
	}
	if len(pdf) < 4 || string(pdf[:4]) != "%PDF" {
		t.Errorf("output is not a PDF: %q", pdf[:min(len(pdf), 8)])
	}
}
