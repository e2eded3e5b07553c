package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/sankeyflow/pkg/pipeline"
)

// stdout receives user-facing status lines. Logs go to stderr.
var stdout io.Writer = os.Stdout

// =============================================================================
// Palette and Styles
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// Exported styles are shared by commands that build their own views.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorCyan)
	StyleLink      = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconArrow  = "→"
	iconCached = "cached"
	iconFresh  = "fresh"
)

// statusKind selects the icon and colour of a status line.
type statusKind struct {
	icon  string
	style lipgloss.Style
}

var (
	statusSuccess = statusKind{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	statusError   = statusKind{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	statusWarning = statusKind{"!", lipgloss.NewStyle().Foreground(colorYellow)}
	statusInfo    = statusKind{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

// =============================================================================
// Status Lines
// =============================================================================

func printStatus(k statusKind, msg string) {
	fmt.Fprintf(stdout, "%s %s\n", k.style.Render(k.icon), msg)
}

func printSuccess(format string, args ...any) {
	printStatus(statusSuccess, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	printStatus(statusError, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printStatus(statusWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printStatus(statusInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintf(stdout, "  %s\n", StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Fprintf(stdout, "  %s %s\n", StyleDim.Render(iconArrow), StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintf(stdout, "%s %s\n", styleKey.Render(key), StyleValue.Render(value))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintf(stdout, "%s %s\n", StyleDim.Render(description+":"), styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(stdout)
}

// printStats prints row, node and ribbon counts on one line, followed by
// whether the result came from the cache.
func printStats(st pipeline.Stats, cached bool) {
	var parts []string
	for _, c := range []struct {
		n    int
		unit string
	}{
		{st.RowCount, "rows"},
		{st.NodeCount, "nodes"},
		{st.RibbonCount, "ribbons"},
	} {
		if c.n > 0 {
			parts = append(parts, StyleDim.Render(fmt.Sprintf("%d %s", c.n, c.unit)))
		}
	}

	if cached {
		parts = append(parts, statusSuccess.style.Render(iconCached))
	} else {
		parts = append(parts, StyleDim.Render(iconFresh))
	}
	fmt.Fprintf(stdout, "  %s\n", strings.Join(parts, StyleDim.Render(" · ")))
}
