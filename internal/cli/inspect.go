package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sankeyflow/pkg/render/sankey/layout"
)

// inspectCommand creates the inspect command, an interactive stage browser.
func (c *CLI) inspectCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "inspect [table]",
		Short: "Browse the stages, nodes and flows of a table interactively",
		Args:  cobra.ExactArgs(1),
	}

	flags := newOptionFlags(cmd.Flags())
	addLayoutFlags(flags)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts, err := c.loadOptions(flags)
		if err != nil {
			return err
		}
		runner, err := c.newRunner(noCache)
		if err != nil {
			return fmt.Errorf("initialize runner: %w", err)
		}
		defer runner.Close()

		ctx := cmd.Context()
		t, err := runner.Import(ctx, args[0])
		if err != nil {
			return err
		}
		l, err := runner.Layout(ctx, t, opts)
		if err != nil {
			return err
		}

		titles := opts.Titles
		if len(titles) == 0 {
			titles = t.Titles
		}
		_, err = tea.NewProgram(newInspectModel(l, titles), tea.WithContext(ctx)).Run()
		return err
	}
	return cmd
}

// =============================================================================
// inspectModel - Interactive layout browser
// =============================================================================

var (
	inspectSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	inspectNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	inspectDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// inspectModel is the bubbletea model for browsing a layout. Nodes are
// listed top-down, the way they appear in the diagram.
type inspectModel struct {
	layout layout.Layout
	titles []string
	stage  int
	cursor int
}

func newInspectModel(l layout.Layout, titles []string) inspectModel {
	return inspectModel{layout: l, titles: titles}
}

func (m inspectModel) Init() tea.Cmd {
	return nil
}

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h":
		if m.stage > 0 {
			m.stage--
			m.cursor = m.clampCursor()
		}
	case "right", "l":
		if m.stage < m.layout.Stages-1 {
			m.stage++
			m.cursor = m.clampCursor()
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.nodes())-1 {
			m.cursor++
		}
	}
	return m, nil
}

func (m inspectModel) clampCursor() int {
	return max(0, min(m.cursor, len(m.nodes())-1))
}

// nodes returns the current stage's nodes from top to bottom.
func (m inspectModel) nodes() []layout.Node {
	if m.stage >= len(m.layout.Nodes) {
		return nil
	}
	col := m.layout.Nodes[m.stage]
	out := make([]layout.Node, len(col))
	for i, n := range col {
		out[len(col)-1-i] = n
	}
	return out
}

// selected returns the node under the cursor.
func (m inspectModel) selected() (layout.Node, bool) {
	nodes := m.nodes()
	if m.cursor < 0 || m.cursor >= len(nodes) {
		return layout.Node{}, false
	}
	return nodes[m.cursor], true
}

func (m inspectModel) stageTitle(s int) string {
	if s < len(m.titles) && m.titles[s] != "" {
		return m.titles[s]
	}
	return fmt.Sprintf("Stage %d", s+1)
}

func (m inspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.stageTitle(m.stage)))
	b.WriteString(inspectDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.stage+1, m.layout.Stages)))
	b.WriteString("\n")
	b.WriteString(inspectDimStyle.Render("←/→ stage  ↑/↓ node  q quit"))
	b.WriteString("\n\n")

	total := 0.0
	if m.stage < len(m.layout.StageTotals) {
		total = m.layout.StageTotals[m.stage]
	}

	nodes := m.nodes()
	rows := make([][]string, 0, len(nodes))
	for i, n := range nodes {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		share := 0.0
		if total > 0 {
			share = 100 * n.Weight / total
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(n.Color.Hex())).Render("██")
		rows = append(rows, []string{cursor, swatch, n.Label, formatWeight(n.Weight), fmt.Sprintf("%.1f%%", share)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Label", "Weight", "Share").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row == m.cursor {
				return inspectSelectedStyle
			}
			return inspectNormalStyle
		})
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(inspectDimStyle.Render(fmt.Sprintf("  total %s", formatWeight(total))))
	b.WriteString("\n")

	if n, ok := m.selected(); ok {
		b.WriteString("\n")
		b.WriteString(m.flowView(n))
	}
	return b.String()
}

// flowView lists the ribbons entering and leaving n.
func (m inspectModel) flowView(n layout.Node) string {
	var in, out []string
	for _, r := range m.layout.Ribbons {
		switch {
		case r.Stage == n.Stage-1 && r.Right == n.Label:
			in = append(in, fmt.Sprintf("  %s %s %s", r.Left, iconArrow, StyleHighlight.Render(formatWeight(r.RightWeight))))
		case r.Stage == n.Stage && r.Left == n.Label:
			out = append(out, fmt.Sprintf("  %s %s %s", StyleHighlight.Render(formatWeight(r.LeftWeight)), iconArrow, r.Right))
		}
	}

	var b strings.Builder
	if len(in) > 0 {
		b.WriteString(inspectDimStyle.Render("from " + m.stageTitle(n.Stage-1)))
		b.WriteString("\n")
		b.WriteString(strings.Join(in, "\n"))
		b.WriteString("\n")
	}
	if len(out) > 0 {
		b.WriteString(inspectDimStyle.Render("to " + m.stageTitle(n.Stage+1)))
		b.WriteString("\n")
		b.WriteString(strings.Join(out, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

// formatWeight prints integers without decimals and everything else with two.
func formatWeight(w float64) string {
	if w == float64(int64(w)) {
		return fmt.Sprintf("%d", int64(w))
	}
	return fmt.Sprintf("%.2f", w)
}
