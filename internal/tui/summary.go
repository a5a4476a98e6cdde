package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"webpseq/internal/frames"
)

type SummaryRow struct {
	Label string
	Value string
}

func RenderSummary(rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(row.Label))
		valueWidth = max(valueWidth, lipgloss.Width(row.Value))
	}

	hline := strings.Repeat("-", labelWidth+valueWidth+3)
	lines := []string{hline}

	for _, row := range rows {
		label := padRight(row.Label, labelWidth)
		value := padRight(row.Value, valueWidth)
		line := fmt.Sprintf("%s | %s", labelStyle.Render(label), valueStyle.Render(value))
		lines = append(lines, line)
	}

	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

// RenderInsights lists insights one per line, or a single dim "none".
func RenderInsights(insights []frames.Insight) string {
	if len(insights) == 0 {
		return "  " + dimStyle.Render("- none")
	}
	lines := make([]string, 0, len(insights))
	for _, in := range insights {
		lines = append(lines, fmt.Sprintf("  %s %s",
			insightStyle.Render(in.Kind+":"),
			labelStyle.Render(in.Message),
		))
	}
	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

var (
	valueStyle   = lipgloss.NewStyle().Foreground(ColorInk).Bold(true)
	insightStyle = lipgloss.NewStyle().Foreground(ColorWarn)
)
