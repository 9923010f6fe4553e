package render

import "github.com/charmbracelet/lipgloss"

// Origin-coded colors, matching the DOT export palette.
var (
	observedColor     = lipgloss.Color("#A3D5FF")
	inferredColor     = lipgloss.Color("#7FC97F")
	hypotheticalColor = lipgloss.Color("#F59E0B")
	ruleColor         = lipgloss.Color("#FB8072")
	mutedColor        = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true)

	observedStyle     = lipgloss.NewStyle().Foreground(observedColor)
	inferredStyle     = lipgloss.NewStyle().Foreground(inferredColor)
	hypotheticalStyle = lipgloss.NewStyle().Foreground(hypotheticalColor).Bold(true)
	ruleStyle         = lipgloss.NewStyle().Foreground(ruleColor)
	mutedStyle        = lipgloss.NewStyle().Foreground(mutedColor)
	scoreStyle        = lipgloss.NewStyle().Bold(true)
)
