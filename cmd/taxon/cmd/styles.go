package cmd

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/msto63/taxon/pkg/core/health"
)

var (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorSecondary = lipgloss.Color("#10B981")
	colorAccent    = lipgloss.Color("#F59E0B")
	colorError     = lipgloss.Color("#EF4444")
	colorMuted     = lipgloss.Color("#6B7280")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(14)

	valueStyle = lipgloss.NewStyle()

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	statusStyles = map[health.Status]lipgloss.Style{
		health.StatusHealthy:   lipgloss.NewStyle().Foreground(colorSecondary),
		health.StatusDegraded:  lipgloss.NewStyle().Foreground(colorAccent),
		health.StatusUnhealthy: lipgloss.NewStyle().Foreground(colorError),
	}
)

// renderRow formats one label/value line of the show output
func renderRow(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label+":"), valueStyle.Render(value))
}

// renderStatus colors a health status
func renderStatus(s health.Status) string {
	style, ok := statusStyles[s]
	if !ok {
		style = lipgloss.NewStyle().Foreground(colorMuted)
	}
	return style.Render(string(s))
}
