package console

import "github.com/charmbracelet/lipgloss"

const (
	primaryColor = "#7C3AED"
	successColor = "#10B981"
	warningColor = "#F59E0B"
	errorColor   = "#EF4444"
	dimColor     = "#6B7280"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(primaryColor)).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(primaryColor)).
			Padding(0, 1)

	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(dimColor))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(successColor))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(warningColor))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(errorColor))
	labelStyle   = lipgloss.NewStyle().Bold(true)

	progressFullStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(successColor))
	progressEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(dimColor))
)

// palette switches styling off when output is not a terminal
type palette struct {
	color bool
}

func (p palette) render(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}
