package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#7D56F4")
	colorMuted  = lipgloss.Color("#6C6C6C")
	colorWarn   = lipgloss.Color("#E5C07B")
	colorError  = lipgloss.Color("#E06C75")
)

type styles struct {
	title     lipgloss.Style
	tab       lipgloss.Style
	tabActive lipgloss.Style
	card      lipgloss.Style
	hint      lipgloss.Style
	warn      lipgloss.Style
	err       lipgloss.Style
	modal     lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(colorAccent).MarginBottom(1),
		tab:       lipgloss.NewStyle().Padding(0, 1).Foreground(colorMuted),
		tabActive: lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(colorAccent),
		card:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorMuted).Padding(0, 1).MarginRight(1),
		hint:      lipgloss.NewStyle().Foreground(colorMuted),
		warn:      lipgloss.NewStyle().Foreground(colorWarn),
		err:       lipgloss.NewStyle().Foreground(colorError),
		modal:     lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(colorAccent).Padding(0, 2),
	}
}
