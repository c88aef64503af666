package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	badge    lipgloss.Style
	selected lipgloss.Style
	muted    lipgloss.Style
	price    lipgloss.Style
	total    lipgloss.Style
	label    lipgloss.Style
	input    lipgloss.Style
	focused  lipgloss.Style
	errText  lipgloss.Style
	status   lipgloss.Style
	warning  lipgloss.Style
	box      lipgloss.Style
	thumb    lipgloss.Style
	track    lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		badge:    lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("212")).Padding(0, 1),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		price:    lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		total:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("114")),
		label:    lipgloss.NewStyle().Width(11),
		input:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		focused:  lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		errText:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		status:   lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Italic(true),
		warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		box:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("57")).Padding(0, 1),
		thumb:    lipgloss.NewStyle().Background(lipgloss.Color("57")),
		track:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}
