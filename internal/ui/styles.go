package ui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title          lipgloss.Style
	column         lipgloss.Style
	columnSelected lipgloss.Style
	columnTitle    lipgloss.Style
	task           lipgloss.Style
	selected       lipgloss.Style
	marker         lipgloss.Style
	toast          lipgloss.Style
	status         lipgloss.Style
	help           lipgloss.Style
}

// newStyles builds the palette for the requested theme. The two
// palettes differ only in colors; layout is shared.
func newStyles(dark bool) styles {
	fg := lipgloss.Color("235")
	dim := lipgloss.Color("245")
	accent := lipgloss.Color("25")
	border := lipgloss.Color("250")
	if dark {
		fg = lipgloss.Color("252")
		dim = lipgloss.Color("243")
		accent = lipgloss.Color("39")
		border = lipgloss.Color("240")
	}

	column := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(28)

	return styles{
		title:          lipgloss.NewStyle().Bold(true).Foreground(accent),
		column:         column,
		columnSelected: column.BorderForeground(accent),
		columnTitle:    lipgloss.NewStyle().Bold(true).Foreground(fg).Underline(true),
		task:           lipgloss.NewStyle().Foreground(fg),
		selected:       lipgloss.NewStyle().Foreground(accent).Bold(true),
		marker:         lipgloss.NewStyle().Foreground(accent).Italic(true),
		toast:          lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
		status:         lipgloss.NewStyle().Foreground(fg),
		help:           lipgloss.NewStyle().Foreground(dim),
	}
}
