package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Palette
var (
	ColorAccent = lipgloss.AdaptiveColor{Light: "#005F87", Dark: "#5FAFFF"}
	ColorMuted  = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6C6C6C"}
	ColorWarn   = lipgloss.AdaptiveColor{Light: "#AF5F00", Dark: "#FFAF00"}
)

// Table Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorAccent).
				Padding(0, 1)

	TableCellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	TableBorderStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarn)
)

// Section is a titled table.
type Section struct {
	Title   string
	Headers []string
	Rows    [][]string
	// Empty is printed instead of the table when there are no rows.
	Empty string
}

// Render renders the section title followed by its table.
func (s Section) Render() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(s.Title))
	b.WriteString("\n")

	if len(s.Rows) == 0 {
		empty := s.Empty
		if empty == "" {
			empty = "No data"
		}
		b.WriteString(WarningStyle.Render(empty))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(NewTable(s.Headers, s.Rows).String())
	b.WriteString("\n")
	return b.String()
}

// NewTable creates a table with the default styling
func NewTable(headers []string, rows [][]string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(TableBorderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		})
}

// RenderSections joins rendered sections with a blank line between them.
func RenderSections(sections []Section) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, s.Render())
	}
	return strings.Join(parts, "\n")
}
