// Package ui holds the lipgloss styles shared by every command so the
// agent's output chrome stays consistent.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Title renders screen headings
	Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))

	// Section renders menu group labels (Empresas, Informes, ...)
	Section = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("240")).Transform(strings.ToUpper)

	// Item renders a menu entry
	Item = lipgloss.NewStyle().PaddingLeft(2)

	// Identity renders the signed-in user line in the chrome
	Identity = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	// ErrLine renders inline error messages next to the failing form
	ErrLine = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	// OkLine renders success confirmations
	OkLine = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	header = lipgloss.NewStyle().Bold(true).Underline(true)
)

var pillStyles = map[string]lipgloss.Style{
	"signed":  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	"open":    lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	"draft":   lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	"closed":  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	"expired": lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
}

// StatusPill colors a report/work-order status the way the web UI's
// pills did; unknown statuses render unstyled
func StatusPill(status string) string {
	if style, ok := pillStyles[status]; ok {
		return style.Render(status)
	}
	return status
}

// Table renders rows under headers with padded columns. Good enough for
// listings; nothing here paginates, the backend already does.
func Table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	for i, h := range headers {
		b.WriteString(header.Render(pad(h, widths[i])))
		if i < len(headers)-1 {
			b.WriteString("  ")
		}
	}
	b.WriteString("\n")

	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			b.WriteString(pad(cell, widths[i]))
			if i < len(row)-1 {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// Dash substitutes an em-dash-free placeholder for empty cells
func Dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Count formats "N of M" pagination footers
func Count(shown, total, page, pages int) string {
	return Identity.Render(fmt.Sprintf("%d shown, %d total (page %d/%d)", shown, total, page, pages))
}
