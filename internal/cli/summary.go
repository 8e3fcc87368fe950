package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/williampepple1/trust-score-scraper/internal/presenter"
	"github.com/williampepple1/trust-score-scraper/pkg/models"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

// scoreStyle colors a percentage like a traffic light
func scoreStyle(pct int) lipgloss.Style {
	switch {
	case pct >= 70:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	case pct >= 40:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	default:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	}
}

// renderResult formats one page load for the terminal
func renderResult(r models.Result) string {
	var b strings.Builder

	title := r.URL
	if r.Snapshot != nil && r.Snapshot.Title != "" {
		title = r.Snapshot.Title
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(r.URL))
	b.WriteString("\n\n")

	if r.Score == nil {
		b.WriteString(errorStyle.Render(presenter.ErrorMessage))
		if r.Err != "" {
			b.WriteString("\n")
			b.WriteString(mutedStyle.Render(r.Err))
		}
		return boxStyle.Render(b.String())
	}

	overall := presenter.Percent(r.Score.TrustScore)
	b.WriteString(fmt.Sprintf("Trust Score  %s\n", scoreStyle(overall).Render(fmt.Sprintf("%d%%", overall))))

	d := r.Score.Details
	rows := []struct {
		label string
		dim   models.Dimension
	}{
		{"Image Match", d.ImageTextAlignment},
		{"Review Quality", d.ReviewAuthenticity},
		{"Brand Verification", d.LogoVerification},
		{"Return Feedback", d.ReturnsFeedback},
	}
	for _, row := range rows {
		pct := presenter.Percent(row.dim.Score)
		b.WriteString(fmt.Sprintf("\n%-19s %s", row.label, scoreStyle(pct).Render(fmt.Sprintf("%3d%%", pct))))
	}

	if r.RenderedFile != "" {
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("Annotated page: " + r.RenderedFile))
	}
	return boxStyle.Render(b.String())
}

// renderTotals formats the batch footer
func renderTotals(results []models.Result, output string) string {
	ready := 0
	for _, r := range results {
		if r.Score != nil {
			ready++
		}
	}
	line := fmt.Sprintf("Scored %d of %d pages", ready, len(results))
	if failed := len(results) - ready; failed > 0 {
		line += errorStyle.Render(fmt.Sprintf(" (%d failed)", failed))
	}
	if output != "" {
		line += mutedStyle.Render(" -> " + output)
	}
	return titleStyle.Render(line)
}
