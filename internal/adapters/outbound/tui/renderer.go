package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/openkraft/kraftgate/internal/domain"
)

// ── warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	dimStyle         = lipgloss.NewStyle().Foreground(dim)
	faintStyle       = lipgloss.NewStyle().Foreground(faint)
	passStyle        = lipgloss.NewStyle().Foreground(success)
	failStyle        = lipgloss.NewStyle().Foreground(danger)
	criticalTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	highTagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FB923C")).Bold(true)
	mediumTagStyle   = lipgloss.NewStyle().Foreground(warning)
	lowTagStyle      = lipgloss.NewStyle().Foreground(info)
	fileStyle        = lipgloss.NewStyle().Foreground(dim)
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine    = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderReport formats a validation report for terminal output.
func RenderReport(report *domain.Report) string {
	var b strings.Builder

	// ── Header ──
	verdict := failStyle.Bold(true).Render("REJECTED")
	if report.Passed {
		verdict = passStyle.Bold(true).Render("ACCEPTED")
	}
	title := headerStyle.Render("kraftgate")
	subtitle := dimStyle.Render("solution " + report.SolutionID)
	scoreStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(scoreColor(report.Score)).
		Render(fmt.Sprintf("%d / 100", report.Score))
	threshold := dimStyle.Render(fmt.Sprintf("threshold %d", report.Threshold))

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + scoreStyled + "  " + verdict + "\n" + threshold))
	b.WriteString("\n\n")

	if report.CommitHash != "" {
		b.WriteString("  " + dimStyle.Render("snapshot "+shortHash(report.CommitHash)) + "\n\n")
	}

	// ── Issues ──
	if len(report.Issues) > 0 {
		b.WriteString("  ")
		b.WriteString(titleStyle.Render("Issues"))
		b.WriteString("  ")
		b.WriteString(severitySummary(report))
		b.WriteString("\n\n")

		for _, issue := range report.Issues {
			renderIssue(&b, issue)
		}
	} else {
		b.WriteString("  " + passStyle.Render("No issues found.") + "\n")
	}

	b.WriteString("\n")
	b.WriteString("  " + separatorLine)
	b.WriteString("\n\n")

	// ── Recommendations ──
	b.WriteString("  " + titleStyle.Render("Recommendations") + "\n\n")
	for _, rec := range report.Recommendations {
		fmt.Fprintf(&b, "    %s %s\n", faintStyle.Render("›"), rec)
	}

	b.WriteString("\n")
	return b.String()
}

func severitySummary(report *domain.Report) string {
	var parts []string
	for i := len(domain.Severities) - 1; i >= 0; i-- {
		s := domain.Severities[i]
		if n := report.CountBySeverity(s); n > 0 {
			parts = append(parts, severityStyle(s).Render(fmt.Sprintf("%d %s", n, s)))
		}
	}
	return strings.Join(parts, "  ")
}

func renderIssue(b *strings.Builder, issue domain.Issue) {
	tag := severityTag(issue.Severity)
	category := faintStyle.Render(string(issue.Category))

	if issue.File != "" {
		loc := shortenPath(issue.File)
		if issue.Line > 0 {
			loc = fmt.Sprintf("%s:%d", loc, issue.Line)
		}
		fmt.Fprintf(b, "    %s %s %s\n", tag, fileStyle.Render(loc), category)
		fmt.Fprintf(b, "             %s\n", dimStyle.Render(issue.Message))
	} else {
		fmt.Fprintf(b, "    %s %s %s\n", tag, dimStyle.Render(issue.Message), category)
	}
}

func severityTag(s domain.Severity) string {
	return severityStyle(s).Render(padRight(string(s), 8))
}

func severityStyle(s domain.Severity) lipgloss.Style {
	switch s {
	case domain.SeverityCritical:
		return criticalTagStyle
	case domain.SeverityHigh:
		return highTagStyle
	case domain.SeverityMedium:
		return mediumTagStyle
	default:
		return lowTagStyle
	}
}

func scoreColor(score int) lipgloss.Color {
	switch {
	case score >= 80:
		return success
	case score >= 60:
		return lipgloss.Color("#A3E635") // lime
	case score >= 40:
		return warning
	default:
		return danger
	}
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

func shortenPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) > 3 {
		return strings.Join(parts[len(parts)-3:], "/")
	}
	return path
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
