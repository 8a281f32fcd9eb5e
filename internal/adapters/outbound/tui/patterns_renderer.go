package tui

import (
	"fmt"
	"strings"

	"github.com/openkraft/kraftgate/internal/domain/patterns"
)

// RenderPatterns lists every rule of the library grouped by set.
func RenderPatterns(lib *patterns.Library) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Pattern library") + "  " + dimStyle.Render("v"+lib.Version) + "\n")

	for _, set := range lib.Sets() {
		b.WriteString("\n  " + headerStyle.Render(set.Name) + "\n")
		b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n")
		for _, r := range set.Rules {
			sev := ""
			if r.Severity != "" {
				sev = severityTag(r.Severity)
			}
			fmt.Fprintf(&b, "    %s %s %s\n", padRight(r.ID, 24), sev, dimStyle.Render(r.Description))
			fmt.Fprintf(&b, "      %s\n", faintStyle.Render(r.Regex))
		}
	}

	b.WriteString("\n")
	return b.String()
}
