package report

import (
	"fmt"
	"strings"
)

func renderMarkdown(v planView) string {
	var sb strings.Builder

	sb.WriteString("# Security Explain Plan\n\n")
	fmt.Fprintf(&sb, "**Generated:** %s  \n", v.Generated)
	fmt.Fprintf(&sb, "**Grade:** %s (%s)  \n", v.Grade, v.Grade.Label())
	fmt.Fprintf(&sb, "**Must-fix effort:** %dh  \n", v.Effort)
	fmt.Fprintf(&sb, "**Known exploited:** %d\n\n", v.KEV)

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Tier | Count | Effort |\n")
	sb.WriteString("| :--- | :--- | :--- |\n")
	for _, t := range v.Tiers {
		fmt.Fprintf(&sb, "| %s | %d | %dh |\n", t.Level, len(t.Items), t.Hours)
	}
	sb.WriteString("\n")

	for _, t := range v.Tiers {
		fmt.Fprintf(&sb, "## %s (%d)\n\n", t.Level, len(t.Items))
		if len(t.Items) == 0 {
			sb.WriteString("_No findings._\n\n")
			continue
		}
		sb.WriteString("| ID | Package | Installed | Fixed | CVSS | KEV | Effort | Title |\n")
		sb.WriteString("|---|---|---|---|---|---|---|---|\n")
		for _, it := range t.Items {
			kev := ""
			if it.KEV() {
				kev = "yes"
			}
			fmt.Fprintf(&sb, "| %s | %s | %s | %s | %.1f | %s | %dh | %s |\n",
				cell(it.ID()), cell(it.Package()), cell(it.InstalledVersion()), cell(it.FixedVersion()),
				it.CVSSScore(), kev, it.EffortHours(), cell(it.Title()))
		}
		sb.WriteString("\n")
	}

	if v.Skipped > 0 {
		fmt.Fprintf(&sb, "> [!WARNING]\n> %d malformed scan entries were skipped.\n", v.Skipped)
	}
	return sb.String()
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
