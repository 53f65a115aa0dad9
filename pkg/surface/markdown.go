package surface

import (
	"fmt"
	"io"
	"strings"
)

// MarkdownRenderer renders a Report as a Markdown summary, suitable for
// pasting into chat or issue trackers.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(w io.Writer, report *Report) error {
	_, err := io.WriteString(w, BuildMarkdownSummary(report))
	return err
}

// BuildMarkdownSummary returns the Markdown body for a report.
func BuildMarkdownSummary(report *Report) string {
	var sb strings.Builder
	res := report.Result

	title := "Best team"
	if report.Profile != "" {
		title += " for " + report.Profile
	}
	if res == nil {
		sb.WriteString(fmt.Sprintf("## %s\n\n_No result._\n", title))
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("## %s: %.1f\n\n", title, res.Total))
	sb.WriteString(fmt.Sprintf("Event type **%s**, %s.\n\n", res.EventType, investmentLabel(res.Investment)))

	members := report.Members()
	if len(members) > 0 {
		sb.WriteString("| # | Card | Name | Band | Score | Skill | Bonus |\n")
		sb.WriteString("|---|------|------|------|-------|-------|-------|\n")
		for i, m := range members {
			sb.WriteString(fmt.Sprintf("| %d | %d | %s | %s | %d | %.4f | %.2f |\n",
				i+1, m.CardID, m.Name, m.Band, m.Score, m.SkillMul, m.BonusMul))
		}
		sb.WriteString("\n")
	}

	// Warnings (max 5)
	if len(res.Warnings) > 0 {
		sb.WriteString("### Warnings\n\n")
		max := 5
		if len(res.Warnings) < max {
			max = len(res.Warnings)
		}
		for _, warn := range res.Warnings[:max] {
			sb.WriteString(fmt.Sprintf("- %s\n", warn))
		}
		if len(res.Warnings) > 5 {
			sb.WriteString(fmt.Sprintf("_... and %d more_\n", len(res.Warnings)-5))
		}
	}

	return sb.String()
}
