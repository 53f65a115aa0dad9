package surface

import (
	"fmt"
	"io"
	"os"

	"github.com/dorifit/dorifit/pkg/masterdata"
	"github.com/dorifit/dorifit/pkg/scoring"
)

// TerminalRenderer renders a Report as colored terminal output.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *TerminalRenderer) Render(w io.Writer, report *Report) error {
	res := report.Result
	if res == nil {
		return fmt.Errorf("report has no result")
	}

	title := "dorifit: best team"
	if report.Profile != "" {
		title += " for " + report.Profile
	}
	fmt.Fprintf(w, "%s\n\n", bold(title))
	fmt.Fprintf(w, "Event type: %s\n", res.EventType)
	fmt.Fprintf(w, "Best context: %s\n", investmentLabel(res.Investment))
	fmt.Fprintf(w, "Contexts evaluated: %d\n\n", res.Contexts)

	members := report.Members()
	if len(members) == 0 {
		fmt.Fprintln(w, "No eligible cards.")
		fmt.Fprintln(w)
	} else {
		fmt.Fprintf(w, "  %-3s %-7s %-30s %-9s %-22s %8s %7s %6s\n",
			"#", "card", "name", "attr", "band", "score", "skill", "bonus")
		for i, m := range members {
			name := m.Name
			if name == "" {
				name = dim("-")
			}
			fmt.Fprintf(w, "  %-3d %-7d %-30s %-9s %-22s %8d %7.4f %6.2f\n",
				i+1, m.CardID, name, m.Attribute, m.Band, m.Score, m.SkillMul, m.BonusMul)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%s\n", bold(fmt.Sprintf("Total: %s", colored(fmt.Sprintf("%.1f", res.Total), colorGreen))))

	if !res.EventType.SkillSensitive() && len(report.Catalog) > 0 && len(members) > 0 {
		fmt.Fprintf(w, "%s\n", dim(fmt.Sprintf("Nominal skill strength: %.2f (not simulated for %s events)",
			nominalSkill(report, members), scoring.EventStory)))
	}

	if len(res.Warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range res.Warnings {
			fmt.Fprintf(w, "  %s %s\n", colored("!", colorYellow), warn)
		}
	}
	fmt.Fprintln(w)
	return nil
}

// nominalSkill averages the default multipliers of the members' skills.
func nominalSkill(report *Report, members []MemberView) float64 {
	var sum float64
	for _, m := range members {
		skillID := 0
		if card, ok := report.Catalog[m.CardID]; ok && card != nil {
			skillID = card.SkillID
		}
		sum += masterdata.DefaultSkillMultiplier(skillID)
	}
	return sum / float64(len(members))
}
