package surface

import (
	"encoding/json"
	"io"

	"github.com/dorifit/dorifit/pkg/scoring"
)

// JSONRenderer marshals a Report to indented JSON.
type JSONRenderer struct{}

type jsonReport struct {
	Profile    string             `json:"profile,omitempty"`
	EventType  scoring.EventType  `json:"event_type"`
	Investment scoring.Investment `json:"investment"`
	Total      float64            `json:"total"`
	Contexts   int                `json:"contexts_evaluated"`
	Members    []MemberView       `json:"members"`
	Warnings   []string           `json:"warnings,omitempty"`
}

func (r *JSONRenderer) Render(w io.Writer, report *Report) error {
	out := jsonReport{Profile: report.Profile, Members: report.Members()}
	if res := report.Result; res != nil {
		out.EventType = res.EventType
		out.Investment = res.Investment
		out.Total = res.Total
		out.Contexts = res.Contexts
		out.Warnings = res.Warnings
	}
	if out.Members == nil {
		out.Members = []MemberView{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
