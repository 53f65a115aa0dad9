// Package surface defines output rendering for optimization results.
// Implementations handle different output targets: terminal, Markdown, JSON.
package surface

import (
	"fmt"
	"io"

	"github.com/dorifit/dorifit/pkg/model"
	"github.com/dorifit/dorifit/pkg/scoring"
)

// Report is an optimization result plus the context needed to describe it.
type Report struct {
	Profile string
	Server  int
	Result  *scoring.Result

	// Optional; used for card names, attributes and bands.
	Catalog model.Catalog
	Bands   model.CharacterBands
}

// Renderer produces formatted output from a Report.
type Renderer interface {
	// Render writes the formatted report to the writer.
	Render(w io.Writer, report *Report) error
}

// ForFormat returns the renderer for an output format name.
func ForFormat(format string) (Renderer, error) {
	switch format {
	case "", "text":
		return &TerminalRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "markdown", "md":
		return &MarkdownRenderer{}, nil
	}
	return nil, fmt.Errorf("unknown output format %q (want text, json or markdown)", format)
}

// MemberView is one team member with display fields resolved.
type MemberView struct {
	model.CalcCard
	Name      string  `json:"name,omitempty"`
	Attribute string  `json:"attribute,omitempty"`
	Band      string  `json:"band,omitempty"`
	Effective float64 `json:"effective"`
}

// Members resolves display fields for the result's members in selection order.
func (r *Report) Members() []MemberView {
	if r.Result == nil {
		return nil
	}
	out := make([]MemberView, 0, len(r.Result.Members))
	for _, m := range r.Result.Members {
		v := MemberView{CalcCard: m, Effective: m.Effective()}
		if card, ok := r.Catalog[m.CardID]; ok && card != nil {
			v.Name = card.Name(r.Server)
			v.Attribute = card.Attribute
		}
		v.Band = r.Bands[m.CharacterID]
		out = append(out, v)
	}
	return out
}

func investmentLabel(inv scoring.Investment) string {
	label := func(s string) string {
		if s == "" {
			return "none"
		}
		return s
	}
	return fmt.Sprintf("attribute %s, band %s, magazine %s", label(inv.Attribute), label(inv.Band), label(inv.MagazineAxis))
}
