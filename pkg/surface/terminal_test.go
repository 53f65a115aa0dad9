package surface_test

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/dorifit/dorifit/pkg/model"
	"github.com/dorifit/dorifit/pkg/scoring"
	"github.com/dorifit/dorifit/pkg/surface"
)

func sampleReport() *surface.Report {
	return &surface.Report{
		Profile: "tester",
		Result: &scoring.Result{
			Members: []model.CalcCard{
				{CardID: 105, CharacterID: 6, Score: 37552, SkillMul: 1, BonusMul: 1.75},
				{CardID: 101, CharacterID: 1, Score: 35882, SkillMul: 1, BonusMul: 1.7},
			},
			Total: 73434,
			Investment: scoring.Investment{
				Attribute:    "happy",
				Band:         "Roselia",
				MagazineAxis: "performance",
			},
			EventType: scoring.EventStory,
			Contexts:  12,
			Warnings:  []string{"card 999 not found in catalog"},
		},
		Catalog: model.Catalog{
			105: {ID: 105, Attribute: "happy", SkillID: 4, Prefix: []string{"Night Rose"}},
			101: {ID: 101, Attribute: "happy", SkillID: 2, Prefix: []string{"Star Kasumi"}},
		},
		Bands: model.CharacterBands{1: "Poppin'Party", 6: "Roselia"},
	}
}

func TestTerminalRenderer_BasicOutput(t *testing.T) {
	// Set NO_COLOR to avoid ANSI codes in test comparison
	t.Setenv("NO_COLOR", "1")

	r := &surface.TerminalRenderer{}
	var buf bytes.Buffer

	if err := r.Render(&buf, sampleReport()); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"best team for tester",
		"attribute happy, band Roselia, magazine performance",
		"Contexts evaluated: 12",
		"Night Rose",
		"Poppin'Party",
		"37552",
		"Total: 73434.0",
		"Nominal skill strength: 1.65",
		"Warnings:",
		"card 999 not found",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
	if strings.Index(output, "Night Rose") > strings.Index(output, "Star Kasumi") {
		t.Error("members should be listed in selection order")
	}
}

func TestTerminalRenderer_NoMembers(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	r := &surface.TerminalRenderer{}
	var buf bytes.Buffer

	report := &surface.Report{Result: &scoring.Result{EventType: scoring.EventChallenge, Team: model.Team{}}}
	if err := r.Render(&buf, report); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "No eligible cards") {
		t.Error("expected 'No eligible cards' message")
	}
	if strings.Contains(output, "Warnings:") {
		t.Error("unexpected Warnings section")
	}
	if strings.Contains(output, "Nominal skill") {
		t.Error("skill-sensitive results should not show nominal skill strength")
	}
}

func TestTerminalRenderer_ColorRespected(t *testing.T) {
	// Without NO_COLOR, output should have ANSI codes
	os.Unsetenv("NO_COLOR")

	r := &surface.TerminalRenderer{}
	var buf bytes.Buffer

	if err := r.Render(&buf, sampleReport()); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(buf.String(), "\033[") {
		t.Error("expected ANSI escape codes when NO_COLOR is not set")
	}
}

func TestTerminalRenderer_NilResult(t *testing.T) {
	r := &surface.TerminalRenderer{}
	if err := r.Render(&bytes.Buffer{}, &surface.Report{}); err == nil {
		t.Error("expected error for report without result")
	}
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	if err := (&surface.JSONRenderer{}).Render(&buf, sampleReport()); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	var decoded struct {
		Profile    string  `json:"profile"`
		EventType  string  `json:"event_type"`
		Total      float64 `json:"total"`
		Investment struct {
			Band string `json:"band"`
		} `json:"investment"`
		Members []struct {
			CardID    int     `json:"card_id"`
			Name      string  `json:"name"`
			Band      string  `json:"band"`
			Effective float64 `json:"effective"`
		} `json:"members"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}

	if decoded.Profile != "tester" || decoded.EventType != "story" || decoded.Total != 73434 {
		t.Errorf("header fields = %+v", decoded)
	}
	if decoded.Investment.Band != "Roselia" {
		t.Errorf("investment band = %q", decoded.Investment.Band)
	}
	if len(decoded.Members) != 2 || decoded.Members[0].CardID != 105 || decoded.Members[0].Name != "Night Rose" {
		t.Errorf("members = %+v", decoded.Members)
	}
	if decoded.Members[1].Band != "Poppin'Party" || decoded.Members[1].Effective != 35882 {
		t.Errorf("member 2 = %+v", decoded.Members[1])
	}
}

func TestMarkdownRenderer(t *testing.T) {
	var buf bytes.Buffer
	if err := (&surface.MarkdownRenderer{}).Render(&buf, sampleReport()); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	output := buf.String()

	if !strings.HasPrefix(output, "## Best team for tester: 73434.0") {
		t.Errorf("unexpected heading:\n%s", output)
	}
	if !strings.Contains(output, "| 1 | 105 | Night Rose | Roselia | 37552 | 1.0000 | 1.75 |") {
		t.Errorf("missing member row:\n%s", output)
	}
	if !strings.Contains(output, "### Warnings") {
		t.Error("expected Warnings section")
	}
}

func TestForFormat(t *testing.T) {
	for _, f := range []string{"", "text", "json", "markdown", "md"} {
		if _, err := surface.ForFormat(f); err != nil {
			t.Errorf("ForFormat(%q): %v", f, err)
		}
	}
	if _, err := surface.ForFormat("html"); err == nil {
		t.Error("expected error for unknown format")
	}
}
