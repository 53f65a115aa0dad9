package scoring

import (
	"sort"

	"github.com/dorifit/dorifit/pkg/model"
)

// allFitParameterRate is the share of the event parameter stat added on top of
// the bonus-scaled score when a card fits both event conditions.
const allFitParameterRate = 0.5

// statTriple accumulates stats before the final truncation.
type statTriple struct {
	performance float64
	technique   float64
	visual      float64
}

func (s *statTriple) add(st model.Stats, scale float64) {
	s.performance += float64(st.Performance) * scale
	s.technique += float64(st.Technique) * scale
	s.visual += float64(st.Visual) * scale
}

func (s statTriple) total() float64 {
	return s.performance + s.technique + s.visual
}

// axis returns the component named by a stat axis, or 0 for unknown names.
func (s statTriple) axis(name string) float64 {
	switch name {
	case model.AxisPerformance:
		return s.performance
	case model.AxisTechnique:
		return s.technique
	case model.AxisVisual:
		return s.visual
	}
	return 0
}

// cardStats sums a card's stat table for the owner's level and episode
// progress. Entries are visited in a canonical order so the floating point
// sum does not depend on how the table was stored.
func cardStats(card *model.Card, status model.CardStatus) statTriple {
	entries := make([]model.StatEntry, len(card.Stat))
	copy(entries, card.Stat)
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Kind != b.Kind {
			return a.Kind > b.Kind
		}
		if a.Tier != b.Tier {
			return a.Tier < b.Tier
		}
		return a.Name < b.Name
	})

	growth := LevelScore(status.Level, card.Rarity)
	var st statTriple
	for _, e := range entries {
		switch {
		case e.Kind == model.StatEpisodes:
			n := status.Episodes
			if n > len(e.Episodes) {
				n = len(e.Episodes)
			}
			for _, ep := range e.Episodes[:max(n, 0)] {
				st.add(ep, 1)
			}
		case e.IsBase():
			// level 1 stats carry no growth
		default:
			st.add(e.Stats, growth)
		}
	}
	return st
}

// ScoreCard computes a card's score and bonus multiplier under one investment
// context and event rule. The score is truncated to an integer only after
// every contribution has been added.
func ScoreCard(card *model.Card, status model.CardStatus, event *model.EventBonus, bands model.CharacterBands, inv Investment) (int, float64) {
	st := cardStats(card, status)

	var bonus float64
	eventHits := 0
	if event != nil {
		if event.Attribute != "" && event.Attribute == card.Attribute {
			bonus += event.AttributeRate
			eventHits++
		}
		if event.HasCharacter(card.CharacterID) {
			bonus += event.CharacterRate
			eventHits++
		}
	}
	if band, ok := bands[card.CharacterID]; ok && inv.Band != "" && band == inv.Band {
		bonus += sum(inv.BandBonus)
	}
	if inv.Attribute != "" && card.Attribute == inv.Attribute {
		bonus += sum(inv.AttributeBonus)
	}
	allFit := eventHits == 2
	if allFit {
		bonus += event.AllFitRate
	}

	multiplier := 1 + bonus
	score := st.total() * multiplier
	if allFit {
		score += allFitParameterRate * st.axis(event.Parameter)
	}
	score += inv.MagazineRate * st.axis(inv.MagazineAxis)

	return int(score), multiplier
}

func sum(vals []float64) float64 {
	var total float64
	for _, v := range vals {
		total += v
	}
	return total
}
