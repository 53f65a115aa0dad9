// Package model defines the card, profile, skill and chart data model used by
// the optimizer. These types are the shared vocabulary across all packages.
// Catalog values are treated as immutable once loaded.
package model

import "strings"

// Stats is the performance/technique/visual stat triple of a card.
type Stats struct {
	Performance int `json:"performance"`
	Technique   int `json:"technique"`
	Visual      int `json:"visual"`
}

// Total returns the sum of the three stat components.
func (s Stats) Total() int {
	return s.Performance + s.Technique + s.Visual
}

// StatKind distinguishes the two shapes a stat table entry can take.
type StatKind int

const (
	// StatLevelTier is a single stat triple for one level tier.
	StatLevelTier StatKind = iota
	// StatEpisodes is the list of per-episode stat bonuses.
	StatEpisodes
)

// BaseTier is the level tier holding the unmodified level 1 stats.
const BaseTier = 1

// StatEntry is one entry of a card's stat table.
type StatEntry struct {
	Kind     StatKind `json:"kind"`
	Tier     int      `json:"tier,omitempty"`     // numeric rank key, 0 for named tiers
	Name     string   `json:"name,omitempty"`     // raw rank key, e.g. "50" or "training"
	Stats    Stats    `json:"stats"`              // StatLevelTier only
	Episodes []Stats  `json:"episodes,omitempty"` // StatEpisodes only
}

// IsBase reports whether the entry is the level 1 base tier.
func (e StatEntry) IsBase() bool {
	return e.Kind == StatLevelTier && e.Tier == BaseTier
}

// Card is a static catalog entry.
type Card struct {
	ID          int         `json:"id"`
	CharacterID int         `json:"character_id"`
	Rarity      int         `json:"rarity"`
	Attribute   string      `json:"attribute"`
	LevelLimit  int         `json:"level_limit"`
	SkillID     int         `json:"skill_id"`
	Prefix      []string    `json:"prefix,omitempty"`      // display name per server, "" when absent
	ReleasedAt  []*int64    `json:"released_at,omitempty"` // per server, nil when unreleased
	Stat        []StatEntry `json:"stat"`
}

// ReleasedOn reports whether the card has been released on the given server.
func (c *Card) ReleasedOn(server int) bool {
	if server < 0 || server >= len(c.ReleasedAt) {
		return false
	}
	return c.ReleasedAt[server] != nil
}

// Name returns the card's display name for a server, falling back to the
// first non-empty name.
func (c *Card) Name(server int) string {
	if server >= 0 && server < len(c.Prefix) && c.Prefix[server] != "" {
		return c.Prefix[server]
	}
	for _, p := range c.Prefix {
		if p != "" {
			return p
		}
	}
	return ""
}

// Catalog maps card id to card.
type Catalog map[int]*Card

// CharacterBands maps character id to band name.
type CharacterBands map[int]string

// CardStatus is a player's ownership record for one card.
type CardStatus struct {
	ID         int  `json:"id"`
	Level      int  `json:"level"`
	Excluded   bool `json:"excluded"`
	Art        int  `json:"art"`
	Trained    bool `json:"trained"`
	Episodes   int  `json:"episodes"`    // unlocked episode count
	SkillLevel int  `json:"skill_level"` // 0-based index into Skill.Durations
}

// EventBonus is a time-limited event rule.
type EventBonus struct {
	Attribute     string  `json:"attribute" yaml:"attribute"`
	Characters    []int   `json:"characters" yaml:"characters"`
	AttributeRate float64 `json:"attribute_rate" yaml:"attribute_rate"`
	CharacterRate float64 `json:"character_rate" yaml:"character_rate"`
	Parameter     string  `json:"parameter" yaml:"parameter"` // performance, technique or visual
	AllFitRate    float64 `json:"all_fit_rate" yaml:"all_fit_rate"`
}

// HasCharacter reports whether the character is on the event's bonus list.
func (e *EventBonus) HasCharacter(characterID int) bool {
	for _, c := range e.Characters {
		if c == characterID {
			return true
		}
	}
	return false
}

// Magazine holds the magazine bonus rate for each stat axis.
type Magazine struct {
	Performance float64 `json:"performance"`
	Technique   float64 `json:"technique"`
	Visual      float64 `json:"visual"`
}

// UserProfile is a player's investment state and card collection.
type UserProfile struct {
	Name       string               `json:"name"`
	Server     int                  `json:"server"`
	Bands      map[string][]float64 `json:"bands"`      // band items, keyed by band name
	Attributes map[string][]float64 `json:"attributes"` // attribute items, keyed by attribute
	Magazine   Magazine             `json:"magazine"`
	Cards      []CardStatus         `json:"cards"`
}

// Stat axis names shared by events and magazines.
const (
	AxisPerformance = "performance"
	AxisTechnique   = "technique"
	AxisVisual      = "visual"
)

// MagazineAxes is the canonical iteration order of magazine axes.
var MagazineAxes = []string{AxisPerformance, AxisTechnique, AxisVisual}

// Rate returns the magazine rate for the named axis, or 0.
func (m Magazine) Rate(axis string) float64 {
	switch strings.ToLower(axis) {
	case AxisPerformance:
		return m.Performance
	case AxisTechnique:
		return m.Technique
	case AxisVisual:
		return m.Visual
	}
	return 0
}

// EffectType is one activation effect kind of a skill.
type EffectType struct {
	Values    []int  `json:"values"`
	ValueType string `json:"value_type,omitempty"`
	Condition string `json:"condition"` // "perfect", "good", ...
}

// ActivationEffect describes what a skill does when it activates.
type ActivationEffect struct {
	UnificationValue *int                  `json:"unification_value,omitempty"`
	Effects          map[string]EffectType `json:"effects"`
}

// Skill is a catalog skill definition.
type Skill struct {
	ID               int              `json:"id"`
	Durations        []float64        `json:"durations"` // seconds, per skill level
	ActivationEffect ActivationEffect `json:"activation_effect"`
}

// Duration returns the skill's duration at the given level, clamped to the
// available levels.
func (s *Skill) Duration(level int) float64 {
	if len(s.Durations) == 0 {
		return 0
	}
	if level < 0 {
		level = 0
	}
	if level >= len(s.Durations) {
		level = len(s.Durations) - 1
	}
	return s.Durations[level]
}

// SkillSet maps skill id to skill.
type SkillSet map[int]*Skill

// SongNote is one timeline event of a chart.
type SongNote struct {
	Time  float64 `json:"time"`
	Fever bool    `json:"fever,omitempty"`
	Skill bool    `json:"skill,omitempty"` // a new skill activates on this note
}

// Song is one playable chart.
type Song struct {
	ID         int        `json:"id"`
	Difficulty string     `json:"difficulty"`
	Level      int        `json:"level"`
	Notes      []SongNote `json:"notes"`
}

// CalcCard is a card's evaluation result within one investment context.
type CalcCard struct {
	CardID      int     `json:"card_id"`
	CharacterID int     `json:"character_id"`
	Score       int     `json:"score"`
	SkillMul    float64 `json:"skill"`
	BonusMul    float64 `json:"bonus"`
}

// Effective returns the card's score scaled by its skill multiplier.
func (c CalcCard) Effective() float64 {
	return float64(c.Score) * c.SkillMul
}

// Rank returns the value cards are ordered by during team selection.
func (c CalcCard) Rank() float64 {
	return float64(c.Score) * c.SkillMul * c.BonusMul
}

// Team maps character id to the selected card. At most one card per
// character and at most TeamSize entries.
type Team map[int]CalcCard

// TeamSize is the number of cards in a team.
const TeamSize = 5
