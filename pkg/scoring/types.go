// Package scoring implements the dorifit team optimizer: the per-card score
// formula, the skill and song simulation, and the search for the best team
// across a player's investment contexts.
package scoring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dorifit/dorifit/pkg/model"
)

var (
	ErrNoProfile       = errors.New("user profile is required")
	ErrNoEvent         = errors.New("event bonus is required")
	ErrNoSong          = errors.New("song chart is required for skill-sensitive events")
	ErrNoSongLevel     = errors.New("song level must be at least 1 for skill-sensitive events")
	ErrInvalidAccuracy = errors.New("accuracy must be within [0, 1]")
	ErrInvalidLevel    = errors.New("card level must be at least 1")
	ErrMissingBand     = errors.New("character has no band mapping")
	ErrMissingSkill    = errors.New("skill not found in skill catalog")
	ErrUnknownEvent    = errors.New("unknown event type")
)

// EventType selects the scoring mode of an event.
type EventType string

const (
	EventStory       EventType = "story"
	EventChallenge   EventType = "challenge"
	EventVersus      EventType = "versus"
	EventLiveTry     EventType = "live_try"
	EventMissionLive EventType = "mission_live"
)

// EventTypes lists every known event type.
var EventTypes = []EventType{EventStory, EventChallenge, EventVersus, EventLiveTry, EventMissionLive}

// SkillSensitive reports whether the event's ranking depends on a song chart.
func (t EventType) SkillSensitive() bool {
	switch t {
	case EventChallenge, EventVersus, EventLiveTry, EventMissionLive:
		return true
	}
	return false
}

// ParseEventType maps a name to an EventType. The empty string is a story event.
func ParseEventType(s string) (EventType, error) {
	if s == "" {
		return EventStory, nil
	}
	t := EventType(strings.ToLower(strings.ReplaceAll(s, "-", "_")))
	for _, known := range EventTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEvent, s)
}

// Investment is one combination of support-item axes the player can field.
type Investment struct {
	Attribute      string    `json:"attribute"`
	AttributeBonus []float64 `json:"attribute_bonus,omitempty"`
	Band           string    `json:"band"`
	BandBonus      []float64 `json:"band_bonus,omitempty"`
	MagazineAxis   string    `json:"magazine_axis"`
	MagazineRate   float64   `json:"magazine_rate"`
}

// Request is the full input of one optimization.
type Request struct {
	Catalog   model.Catalog
	Bands     model.CharacterBands
	Profile   *model.UserProfile
	Event     *model.EventBonus
	EventType EventType

	// Only consulted for skill-sensitive event types.
	Song     *model.Song
	Skills   model.SkillSet
	Accuracy float64
	Fever    bool
}

// Result is the best team found and the context it was found in.
type Result struct {
	Team       model.Team       `json:"team"`
	Members    []model.CalcCard `json:"members"` // selection order
	Total      float64          `json:"total"`
	Investment Investment       `json:"investment"`
	EventType  EventType        `json:"event_type"`
	Contexts   int              `json:"contexts_evaluated"`
	Warnings   []string         `json:"warnings,omitempty"`
}
