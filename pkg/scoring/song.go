package scoring

import "github.com/dorifit/dorifit/pkg/model"

// SlotCount is the number of skill activations in a live: five members plus
// the leader a second time.
const SlotCount = 6

// SkillSlot is the skill a team slot activates.
type SkillSlot struct {
	SkillID int
	Level   int
}

// Play describes how a chart is played.
type Play struct {
	Notes    []model.SongNote
	Level    int     // chart difficulty level
	Accuracy float64 // perfect rate in [0, 1]
	Fever    bool    // fever segments double note value
}

// PlayFor returns the Play of a song at the given accuracy.
func PlayFor(song *model.Song, accuracy float64, fever bool) Play {
	if song == nil {
		return Play{Accuracy: accuracy, Fever: fever}
	}
	return Play{Notes: song.Notes, Level: song.Level, Accuracy: accuracy, Fever: fever}
}

var comboSteps = []struct {
	upTo  int
	bonus float64
}{
	{20, 1.00},
	{50, 1.01},
	{100, 1.02},
	{150, 1.03},
	{200, 1.04},
	{250, 1.05},
	{300, 1.06},
	{400, 1.07},
	{500, 1.08},
	{600, 1.09},
	{700, 1.10},
}

// ComboBonus returns the note value multiplier for the current combo count.
func ComboBonus(combo int) float64 {
	for _, step := range comboSteps {
		if combo <= step.upTo {
			return step.bonus
		}
	}
	return 1.11
}

// SongScore replays a chart with the given skill order and returns the
// accumulated skill-adjusted note value. Slots activate strictly in order;
// activations after the sixth are ignored.
func SongScore(slots [SlotCount]SkillSlot, skills model.SkillSet, play Play) float64 {
	if len(play.Notes) == 0 {
		return 0
	}

	accRate := accuracyRate(play.Accuracy)
	levelRate := (3 + 0.03*float64(play.Level-5)) / float64(len(play.Notes))

	var (
		total      float64
		combo      int
		slot       = -1
		active     *model.Skill
		windowEnd  float64
		occurrence int
	)
	for _, note := range play.Notes {
		value := accRate * levelRate * ComboBonus(combo)
		if note.Fever && play.Fever {
			value *= 2
		}
		if active != nil && note.Time < windowEnd {
			value *= SkillBonus(active, play.Accuracy, occurrence)
			occurrence++
		}
		if note.Skill && slot+1 < SlotCount {
			slot++
			occurrence = 0
			active = skills[slots[slot].SkillID]
			windowEnd = note.Time
			if active != nil {
				windowEnd += active.Duration(slots[slot].Level)
			}
		}
		total += value
		combo++
	}
	return total
}
