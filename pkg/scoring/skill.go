package scoring

import (
	"math"
	"sort"

	"github.com/dorifit/dorifit/pkg/model"
)

// Score-affecting activation effect kinds.
const (
	EffectScore                   = "score"
	EffectScoreOverLife           = "score_over_life"
	EffectScoreUnderLife          = "score_under_life"
	EffectScoreContinuedNoteJudge = "score_continued_note_judge"
)

// ConditionPerfect marks an effect that only applies to perfect judgments.
const ConditionPerfect = "perfect"

// Relative note value of perfect and great judgments.
const (
	perfectWeight = 1.1
	greatWeight   = 0.8
)

func isScoreEffect(kind string) bool {
	switch kind {
	case EffectScore, EffectScoreOverLife, EffectScoreUnderLife, EffectScoreContinuedNoteJudge:
		return true
	}
	return false
}

// accuracyRate is the expected note value at the given perfect rate.
func accuracyRate(accuracy float64) float64 {
	return perfectWeight*accuracy + greatWeight*(1-accuracy)
}

// SkillBonus returns the score multiplier a skill applies to one note, given
// the player's perfect rate and how many notes the current activation has
// already boosted.
//
// Effect kinds are scanned in lexicographic order. Every score kind is
// considered; the first kind to set the perfect or overall rate keeps it.
func SkillBonus(skill *model.Skill, accuracy float64, occurrence int) float64 {
	if skill == nil {
		return 1
	}

	kinds := make([]string, 0, len(skill.ActivationEffect.Effects))
	for k := range skill.ActivationEffect.Effects {
		if isScoreEffect(k) {
			kinds = append(kinds, k)
		}
	}
	sort.Strings(kinds)

	var (
		continued, perfect, overall          float64
		hasContinued, hasPerfect, hasOverall bool
	)
	for _, k := range kinds {
		eff := skill.ActivationEffect.Effects[k]
		v := effectValue(skill, eff) / 100
		switch {
		case k == EffectScoreContinuedNoteJudge:
			continued = 1 + v
			hasContinued = true
		case eff.Condition == ConditionPerfect:
			if !hasPerfect {
				perfect, hasPerfect = v, true
			}
		default:
			if !hasPerfect {
				perfect, hasPerfect = v, true
			}
			if !hasOverall {
				overall, hasOverall = v, true
			}
		}
	}
	perfect++
	overall++

	if hasContinued {
		return overall + math.Pow(accuracy, float64(occurrence))*(continued-overall)
	}
	if perfect == overall {
		return perfect
	}
	return (perfectWeight*perfect*accuracy + greatWeight*overall*(1-accuracy)) / accuracyRate(accuracy)
}

// effectValue returns the skill's unified value when it defines one,
// otherwise the effect's first listed value.
func effectValue(skill *model.Skill, eff model.EffectType) float64 {
	if skill.ActivationEffect.UnificationValue != nil {
		return float64(*skill.ActivationEffect.UnificationValue)
	}
	if len(eff.Values) == 0 {
		return 0
	}
	return float64(eff.Values[0])
}

// SkillTag encodes a (skill id, skill level) pair as skillID*10 + level.
type SkillTag int

// NewSkillTag builds the tag for a skill at a 0-based level.
func NewSkillTag(skillID, level int) SkillTag {
	return SkillTag(skillID*10 + level)
}

// SkillID returns the tag's skill id.
func (t SkillTag) SkillID() int { return int(t) / 10 }

// Level returns the tag's 0-based skill level.
func (t SkillTag) Level() int { return int(t) % 10 }
