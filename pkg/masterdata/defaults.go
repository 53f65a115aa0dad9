package masterdata

// defaultSkillMultipliers are rough per-skill score multipliers for early
// skill ids, used to annotate story-event results where no chart is simulated.
var defaultSkillMultipliers = map[int]float64{
	1: 1.1, 2: 1.3, 3: 1.6, 4: 2.0, 5: 1.1,
	6: 1.2, 7: 1.4, 8: 1.1, 9: 1.2, 10: 1.4,
	11: 1.3, 12: 1.6, 13: 1.3, 14: 1.6, 15: 1.0,
	16: 1.0, 17: 1.65, 18: 2.1, 20: 2.15, 21: 1.4,
	22: 1.8, 23: 1.1, 24: 1.3, 25: 1.65, 26: 2.1,
}

// DefaultSkillMultiplier returns the nominal multiplier of a skill id, or 1
// when none is known.
func DefaultSkillMultiplier(skillID int) float64 {
	if m, ok := defaultSkillMultipliers[skillID]; ok {
		return m
	}
	return 1
}
