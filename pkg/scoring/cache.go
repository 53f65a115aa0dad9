package scoring

import (
	"sort"

	"github.com/dorifit/dorifit/pkg/model"
)

// SkillTable holds simulated song values for every ordered pair of skill tags.
// Row i, column j is a team of five j slots followed by one i slot.
// A table is immutable once built and safe for concurrent reads.
type SkillTable struct {
	tags   []SkillTag
	index  map[SkillTag]int
	values [][]float64
}

// BuildSkillTable simulates the chart once per tag pair. Duplicate tags are
// collapsed and the remaining tags sorted, so the same tag set always
// produces the same table.
func BuildSkillTable(tags []SkillTag, skills model.SkillSet, play Play) *SkillTable {
	uniq := make([]SkillTag, 0, len(tags))
	seen := make(map[SkillTag]bool, len(tags))
	for _, t := range tags {
		if !seen[t] {
			seen[t] = true
			uniq = append(uniq, t)
		}
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i] < uniq[j] })

	table := &SkillTable{
		tags:   uniq,
		index:  make(map[SkillTag]int, len(uniq)),
		values: make([][]float64, len(uniq)),
	}
	for i, t := range uniq {
		table.index[t] = i
	}

	for i, variant := range uniq {
		row := make([]float64, len(uniq))
		for j, rest := range uniq {
			row[j] = SongScore(syntheticTeam(variant, rest), skills, play)
		}
		table.values[i] = row
	}
	return table
}

// syntheticTeam fills five slots with rest and the last slot with variant.
func syntheticTeam(variant, rest SkillTag) [SlotCount]SkillSlot {
	var slots [SlotCount]SkillSlot
	for k := 0; k < SlotCount-1; k++ {
		slots[k] = SkillSlot{SkillID: rest.SkillID(), Level: rest.Level()}
	}
	slots[SlotCount-1] = SkillSlot{SkillID: variant.SkillID(), Level: variant.Level()}
	return slots
}

// Tags returns the table's tags in row order.
func (t *SkillTable) Tags() []SkillTag {
	out := make([]SkillTag, len(t.tags))
	copy(out, t.tags)
	return out
}

// Len returns the number of distinct tags.
func (t *SkillTable) Len() int {
	return len(t.tags)
}

// Value returns the simulated value of five rest slots plus one variant slot.
func (t *SkillTable) Value(variant, rest SkillTag) (float64, bool) {
	i, ok := t.index[variant]
	if !ok {
		return 0, false
	}
	j, ok := t.index[rest]
	if !ok {
		return 0, false
	}
	return t.values[i][j], true
}

// Self returns the per-slot share of a team made entirely of one tag. It is
// used as the card's skill multiplier before the real team is known.
func (t *SkillTable) Self(tag SkillTag) (float64, bool) {
	v, ok := t.Value(tag, tag)
	if !ok {
		return 0, false
	}
	return v / SlotCount, true
}
