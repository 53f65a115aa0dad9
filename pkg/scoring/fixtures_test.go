package scoring_test

import (
	"math"
	"testing"

	"github.com/dorifit/dorifit/pkg/model"
	"github.com/dorifit/dorifit/pkg/scoring"
)

func released() []*int64 {
	ts := int64(1600000000000)
	return []*int64{&ts, &ts}
}

// fixtureCard builds a card with a level 1 base tier, one max level tier and
// two episodes worth 200 and 500 per stat.
func fixtureCard(id, character int, attr string, p, t, v, rarity int) *model.Card {
	maxTier := 60
	if rarity == 3 {
		maxTier = 50
	}
	return &model.Card{
		ID:          id,
		CharacterID: character,
		Rarity:      rarity,
		Attribute:   attr,
		SkillID:     1,
		ReleasedAt:  released(),
		Stat: []model.StatEntry{
			{Kind: model.StatLevelTier, Tier: 1, Name: "1", Stats: model.Stats{Performance: 1000, Technique: 1000, Visual: 1000}},
			{Kind: model.StatLevelTier, Tier: maxTier, Name: "max", Stats: model.Stats{Performance: p, Technique: t, Visual: v}},
			{Kind: model.StatEpisodes, Name: "episodes", Episodes: []model.Stats{
				{Performance: 200, Technique: 200, Visual: 200},
				{Performance: 500, Technique: 500, Visual: 500},
			}},
		},
	}
}

func fixtureCatalog() model.Catalog {
	cards := []*model.Card{
		fixtureCard(101, 1, "happy", 5000, 6000, 5500, 4),
		fixtureCard(102, 1, "cool", 6000, 6000, 6000, 4),
		fixtureCard(103, 2, "happy", 4800, 5200, 5000, 4),
		fixtureCard(104, 3, "pure", 5500, 5500, 5500, 4),
		fixtureCard(105, 6, "happy", 6500, 6000, 6200, 4),
		fixtureCard(106, 7, "cool", 7000, 6500, 6800, 4),
		fixtureCard(107, 8, "powerful", 6000, 6000, 6000, 4),
		fixtureCard(108, 9, "happy", 7000, 7000, 7000, 4),
		fixtureCard(109, 11, "happy", 4000, 4000, 4000, 3),
		fixtureCard(110, 4, "happy", 5000, 5000, 5000, 4),
	}
	// 108 is not out on server 0 yet.
	cards[7].ReleasedAt = []*int64{nil, released()[1]}

	catalog := model.Catalog{}
	for _, c := range cards {
		catalog[c.ID] = c
	}
	return catalog
}

func fixtureBands() model.CharacterBands {
	bands := model.CharacterBands{11: "Afterglow"}
	for id := 1; id <= 5; id++ {
		bands[id] = "Poppin'Party"
	}
	for id := 6; id <= 10; id++ {
		bands[id] = "Roselia"
	}
	return bands
}

func fixtureEvent() *model.EventBonus {
	return &model.EventBonus{
		Attribute:     "happy",
		Characters:    []int{1, 2, 3, 4, 5},
		AttributeRate: 0.1,
		CharacterRate: 0.2,
		Parameter:     "technique",
		AllFitRate:    0.2,
	}
}

func fixtureProfile() *model.UserProfile {
	return &model.UserProfile{
		Name:   "tester",
		Server: 0,
		Bands: map[string][]float64{
			"Poppin'Party": {0.04, 0.04, 0.04, 0.04, 0.04, 0.10, 0.10},
			"Roselia":      {0.05, 0.05, 0.05, 0.05, 0.05, 0.1, 0.1},
		},
		Attributes: map[string][]float64{
			"happy": {0.1, 0.1},
			"cool":  {0.1, 0.05},
		},
		Magazine: model.Magazine{Performance: 0.16, Technique: 0.1, Visual: 0.08},
		Cards: []model.CardStatus{
			{ID: 101, Level: 60, Episodes: 2},
			{ID: 102, Level: 60, Episodes: 2},
			{ID: 103, Level: 60, Episodes: 2},
			{ID: 104, Level: 60, Episodes: 1},
			{ID: 105, Level: 60, Episodes: 2},
			{ID: 106, Level: 60, Episodes: 2},
			{ID: 107, Level: 60, Episodes: 2, Excluded: true},
			{ID: 108, Level: 60, Episodes: 2},
			{ID: 109, Level: 40, Episodes: 2},
			{ID: 110, Level: 50},
			{ID: 999, Level: 60, Episodes: 2},
		},
	}
}

func fixtureRequest() *scoring.Request {
	return &scoring.Request{
		Catalog:   fixtureCatalog(),
		Bands:     fixtureBands(),
		Profile:   fixtureProfile(),
		Event:     fixtureEvent(),
		EventType: scoring.EventStory,
	}
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func assertClose(t *testing.T, name string, got, want float64) {
	t.Helper()
	if !approxEqual(got, want, 1e-9) {
		t.Errorf("%s = %.12f, want %.12f", name, got, want)
	}
}
