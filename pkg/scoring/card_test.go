package scoring_test

import (
	"testing"

	"github.com/dorifit/dorifit/pkg/model"
	"github.com/dorifit/dorifit/pkg/scoring"
)

func happyPoppinPerformance() scoring.Investment {
	p := fixtureProfile()
	return scoring.Investment{
		Attribute:      "happy",
		AttributeBonus: p.Attributes["happy"],
		Band:           "Poppin'Party",
		BandBonus:      p.Bands["Poppin'Party"],
		MagazineAxis:   model.AxisPerformance,
		MagazineRate:   p.Magazine.Performance,
	}
}

func TestScoreCard_Fixture(t *testing.T) {
	catalog := fixtureCatalog()
	inv := happyPoppinPerformance()

	tests := []struct {
		name      string
		status    model.CardStatus
		wantScore int
		wantMul   float64
	}{
		// attribute, character, band, attribute items and all-fit all hit
		{"all fit", model.CardStatus{ID: 101, Level: 60, Episodes: 2}, 43322, 2.1},
		{"character and band only", model.CardStatus{ID: 102, Level: 60, Episodes: 2}, 33232, 1.6},
		{"all fit flat stats", model.CardStatus{ID: 103, Level: 60, Episodes: 2}, 39740, 2.1},
		{"one episode", model.CardStatus{ID: 104, Level: 60, Episodes: 1}, 28272, 1.6},
		{"other band", model.CardStatus{ID: 105, Level: 60, Episodes: 2}, 28192, 1.3},
		{"partial level", model.CardStatus{ID: 109, Level: 40, Episodes: 2}, 10963, 1.3},
		{"no episodes", model.CardStatus{ID: 110, Level: 50}, 17403, 2.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, mul := scoring.ScoreCard(catalog[tt.status.ID], tt.status, fixtureEvent(), fixtureBands(), inv)
			if score != tt.wantScore {
				t.Errorf("score = %d, want %d", score, tt.wantScore)
			}
			assertClose(t, "multiplier", mul, tt.wantMul)
		})
	}
}

func TestScoreCard_EntryOrderIndependent(t *testing.T) {
	card := fixtureCatalog()[101]
	status := model.CardStatus{ID: 101, Level: 60, Episodes: 2}
	inv := happyPoppinPerformance()

	want, wantMul := scoring.ScoreCard(card, status, fixtureEvent(), fixtureBands(), inv)

	reversed := *card
	reversed.Stat = make([]model.StatEntry, len(card.Stat))
	for i, e := range card.Stat {
		reversed.Stat[len(card.Stat)-1-i] = e
	}
	got, gotMul := scoring.ScoreCard(&reversed, status, fixtureEvent(), fixtureBands(), inv)
	if got != want || gotMul != wantMul {
		t.Errorf("reversed table scored (%d, %v), want (%d, %v)", got, gotMul, want, wantMul)
	}
}

func TestScoreCard_EpisodesClamped(t *testing.T) {
	card := fixtureCatalog()[102]
	inv := scoring.Investment{}

	two, _ := scoring.ScoreCard(card, model.CardStatus{ID: 102, Level: 60, Episodes: 2}, fixtureEvent(), fixtureBands(), inv)
	many, _ := scoring.ScoreCard(card, model.CardStatus{ID: 102, Level: 60, Episodes: 9}, fixtureEvent(), fixtureBands(), inv)
	if two != many {
		t.Errorf("episodes beyond the table changed the score: %d vs %d", many, two)
	}
}

func TestScoreCard_NoBonus(t *testing.T) {
	// 102 is cool and char 1; with a pure event on other characters and no
	// investment the multiplier is exactly 1.
	card := fixtureCatalog()[102]
	event := &model.EventBonus{Attribute: "pure", Characters: []int{9}, AttributeRate: 0.5, Parameter: "visual"}

	score, mul := scoring.ScoreCard(card, model.CardStatus{ID: 102, Level: 60}, event, fixtureBands(), scoring.Investment{})
	if mul != 1 {
		t.Errorf("multiplier = %v, want 1", mul)
	}
	if score != 18000 {
		t.Errorf("score = %d, want 18000", score)
	}
}
