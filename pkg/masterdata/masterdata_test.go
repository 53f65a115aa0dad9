package masterdata_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dorifit/dorifit/pkg/masterdata"
	"github.com/dorifit/dorifit/pkg/model"
)

const cardsJSON = `{
  "1": {
    "characterId": 1, "rarity": 4, "attribute": "happy", "levelLimit": 50,
    "resourceSetName": "res001001", "type": "permanent", "skillId": 3,
    "prefix": ["ja name", "Sparkling Star", null],
    "releasedAt": ["1489730400000", "1520492400000", null],
    "stat": {
      "1": {"performance": 1000, "technique": 1100, "visual": 1200},
      "50": {"performance": 5000, "technique": 5100, "visual": 5200},
      "episodes": [
        {"performance": 200, "technique": 200, "visual": 200},
        {"performance": 500, "technique": 500, "visual": 500}
      ],
      "training": {"performance": 400, "technique": 400, "visual": 400}
    }
  },
  "2": {
    "characterId": 6, "rarity": 2, "attribute": "cool", "levelLimit": 30, "skillId": 1,
    "prefix": ["x"], "releasedAt": [null],
    "stat": {"1": {"performance": 10, "technique": 10, "visual": 10}}
  }
}`

const charactersJSON = `{
  "1": {"characterName": ["a", "Kasumi Toyama"], "bandId": 1},
  "6": {"characterName": ["b", "Yukina Minato"], "bandId": 4},
  "601": {"characterName": ["c", "Marina"], "bandId": 0}
}`

const bandsJSON = `{
  "1": {"bandName": ["ポッピンパーティー", "Poppin'Party", null]},
  "4": {"bandName": ["Roselia", null]}
}`

const skillsJSON = `{
  "3": {
    "simpleDescription": ["..."],
    "duration": [5, 5.5, 6, 6.5, 7],
    "activationEffect": {
      "activateEffectTypes": {
        "score": {"activateEffectValue": [100, 100, 100, 100, 100], "activateEffectValueType": "rate", "activateCondition": "good"}
      }
    }
  },
  "20": {
    "duration": [7, 7.5, 8, 8.5, 9],
    "activationEffect": {
      "unificationActivateEffectValue": 115,
      "unificationActivateConditionBandId": 1,
      "activateEffectTypes": {
        "score": {"activateEffectValue": [65, null], "activateEffectValueType": "rate", "activateCondition": "perfect"},
        "judge": {"activateEffectValue": [1.5], "activateEffectValueType": "real_value", "activateCondition": "good"}
      }
    }
  }
}`

func TestParseCards(t *testing.T) {
	catalog, err := masterdata.ParseCards([]byte(cardsJSON))
	if err != nil {
		t.Fatalf("ParseCards: %v", err)
	}
	if len(catalog) != 2 {
		t.Fatalf("got %d cards, want 2", len(catalog))
	}

	c := catalog[1]
	if c.CharacterID != 1 || c.Rarity != 4 || c.Attribute != "happy" || c.SkillID != 3 || c.LevelLimit != 50 {
		t.Errorf("card 1 = %+v", c)
	}
	if !c.ReleasedOn(0) || !c.ReleasedOn(1) || c.ReleasedOn(2) || c.ReleasedOn(5) {
		t.Errorf("release markers = %v", c.ReleasedAt)
	}
	if *c.ReleasedAt[0] != 1489730400000 {
		t.Errorf("released at = %d", *c.ReleasedAt[0])
	}
	if got := c.Name(1); got != "Sparkling Star" {
		t.Errorf("Name(1) = %q", got)
	}
	if got := c.Name(2); got != "ja name" {
		t.Errorf("Name(2) = %q, want fallback to first name", got)
	}

	kinds := map[string]model.StatEntry{}
	for _, e := range c.Stat {
		kinds[e.Name] = e
	}
	if e := kinds["episodes"]; e.Kind != model.StatEpisodes || len(e.Episodes) != 2 || e.Episodes[1].Visual != 500 {
		t.Errorf("episodes entry = %+v", e)
	}
	if e := kinds["1"]; !e.IsBase() || e.Stats.Technique != 1100 {
		t.Errorf("base entry = %+v", e)
	}
	if e := kinds["50"]; e.Kind != model.StatLevelTier || e.Tier != 50 || e.Stats.Visual != 5200 {
		t.Errorf("tier 50 entry = %+v", e)
	}
	if e := kinds["training"]; e.Kind != model.StatLevelTier || e.Tier != 0 || e.Stats.Performance != 400 {
		t.Errorf("training entry = %+v", e)
	}

	if catalog[2].ReleasedOn(0) {
		t.Error("card 2 should be unreleased")
	}
}

func TestParseCards_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"1": `},
		{"not an object", `[1, 2]`},
		{"bad key", `{"abc": {"stat": {}}}`},
		{"missing stat", `{"1": {"rarity": 4}}`},
		{"episodes not a list", `{"1": {"stat": {"episodes": {"performance": 1}}}}`},
		{"tier not an object", `{"1": {"stat": {"50": 1234}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := masterdata.ParseCards([]byte(tt.data))
			if !errors.Is(err, masterdata.ErrMalformed) {
				t.Errorf("error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestParseCharacterBands(t *testing.T) {
	bands, err := masterdata.ParseCharacterBands([]byte(charactersJSON), []byte(bandsJSON))
	if err != nil {
		t.Fatalf("ParseCharacterBands: %v", err)
	}
	if bands[1] != "Poppin'Party" {
		t.Errorf("character 1 band = %q", bands[1])
	}
	// no English name: fall back to the first one
	if bands[6] != "Roselia" {
		t.Errorf("character 6 band = %q", bands[6])
	}
	if _, ok := bands[601]; ok {
		t.Error("character without a listed band should be left out")
	}
}

func TestParseSkills(t *testing.T) {
	skills, err := masterdata.ParseSkills([]byte(skillsJSON))
	if err != nil {
		t.Fatalf("ParseSkills: %v", err)
	}

	s := skills[3]
	if len(s.Durations) != 5 || s.Duration(4) != 7 {
		t.Errorf("skill 3 durations = %v", s.Durations)
	}
	if s.ActivationEffect.UnificationValue != nil {
		t.Error("skill 3 should have no unification value")
	}
	if e := s.ActivationEffect.Effects["score"]; e.Condition != "good" || e.Values[0] != 100 || e.ValueType != "rate" {
		t.Errorf("skill 3 score effect = %+v", e)
	}

	u := skills[20]
	if u.ActivationEffect.UnificationValue == nil || *u.ActivationEffect.UnificationValue != 115 {
		t.Errorf("skill 20 unification = %v", u.ActivationEffect.UnificationValue)
	}
	if e := u.ActivationEffect.Effects["score"]; len(e.Values) != 2 || e.Values[1] != 0 || e.Condition != "perfect" {
		t.Errorf("skill 20 score effect = %+v", e)
	}
	if e := u.ActivationEffect.Effects["judge"]; e.Values[0] != 0 {
		t.Errorf("fractional values should read as 0, got %v", e.Values)
	}
}

func TestParseSong(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantLevel int
	}{
		{"bare list", `[{"time": 0.5}, {"time": 1, "skill": true}, {"time": 1.5, "fever": true}]`, 0},
		{"wrapped", `{"id": 7, "difficulty": "expert", "level": 26, "notes": [{"time": 0.5}, {"time": 1, "skill": true}, {"time": 1.5, "fever": true}]}`, 26},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			song, err := masterdata.ParseSong([]byte(tt.data))
			if err != nil {
				t.Fatalf("ParseSong: %v", err)
			}
			if song.Level != tt.wantLevel {
				t.Errorf("level = %d, want %d", song.Level, tt.wantLevel)
			}
			if len(song.Notes) != 3 {
				t.Fatalf("got %d notes, want 3", len(song.Notes))
			}
			if song.Notes[0].Skill || song.Notes[0].Fever {
				t.Errorf("note 0 = %+v", song.Notes[0])
			}
			if !song.Notes[1].Skill || song.Notes[1].Time != 1 {
				t.Errorf("note 1 = %+v", song.Notes[1])
			}
			if !song.Notes[2].Fever {
				t.Errorf("note 2 = %+v", song.Notes[2])
			}
		})
	}

	if _, err := masterdata.ParseSong([]byte(`{"notes": 3}`)); !errors.Is(err, masterdata.ErrMalformed) {
		t.Errorf("error = %v, want ErrMalformed", err)
	}
}

type mapSource map[string]string

func (m mapSource) GetMaster(_ context.Context, name string) ([]byte, error) {
	data, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%s: not found", name)
	}
	return []byte(data), nil
}

func TestLoad(t *testing.T) {
	src := mapSource{
		masterdata.CardsFile:      cardsJSON,
		masterdata.CharactersFile: charactersJSON,
		masterdata.BandsFile:      bandsJSON,
		masterdata.SkillsFile:     skillsJSON,
		"songs/7/hard.json":       `{"level": 21, "notes": [{"time": 1}]}`,
	}

	bundle, err := masterdata.Load(context.Background(), src)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(bundle.Catalog) != 2 || len(bundle.Bands) != 2 || len(bundle.Skills) != 2 {
		t.Errorf("bundle sizes = %d/%d/%d", len(bundle.Catalog), len(bundle.Bands), len(bundle.Skills))
	}

	song, err := masterdata.LoadSong(context.Background(), src, 7, "hard", 0)
	if err != nil {
		t.Fatalf("LoadSong: %v", err)
	}
	if song.ID != 7 || song.Difficulty != "hard" || song.Level != 21 {
		t.Errorf("song = %+v", song)
	}

	delete(src, masterdata.SkillsFile)
	if _, err := masterdata.Load(context.Background(), src); err == nil {
		t.Error("expected error for missing skills dump")
	}
}

func TestLoadSong_Level(t *testing.T) {
	src := mapSource{
		"songs/125/expert.json": `[{"time": 0, "skill": true}, {"time": 1}, {"time": 2, "fever": true}]`,
		"songs/7/hard.json":     `{"level": 21, "notes": [{"time": 1}]}`,
	}
	tests := []struct {
		name       string
		songID     int
		difficulty string
		level      int
		want       int
	}{
		{"bare list without level", 125, "expert", 0, 0},
		{"bare list with level", 125, "expert", 26, 26},
		{"chart level kept", 7, "hard", 0, 21},
		{"explicit level overrides chart", 7, "hard", 24, 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			song, err := masterdata.LoadSong(context.Background(), src, tt.songID, tt.difficulty, tt.level)
			if err != nil {
				t.Fatalf("LoadSong: %v", err)
			}
			if song.Level != tt.want {
				t.Errorf("level = %d, want %d", song.Level, tt.want)
			}
			if song.ID != tt.songID || song.Difficulty != tt.difficulty {
				t.Errorf("song = %d/%s", song.ID, song.Difficulty)
			}
		})
	}
}

func TestDefaultSkillMultiplier(t *testing.T) {
	if got := masterdata.DefaultSkillMultiplier(4); got != 2.0 {
		t.Errorf("skill 4 = %v, want 2.0", got)
	}
	if got := masterdata.DefaultSkillMultiplier(19); got != 1 {
		t.Errorf("unknown skill = %v, want 1", got)
	}
}
