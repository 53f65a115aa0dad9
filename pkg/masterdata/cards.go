package masterdata

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/dorifit/dorifit/pkg/model"
)

const episodesKey = "episodes"

// ParseCards parses a cards dump into a catalog.
func ParseCards(data []byte) (model.Catalog, error) {
	root, err := parseRoot("cards", data)
	if err != nil {
		return nil, err
	}

	catalog := make(model.Catalog)
	var perr error
	root.ForEach(func(key, v gjson.Result) bool {
		id, err := strconv.Atoi(key.String())
		if err != nil {
			perr = fmt.Errorf("%w: card key %q is not an id", ErrMalformed, key.String())
			return false
		}
		card, err := parseCard(id, v)
		if err != nil {
			perr = err
			return false
		}
		catalog[id] = card
		return true
	})
	if perr != nil {
		return nil, perr
	}
	return catalog, nil
}

func parseCard(id int, v gjson.Result) (*model.Card, error) {
	if !v.IsObject() {
		return nil, fmt.Errorf("%w: card %d is not an object", ErrMalformed, id)
	}
	card := &model.Card{
		ID:          id,
		CharacterID: int(v.Get("characterId").Int()),
		Rarity:      int(v.Get("rarity").Int()),
		Attribute:   v.Get("attribute").String(),
		LevelLimit:  int(v.Get("levelLimit").Int()),
		SkillID:     int(v.Get("skillId").Int()),
	}
	v.Get("prefix").ForEach(func(_, p gjson.Result) bool {
		card.Prefix = append(card.Prefix, p.String())
		return true
	})
	v.Get("releasedAt").ForEach(func(_, r gjson.Result) bool {
		if r.Type == gjson.Null {
			card.ReleasedAt = append(card.ReleasedAt, nil)
			return true
		}
		ts := r.Int()
		card.ReleasedAt = append(card.ReleasedAt, &ts)
		return true
	})

	stat := v.Get("stat")
	if !stat.IsObject() {
		return nil, fmt.Errorf("%w: card %d has no stat table", ErrMalformed, id)
	}
	var perr error
	stat.ForEach(func(key, entry gjson.Result) bool {
		e, err := parseStatEntry(key.String(), entry)
		if err != nil {
			perr = fmt.Errorf("card %d: %w", id, err)
			return false
		}
		card.Stat = append(card.Stat, e)
		return true
	})
	if perr != nil {
		return nil, perr
	}
	return card, nil
}

// parseStatEntry maps one stat table key to a tagged entry: "episodes" holds a
// list of triples, numeric keys are level tiers and anything else is a named
// tier such as "training".
func parseStatEntry(key string, v gjson.Result) (model.StatEntry, error) {
	if key == episodesKey {
		if !v.IsArray() {
			return model.StatEntry{}, fmt.Errorf("%w: episodes is not a list", ErrMalformed)
		}
		e := model.StatEntry{Kind: model.StatEpisodes, Name: key}
		var perr error
		v.ForEach(func(_, ep gjson.Result) bool {
			st, err := parseStats(ep)
			if err != nil {
				perr = err
				return false
			}
			e.Episodes = append(e.Episodes, st)
			return true
		})
		return e, perr
	}

	st, err := parseStats(v)
	if err != nil {
		return model.StatEntry{}, fmt.Errorf("stat %q: %w", key, err)
	}
	tier, _ := strconv.Atoi(key)
	return model.StatEntry{Kind: model.StatLevelTier, Tier: tier, Name: key, Stats: st}, nil
}

func parseStats(v gjson.Result) (model.Stats, error) {
	if !v.IsObject() {
		return model.Stats{}, fmt.Errorf("%w: stat triple is not an object", ErrMalformed)
	}
	return model.Stats{
		Performance: int(v.Get("performance").Int()),
		Technique:   int(v.Get("technique").Int()),
		Visual:      int(v.Get("visual").Int()),
	}, nil
}

func parseRoot(kind string, data []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("%w: %s: invalid JSON", ErrMalformed, kind)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return gjson.Result{}, fmt.Errorf("%w: %s: expected an object keyed by id", ErrMalformed, kind)
	}
	return root, nil
}
