// Package masterdata parses the game's master-data JSON dumps (cards,
// characters, bands, skills and song charts) into the model types.
//
// Dumps are keyed objects ({"<id>": {...}}) with camelCase fields. Parsing is
// done with gjson so unknown fields and per-server arrays of mixed types are
// tolerated; structural problems are reported as ErrMalformed.
package masterdata

import (
	"context"
	"errors"
	"fmt"

	"github.com/dorifit/dorifit/pkg/model"
)

// ErrMalformed is returned when a dump is not valid JSON or an entry does not
// have the expected shape.
var ErrMalformed = errors.New("malformed master data")

// Dump file names within a master-data source.
const (
	CardsFile      = "cards.json"
	CharactersFile = "characters.json"
	BandsFile      = "bands.json"
	SkillsFile     = "skills.json"
)

// Source provides raw master-data blobs by name.
type Source interface {
	GetMaster(ctx context.Context, name string) ([]byte, error)
}

// Bundle is a fully parsed master-data set. A Bundle is read-only once loaded.
type Bundle struct {
	Catalog model.Catalog
	Bands   model.CharacterBands
	Skills  model.SkillSet
}

// Load reads and parses the card, character, band and skill dumps from src.
func Load(ctx context.Context, src Source) (*Bundle, error) {
	raw := make(map[string][]byte, 4)
	for _, name := range []string{CardsFile, CharactersFile, BandsFile, SkillsFile} {
		data, err := src.GetMaster(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		raw[name] = data
	}

	catalog, err := ParseCards(raw[CardsFile])
	if err != nil {
		return nil, err
	}
	bands, err := ParseCharacterBands(raw[CharactersFile], raw[BandsFile])
	if err != nil {
		return nil, err
	}
	skills, err := ParseSkills(raw[SkillsFile])
	if err != nil {
		return nil, err
	}
	return &Bundle{Catalog: catalog, Bands: bands, Skills: skills}, nil
}

// SongFile returns the name of a chart within a master-data source.
func SongFile(songID int, difficulty string) string {
	if difficulty == "" {
		difficulty = "expert"
	}
	return fmt.Sprintf("songs/%d/%s.json", songID, difficulty)
}

// LoadSong reads and parses one chart from src. A positive level overrides
// the level stored in the chart; bare note-list charts carry none.
func LoadSong(ctx context.Context, src Source, songID int, difficulty string, level int) (*model.Song, error) {
	name := SongFile(songID, difficulty)
	data, err := src.GetMaster(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	song, err := ParseSong(data)
	if err != nil {
		return nil, err
	}
	if song.ID == 0 {
		song.ID = songID
	}
	if song.Difficulty == "" {
		song.Difficulty = difficulty
	}
	if level > 0 {
		song.Level = level
	}
	return song, nil
}
