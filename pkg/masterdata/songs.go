package masterdata

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/dorifit/dorifit/pkg/model"
)

// ParseSong parses a chart. Both a bare note list and an object with id,
// difficulty, level and notes fields are accepted.
func ParseSong(data []byte) (*model.Song, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: song: invalid JSON", ErrMalformed)
	}
	root := gjson.ParseBytes(data)

	song := &model.Song{}
	notes := root
	if root.IsObject() {
		song.ID = int(root.Get("id").Int())
		song.Difficulty = root.Get("difficulty").String()
		song.Level = int(root.Get("level").Int())
		notes = root.Get("notes")
	}
	if !notes.IsArray() {
		return nil, fmt.Errorf("%w: song: notes is not a list", ErrMalformed)
	}

	var perr error
	notes.ForEach(func(_, n gjson.Result) bool {
		if !n.IsObject() {
			perr = fmt.Errorf("%w: song: note is not an object", ErrMalformed)
			return false
		}
		song.Notes = append(song.Notes, model.SongNote{
			Time:  n.Get("time").Float(),
			Fever: flag(n.Get("fever")),
			Skill: flag(n.Get("skill")),
		})
		return true
	})
	if perr != nil {
		return nil, perr
	}
	return song, nil
}

// flag reads an optional marker field. Charts mark fever and skill notes with
// true and usually omit the field otherwise.
func flag(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return false
	}
	return v.Exists()
}
