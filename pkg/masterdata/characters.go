package masterdata

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/dorifit/dorifit/pkg/model"
)

// bandNameIndex selects the English entry of a band's per-server names.
const bandNameIndex = 1

// ParseCharacterBands joins the characters and bands dumps into a character
// id to band name map. Characters whose band is not listed are left out.
func ParseCharacterBands(characters, bands []byte) (model.CharacterBands, error) {
	bandRoot, err := parseRoot("bands", bands)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string)
	bandRoot.ForEach(func(key, v gjson.Result) bool {
		id, err := strconv.Atoi(key.String())
		if err != nil {
			return true
		}
		if name := bandName(v.Get("bandName")); name != "" {
			names[id] = name
		}
		return true
	})

	charRoot, err := parseRoot("characters", characters)
	if err != nil {
		return nil, err
	}
	out := make(model.CharacterBands)
	var perr error
	charRoot.ForEach(func(key, v gjson.Result) bool {
		id, err := strconv.Atoi(key.String())
		if err != nil {
			perr = fmt.Errorf("%w: character key %q is not an id", ErrMalformed, key.String())
			return false
		}
		if name, ok := names[int(v.Get("bandId").Int())]; ok {
			out[id] = name
		}
		return true
	})
	if perr != nil {
		return nil, perr
	}
	return out, nil
}

// bandName prefers the English name and falls back to the first non-empty one.
func bandName(v gjson.Result) string {
	if name := v.Get(strconv.Itoa(bandNameIndex)).String(); name != "" {
		return name
	}
	var name string
	v.ForEach(func(_, n gjson.Result) bool {
		name = n.String()
		return name == ""
	})
	return name
}
