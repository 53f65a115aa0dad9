package profile

import (
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/dorifit/dorifit/pkg/model"
)

// ErrInvalidProfile is returned when a raw profile export cannot be read.
var ErrInvalidProfile = errors.New("invalid profile export")

// bandItems maps band names to their item keys in a profile export.
var bandItems = []struct{ band, key string }{
	{"Afterglow", "Afterglow"},
	{"Everyone", "Everyone"},
	{"Hello, Happy World!", "HelloHappyWorld"},
	{"Pastel＊Palettes", "PastelPalettes"},
	{"Poppin'Party", "PoppinParty"},
	{"Roselia", "Roselia"},
}

// attributeOrder is the slot order of the Menu and Plaza item lists.
var attributeOrder = []string{"powerful", "cool", "happy", "pure"}

// Raw is a player profile as exported by the profile site.
type Raw struct {
	Name        string
	Server      int
	Compression string
	Data        string
	Items       map[string][]int
}

// ParseRaw reads a profile export.
func ParseRaw(data []byte) (*Raw, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrInvalidProfile)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: expected an object", ErrInvalidProfile)
	}

	raw := &Raw{
		Name:        root.Get("name").String(),
		Server:      int(root.Get("server").Int()),
		Compression: root.Get("compression").String(),
		Data:        root.Get("data").String(),
		Items:       make(map[string][]int),
	}
	root.Get("items").ForEach(func(key, v gjson.Result) bool {
		var levels []int
		v.ForEach(func(_, l gjson.Result) bool {
			levels = append(levels, int(l.Int()))
			return true
		})
		raw.Items[key.String()] = levels
		return true
	})
	return raw, nil
}

// LoadRaw reads a profile export from disk.
func LoadRaw(path string) (*Raw, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	return ParseRaw(data)
}

func percent(v int) float64 { return float64(v) / 100 }

// magazineRate converts a magazine item level to its bonus rate. Level 0 means
// the magazine is not owned.
func magazineRate(level int) float64 {
	if level == 0 {
		return 0
	}
	return float64(level)*0.02 + 0.06
}

func at(vals []int, i int) int {
	if i < len(vals) {
		return vals[i]
	}
	return 0
}

// Convert turns a raw export into a UserProfile: item levels become bonus
// rates and the collection blob is decoded. Bands missing from the export are
// left out.
func Convert(raw *Raw) (*model.UserProfile, error) {
	cards, err := Decode(raw.Data)
	if err != nil {
		return nil, err
	}

	p := &model.UserProfile{
		Name:       raw.Name,
		Server:     raw.Server,
		Bands:      make(map[string][]float64),
		Attributes: make(map[string][]float64),
		Cards:      cards,
	}
	for _, b := range bandItems {
		levels, ok := raw.Items[b.key]
		if !ok {
			continue
		}
		rates := make([]float64, len(levels))
		for i, l := range levels {
			rates[i] = percent(l)
		}
		p.Bands[b.band] = rates
	}

	menu, plaza := raw.Items["Menu"], raw.Items["Plaza"]
	for i, attr := range attributeOrder {
		p.Attributes[attr] = []float64{percent(at(menu, i)), percent(at(plaza, i))}
	}

	mag := raw.Items["Magazine"]
	p.Magazine = model.Magazine{
		Performance: magazineRate(at(mag, 0)),
		Technique:   magazineRate(at(mag, 1)),
		Visual:      magazineRate(at(mag, 2)),
	}
	return p, nil
}
