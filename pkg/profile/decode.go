// Package profile converts exported player profiles into model.UserProfile:
// the compact card collection blob and the raw support-item levels.
package profile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dorifit/dorifit/pkg/model"
)

// ErrInvalidBlob is returned for collection blobs with unknown symbols or a
// truncated record.
var ErrInvalidBlob = errors.New("invalid card collection blob")

const (
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-_"
	radix    = len(alphabet)

	idWidth    = 2
	levelWidth = 1
	flagsWidth = 2
	recordLen  = idWidth + levelWidth + flagsWidth

	episodeStates = 3
)

// digits decodes a big-endian base-64 number.
func digits(s string) (int, error) {
	n := 0
	for _, ch := range s {
		d := strings.IndexRune(alphabet, ch)
		if d < 0 {
			return 0, fmt.Errorf("%w: unexpected symbol %q", ErrInvalidBlob, ch)
		}
		n = n*radix + d
	}
	return n, nil
}

func encodeDigits(n, width int) string {
	buf := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		buf[i] = alphabet[n%radix]
		n /= radix
	}
	return string(buf)
}

// Decode parses a collection blob. Each card is a five symbol record: two for
// the card id, one for the level and two packing the excluded, art and
// trained flags, the episode count and the skill level.
func Decode(blob string) ([]model.CardStatus, error) {
	if len(blob)%recordLen != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of %d", ErrInvalidBlob, len(blob), recordLen)
	}

	cards := make([]model.CardStatus, 0, len(blob)/recordLen)
	for off := 0; off < len(blob); off += recordLen {
		rec := blob[off : off+recordLen]
		id, err := digits(rec[:idWidth])
		if err != nil {
			return nil, err
		}
		level, err := digits(rec[idWidth : idWidth+levelWidth])
		if err != nil {
			return nil, err
		}
		flags, err := digits(rec[idWidth+levelWidth:])
		if err != nil {
			return nil, err
		}

		st := model.CardStatus{ID: id, Level: level}
		st.Excluded = flags%2 == 1
		flags /= 2
		st.Art = flags % 2
		flags /= 2
		st.Trained = flags%2 == 1
		flags /= 2
		st.Episodes = flags % episodeStates
		st.SkillLevel = flags / episodeStates
		cards = append(cards, st)
	}
	return cards, nil
}

// Encode is the inverse of Decode. Values that do not fit their record width
// are truncated.
func Encode(cards []model.CardStatus) string {
	var b strings.Builder
	b.Grow(len(cards) * recordLen)
	for _, c := range cards {
		flags := c.SkillLevel*episodeStates + c.Episodes%episodeStates
		flags = flags*2 + boolBit(c.Trained)
		flags = flags*2 + c.Art%2
		flags = flags*2 + boolBit(c.Excluded)

		b.WriteString(encodeDigits(c.ID, idWidth))
		b.WriteString(encodeDigits(c.Level, levelWidth))
		b.WriteString(encodeDigits(flags, flagsWidth))
	}
	return b.String()
}

func boolBit(v bool) int {
	if v {
		return 1
	}
	return 0
}
