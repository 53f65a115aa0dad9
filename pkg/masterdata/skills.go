package masterdata

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/dorifit/dorifit/pkg/model"
)

// ParseSkills parses a skills dump.
func ParseSkills(data []byte) (model.SkillSet, error) {
	root, err := parseRoot("skills", data)
	if err != nil {
		return nil, err
	}

	skills := make(model.SkillSet)
	var perr error
	root.ForEach(func(key, v gjson.Result) bool {
		id, err := strconv.Atoi(key.String())
		if err != nil {
			perr = fmt.Errorf("%w: skill key %q is not an id", ErrMalformed, key.String())
			return false
		}
		if !v.IsObject() {
			perr = fmt.Errorf("%w: skill %d is not an object", ErrMalformed, id)
			return false
		}
		skills[id] = parseSkill(id, v)
		return true
	})
	if perr != nil {
		return nil, perr
	}
	return skills, nil
}

func parseSkill(id int, v gjson.Result) *model.Skill {
	s := &model.Skill{
		ID: id,
		ActivationEffect: model.ActivationEffect{
			Effects: make(map[string]model.EffectType),
		},
	}
	v.Get("duration").ForEach(func(_, d gjson.Result) bool {
		s.Durations = append(s.Durations, d.Float())
		return true
	})

	ae := v.Get("activationEffect")
	if u := ae.Get("unificationActivateEffectValue"); u.Exists() && u.Type != gjson.Null {
		val := int(u.Int())
		s.ActivationEffect.UnificationValue = &val
	}
	ae.Get("activateEffectTypes").ForEach(func(kind, e gjson.Result) bool {
		eff := model.EffectType{
			ValueType: e.Get("activateEffectValueType").String(),
			Condition: e.Get("activateCondition").String(),
		}
		e.Get("activateEffectValue").ForEach(func(_, val gjson.Result) bool {
			// per-level values; nulls and fractions count as 0
			if val.Type == gjson.Number && val.Num == float64(int64(val.Num)) && val.Num >= 0 {
				eff.Values = append(eff.Values, int(val.Num))
			} else {
				eff.Values = append(eff.Values, 0)
			}
			return true
		})
		s.ActivationEffect.Effects[kind.String()] = eff
		return true
	})
	return s
}
