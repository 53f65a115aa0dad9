package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/dorifit/dorifit/pkg/model"
)

// Optimizer searches a player's investment contexts for the best team.
type Optimizer struct {
	workers int
	logger  *slog.Logger
}

// NewOptimizer creates an Optimizer with the given options.
func NewOptimizer(opts Options) *Optimizer {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Optimizer{workers: workers, logger: logger}
}

// candidate is an owned card eligible for every context of one request.
type candidate struct {
	card     *model.Card
	status   model.CardStatus
	skillMul float64
}

// contextResult is the team picked for one investment context.
type contextResult struct {
	members []model.CalcCard
	total   float64
}

// Optimize returns the best team over every investment context of the
// request's profile. Contexts are visited in canonical order and the first
// context reaching the highest total wins.
func (o *Optimizer) Optimize(ctx context.Context, req *Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	result := &Result{EventType: req.EventType}
	if result.EventType == "" {
		result.EventType = EventStory
	}

	cands := o.candidates(req, result)
	for _, c := range cands {
		if c.status.Level < 1 {
			return nil, fmt.Errorf("%w: card %d has level %d", ErrInvalidLevel, c.card.ID, c.status.Level)
		}
		if _, ok := req.Bands[c.card.CharacterID]; !ok {
			return nil, fmt.Errorf("%w: character %d (card %d)", ErrMissingBand, c.card.CharacterID, c.card.ID)
		}
	}

	if result.EventType.SkillSensitive() {
		if err := attachSkillMultipliers(req, cands); err != nil {
			return nil, err
		}
	}

	invs := Investments(req.Profile)
	results := make([]contextResult, len(invs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, inv := range invs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = evaluate(cands, req, inv)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("evaluating contexts: %w", err)
	}

	best := -1
	for i, r := range results {
		if best < 0 || r.total > results[best].total {
			best = i
		}
	}

	result.Contexts = len(invs)
	result.Team = model.Team{}
	if best < 0 {
		return result, nil
	}
	result.Investment = invs[best]
	result.Total = results[best].total
	result.Members = results[best].members
	for _, m := range result.Members {
		result.Team[m.CharacterID] = m
	}
	return result, nil
}

func validate(req *Request) error {
	if req == nil || req.Profile == nil {
		return ErrNoProfile
	}
	if req.Event == nil {
		return ErrNoEvent
	}
	if req.EventType.SkillSensitive() {
		if req.Song == nil {
			return ErrNoSong
		}
		if req.Song.Level < 1 {
			return fmt.Errorf("%w: song %d has level %d", ErrNoSongLevel, req.Song.ID, req.Song.Level)
		}
		if req.Accuracy < 0 || req.Accuracy > 1 {
			return fmt.Errorf("%w: %v", ErrInvalidAccuracy, req.Accuracy)
		}
	}
	return nil
}

// candidates collects owned, non-excluded cards released on the profile's
// server. Cards missing from the catalog are skipped with a warning.
func (o *Optimizer) candidates(req *Request, result *Result) []candidate {
	var cands []candidate
	for _, status := range req.Profile.Cards {
		if status.Excluded {
			continue
		}
		card, ok := req.Catalog[status.ID]
		if !ok || card == nil {
			o.logger.Warn("card not found in catalog", slog.Int("card_id", status.ID))
			result.Warnings = append(result.Warnings, fmt.Sprintf("card %d not found in catalog", status.ID))
			continue
		}
		if !card.ReleasedOn(req.Profile.Server) {
			continue
		}
		cands = append(cands, candidate{card: card, status: status, skillMul: 1})
	}
	return cands
}

// attachSkillMultipliers builds the skill table once for the request's chart
// and sets each candidate's multiplier from its own diagonal entry.
func attachSkillMultipliers(req *Request, cands []candidate) error {
	tags := make([]SkillTag, 0, len(cands))
	for _, c := range cands {
		if _, ok := req.Skills[c.card.SkillID]; !ok {
			return fmt.Errorf("%w: skill %d (card %d)", ErrMissingSkill, c.card.SkillID, c.card.ID)
		}
		tags = append(tags, NewSkillTag(c.card.SkillID, c.status.SkillLevel))
	}

	table := BuildSkillTable(tags, req.Skills, PlayFor(req.Song, req.Accuracy, req.Fever))
	for i := range cands {
		mul, _ := table.Self(NewSkillTag(cands[i].card.SkillID, cands[i].status.SkillLevel))
		cands[i].skillMul = mul
	}
	return nil
}

// Investments enumerates the profile's investment contexts in canonical
// order: attributes by name, then bands by name, then magazine axes. An axis
// with no entries contributes a single neutral choice.
func Investments(p *model.UserProfile) []Investment {
	attrs := sortedKeys(p.Attributes)
	bands := sortedKeys(p.Bands)

	invs := make([]Investment, 0, len(attrs)*len(bands)*len(model.MagazineAxes))
	for _, attr := range attrs {
		for _, band := range bands {
			for _, axis := range model.MagazineAxes {
				invs = append(invs, Investment{
					Attribute:      attr,
					AttributeBonus: p.Attributes[attr],
					Band:           band,
					BandBonus:      p.Bands[band],
					MagazineAxis:   axis,
					MagazineRate:   p.Magazine.Rate(axis),
				})
			}
		}
	}
	return invs
}

func sortedKeys(m map[string][]float64) []string {
	if len(m) == 0 {
		return []string{""}
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// evaluate scores every candidate under one context, ranks them by
// score * skill * bonus (ties go to the lower card id) and greedily picks one
// card per character.
func evaluate(cands []candidate, req *Request, inv Investment) contextResult {
	calc := make([]model.CalcCard, 0, len(cands))
	for _, c := range cands {
		score, bonus := ScoreCard(c.card, c.status, req.Event, req.Bands, inv)
		calc = append(calc, model.CalcCard{
			CardID:      c.card.ID,
			CharacterID: c.card.CharacterID,
			Score:       score,
			SkillMul:    c.skillMul,
			BonusMul:    bonus,
		})
	}
	sort.SliceStable(calc, func(i, j int) bool {
		ri, rj := calc[i].Rank(), calc[j].Rank()
		if ri != rj {
			return ri > rj
		}
		return calc[i].CardID < calc[j].CardID
	})

	return pickTeam(calc)
}

// pickTeam takes cards in ranked order, skipping characters already picked,
// until the team is full.
func pickTeam(ranked []model.CalcCard) contextResult {
	var res contextResult
	picked := make(map[int]bool, model.TeamSize)
	for _, c := range ranked {
		if len(res.members) >= model.TeamSize {
			break
		}
		if picked[c.CharacterID] {
			continue
		}
		picked[c.CharacterID] = true
		res.members = append(res.members, c)
		res.total += c.Effective()
	}
	return res
}
