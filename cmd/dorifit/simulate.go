package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dorifit/dorifit/pkg/model"
	"github.com/dorifit/dorifit/pkg/scoring"
)

func newSimulateCmd() *cobra.Command {
	var (
		songID     int
		difficulty string
		songLevel  int
		skillSpecs []string
		accuracy   float64
		noFever    bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Replay a chart with a skill order and print the song score",
		Long: `Replays a song chart with up to six skill activations, given in order as
skill-id:level pairs (level is 1-based). Unset slots activate no skill.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			slots, err := parseSlots(skillSpecs)
			if err != nil {
				return err
			}
			return runSimulate(cmd.Context(), songID, difficulty, songLevel, slots, accuracy, !noFever)
		},
	}

	cmd.Flags().IntVar(&songID, "song", 0, "Song id (required)")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "Chart difficulty (default from config)")
	cmd.Flags().IntVar(&songLevel, "song-level", 0, "Song level, for charts stored without one")
	cmd.Flags().StringSliceVar(&skillSpecs, "skills", nil, "Skill order, e.g. 20:5,20:5,3:1")
	cmd.Flags().Float64Var(&accuracy, "accuracy", scoring.DefaultAccuracy, "Perfect rate in [0, 1]")
	cmd.Flags().BoolVar(&noFever, "no-fever", false, "Play without fever")
	_ = cmd.MarkFlagRequired("song")

	return cmd
}

// parseSlots parses skill-id:level specs into activation slots.
func parseSlots(specs []string) ([scoring.SlotCount]scoring.SkillSlot, error) {
	var slots [scoring.SlotCount]scoring.SkillSlot
	if len(specs) > scoring.SlotCount {
		return slots, fmt.Errorf("at most %d skills, got %d", scoring.SlotCount, len(specs))
	}
	for i, spec := range specs {
		id, level, ok := strings.Cut(strings.TrimSpace(spec), ":")
		if !ok {
			level = "1"
		}
		skillID, err := strconv.Atoi(id)
		if err != nil || skillID < 1 {
			return slots, fmt.Errorf("invalid skill id in %q", spec)
		}
		lv, err := strconv.Atoi(level)
		if err != nil || lv < 1 || lv > 9 {
			return slots, fmt.Errorf("invalid skill level in %q (want 1-9)", spec)
		}
		slots[i] = scoring.SkillSlot{SkillID: skillID, Level: lv - 1}
	}
	return slots, nil
}

func runSimulate(ctx context.Context, songID int, difficulty string, songLevel int, slots [scoring.SlotCount]scoring.SkillSlot, accuracy float64, fever bool) error {
	if accuracy < 0 || accuracy > 1 {
		return fmt.Errorf("%w: %v", scoring.ErrInvalidAccuracy, accuracy)
	}
	cfg := workingConfig()
	store, bundle, err := openMaster(ctx, cfg)
	if err != nil {
		return err
	}
	song, err := loadSong(ctx, store, songID, firstNonEmpty(difficulty, cfg.Song.Difficulty), songLevelFor(cfg, songID, songLevel))
	if err != nil {
		return err
	}
	if song.Level < 1 {
		return fmt.Errorf("%w: song %d has no level, pass --song-level", scoring.ErrNoSongLevel, songID)
	}

	for _, s := range slots {
		if s.SkillID != 0 && bundle.Skills[s.SkillID] == nil {
			return fmt.Errorf("%w: skill %d", scoring.ErrMissingSkill, s.SkillID)
		}
	}

	play := scoring.PlayFor(song, accuracy, fever)
	score := scoring.SongScore(slots, bundle.Skills, play)
	base := scoring.SongScore([scoring.SlotCount]scoring.SkillSlot{}, bundle.Skills, play)

	fmt.Fprintf(os.Stdout, "Song %d (%s, level %d, %d notes)\n", song.ID, song.Difficulty, song.Level, len(song.Notes))
	fmt.Fprintf(os.Stdout, "Skill order: %s\n", formatSlots(slots))
	fmt.Fprintf(os.Stdout, "Song score:  %.6f\n", score)
	fmt.Fprintf(os.Stdout, "No skills:   %.6f\n", base)
	if base > 0 {
		fmt.Fprintf(os.Stdout, "Skill gain:  %.2f%%\n", (score/base-1)*100)
	}
	return nil
}

func formatSlots(slots [scoring.SlotCount]scoring.SkillSlot) string {
	parts := make([]string, 0, len(slots))
	for _, s := range slots {
		if s.SkillID == 0 {
			parts = append(parts, "-")
			continue
		}
		parts = append(parts, fmt.Sprintf("%d:%d", s.SkillID, s.Level+1))
	}
	return strings.Join(parts, " ")
}

// chartSummary is used by commands that only report on a song.
func chartSummary(song *model.Song) string {
	fever := 0
	skills := 0
	for _, n := range song.Notes {
		if n.Fever {
			fever++
		}
		if n.Skill {
			skills++
		}
	}
	return fmt.Sprintf("%d notes, %d fever, %d skill triggers", len(song.Notes), fever, skills)
}
