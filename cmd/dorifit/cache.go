package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dorifit/dorifit/internal/storage"
	"github.com/dorifit/dorifit/pkg/scoring"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage master data and inspect the skill table",
	}
	cmd.AddCommand(newCacheImportCmd(), newCacheSkillsCmd())
	return cmd
}

func newCacheImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>",
		Short: "Copy master-data JSON dumps into the configured storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := workingConfig()
			store, err := storage.Open(ctx, cfg)
			if err != nil {
				return fmt.Errorf("opening storage: %w", err)
			}
			names, err := storage.ImportDir(ctx, store, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Imported %d files into %s storage\n", len(names), cfg.Storage.Backend)
			return nil
		},
	}
}

func newCacheSkillsCmd() *cobra.Command {
	var (
		profilePath string
		songID      int
		difficulty  string
		songLevel   int
		accuracy    float64
		noFever     bool
	)

	cmd := &cobra.Command{
		Use:   "skills",
		Short: "Print the skill interaction table for a profile and song",
		Long: `Builds the table of simulated song scores for every pair of skills the
profile's cards carry: each cell is one row skill activated after five of the
column skill.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheSkills(cmd.Context(), profilePath, songID, difficulty, songLevel, accuracy, !noFever)
		},
	}

	cmd.Flags().StringVar(&profilePath, "profile", "", "Path to profile JSON (required)")
	cmd.Flags().IntVar(&songID, "song", 0, "Song id (required)")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "Chart difficulty")
	cmd.Flags().IntVar(&songLevel, "song-level", 0, "Song level, for charts stored without one")
	cmd.Flags().Float64Var(&accuracy, "accuracy", scoring.DefaultAccuracy, "Perfect rate in [0, 1]")
	cmd.Flags().BoolVar(&noFever, "no-fever", false, "Play without fever")
	_ = cmd.MarkFlagRequired("profile")
	_ = cmd.MarkFlagRequired("song")

	return cmd
}

func runCacheSkills(ctx context.Context, profilePath string, songID int, difficulty string, songLevel int, accuracy float64, fever bool) error {
	cfg := workingConfig()
	prof, err := loadUserProfile(profilePath)
	if err != nil {
		return err
	}
	store, bundle, err := openMaster(ctx, cfg)
	if err != nil {
		return err
	}
	song, err := loadSong(ctx, store, songID, firstNonEmpty(difficulty, cfg.Song.Difficulty), songLevelFor(cfg, songID, songLevel))
	if err != nil {
		return err
	}
	if song == nil {
		return fmt.Errorf("a song is required")
	}
	if song.Level < 1 {
		return fmt.Errorf("%w: song %d has no level, pass --song-level", scoring.ErrNoSongLevel, songID)
	}
	fmt.Fprintf(os.Stderr, "Song %d: %s\n", song.ID, chartSummary(song))

	var tags []scoring.SkillTag
	for _, status := range prof.Cards {
		card, ok := bundle.Catalog[status.ID]
		if !ok || status.Excluded || bundle.Skills[card.SkillID] == nil {
			continue
		}
		tags = append(tags, scoring.NewSkillTag(card.SkillID, status.SkillLevel))
	}
	if len(tags) == 0 {
		return fmt.Errorf("profile %q has no cards with known skills", prof.Name)
	}

	table := scoring.BuildSkillTable(tags, bundle.Skills, scoring.PlayFor(song, accuracy, fever))
	printSkillTable(table)
	return nil
}

func printSkillTable(table *scoring.SkillTable) {
	tags := table.Tags()
	fmt.Fprintf(os.Stdout, "%8s", "")
	for _, rest := range tags {
		fmt.Fprintf(os.Stdout, " %9d", rest)
	}
	fmt.Fprintln(os.Stdout)
	for _, variant := range tags {
		fmt.Fprintf(os.Stdout, "%8d", variant)
		for _, rest := range tags {
			v, _ := table.Value(variant, rest)
			fmt.Fprintf(os.Stdout, " %9.4f", v)
		}
		fmt.Fprintln(os.Stdout)
	}

	// Strongest skills first by self value.
	sorted := append([]scoring.SkillTag(nil), tags...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, _ := table.Self(sorted[i])
		b, _ := table.Self(sorted[j])
		return a > b
	})
	fmt.Fprintln(os.Stdout)
	fmt.Fprintln(os.Stdout, "Per-slot value:")
	for _, tag := range sorted {
		v, _ := table.Self(tag)
		fmt.Fprintf(os.Stdout, "  skill %d level %d: %.6f\n", tag.SkillID(), tag.Level()+1, v)
	}
}
