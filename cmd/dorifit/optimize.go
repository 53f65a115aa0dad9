package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dorifit/dorifit/internal/runner"
	"github.com/dorifit/dorifit/internal/storage"
	"github.com/dorifit/dorifit/pkg/scoring"
	"github.com/dorifit/dorifit/pkg/surface"
)

func newOptimizeCmd() *cobra.Command {
	var opts optimizeOpts

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Find the best team for an event",
		Long: `Loads the player profile and event rule, evaluates every investment
context and prints the highest scoring team.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.feverSet = cmd.Flags().Changed("fever")
			return runOptimize(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.profilePath, "profile", "", "Path to profile JSON, decoded or raw export (required)")
	cmd.Flags().StringVar(&opts.eventPath, "event", "", "Path to event rule, YAML or JSON (required)")
	cmd.Flags().StringVar(&opts.eventType, "event-type", "", "Event type: story, challenge, versus, live_try, mission_live")
	cmd.Flags().IntVar(&opts.songID, "song", 0, "Song id for skill-sensitive events")
	cmd.Flags().StringVar(&opts.difficulty, "difficulty", "", "Chart difficulty")
	cmd.Flags().IntVar(&opts.songLevel, "song-level", 0, "Song level, for charts stored without one")
	cmd.Flags().Float64Var(&opts.accuracy, "accuracy", -1, "Perfect rate in [0, 1]")
	cmd.Flags().BoolVar(&opts.fever, "fever", true, "Play with fever")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Contexts evaluated concurrently")
	cmd.Flags().IntVar(&opts.server, "server", -1, "Override the profile's server")
	cmd.Flags().StringVar(&opts.outputFmt, "output", "text", "Output format: text, json or markdown")
	cmd.Flags().BoolVar(&opts.save, "save", false, "Store the result in the configured storage")
	_ = cmd.MarkFlagRequired("profile")
	_ = cmd.MarkFlagRequired("event")

	return cmd
}

type optimizeOpts struct {
	profilePath string
	eventPath   string
	eventType   string
	songID      int
	difficulty  string
	songLevel   int
	accuracy    float64
	fever       bool
	feverSet    bool
	workers     int
	server      int
	outputFmt   string
	save        bool
}

func runOptimize(ctx context.Context, opts optimizeOpts) error {
	cfg := workingConfig()

	renderer, err := surface.ForFormat(opts.outputFmt)
	if err != nil {
		return err
	}
	eventType, err := scoring.ParseEventType(firstNonEmpty(opts.eventType, cfg.Optimizer.EventType))
	if err != nil {
		return err
	}

	prof, err := loadUserProfile(opts.profilePath)
	if err != nil {
		return err
	}
	switch {
	case opts.server >= 0:
		prof.Server = opts.server
	case cfg.Optimizer.Server >= 0:
		prof.Server = cfg.Optimizer.Server
	}
	event, err := loadEvent(opts.eventPath)
	if err != nil {
		return err
	}

	store, bundle, err := openMaster(ctx, cfg)
	if err != nil {
		return err
	}

	songID := opts.songID
	if songID == 0 {
		songID = cfg.Song.ID
	}
	chart, err := loadSong(ctx, store, songIDFor(eventType, songID), firstNonEmpty(opts.difficulty, cfg.Song.Difficulty),
		songLevelFor(cfg, songID, opts.songLevel))
	if err != nil {
		return err
	}

	accuracy := cfg.Optimizer.Accuracy
	if opts.accuracy >= 0 {
		accuracy = opts.accuracy
	}
	fever := cfg.Optimizer.Fever
	if opts.feverSet {
		fever = opts.fever
	}
	workers := cfg.Optimizer.Workers
	if opts.workers > 0 {
		workers = opts.workers
	}

	var results storage.Client
	if opts.save {
		results = store
	}
	svc := runner.NewService(nil, results, scoring.NewOptimizer(scoring.Options{
		Workers: workers,
		Logger:  newLogger(),
	}))

	fmt.Fprintf(os.Stderr, "Optimizing %s event for %q (%d cards)...\n", eventType, prof.Name, len(prof.Cards))
	start := time.Now()
	out, err := svc.Run(ctx, runner.Request{
		Profile:   prof,
		Event:     event,
		EventType: eventType,
		Bundle:    bundle,
		Song:      chart,
		Accuracy:  accuracy,
		Fever:     fever,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "  %d contexts in %s\n", out.Result.Contexts, time.Since(start).Round(time.Millisecond))
	if out.ResultRef != "" {
		fmt.Fprintf(os.Stderr, "Result saved: %s\n", out.ResultRef)
	}

	return renderer.Render(os.Stdout, &surface.Report{
		Profile: prof.Name,
		Server:  prof.Server,
		Result:  out.Result,
		Catalog: bundle.Catalog,
		Bands:   bundle.Bands,
	})
}

// songIDFor drops the song for events that do not simulate charts.
func songIDFor(eventType scoring.EventType, songID int) int {
	if !eventType.SkillSensitive() {
		return 0
	}
	return songID
}
