package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/dorifit/dorifit/internal/storage"
	"github.com/dorifit/dorifit/pkg/config"
	"github.com/dorifit/dorifit/pkg/masterdata"
	"github.com/dorifit/dorifit/pkg/model"
	"github.com/dorifit/dorifit/pkg/profile"
)

func loadConfig(dir string) *config.Config {
	cfgFile := config.FindConfigFile(dir)
	if cfgFile == "" {
		return config.DefaultConfig()
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		return config.DefaultConfig()
	}
	return cfg
}

func workingConfig() *config.Config {
	wd, err := os.Getwd()
	if err != nil {
		return config.DefaultConfig()
	}
	return loadConfig(wd)
}

// openMaster opens the configured storage and loads the master-data bundle.
func openMaster(ctx context.Context, cfg *config.Config) (storage.Client, *masterdata.Bundle, error) {
	store, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("opening storage: %w", err)
	}
	bundle, err := masterdata.Load(ctx, store)
	if err != nil {
		return nil, nil, fmt.Errorf("loading master data (run `dorifit cache import <dir>` first): %w", err)
	}
	fmt.Fprintf(os.Stderr, "Master data: %d cards, %d skills\n", len(bundle.Catalog), len(bundle.Skills))
	return store, bundle, nil
}

// loadSong loads a chart when a song id is set. A positive level overrides
// the chart's own level.
func loadSong(ctx context.Context, src masterdata.Source, songID int, difficulty string, level int) (*model.Song, error) {
	if songID == 0 {
		return nil, nil
	}
	song, err := masterdata.LoadSong(ctx, src, songID, difficulty, level)
	if err != nil {
		return nil, fmt.Errorf("loading song %d: %w", songID, err)
	}
	return song, nil
}

// songLevelFor picks the level flag, or the configured level when the song
// is the configured one.
func songLevelFor(cfg *config.Config, songID, flagLevel int) int {
	if flagLevel > 0 {
		return flagLevel
	}
	if songID != 0 && songID == cfg.Song.ID {
		return cfg.Song.Level
	}
	return 0
}

// loadUserProfile reads either a decoded profile (with a "cards" list) or a
// raw profile export (with an encoded "data" blob).
func loadUserProfile(path string) (*model.UserProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	if gjson.GetBytes(data, "cards").IsArray() {
		return model.LoadProfile(path)
	}
	raw, err := profile.ParseRaw(data)
	if err != nil {
		return nil, err
	}
	return profile.Convert(raw)
}

// loadEvent reads an event rule from YAML or JSON, chosen by extension.
func loadEvent(path string) (*model.EventBonus, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading event bonus: %w", err)
		}
		var e model.EventBonus
		if err := yaml.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("parsing event bonus: %w", err)
		}
		return &e, nil
	}
	return model.LoadEventBonus(path)
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
