package config

import (
	"fmt"
	"strconv"
)

// Environment variables read by ApplyEnv.
const (
	EnvStorageBackend  = "STORAGE_BACKEND"
	EnvStorageDir      = "LOCAL_STORAGE_PATH"
	EnvStorageBucket   = "STORAGE_BUCKET"
	EnvStorageRegion   = "AWS_REGION"
	EnvStorageEndpoint = "S3_ENDPOINT"
	EnvAccuracy        = "DEFAULT_ACCURACY"
	EnvWorkers         = "OPTIMIZER_WORKERS"
	EnvFever           = "DEFAULT_FEVER"
	EnvDifficulty      = "DEFAULT_DIFFICULTY"
	EnvSongLevel       = "DEFAULT_SONG_LEVEL"
)

// ApplyEnv overrides config values from environment variables read through
// getenv. Unset variables leave the config unchanged. The result is validated.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	setString := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	setString(EnvStorageBackend, &c.Storage.Backend)
	setString(EnvStorageDir, &c.Storage.Dir)
	setString(EnvStorageBucket, &c.Storage.Bucket)
	setString(EnvStorageRegion, &c.Storage.Region)
	setString(EnvStorageEndpoint, &c.Storage.Endpoint)
	setString(EnvDifficulty, &c.Song.Difficulty)

	if v := getenv(EnvAccuracy); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAccuracy, err)
		}
		c.Optimizer.Accuracy = f
	}
	if v := getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Optimizer.Workers = n
	}
	if v := getenv(EnvFever); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvFever, err)
		}
		c.Optimizer.Fever = b
	}
	if v := getenv(EnvSongLevel); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSongLevel, err)
		}
		c.Song.Level = n
	}
	return c.Validate()
}
