package scoring

import "log/slog"

// Options tunes an Optimizer.
type Options struct {
	// Workers is the number of investment contexts evaluated concurrently.
	// Values below 1 are treated as 1.
	Workers int

	// Logger receives recoverable warnings such as owned cards missing from
	// the catalog. Defaults to slog.Default().
	Logger *slog.Logger
}

// Default play settings used when a request leaves them unset.
const (
	DefaultAccuracy = 0.95
	DefaultWorkers  = 1
)

// Defaults returns the default optimizer options.
func Defaults() Options {
	return Options{
		Workers: DefaultWorkers,
	}
}
