package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for one telemetry window.
type WindowStats struct {
	WindowEnd float64 `csv:"window_end"` // seconds since simulator start

	Grabs       int `csv:"grabs"`
	Releases    int `csv:"releases"`
	ArmPushes   int `csv:"arm_pushes"`
	Spawned     int `csv:"spawned"`
	LevelLoads  int `csv:"level_loads"`
	Completions int `csv:"completions"`
	Failures    int `csv:"failures"`

	CompletionMean float64 `csv:"completion_mean"`
	CompletionP50  float64 `csv:"completion_p50"`
	CompletionP90  float64 `csv:"completion_p90"`
}

// CompletionTimeStats returns mean, median and 90th percentile of the
// given completion times. Returns zeros for an empty slice.
func CompletionTimeStats(times []float64) (mean, p50, p90 float64) {
	if len(times) == 0 {
		return 0, 0, 0
	}
	sorted := make([]float64, len(times))
	copy(sorted, times)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	return mean, p50, p90
}

// Log emits the window stats via slog.
func (w WindowStats) Log() {
	slog.Info("telemetry window",
		"window_end", w.WindowEnd,
		"grabs", w.Grabs,
		"releases", w.Releases,
		"arm_pushes", w.ArmPushes,
		"spawned", w.Spawned,
		"completions", w.Completions,
		"failures", w.Failures,
		"completion_p50", w.CompletionP50,
	)
}
