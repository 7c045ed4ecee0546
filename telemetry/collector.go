// Package telemetry accumulates simulation events into windowed stats and
// writes them to CSV.
package telemetry

// Collector accumulates events within wall-clock windows and produces
// WindowStats.
type Collector struct {
	windowDurationSec float64
	windowStart       float64

	grabs         int
	releases      int
	armPushes     int
	completions   int
	failures      int
	levelLoads    int
	spawned       int
	completionSec []float64
}

// NewCollector creates a collector with the given window length in seconds.
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 10
	}
	return &Collector{windowDurationSec: windowDurationSec}
}

// RecordGrab records an object attaching to the gripper.
func (c *Collector) RecordGrab() { c.grabs++ }

// RecordRelease records an object releasing from the gripper.
func (c *Collector) RecordRelease() { c.releases++ }

// RecordArmPushes records arm-to-object push contacts for one step.
func (c *Collector) RecordArmPushes(n int) { c.armPushes += n }

// RecordSpawn records an object spawn.
func (c *Collector) RecordSpawn() { c.spawned++ }

// RecordLevelLoad records a level load.
func (c *Collector) RecordLevelLoad() { c.levelLoads++ }

// RecordCompletion records a level completion and its elapsed time.
func (c *Collector) RecordCompletion(elapsed float64) {
	c.completions++
	c.completionSec = append(c.completionSec, elapsed)
}

// RecordFailure records a level failure.
func (c *Collector) RecordFailure() { c.failures++ }

// WindowReady reports whether the current window has elapsed at the given
// wall-clock offset (seconds since simulator start).
func (c *Collector) WindowReady(now float64) bool {
	return now-c.windowStart >= c.windowDurationSec
}

// Flush closes the current window and returns its stats, resetting all
// counters for the next window.
func (c *Collector) Flush(now float64) WindowStats {
	stats := WindowStats{
		WindowEnd:   now,
		Grabs:       c.grabs,
		Releases:    c.releases,
		ArmPushes:   c.armPushes,
		Spawned:     c.spawned,
		LevelLoads:  c.levelLoads,
		Completions: c.completions,
		Failures:    c.failures,
	}
	stats.CompletionMean, stats.CompletionP50, stats.CompletionP90 = CompletionTimeStats(c.completionSec)

	c.windowStart = now
	c.grabs = 0
	c.releases = 0
	c.armPushes = 0
	c.spawned = 0
	c.levelLoads = 0
	c.completions = 0
	c.failures = 0
	c.completionSec = c.completionSec[:0]
	return stats
}
