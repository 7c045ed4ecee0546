package telemetry

import (
	"math"
	"testing"
)

func TestCompletionTimeStatsEmpty(t *testing.T) {
	mean, p50, p90 := CompletionTimeStats(nil)
	if mean != 0 || p50 != 0 || p90 != 0 {
		t.Errorf("stats of empty input = (%v, %v, %v), want zeros", mean, p50, p90)
	}
}

func TestCompletionTimeStatsSingle(t *testing.T) {
	mean, p50, p90 := CompletionTimeStats([]float64{42})
	if mean != 42 || p50 != 42 || p90 != 42 {
		t.Errorf("stats of single value = (%v, %v, %v), want all 42", mean, p50, p90)
	}
}

func TestCompletionTimeStatsKnownValues(t *testing.T) {
	// Unsorted on purpose; the helper sorts a copy.
	times := []float64{30, 10, 40, 20}
	mean, p50, p90 := CompletionTimeStats(times)

	if math.Abs(mean-25) > 1e-12 {
		t.Errorf("mean = %v, want 25", mean)
	}
	if p50 != 20 {
		t.Errorf("p50 = %v, want 20", p50)
	}
	if p90 != 40 {
		t.Errorf("p90 = %v, want 40", p90)
	}
	if times[0] != 30 {
		t.Error("input slice was reordered")
	}
}

func TestCollectorWindowing(t *testing.T) {
	c := NewCollector(10)

	if c.WindowReady(5) {
		t.Error("window ready before its duration elapsed")
	}
	if !c.WindowReady(10) {
		t.Error("window not ready at its duration")
	}

	c.RecordGrab()
	c.RecordGrab()
	c.RecordRelease()
	c.RecordArmPushes(3)
	c.RecordSpawn()
	c.RecordLevelLoad()
	c.RecordCompletion(45)
	c.RecordFailure()

	stats := c.Flush(10)
	if stats.WindowEnd != 10 {
		t.Errorf("window end = %v, want 10", stats.WindowEnd)
	}
	if stats.Grabs != 2 || stats.Releases != 1 || stats.ArmPushes != 3 {
		t.Errorf("grabs/releases/pushes = %d/%d/%d, want 2/1/3",
			stats.Grabs, stats.Releases, stats.ArmPushes)
	}
	if stats.Spawned != 1 || stats.LevelLoads != 1 || stats.Completions != 1 || stats.Failures != 1 {
		t.Errorf("spawned/loads/completions/failures = %d/%d/%d/%d, want all 1",
			stats.Spawned, stats.LevelLoads, stats.Completions, stats.Failures)
	}
	if stats.CompletionMean != 45 {
		t.Errorf("completion mean = %v, want 45", stats.CompletionMean)
	}

	// Flush resets every counter and starts the next window.
	if c.WindowReady(15) {
		t.Error("window ready right after flush")
	}
	empty := c.Flush(20)
	if empty.Grabs != 0 || empty.Completions != 0 || empty.CompletionMean != 0 {
		t.Errorf("counters survived flush: %+v", empty)
	}
}
