package telemetry

import (
	"sort"
	"time"
)

// Phase names for the frame step.
const (
	PhasePose      = "pose"
	PhaseGrasp     = "grasp"
	PhasePhysics   = "physics"
	PhaseLevel     = "level"
	PhaseTelemetry = "telemetry"
)

// PerfCollector tracks per-phase frame timing over a rolling window.
type PerfCollector struct {
	windowSize int
	totals     map[string]time.Duration
	frameTotal time.Duration
	frames     int

	frameStart time.Time
	phaseStart time.Time
	lastPhase  string
}

// NewPerfCollector creates a perf collector averaging over windowSize frames.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize: windowSize,
		totals:     make(map[string]time.Duration),
	}
}

// FrameStart marks the beginning of a frame step.
func (p *PerfCollector) FrameStart() {
	now := time.Now()
	p.frameStart = now
	p.phaseStart = now
	p.lastPhase = ""
}

// Phase closes the previous phase (if any) and opens the named one.
func (p *PerfCollector) Phase(name string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.totals[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = name
}

// FrameEnd closes the open phase and the frame. When the window is full
// the averages reset.
func (p *PerfCollector) FrameEnd() {
	now := time.Now()
	if p.lastPhase != "" {
		p.totals[p.lastPhase] += now.Sub(p.phaseStart)
		p.lastPhase = ""
	}
	p.frameTotal += now.Sub(p.frameStart)
	p.frames++
	if p.frames >= p.windowSize {
		p.Reset()
	}
}

// Avg returns the average duration of the named phase in the current window.
func (p *PerfCollector) Avg(name string) time.Duration {
	if p.frames == 0 {
		return 0
	}
	return p.totals[name] / time.Duration(p.frames)
}

// Total returns the average frame step duration in the current window.
func (p *PerfCollector) Total() time.Duration {
	if p.frames == 0 {
		return 0
	}
	return p.frameTotal / time.Duration(p.frames)
}

// SortedNames returns phase names ordered by descending average duration.
func (p *PerfCollector) SortedNames() []string {
	names := make([]string, 0, len(p.totals))
	for name := range p.totals {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return p.totals[names[i]] > p.totals[names[j]]
	})
	return names
}

// Reset clears the current window.
func (p *PerfCollector) Reset() {
	p.totals = make(map[string]time.Duration)
	p.frameTotal = 0
	p.frames = 0
}
