package level

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/redjul/armsim/components"
)

// State is the engine's lifecycle state.
type State uint8

const (
	Unloaded State = iota
	Active
	Completed
	Failed
	Exited
)

// Frame-result statuses surfaced to the UI each frame.
const (
	StatusPlaying   = "playing"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ReasonTimeout is the failure reason when the level clock expires.
const ReasonTimeout = "timeout"

// FrameResult is emitted by Update once per frame.
type FrameResult struct {
	Status string
	Time   float64
	Stars  int
	Reason string
}

// ObjectInfo is a read-only snapshot of one live object, in spawn order.
type ObjectInfo struct {
	ID     uint32
	Shape  components.Shape
	Color  string
	Pos    r3.Vec
	Radius float64
}

// World is the engine's view of the physics body registry: the engine
// spawns level state into it and scans it for win evaluation.
type World interface {
	Clear()
	SpawnObject(spec ObjectSpec) uint32
	SpawnObstacle(spec ObstacleSpec)
	Objects() []ObjectInfo
	ReleaseHeld()
}

// Progress persists completed-level results.
type Progress interface {
	RecordResult(level, stars int, elapsed float64) error
}

// Target is a target zone's runtime state. FilledBy is a non-owning
// reference to the object currently satisfying it.
type Target struct {
	Spec     TargetSpec
	Filled   bool
	FilledBy uint32
}

// Engine loads level descriptors and evaluates win/loss predicates over
// the live object world every frame.
type Engine struct {
	table    map[int]Descriptor
	world    World
	progress Progress

	state   State
	current Descriptor
	targets []Target
	started time.Time
	elapsed float64
	result  FrameResult

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// NewEngine creates an engine over the embedded level table.
func NewEngine(world World, progress Progress) (*Engine, error) {
	descriptors, err := LoadTable()
	if err != nil {
		return nil, err
	}
	table := make(map[int]Descriptor, len(descriptors))
	for _, d := range descriptors {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		table[d.ID] = d
	}
	return &Engine{
		table:    table,
		world:    world,
		progress: progress,
		state:    Unloaded,
		now:      time.Now,
	}, nil
}

// SetClock replaces the engine's wall clock. Tests use this to step time.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// State returns the engine's lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Current returns the loaded descriptor. Only meaningful outside Unloaded.
func (e *Engine) Current() Descriptor {
	return e.current
}

// Targets returns the runtime target states for the loaded level.
func (e *Engine) Targets() []Target {
	return e.targets
}

// Elapsed returns seconds since the level started, as of the last Update.
func (e *Engine) Elapsed() float64 {
	return e.elapsed
}

// Result returns the most recent frame result.
func (e *Engine) Result() FrameResult {
	return e.result
}

// Load starts the level with the given id: clears all live objects and
// targets, spawns the level's declared state, and resets the clock. An
// unknown id leaves the prior state untouched.
func (e *Engine) Load(id int) error {
	desc, ok := e.table[id]
	if !ok {
		slog.Warn("unknown level id", "id", id)
		return fmt.Errorf("unknown level id %d", id)
	}

	e.world.ReleaseHeld()
	e.world.Clear()

	for _, obj := range desc.Objects {
		e.world.SpawnObject(obj)
	}
	for _, obs := range desc.Obstacles {
		e.world.SpawnObstacle(obs)
	}

	e.targets = make([]Target, len(desc.Targets))
	for i, spec := range desc.Targets {
		e.targets[i] = Target{Spec: spec}
	}

	e.current = desc
	e.started = e.now()
	e.elapsed = 0
	e.state = Active
	e.result = FrameResult{Status: StatusPlaying}
	slog.Info("level loaded", "id", desc.ID, "name", desc.Name)
	return nil
}

// Update evaluates the loss and win predicates for this frame. Must run
// after the physics step so it sees post-integration positions. The
// timeout check precedes the win check: a level finished on the exact
// frame the clock expires is reported as failed.
func (e *Engine) Update() FrameResult {
	if e.state != Active {
		return e.result
	}

	e.elapsed = e.now().Sub(e.started).Seconds()

	if e.current.TimeLimit > 0 && e.elapsed > e.current.TimeLimit {
		e.state = Failed
		e.result = FrameResult{Status: StatusFailed, Time: e.elapsed, Reason: ReasonTimeout}
		slog.Info("level failed", "id", e.current.ID, "reason", ReasonTimeout)
		return e.result
	}

	objects := e.world.Objects()
	allFilled := len(e.targets) > 0
	for i := range e.targets {
		e.evaluateTarget(&e.targets[i], objects)
		if !e.targets[i].Filled {
			allFilled = false
		}
	}

	if allFilled {
		return e.complete()
	}

	e.result = FrameResult{Status: StatusPlaying, Time: e.elapsed}
	return e.result
}

// evaluateTarget marks the target filled if some object lies within its
// acceptance radius with a matching shape and (if required) color. The
// first qualifying object in iteration order wins; that order is the
// registry's spawn order.
func (e *Engine) evaluateTarget(t *Target, objects []ObjectInfo) {
	center := r3.Vec{X: t.Spec.Position[0], Y: t.Spec.Position[1], Z: t.Spec.Position[2]}
	for _, obj := range objects {
		if r3.Norm(r3.Sub(obj.Pos, center)) >= t.Spec.Size {
			continue
		}
		if !acceptsShape(t.Spec.Accepts, obj.Shape) {
			continue
		}
		if t.Spec.RequiredColor != "" && !strings.EqualFold(t.Spec.RequiredColor, obj.Color) {
			continue
		}
		t.Filled = true
		t.FilledBy = obj.ID
		return
	}
	t.Filled = false
	t.FilledBy = 0
}

func acceptsShape(accepts []components.Shape, s components.Shape) bool {
	for _, a := range accepts {
		if a == s {
			return true
		}
	}
	return false
}

// complete computes stars from elapsed time, persists the result, and
// exits Active. Finishing past every threshold still grants one star.
func (e *Engine) complete() FrameResult {
	stars := starsForTime(e.elapsed, e.current.Stars)
	e.state = Completed
	e.result = FrameResult{Status: StatusCompleted, Time: e.elapsed, Stars: stars}

	if e.progress != nil {
		if err := e.progress.RecordResult(e.current.ID, stars, e.elapsed); err != nil {
			slog.Warn("saving level result", "id", e.current.ID, "error", err)
		}
	}
	slog.Info("level completed", "id", e.current.ID, "time", e.elapsed, "stars", stars)
	return e.result
}

func starsForTime(elapsed float64, spec StarSpec) int {
	switch {
	case elapsed <= spec.Time[0]:
		return 3
	case elapsed <= spec.Time[1]:
		return 2
	default:
		return 1
	}
}

// Exit aborts the level, discarding all live state without persisting.
func (e *Engine) Exit() {
	if e.state == Unloaded {
		return
	}
	e.world.ReleaseHeld()
	e.world.Clear()
	e.targets = nil
	e.state = Exited
	e.result = FrameResult{}
}
