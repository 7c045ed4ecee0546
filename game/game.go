// Package game wires the rig, grasp, physics and level engine into the
// per-frame simulation loop.
package game

import (
	"fmt"
	"time"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/redjul/armsim/camera"
	"github.com/redjul/armsim/components"
	"github.com/redjul/armsim/config"
	"github.com/redjul/armsim/level"
	"github.com/redjul/armsim/renderer"
	"github.com/redjul/armsim/rig"
	"github.com/redjul/armsim/store"
	"github.com/redjul/armsim/systems"
	"github.com/redjul/armsim/telemetry"
	"github.com/redjul/armsim/ui"
)

// Options configures a new game instance.
type Options struct {
	ProgressPath string
	OutputDir    string
	Headless     bool
	LogStats     bool
	StartLevel   int // -1 = no level loaded (sandbox)
}

// Game holds the complete simulator state.
type Game struct {
	world *ecs.World

	objectMapper *ecs.Map5[
		components.Position,
		components.Velocity,
		components.Body,
		components.ObjState,
		components.Meta,
	]
	objectFilter *ecs.Filter5[
		components.Position,
		components.Velocity,
		components.Body,
		components.ObjState,
		components.Meta,
	]

	arm      *rig.Rig
	physics  *systems.PhysicsSystem
	grasp    *systems.GraspSystem
	engine   *level.Engine
	progress *store.Store

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	logStats  bool

	// Pose input accumulated since the last frame; merged into the rig
	// at the start of the next step.
	pendingPose map[rig.Joint]float64

	// Presentation state fed by grasp events, not by the grasp logic
	// touching render objects.
	heldID   uint32
	heldLive bool

	nextID     uint32
	frame      int64
	startedAt  time.Time
	paused     bool
	headless   bool
	lastStatus string

	cam     *camera.Camera
	scene   *renderer.Scene
	hud     *ui.HUD
	sliders *ui.ControlsPanel

	screenWidth, screenHeight float32
}

// NewGame creates a game instance. Config must be initialized first.
func NewGame(opts Options) (*Game, error) {
	cfg := config.Cfg()
	world := ecs.NewWorld()

	g := &Game{
		world: world,
		objectMapper: ecs.NewMap5[
			components.Position,
			components.Velocity,
			components.Body,
			components.ObjState,
			components.Meta,
		](world),
		objectFilter: ecs.NewFilter5[
			components.Position,
			components.Velocity,
			components.Body,
			components.ObjState,
			components.Meta,
		](world),

		pendingPose:  make(map[rig.Joint]float64),
		nextID:       1,
		startedAt:    time.Now(),
		headless:     opts.Headless,
		logStats:     opts.LogStats,
		lastStatus:   level.StatusPlaying,
		screenWidth:  cfg.Derived.ScreenW32,
		screenHeight: cfg.Derived.ScreenH32,
	}

	g.arm = rig.New()
	g.physics = systems.NewPhysicsSystem(world)
	g.grasp = systems.NewGraspSystem(world)
	g.grasp.OnEvent = g.onGraspEvent

	g.progress = store.Open(opts.ProgressPath)

	engine, err := level.NewEngine(g, g.progress)
	if err != nil {
		return nil, fmt.Errorf("building level engine: %w", err)
	}
	g.engine = engine

	g.collector = telemetry.NewCollector(cfg.Telemetry.StatsWindow)
	g.perf = telemetry.NewPerfCollector(cfg.Screen.TargetFPS)

	g.output, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := g.output.WriteConfig(cfg); err != nil {
		return nil, err
	}

	if !opts.Headless {
		g.cam = camera.New()
		g.scene = renderer.NewScene()
		g.hud = ui.NewHUD()
		g.sliders = ui.NewControlsPanel(10, 90, 300)
	}

	if opts.StartLevel >= 0 {
		if err := g.LoadLevel(opts.StartLevel); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// Unload releases output resources.
func (g *Game) Unload() {
	g.output.Close()
}

// Arm exposes the kinematic rig.
func (g *Game) Arm() *rig.Rig {
	return g.arm
}

// Engine exposes the level engine.
func (g *Game) Engine() *level.Engine {
	return g.engine
}

// Progress exposes the progress store.
func (g *Game) Progress() *store.Store {
	return g.progress
}

// Frame returns the number of completed frame steps.
func (g *Game) Frame() int64 {
	return g.frame
}

// SetPose queues a partial joint pose for the next frame step.
func (g *Game) SetPose(partial map[rig.Joint]float64) {
	for j, deg := range partial {
		g.pendingPose[j] = deg
	}
}

// SetNamedPose queues a partial pose keyed by external joint names.
// Out-of-range angles are accepted unvalidated.
func (g *Game) SetNamedPose(partial map[string]float64) error {
	for name, deg := range partial {
		j, err := rig.ParseJoint(name)
		if err != nil {
			return err
		}
		g.pendingPose[j] = deg
	}
	return nil
}

// LoadLevel starts the given level. Unknown ids leave state untouched.
func (g *Game) LoadLevel(id int) error {
	if err := g.engine.Load(id); err != nil {
		return err
	}
	g.collector.RecordLevelLoad()
	g.lastStatus = level.StatusPlaying
	return nil
}

// ExitLevel aborts the current level without persisting.
func (g *Game) ExitLevel() {
	g.engine.Exit()
}

func (g *Game) onGraspEvent(ev systems.GraspEvent) {
	switch ev.Kind {
	case systems.EventGrabbed:
		g.collector.RecordGrab()
		g.heldID = ev.Object
		g.heldLive = true
	case systems.EventReleased:
		g.collector.RecordRelease()
		g.heldLive = false
	}
}

// HeldObject returns the id of the object the gripper holds, if any.
func (g *Game) HeldObject() (uint32, bool) {
	return g.heldID, g.heldLive
}

// Spawn creates a manipulable object and returns its handle.
func (g *Game) Spawn(shape components.Shape, pos r3.Vec, color string, size float64) uint32 {
	return g.spawn(shape, pos, color, size, true, false)
}

func (g *Game) spawn(shape components.Shape, pos r3.Vec, color string, size float64, pickable, static bool) uint32 {
	id := g.nextID
	g.nextID++

	position := components.Position{Vec: pos}
	velocity := components.Velocity{}
	body := components.Body{Shape: shape, Color: color, Size: size, Radius: size / 2}
	state := components.ObjState{Pickable: pickable, Static: static}
	meta := components.Meta{ID: id}

	g.objectMapper.NewEntity(&position, &velocity, &body, &state, &meta)
	g.collector.RecordSpawn()
	return id
}

// RemoveObject removes the object with the given id. Returns false if no
// such object exists.
func (g *Game) RemoveObject(id uint32) bool {
	var target ecs.Entity
	found := false
	query := g.objectFilter.Query()
	for query.Next() {
		_, _, _, _, meta := query.Get()
		if meta.ID == id {
			target = query.Entity()
			found = true
		}
	}
	if !found {
		return false
	}
	if held, ok := g.grasp.Held(); ok && held == target {
		g.grasp.Forget()
		g.heldLive = false
	}
	g.objectMapper.Remove(target)
	return true
}

// Clear removes every live object. Implements level.World.
func (g *Game) Clear() {
	var toRemove []ecs.Entity
	query := g.objectFilter.Query()
	for query.Next() {
		toRemove = append(toRemove, query.Entity())
	}
	for _, e := range toRemove {
		g.objectMapper.Remove(e)
	}
	g.grasp.Forget()
	g.heldLive = false
}

// SpawnObject instantiates a level-declared object. Implements level.World.
func (g *Game) SpawnObject(spec level.ObjectSpec) uint32 {
	pos := r3.Vec{X: spec.Position[0], Y: spec.Position[1], Z: spec.Position[2]}
	return g.spawn(spec.Type, pos, spec.Color, spec.Size, true, false)
}

// SpawnObstacle instantiates a static obstacle. Implements level.World.
func (g *Game) SpawnObstacle(spec level.ObstacleSpec) {
	pos := r3.Vec{X: spec.Position[0], Y: spec.Position[1], Z: spec.Position[2]}
	g.spawn(components.ShapeCube, pos, spec.Color, spec.Size, false, true)
}

// ReleaseHeld drops the held object, if any. Implements level.World.
func (g *Game) ReleaseHeld() {
	g.grasp.ReleaseHeld()
}

// Objects returns a snapshot of all live non-obstacle objects in spawn
// order. Implements level.World; spawn order fixes the otherwise
// unspecified "first match wins" target assignment.
func (g *Game) Objects() []level.ObjectInfo {
	var out []level.ObjectInfo
	query := g.objectFilter.Query()
	for query.Next() {
		pos, _, body, st, meta := query.Get()
		if st.Static {
			continue
		}
		out = append(out, level.ObjectInfo{
			ID:     meta.ID,
			Shape:  body.Shape,
			Color:  body.Color,
			Pos:    pos.Vec,
			Radius: body.Radius,
		})
	}
	sortObjects(out)
	return out
}

func sortObjects(objs []level.ObjectInfo) {
	// Insertion sort by id; object counts are small and nearly sorted.
	for i := 1; i < len(objs); i++ {
		for j := i; j > 0 && objs[j-1].ID > objs[j].ID; j-- {
			objs[j-1], objs[j] = objs[j], objs[j-1]
		}
	}
}
