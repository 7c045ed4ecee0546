package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/redjul/armsim/components"
	"github.com/redjul/armsim/config"
	"github.com/redjul/armsim/rig"
)

// GraspEventKind distinguishes grasp state transitions.
type GraspEventKind uint8

const (
	EventGrabbed GraspEventKind = iota
	EventReleased
)

// GraspEvent is emitted on every attach/detach transition. Presentation
// concerns (held tint) subscribe to these instead of the grasp logic
// touching render state.
type GraspEvent struct {
	Kind   GraspEventKind
	Object uint32
}

// GraspSystem decides, every frame, whether an object should be clamped to
// or released from the gripper, and keeps a held object rigidly following
// the gripper center. At most one object is held at a time.
type GraspSystem struct {
	filter *ecs.Filter5[
		components.Position,
		components.Velocity,
		components.Body,
		components.ObjState,
		components.Meta,
	]
	posMap   *ecs.Map1[components.Position]
	velMap   *ecs.Map1[components.Velocity]
	bodyMap  *ecs.Map1[components.Body]
	stateMap *ecs.Map1[components.ObjState]
	metaMap  *ecs.Map1[components.Meta]

	held    ecs.Entity
	hasHeld bool

	closeMin     float64
	closeMax     float64
	scanRange    float64
	attachRange  float64
	slackLow     float64
	slackHigh    float64
	releaseSlack float64
	holdOffset   float64

	// OnEvent, when set, receives every attach/detach transition.
	OnEvent func(GraspEvent)
}

// NewGraspSystem creates the grasp controller over the given world.
func NewGraspSystem(world *ecs.World) *GraspSystem {
	cfg := config.Cfg().Grasp
	return &GraspSystem{
		filter: ecs.NewFilter5[
			components.Position,
			components.Velocity,
			components.Body,
			components.ObjState,
			components.Meta,
		](world),
		posMap:   ecs.NewMap1[components.Position](world),
		velMap:   ecs.NewMap1[components.Velocity](world),
		bodyMap:  ecs.NewMap1[components.Body](world),
		stateMap: ecs.NewMap1[components.ObjState](world),
		metaMap:  ecs.NewMap1[components.Meta](world),

		closeMin:     cfg.CloseMinDeg,
		closeMax:     cfg.CloseMaxDeg,
		scanRange:    cfg.ScanRange,
		attachRange:  cfg.AttachRange,
		slackLow:     cfg.SizeSlackLow,
		slackHigh:    cfg.SizeSlackHigh,
		releaseSlack: cfg.ReleaseSlack,
		holdOffset:   cfg.HoldOffset,
	}
}

// Held returns the currently attached object, if any.
func (s *GraspSystem) Held() (ecs.Entity, bool) {
	return s.held, s.hasHeld
}

// Update runs one grasp decision for the current rig pose. While an object
// is held it is repositioned to follow the gripper instead of integrating;
// opening the gripper past the object's size plus the release slack lets
// it go with its velocity zeroed.
func (s *GraspSystem) Update(r *rig.Rig) {
	center := r.GripperCenter()
	width := r.GripperWidth()

	if s.hasHeld {
		body := s.bodyMap.Get(s.held)
		if width > body.Size+s.releaseSlack {
			s.release()
			return
		}
		pos := s.posMap.Get(s.held)
		pos.Vec = r3.Add(center, r3.Vec{Y: s.holdOffset})
		return
	}

	// Attachment is only evaluated while the gripper is actively closing:
	// neither already closed nor fully open.
	angle := r.Pose().Angle(rig.Gripper)
	if angle <= s.closeMin || angle >= s.closeMax {
		return
	}

	// Two-stage distance check: a shrinking best-distance bound tolerates
	// imprecise alignment during the scan, the strict bound below stops
	// objects snapping in from far away.
	bestDist := s.scanRange
	var best ecs.Entity
	found := false

	query := s.filter.Query()
	for query.Next() {
		pos, _, body, st, _ := query.Get()
		if !st.Pickable || st.Attached || st.Static {
			continue
		}
		d := r3.Norm(r3.Sub(pos.Vec, center))
		if d >= bestDist {
			continue
		}
		if body.Size < width-s.slackLow || body.Size > width+s.slackHigh {
			continue
		}
		bestDist = d
		best = query.Entity()
		found = true
	}

	if !found || bestDist >= s.attachRange {
		return
	}

	st := s.stateMap.Get(best)
	st.Attached = true
	st.OnFloor = false
	pos := s.posMap.Get(best)
	pos.Vec = r3.Add(center, r3.Vec{Y: s.holdOffset})

	s.held = best
	s.hasHeld = true
	s.emit(GraspEvent{Kind: EventGrabbed, Object: s.metaMap.Get(best).ID})
}

// ReleaseHeld drops the held object, if any. Used by explicit external
// release (level exit) in addition to the per-frame width check.
func (s *GraspSystem) ReleaseHeld() {
	if s.hasHeld {
		s.release()
	}
}

// Forget clears the held reference without touching the object. Called
// when the world is cleared out from under the controller.
func (s *GraspSystem) Forget() {
	s.hasHeld = false
	s.held = ecs.Entity{}
}

func (s *GraspSystem) release() {
	st := s.stateMap.Get(s.held)
	st.Attached = false
	vel := s.velMap.Get(s.held)
	vel.Vec = r3.Vec{}
	s.emit(GraspEvent{Kind: EventReleased, Object: s.metaMap.Get(s.held).ID})
	s.hasHeld = false
	s.held = ecs.Entity{}
}

func (s *GraspSystem) emit(ev GraspEvent) {
	if s.OnEvent != nil {
		s.OnEvent(ev)
	}
}
