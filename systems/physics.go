// Package systems provides the per-frame simulation passes over the object world.
package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/redjul/armsim/components"
	"github.com/redjul/armsim/config"
	"github.com/redjul/armsim/rig"
)

// PhysicsSystem integrates free objects: gravity, floor clamp with
// friction, and positional repulsion against the arm's collider spheres.
// Single-threaded, one pass per frame; no locking.
type PhysicsSystem struct {
	filter *ecs.Filter4[
		components.Position,
		components.Velocity,
		components.Body,
		components.ObjState,
	]

	gravity  float64
	maxDT    float64
	friction float64
	pushCorr float64
	pushImp  float64
	upBias   float64
}

// NewPhysicsSystem creates the integrator over the given world.
func NewPhysicsSystem(world *ecs.World) *PhysicsSystem {
	cfg := config.Cfg().Physics
	return &PhysicsSystem{
		filter: ecs.NewFilter4[
			components.Position,
			components.Velocity,
			components.Body,
			components.ObjState,
		](world),
		gravity:  cfg.Gravity,
		maxDT:    cfg.MaxDT,
		friction: cfg.FloorFriction,
		pushCorr: cfg.PushCorrection,
		pushImp:  cfg.PushImpulse,
		upBias:   cfg.PushUpBias,
	}
}

// Step advances every free object by dt seconds. The step is clamped to
// the configured maximum to bound integration error on frame hitches.
// Static and attached objects are skipped entirely. Returns the number of
// arm-to-object push contacts resolved this step.
func (s *PhysicsSystem) Step(dt float64, colliders []rig.Collider) int {
	if dt > s.maxDT {
		dt = s.maxDT
	}
	if dt <= 0 {
		return 0
	}

	pushes := 0
	query := s.filter.Query()
	for query.Next() {
		pos, vel, body, st := query.Get()
		if st.Static || st.Attached {
			continue
		}

		if !st.OnFloor {
			vel.Vec.Y += s.gravity * dt
		}
		pos.Vec = r3.Add(pos.Vec, r3.Scale(dt, vel.Vec))

		// Floor contact: clamp at ground height, kill vertical motion,
		// damp horizontal motion.
		if pos.Vec.Y <= body.Radius {
			pos.Vec.Y = body.Radius
			vel.Vec.Y = 0
			vel.Vec.X *= s.friction
			vel.Vec.Z *= s.friction
			st.OnFloor = true
		} else {
			st.OnFloor = false
		}

		pushes += s.resolveArm(pos, vel, body, colliders)
	}
	return pushes
}

// resolveArm pushes the object out of any penetrated arm collider. The
// correction is positional (stiff) plus a fixed-magnitude velocity kick;
// it is not momentum-conserving.
func (s *PhysicsSystem) resolveArm(pos *components.Position, vel *components.Velocity, body *components.Body, colliders []rig.Collider) int {
	pushes := 0
	for _, c := range colliders {
		delta := r3.Sub(pos.Vec, c.Center)
		dist := r3.Norm(delta)
		minDist := c.Radius + body.Radius
		if dist >= minDist {
			continue
		}

		dir := r3.Vec{Y: 1}
		if dist > 1e-9 {
			dir = r3.Scale(1/dist, delta)
		}
		// A downward push would drive the object into the floor; deflect
		// it to a small upward bias before renormalizing.
		if dir.Y < 0 {
			dir.Y = s.upBias
			dir = r3.Unit(dir)
		}

		pen := minDist - dist
		pos.Vec = r3.Add(pos.Vec, r3.Scale(s.pushCorr*pen, dir))
		vel.Vec = r3.Add(vel.Vec, r3.Scale(s.pushImp, dir))
		pushes++
	}
	return pushes
}
