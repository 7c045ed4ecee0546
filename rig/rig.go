// Package rig implements the arm's kinematic tree: a fixed link topology
// driven by a six-joint pose, recomputed functionally into world transforms.
package rig

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/redjul/armsim/config"
)

// jointAxis selects which local axis a joint rotates about.
type jointAxis uint8

const (
	axisNone  jointAxis = iota
	axisYaw             // local up (Y)
	axisPitch           // local lateral (X)
)

// linkDef is one node of the static link tree. Offset is expressed in the
// parent link's frame; the joint rotation applies after the offset.
type linkDef struct {
	name   string
	parent int
	offset r3.Vec
	joint  Joint
	axis   jointAxis
}

// frame is a rigid world transform.
type frame struct {
	rot r3.Rotation
	pos r3.Vec
}

// LinkState is a link's name and world position, for rendering and tooling.
type LinkState struct {
	Name string
	Pos  r3.Vec
}

// Collider is a sphere approximation of one arm link, used for object
// repulsion only (grasp decisions use the gripper center instead).
type Collider struct {
	Center r3.Vec
	Radius float64
}

// Link indices into the topology table.
const (
	linkBaseMount = iota
	linkTurntable
	linkShoulder
	linkUpperArm
	linkElbow
	linkForearm
	linkWristPitch
	linkWristRoll
	linkGripperBase
	linkFingerL
	linkFingerR
	numLinks
)

// Rig converts a joint pose into world transforms for every link.
type Rig struct {
	defs   [numLinks]linkDef
	pose   Pose
	frames [numLinks]frame

	fingerGap     float64
	openScale     float64
	gripperOffset float64
	colliderR     float64
	baseR         float64

	colliders []Collider
}

// New builds the rig from the configured link dimensions, at the zero pose
// (arm pointing straight up, gripper closed).
func New() *Rig {
	cfg := config.Cfg()
	dims := cfg.Rig

	r := &Rig{
		fingerGap:     cfg.Grasp.FingerGap,
		openScale:     cfg.Grasp.OpenScale,
		gripperOffset: dims.GripperOffset,
		colliderR:     dims.ColliderRadius,
		baseR:         dims.BaseRadius,
	}

	up := func(d float64) r3.Vec { return r3.Vec{Y: d} }
	r.defs = [numLinks]linkDef{
		linkBaseMount:   {name: "baseMount", parent: -1},
		linkTurntable:   {name: "turntable", parent: linkBaseMount, offset: up(dims.BaseHeight), joint: Base, axis: axisYaw},
		linkShoulder:    {name: "shoulder", parent: linkTurntable, offset: up(dims.ShoulderHeight), joint: Shoulder, axis: axisPitch},
		linkUpperArm:    {name: "upperArm", parent: linkShoulder, offset: up(dims.UpperArmLength * 0.5)},
		linkElbow:       {name: "elbow", parent: linkUpperArm, offset: up(dims.UpperArmLength * 0.5), joint: Elbow, axis: axisPitch},
		linkForearm:     {name: "forearm", parent: linkElbow, offset: up(dims.ForearmLength * 0.5)},
		linkWristPitch:  {name: "wristPitch", parent: linkForearm, offset: up(dims.ForearmLength * 0.5), joint: WristPitch, axis: axisPitch},
		linkWristRoll:   {name: "wristRoll", parent: linkWristPitch, offset: up(dims.WristLength), joint: WristRoll, axis: axisYaw},
		linkGripperBase: {name: "gripperBase", parent: linkWristRoll, offset: up(dims.GripperLength)},
		linkFingerL:     {name: "fingerL", parent: linkGripperBase},
		linkFingerR:     {name: "fingerR", parent: linkGripperBase},
	}

	r.recompute()
	return r
}

// SetPose merges the given joint angles (degrees) into the current pose and
// recomputes all link world transforms. Unspecified joints keep their angle.
// Out-of-range angles are accepted and simply produce unusual poses.
func (r *Rig) SetPose(partial map[Joint]float64) {
	r.pose.Merge(partial)
	r.recompute()
}

// Pose returns a copy of the current joint pose.
func (r *Rig) Pose() Pose {
	return r.pose
}

var identity = r3.Rotation(quat.Number{Real: 1})

func compose(a, b r3.Rotation) r3.Rotation {
	return r3.Rotation(quat.Mul(quat.Number(a), quat.Number(b)))
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// recompute walks the tree root-first and rebuilds every world transform
// from (topology, pose).
func (r *Rig) recompute() {
	// Finger offsets depend on the gripper angle, not on a rotation.
	half := r.GripperWidth() / 2
	r.defs[linkFingerL].offset = r3.Vec{X: -half, Y: r.gripperOffset}
	r.defs[linkFingerR].offset = r3.Vec{X: half, Y: r.gripperOffset}

	for i := 0; i < numLinks; i++ {
		def := &r.defs[i]

		parent := frame{rot: identity}
		if def.parent >= 0 {
			parent = r.frames[def.parent]
		}

		pos := r3.Add(parent.pos, parent.rot.Rotate(def.offset))
		rot := parent.rot
		if def.axis != axisNone {
			rot = compose(rot, jointRotation(def.axis, degToRad(r.pose.Angle(def.joint))))
		}
		r.frames[i] = frame{rot: rot, pos: pos}
	}

	r.rebuildColliders()
}

func jointRotation(axis jointAxis, rad float64) r3.Rotation {
	switch axis {
	case axisYaw:
		return r3.NewRotation(rad, r3.Vec{Y: 1})
	case axisPitch:
		return r3.NewRotation(rad, r3.Vec{X: 1})
	}
	return identity
}

// GripperCenter returns the world-space reference point for grasp and
// clamping tests: the gripper base offset along its local up axis.
func (r *Rig) GripperCenter() r3.Vec {
	g := r.frames[linkGripperBase]
	return r3.Add(g.pos, g.rot.Rotate(r3.Vec{Y: r.gripperOffset}))
}

// GripperWidth returns the current opening between the two fingers.
// The closed-form relation to the gripper angle is load-bearing: the grasp
// clamp and release tests depend on it exactly.
func (r *Rig) GripperWidth() float64 {
	return r.fingerGap + 2*degToRad(r.pose.Angle(Gripper))*r.openScale
}

// FingerPositions returns the world positions of the left and right fingers.
func (r *Rig) FingerPositions() (left, right r3.Vec) {
	return r.frames[linkFingerL].pos, r.frames[linkFingerR].pos
}

// Colliders returns the sphere approximations of the arm, one per major
// link, in root-to-tip order. The slice is reused between pose updates.
func (r *Rig) Colliders() []Collider {
	return r.colliders
}

func (r *Rig) rebuildColliders() {
	if r.colliders == nil {
		r.colliders = make([]Collider, 0, 7)
	}
	r.colliders = r.colliders[:0]
	r.colliders = append(r.colliders,
		Collider{Center: r.frames[linkTurntable].pos, Radius: r.baseR},
		Collider{Center: r.frames[linkShoulder].pos, Radius: r.colliderR},
		Collider{Center: r.frames[linkUpperArm].pos, Radius: r.colliderR},
		Collider{Center: r.frames[linkElbow].pos, Radius: r.colliderR},
		Collider{Center: r.frames[linkForearm].pos, Radius: r.colliderR},
		Collider{Center: r.frames[linkWristPitch].pos, Radius: r.colliderR},
		Collider{Center: r.frames[linkGripperBase].pos, Radius: r.colliderR},
	)
}

// Links returns the name and world position of every link in tree order.
func (r *Rig) Links() []LinkState {
	out := make([]LinkState, numLinks)
	for i := 0; i < numLinks; i++ {
		out[i] = LinkState{Name: r.defs[i].name, Pos: r.frames[i].pos}
	}
	return out
}
