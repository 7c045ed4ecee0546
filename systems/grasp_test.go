package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/redjul/armsim/components"
	"github.com/redjul/armsim/rig"
)

func poseAt(angle float64) *rig.Rig {
	r := rig.New()
	r.SetPose(map[rig.Joint]float64{rig.Gripper: angle})
	return r
}

func TestAttachWithinRange(t *testing.T) {
	tests := []struct {
		name string
		dist float64
		want bool
	}{
		{"close", 0.1, true},
		{"too far", 0.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			world, mapper := newTestWorld()
			r := poseAt(20)
			spawnObject(mapper, r3.Add(r.GripperCenter(), r3.Vec{X: tt.dist}), 0.3)

			grasp := NewGraspSystem(world)
			grasp.Update(r)

			if _, held := grasp.Held(); held != tt.want {
				t.Errorf("held = %v at distance %v, want %v", held, tt.dist, tt.want)
			}
		})
	}
}

func TestAttachRequiresClosingBand(t *testing.T) {
	for _, angle := range []float64{0, 40, 55} {
		world, mapper := newTestWorld()
		r := poseAt(angle)
		// Size matched loosely to the width so only the angle band decides.
		spawnObject(mapper, r3.Add(r.GripperCenter(), r3.Vec{X: 0.1}), r.GripperWidth())

		grasp := NewGraspSystem(world)
		grasp.Update(r)

		if _, held := grasp.Held(); held {
			t.Errorf("attached at gripper angle %v, want no attach outside (0, 40)", angle)
		}
	}
}

func TestAttachRequiresSizeMatch(t *testing.T) {
	// width(20 deg) = 0.329; acceptance is [width-0.05, width+0.2].
	tests := []struct {
		name string
		size float64
		want bool
	}{
		{"matching", 0.3, true},
		{"too small", 0.2, false},
		{"too large", 0.6, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			world, mapper := newTestWorld()
			r := poseAt(20)
			spawnObject(mapper, r3.Add(r.GripperCenter(), r3.Vec{X: 0.1}), tt.size)

			grasp := NewGraspSystem(world)
			grasp.Update(r)

			if _, held := grasp.Held(); held != tt.want {
				t.Errorf("held = %v for size %v, want %v", held, tt.size, tt.want)
			}
		})
	}
}

func TestNearestCandidateWins(t *testing.T) {
	world, mapper := newTestWorld()
	r := poseAt(20)
	center := r.GripperCenter()

	far := spawnObject(mapper, r3.Add(center, r3.Vec{X: 0.25}), 0.3)
	near := spawnObject(mapper, r3.Add(center, r3.Vec{X: -0.1}), 0.3)

	grasp := NewGraspSystem(world)
	grasp.Update(r)

	held, ok := grasp.Held()
	if !ok {
		t.Fatal("no object attached")
	}
	if held != near {
		t.Errorf("attached %v, want the nearer candidate (far=%v near=%v)", held, far, near)
	}
}

func TestHeldObjectFollowsGripper(t *testing.T) {
	world, mapper := newTestWorld()
	posMap := ecs.NewMap1[components.Position](world)
	stateMap := ecs.NewMap1[components.ObjState](world)

	r := poseAt(20)
	e := spawnObject(mapper, r3.Add(r.GripperCenter(), r3.Vec{X: 0.1}), 0.3)

	grasp := NewGraspSystem(world)
	grasp.Update(r)
	if _, ok := grasp.Held(); !ok {
		t.Fatal("attach failed")
	}
	if !stateMap.Get(e).Attached {
		t.Error("attached flag not set on object")
	}

	// Move the arm; the held object must track the new gripper center.
	r.SetPose(map[rig.Joint]float64{rig.Shoulder: 40, rig.Base: 60})
	grasp.Update(r)

	want := r3.Add(r.GripperCenter(), r3.Vec{Y: 0.3})
	got := posMap.Get(e).Vec
	if r3.Norm(r3.Sub(got, want)) > 1e-9 {
		t.Errorf("held position = %+v, want gripper center plus hold offset %+v", got, want)
	}
}

func TestReleaseThresholdIsSizePlusSlack(t *testing.T) {
	// Size 0.3 releases past width 0.4, which the gripper crosses
	// between 25.0 and 25.2 degrees.
	world, mapper := newTestWorld()
	velMap := ecs.NewMap1[components.Velocity](world)
	stateMap := ecs.NewMap1[components.ObjState](world)

	r := poseAt(20)
	e := spawnObject(mapper, r3.Add(r.GripperCenter(), r3.Vec{X: 0.1}), 0.3)

	grasp := NewGraspSystem(world)
	grasp.Update(r)
	if _, ok := grasp.Held(); !ok {
		t.Fatal("attach failed")
	}
	velMap.Get(e).Vec = r3.Vec{X: 3, Y: 1}

	r.SetPose(map[rig.Joint]float64{rig.Gripper: 25.0})
	grasp.Update(r)
	if _, ok := grasp.Held(); !ok {
		t.Fatal("released below the threshold width")
	}

	r.SetPose(map[rig.Joint]float64{rig.Gripper: 25.2})
	grasp.Update(r)
	if _, ok := grasp.Held(); ok {
		t.Fatal("still held past the threshold width")
	}
	if stateMap.Get(e).Attached {
		t.Error("attached flag still set after release")
	}
	if vel := velMap.Get(e).Vec; vel != (r3.Vec{}) {
		t.Errorf("velocity after release = %+v, want zero", vel)
	}
}

func TestReleaseHeldAndForget(t *testing.T) {
	world, mapper := newTestWorld()
	stateMap := ecs.NewMap1[components.ObjState](world)

	r := poseAt(20)
	e := spawnObject(mapper, r3.Add(r.GripperCenter(), r3.Vec{X: 0.1}), 0.3)

	grasp := NewGraspSystem(world)
	grasp.Update(r)
	grasp.ReleaseHeld()
	if _, ok := grasp.Held(); ok {
		t.Error("still held after explicit release")
	}
	if stateMap.Get(e).Attached {
		t.Error("attached flag still set after explicit release")
	}

	grasp.Update(r)
	if _, ok := grasp.Held(); !ok {
		t.Fatal("re-attach failed")
	}
	grasp.Forget()
	if _, ok := grasp.Held(); ok {
		t.Error("still held after forget")
	}
	// Forget drops the reference only; the object keeps its flags.
	if !stateMap.Get(e).Attached {
		t.Error("forget cleared the object's attached flag")
	}
}

func TestGraspEvents(t *testing.T) {
	world, mapper := newTestWorld()
	metaMap := ecs.NewMap1[components.Meta](world)

	r := poseAt(20)
	e := spawnObject(mapper, r3.Add(r.GripperCenter(), r3.Vec{X: 0.1}), 0.3)
	id := metaMap.Get(e).ID

	var events []GraspEvent
	grasp := NewGraspSystem(world)
	grasp.OnEvent = func(ev GraspEvent) { events = append(events, ev) }

	grasp.Update(r)
	r.SetPose(map[rig.Joint]float64{rig.Gripper: 30})
	grasp.Update(r)

	want := []GraspEvent{
		{Kind: EventGrabbed, Object: id},
		{Kind: EventReleased, Object: id},
	}
	if len(events) != len(want) {
		t.Fatalf("event count = %d, want %d", len(events), len(want))
	}
	for i, ev := range events {
		if ev != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, ev, want[i])
		}
	}
}
