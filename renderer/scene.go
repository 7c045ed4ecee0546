// Package renderer draws the arm workspace with raylib. It consumes
// read-only simulation state and owns no game logic.
package renderer

import (
	"strconv"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/redjul/armsim/camera"
	"github.com/redjul/armsim/components"
	"github.com/redjul/armsim/level"
	"github.com/redjul/armsim/rig"
)

// Scene renders the floor, arm, objects and target zones.
type Scene struct {
	ShowColliders bool
}

// NewScene creates a scene renderer.
func NewScene() *Scene {
	return &Scene{}
}

func v3(v r3.Vec) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

// ParseHexColor converts a "#rrggbb" string to a raylib color. Unparsable
// strings come back gray rather than failing the frame.
func ParseHexColor(s string) rl.Color {
	if len(s) != 7 || s[0] != '#' {
		return rl.Gray
	}
	n, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return rl.Gray
	}
	return rl.Color{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 255}
}

// Draw renders one frame of the 3D scene.
func (s *Scene) Draw(
	cam *camera.Camera,
	arm *rig.Rig,
	objects []level.ObjectInfo,
	heldID uint32,
	heldLive bool,
	targets []level.Target,
	obstacles []level.ObstacleSpec,
) {
	rlCam := rl.Camera3D{
		Position:   v3(cam.Position()),
		Target:     v3(cam.Target),
		Up:         rl.Vector3{Y: 1},
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}

	rl.BeginMode3D(rlCam)

	rl.DrawGrid(20, 0.5)

	s.drawTargets(targets)
	s.drawObstacles(obstacles)
	s.drawObjects(objects, heldID, heldLive)
	s.drawArm(arm)

	rl.EndMode3D()
}

func (s *Scene) drawArm(arm *rig.Rig) {
	links := arm.Links()

	// Capsules between consecutive tree links; fingers drawn separately.
	var prev rl.Vector3
	havePrev := false
	for _, link := range links {
		if link.Name == "fingerL" || link.Name == "fingerR" {
			continue
		}
		p := v3(link.Pos)
		if link.Name == "baseMount" {
			rl.DrawCylinder(p, 0.35, 0.4, 0.1, 16, rl.DarkGray)
		}
		if havePrev {
			rl.DrawCapsule(prev, p, 0.07, 8, 4, rl.LightGray)
		}
		prev = p
		havePrev = true
	}

	left, right := arm.FingerPositions()
	rl.DrawCube(v3(left), 0.04, 0.2, 0.08, rl.DarkGray)
	rl.DrawCube(v3(right), 0.04, 0.2, 0.08, rl.DarkGray)
	rl.DrawSphere(v3(arm.GripperCenter()), 0.03, rl.Red)

	if s.ShowColliders {
		for _, c := range arm.Colliders() {
			rl.DrawSphereWires(v3(c.Center), float32(c.Radius), 8, 8, rl.Green)
		}
	}
}

func (s *Scene) drawObjects(objects []level.ObjectInfo, heldID uint32, heldLive bool) {
	for _, obj := range objects {
		color := ParseHexColor(obj.Color)
		if heldLive && obj.ID == heldID {
			color = rl.Color{R: color.R, G: color.G, B: color.B, A: 160}
		}
		pos := v3(obj.Pos)
		size := float32(obj.Radius * 2)
		switch obj.Shape {
		case components.ShapeCube:
			rl.DrawCube(pos, size, size, size, color)
			rl.DrawCubeWires(pos, size, size, size, rl.Black)
		case components.ShapeSphere:
			rl.DrawSphere(pos, float32(obj.Radius), color)
		case components.ShapeCylinder:
			base := rl.Vector3{X: pos.X, Y: pos.Y - float32(obj.Radius), Z: pos.Z}
			rl.DrawCylinder(base, float32(obj.Radius)*0.7, float32(obj.Radius)*0.7, size, 12, color)
		}
	}
}

func (s *Scene) drawTargets(targets []level.Target) {
	for _, t := range targets {
		center := rl.Vector3{
			X: float32(t.Spec.Position[0]),
			Y: 0.01,
			Z: float32(t.Spec.Position[2]),
		}
		color := rl.Yellow
		if t.Filled {
			color = rl.Green
		}
		rl.DrawCircle3D(center, float32(t.Spec.Size), rl.Vector3{X: 1}, 90, color)
		rl.DrawCylinder(center, float32(t.Spec.Size), float32(t.Spec.Size), 0.01, 24,
			rl.Color{R: color.R, G: color.G, B: color.B, A: 40})
	}
}

func (s *Scene) drawObstacles(obstacles []level.ObstacleSpec) {
	for _, o := range obstacles {
		pos := rl.Vector3{
			X: float32(o.Position[0]),
			Y: float32(o.Position[1]),
			Z: float32(o.Position[2]),
		}
		size := float32(o.Size)
		rl.DrawCube(pos, size, size, size, ParseHexColor(o.Color))
		rl.DrawCubeWires(pos, size, size, size, rl.Black)
	}
}
