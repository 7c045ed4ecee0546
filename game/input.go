package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/redjul/armsim/components"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	if rl.IsKeyPressed(rl.KeyJ) {
		g.sliders.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyK) {
		g.scene.ShowColliders = !g.scene.ShowColliders
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.logPerfStats()
	}

	// Level controls
	if rl.IsKeyPressed(rl.KeyR) {
		desc := g.engine.Current()
		if desc.Name != "" {
			if err := g.LoadLevel(desc.ID); err != nil {
				Logf("reloading level: %v", err)
			}
		}
	}
	if rl.IsKeyPressed(rl.KeyRightBracket) {
		g.tryLoadLevel(g.engine.Current().ID + 1)
	}
	if rl.IsKeyPressed(rl.KeyLeftBracket) {
		g.tryLoadLevel(g.engine.Current().ID - 1)
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		g.ExitLevel()
	}

	// Sandbox controls
	if rl.IsKeyPressed(rl.KeyT) {
		g.spawnTestObject()
	}
	if rl.IsKeyPressed(rl.KeyC) {
		g.Clear()
	}

	g.handleCameraInput()
}

func (g *Game) tryLoadLevel(id int) {
	if !g.progress.IsUnlocked(id) {
		Logf("level %d is locked", id)
		return
	}
	if err := g.LoadLevel(id); err != nil {
		Logf("loading level: %v", err)
	}
}

// spawnTestObject drops a cube near the arm, cycling positions so
// repeated presses don't stack spawns inside each other.
func (g *Game) spawnTestObject() {
	offset := float64(g.nextID%5)*0.25 - 0.5
	g.Spawn(components.ShapeCube, r3.Vec{X: 1.3, Y: 1.5, Z: offset}, "#e74c3c", 0.3)
}

func (g *Game) handleCameraInput() {
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		delta := rl.GetMouseDelta()
		g.cam.Orbit(float64(delta.X)*0.005, float64(delta.Y)*0.005)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.cam.Zoom(float64(-wheel) * 0.4)
	}
}
