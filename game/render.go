package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/redjul/armsim/ui"
)

// Update runs one windowed frame: input, slider pose, simulation step.
func (g *Game) Update() {
	g.handleInput()
	g.SetPose(g.sliders.Pose())

	if !g.paused {
		g.Step(float64(rl.GetFrameTime()))
	}
}

// Draw renders the scene and UI for the current state.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 24, G: 26, B: 32, A: 255})

	desc := g.engine.Current()
	g.scene.Draw(
		g.cam,
		g.arm,
		g.Objects(),
		g.heldID,
		g.heldLive,
		g.engine.Targets(),
		desc.Obstacles,
	)

	g.hud.Draw(ui.HUDData{
		LevelName: desc.Name,
		Result:    g.engine.Result(),
		TimeLimit: desc.TimeLimit,
		BestStars: g.progress.Stars(desc.ID),
		Held:      g.heldLive,
		Paused:    g.paused,
		FPS:       rl.GetFPS(),
	})
	g.sliders.Draw()

	rl.EndDrawing()
}
