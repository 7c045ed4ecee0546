package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/redjul/armsim/level"
)

// HUDData holds everything the HUD line needs for one frame.
type HUDData struct {
	LevelName string
	Result    level.FrameResult
	TimeLimit float64
	BestStars int
	Held      bool
	Paused    bool
	FPS       int32
}

// HUD renders the heads-up display.
type HUD struct{}

// NewHUD creates a HUD renderer.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	title := "Sandbox"
	if data.LevelName != "" {
		title = data.LevelName
	}
	rl.DrawText(title, 10, 10, 20, rl.White)

	line := fmt.Sprintf("Time: %.1fs", data.Result.Time)
	if data.TimeLimit > 0 {
		line = fmt.Sprintf("Time: %.1fs / %.0fs", data.Result.Time, data.TimeLimit)
	}
	if data.BestStars > 0 {
		line += fmt.Sprintf(" | Best: %d*", data.BestStars)
	}
	if data.Held {
		line += " | holding"
	}
	line += fmt.Sprintf(" | FPS: %d", data.FPS)
	rl.DrawText(line, 10, 35, 16, rl.LightGray)

	switch data.Result.Status {
	case level.StatusCompleted:
		rl.DrawText(fmt.Sprintf("COMPLETED  %d stars  %.1fs", data.Result.Stars, data.Result.Time),
			10, 58, 18, rl.Green)
	case level.StatusFailed:
		rl.DrawText(fmt.Sprintf("FAILED  (%s)", data.Result.Reason), 10, 58, 18, rl.Red)
	default:
		if data.Paused {
			rl.DrawText("PAUSED", 10, 58, 18, rl.Yellow)
		}
	}
}
