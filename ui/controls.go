// Package ui renders the joint control panel and HUD.
package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/redjul/armsim/rig"
)

// jointRange bounds a slider. The rig itself accepts any angle; these are
// just comfortable UI limits.
type jointRange struct {
	min, max float32
}

var sliderRanges = map[rig.Joint]jointRange{
	rig.Base:       {-180, 180},
	rig.Shoulder:   {-90, 90},
	rig.Elbow:      {-135, 135},
	rig.WristPitch: {-90, 90},
	rig.WristRoll:  {-180, 180},
	rig.Gripper:    {0, 60},
}

// ControlsPanel renders one slider per joint and reports the pose the
// user has dialed in.
type ControlsPanel struct {
	x, y    int32
	width   int32
	visible bool
	values  map[rig.Joint]float32
}

// NewControlsPanel creates the panel with all joints at zero.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	values := make(map[rig.Joint]float32, len(sliderRanges))
	for _, j := range rig.Joints() {
		values[j] = 0
	}
	return &ControlsPanel{x: x, y: y, width: width, visible: true, values: values}
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Reset returns every slider to zero.
func (c *ControlsPanel) Reset() {
	for j := range c.values {
		c.values[j] = 0
	}
}

// Pose returns the current slider pose in degrees.
func (c *ControlsPanel) Pose() map[rig.Joint]float64 {
	pose := make(map[rig.Joint]float64, len(c.values))
	for j, v := range c.values {
		pose[j] = float64(v)
	}
	return pose
}

// Draw renders the sliders and captures user adjustments.
func (c *ControlsPanel) Draw() {
	if !c.visible {
		return
	}

	const lineHeight = 34
	const labelWidth = 80

	panelHeight := int32(len(sliderRanges)*lineHeight + 40)
	gui.Panel(rl.Rectangle{
		X:      float32(c.x),
		Y:      float32(c.y),
		Width:  float32(c.width),
		Height: float32(panelHeight),
	}, "Joints")

	y := c.y + 32
	for _, j := range rig.Joints() {
		r := sliderRanges[j]
		bounds := rl.Rectangle{
			X:      float32(c.x + labelWidth),
			Y:      float32(y),
			Width:  float32(c.width - labelWidth - 60),
			Height: 20,
		}
		c.values[j] = gui.Slider(bounds, j.String(), fmt.Sprintf("%.0f", c.values[j]),
			c.values[j], r.min, r.max)
		y += lineHeight
	}
}
