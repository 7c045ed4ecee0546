// Package camera provides an orbit camera for viewing the arm workspace.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Camera orbits a target point at a fixed distance, controlled by yaw and
// pitch. Pure math so the viewport behavior is unit-testable.
type Camera struct {
	// Yaw and Pitch are the orbit angles in radians.
	Yaw, Pitch float64

	// Distance from the target point.
	Distance float64

	// Target is the orbit center in world coordinates.
	Target r3.Vec

	// Constraints
	MinPitch, MaxPitch float64
	MinDist, MaxDist   float64
}

// New creates a camera looking down at the workspace from a comfortable
// three-quarter angle.
func New() *Camera {
	return &Camera{
		Yaw:      -math.Pi / 4,
		Pitch:    0.6,
		Distance: 6,
		Target:   r3.Vec{Y: 0.8},
		MinPitch: 0.05,
		MaxPitch: math.Pi/2 - 0.05,
		MinDist:  2,
		MaxDist:  15,
	}
}

// Orbit adjusts yaw and pitch, clamping pitch to keep the camera above
// the floor and off the vertical pole.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw += dYaw
	c.Pitch += dPitch
	if c.Pitch < c.MinPitch {
		c.Pitch = c.MinPitch
	}
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	}
}

// Zoom adjusts the orbit distance within its constraints.
func (c *Camera) Zoom(delta float64) {
	c.Distance += delta
	if c.Distance < c.MinDist {
		c.Distance = c.MinDist
	}
	if c.Distance > c.MaxDist {
		c.Distance = c.MaxDist
	}
}

// Position returns the camera's world position for the current orbit.
func (c *Camera) Position() r3.Vec {
	horiz := c.Distance * math.Cos(c.Pitch)
	return r3.Vec{
		X: c.Target.X + horiz*math.Cos(c.Yaw),
		Y: c.Target.Y + c.Distance*math.Sin(c.Pitch),
		Z: c.Target.Z + horiz*math.Sin(c.Yaw),
	}
}
