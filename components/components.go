// Package components defines ECS components for manipulable objects.
package components

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Shape identifies the geometry of a manipulable object.
type Shape uint8

const (
	ShapeCube Shape = iota
	ShapeSphere
	ShapeCylinder
)

// String returns the shape's descriptor name.
func (s Shape) String() string {
	switch s {
	case ShapeCube:
		return "cube"
	case ShapeSphere:
		return "sphere"
	case ShapeCylinder:
		return "cylinder"
	}
	return fmt.Sprintf("shape(%d)", uint8(s))
}

// ParseShape converts a descriptor name to a Shape.
func ParseShape(name string) (Shape, error) {
	switch name {
	case "cube":
		return ShapeCube, nil
	case "sphere":
		return ShapeSphere, nil
	case "cylinder":
		return ShapeCylinder, nil
	}
	return 0, fmt.Errorf("unknown shape %q", name)
}

// MarshalYAML implements yaml.Marshaler.
func (s Shape) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Shape) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	parsed, err := ParseShape(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Position is an object's world position.
type Position struct {
	Vec r3.Vec
}

// Velocity is an object's linear velocity.
type Velocity struct {
	Vec r3.Vec
}

// Body holds an object's physical identity.
// Size is the full extent used by grasp fit tests; Radius (= Size/2) is
// the bounding radius used for floor and arm collision.
type Body struct {
	Shape  Shape
	Color  string // hex string, e.g. "#e74c3c"
	Size   float64
	Radius float64
}

// ObjState tracks an object's runtime flags.
type ObjState struct {
	Pickable bool // can be picked up by the gripper
	Static   bool // never integrated (obstacles)
	OnFloor  bool // floor-resting: clamped at ground height, vertical velocity zeroed
	Attached bool // held by the gripper; skipped by the integrator
}

// Meta carries an object's stable identity.
type Meta struct {
	ID uint32
}
