package rig

import "fmt"

// Joint names one of the arm's six driven joints.
type Joint uint8

const (
	Base Joint = iota
	Shoulder
	Elbow
	WristPitch
	WristRoll
	Gripper

	numJoints
)

// String returns the joint's external name.
func (j Joint) String() string {
	switch j {
	case Base:
		return "base"
	case Shoulder:
		return "shoulder"
	case Elbow:
		return "elbow"
	case WristPitch:
		return "wristPitch"
	case WristRoll:
		return "wristRoll"
	case Gripper:
		return "gripper"
	}
	return fmt.Sprintf("joint(%d)", uint8(j))
}

// Joints lists all driven joints in canonical order.
func Joints() []Joint {
	return []Joint{Base, Shoulder, Elbow, WristPitch, WristRoll, Gripper}
}

// ParseJoint converts an external joint name to a Joint.
func ParseJoint(name string) (Joint, error) {
	for _, j := range Joints() {
		if j.String() == name {
			return j, nil
		}
	}
	return 0, fmt.Errorf("unknown joint %q", name)
}

// Pose is the arm's joint configuration, in degrees.
type Pose struct {
	angles [numJoints]float64
}

// Merge overwrites the angles named in partial and retains the rest.
func (p *Pose) Merge(partial map[Joint]float64) {
	for j, deg := range partial {
		if j < numJoints {
			p.angles[j] = deg
		}
	}
}

// Angle returns the current angle of the given joint in degrees.
func (p Pose) Angle(j Joint) float64 {
	if j >= numJoints {
		return 0
	}
	return p.angles[j]
}
