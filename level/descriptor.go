// Package level loads the declarative level table and evaluates win and
// loss conditions over the live object world each frame.
package level

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/redjul/armsim/components"
)

//go:embed levels.yaml
var levelsYAML []byte

// ObjectSpec declares one initial object of a level.
type ObjectSpec struct {
	Type     components.Shape `yaml:"type"`
	Position [3]float64       `yaml:"position"`
	Color    string           `yaml:"color"`
	Size     float64          `yaml:"size"`
}

// TargetSpec declares one target zone.
type TargetSpec struct {
	Position      [3]float64         `yaml:"position"`
	Size          float64            `yaml:"size"` // acceptance radius
	Accepts       []components.Shape `yaml:"accepts"`
	RequiredColor string             `yaml:"required_color"`
	Stackable     bool               `yaml:"stackable"`
}

// ObstacleSpec declares a static obstacle. Obstacles are visual only; no
// collision against them is evaluated.
type ObstacleSpec struct {
	Position [3]float64 `yaml:"position"`
	Size     float64    `yaml:"size"`
	Color    string     `yaml:"color"`
}

// StarSpec holds the three ascending completion-time cutoffs.
type StarSpec struct {
	Time [3]float64 `yaml:"time"`
}

// Descriptor is one immutable level record.
type Descriptor struct {
	ID          int            `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Difficulty  int            `yaml:"difficulty"`
	Objects     []ObjectSpec   `yaml:"objects"`
	Targets     []TargetSpec   `yaml:"targets"`
	Obstacles   []ObstacleSpec `yaml:"obstacles"`
	TimeLimit   float64        `yaml:"time_limit"` // seconds, 0 = none
	MoveLimit   int            `yaml:"move_limit"` // parsed but unused
	Stars       StarSpec       `yaml:"stars"`
}

type table struct {
	Levels []Descriptor `yaml:"levels"`
}

// LoadTable parses the embedded level table.
func LoadTable() ([]Descriptor, error) {
	var t table
	if err := yaml.Unmarshal(levelsYAML, &t); err != nil {
		return nil, fmt.Errorf("parsing embedded levels: %w", err)
	}
	return t.Levels, nil
}

// Validate checks a descriptor for internal consistency.
func (d *Descriptor) Validate() error {
	if len(d.Targets) == 0 {
		return fmt.Errorf("level %d: no targets", d.ID)
	}
	for i, o := range d.Objects {
		if o.Size <= 0 {
			return fmt.Errorf("level %d: object %d has non-positive size", d.ID, i)
		}
	}
	for i, t := range d.Targets {
		if t.Size <= 0 {
			return fmt.Errorf("level %d: target %d has non-positive radius", d.ID, i)
		}
		if len(t.Accepts) == 0 {
			return fmt.Errorf("level %d: target %d accepts nothing", d.ID, i)
		}
	}
	if !(d.Stars.Time[0] <= d.Stars.Time[1] && d.Stars.Time[1] <= d.Stars.Time[2]) {
		return fmt.Errorf("level %d: star thresholds not ascending", d.ID)
	}
	return nil
}
