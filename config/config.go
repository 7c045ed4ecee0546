// Package config provides configuration loading and access for the simulator.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulator configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Grasp     GraspConfig     `yaml:"grasp"`
	Rig       RigConfig       `yaml:"rig"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Store     StoreConfig     `yaml:"store"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds integrator parameters.
// These were tuned by feel; tests pin the exact values.
type PhysicsConfig struct {
	Gravity        float64 `yaml:"gravity"`         // vertical acceleration (negative = down)
	MaxDT          float64 `yaml:"max_dt"`          // per-step dt clamp (seconds)
	FloorFriction  float64 `yaml:"floor_friction"`  // horizontal damping applied on floor contact
	PushCorrection float64 `yaml:"push_correction"` // positional correction multiplier on arm penetration
	PushImpulse    float64 `yaml:"push_impulse"`    // velocity kick magnitude on arm penetration
	PushUpBias     float64 `yaml:"push_up_bias"`    // upward deflection for downward push directions
}

// GraspConfig holds grasp-geometry parameters.
type GraspConfig struct {
	FingerGap     float64 `yaml:"finger_gap"`      // gripper opening at angle 0 (fully closed)
	OpenScale     float64 `yaml:"open_scale"`      // radians-to-offset scale per finger
	SizeSlackLow  float64 `yaml:"size_slack_low"`  // object may be this much smaller than the opening
	SizeSlackHigh float64 `yaml:"size_slack_high"` // object may be this much larger than the opening
	ScanRange     float64 `yaml:"scan_range"`      // initial best-distance bound for candidate scan
	AttachRange   float64 `yaml:"attach_range"`    // strict acceptance distance for the best candidate
	ReleaseSlack  float64 `yaml:"release_slack"`   // release when width exceeds size by this much
	HoldOffset    float64 `yaml:"hold_offset"`     // vertical offset of a held object above gripper center
	CloseMinDeg   float64 `yaml:"close_min_deg"`   // gripper angle band in which attachment is evaluated
	CloseMaxDeg   float64 `yaml:"close_max_deg"`
}

// RigConfig holds the arm's link dimensions (length units).
type RigConfig struct {
	BaseHeight     float64 `yaml:"base_height"`     // base mount to turntable
	ShoulderHeight float64 `yaml:"shoulder_height"` // turntable to shoulder joint
	UpperArmLength float64 `yaml:"upper_arm_length"`
	ForearmLength  float64 `yaml:"forearm_length"`
	WristLength    float64 `yaml:"wrist_length"`     // wrist pitch to wrist roll
	GripperLength  float64 `yaml:"gripper_length"`   // wrist roll to gripper base
	GripperOffset  float64 `yaml:"gripper_offset"`   // gripper base to gripper center, along local up
	ColliderRadius float64 `yaml:"collider_radius"`  // arm-link collision sphere radius
	BaseRadius     float64 `yaml:"base_radius"`      // turntable collision sphere radius
}

// TelemetryConfig holds stats collection parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds per stats window
	LogStats    bool    `yaml:"log_stats"`
}

// StoreConfig holds progress persistence settings.
type StoreConfig struct {
	Path string `yaml:"path"` // progress file location ("" = progress.json in cwd)
}

// DerivedConfig holds values derived from loaded config.
type DerivedConfig struct {
	ScreenW32 float32
	ScreenH32 float32
	// Reach is the maximum horizontal distance the gripper center can
	// cover with the arm fully extended.
	Reach float64
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.Reach = c.Rig.UpperArmLength + c.Rig.ForearmLength +
		c.Rig.WristLength + c.Rig.GripperLength + c.Rig.GripperOffset
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
