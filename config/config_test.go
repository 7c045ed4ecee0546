package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsParse(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.Screen.Width <= 0 || cfg.Screen.Height <= 0 {
		t.Errorf("screen = %dx%d, want positive", cfg.Screen.Width, cfg.Screen.Height)
	}
	if cfg.Telemetry.StatsWindow <= 0 {
		t.Errorf("stats window = %v, want positive", cfg.Telemetry.StatsWindow)
	}
}

// The simulation feel depends on these exact values; a change here is a
// behavior change, not a tuning tweak.
func TestPinnedConstants(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"gravity", cfg.Physics.Gravity, -9.8},
		{"max dt", cfg.Physics.MaxDT, 0.05},
		{"floor friction", cfg.Physics.FloorFriction, 0.9},
		{"push correction", cfg.Physics.PushCorrection, 1.5},
		{"push impulse", cfg.Physics.PushImpulse, 2.0},
		{"finger gap", cfg.Grasp.FingerGap, 0.05},
		{"open scale", cfg.Grasp.OpenScale, 0.4},
		{"size slack low", cfg.Grasp.SizeSlackLow, 0.05},
		{"size slack high", cfg.Grasp.SizeSlackHigh, 0.2},
		{"attach range", cfg.Grasp.AttachRange, 0.3},
		{"release slack", cfg.Grasp.ReleaseSlack, 0.1},
		{"hold offset", cfg.Grasp.HoldOffset, 0.3},
		{"close max", cfg.Grasp.CloseMaxDeg, 40},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestDerivedReach(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	want := cfg.Rig.UpperArmLength + cfg.Rig.ForearmLength +
		cfg.Rig.WristLength + cfg.Rig.GripperLength + cfg.Rig.GripperOffset
	if cfg.Derived.Reach != want {
		t.Errorf("reach = %v, want %v", cfg.Derived.Reach, want)
	}
}

func TestUserFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	override := "screen:\n  width: 640\nphysics:\n  gravity: -5.0\n"
	if err := os.WriteFile(path, []byte(override), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Screen.Width != 640 {
		t.Errorf("width = %d, want the override 640", cfg.Screen.Width)
	}
	if cfg.Physics.Gravity != -5.0 {
		t.Errorf("gravity = %v, want the override -5.0", cfg.Physics.Gravity)
	}
	// Untouched fields keep their defaults.
	if cfg.Physics.MaxDT != 0.05 {
		t.Errorf("max dt = %v, want default 0.05", cfg.Physics.MaxDT)
	}
	if cfg.Screen.Height <= 0 {
		t.Errorf("height = %d, want default", cfg.Screen.Height)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load(snapshot): %v", err)
	}
	if back.Physics != cfg.Physics || back.Grasp != cfg.Grasp || back.Rig != cfg.Rig {
		t.Error("config changed across a write/read cycle")
	}
}
