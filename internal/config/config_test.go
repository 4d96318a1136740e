package config

import (
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Controller.Speed != 5.5 {
		t.Errorf("Expected speed 5.5, got %v", cfg.Controller.Speed)
	}
	if cfg.Controller.RespawnPoint != [3]float32{0, 10, 0} {
		t.Errorf("Expected respawn (0,10,0), got %v", cfg.Controller.RespawnPoint)
	}
	if cfg.Camera.EyeOffset != [3]float32{0, 0.85, 0} {
		t.Errorf("Expected eye offset (0,0.85,0), got %v", cfg.Camera.EyeOffset)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Defaults should validate: %v", err)
	}
}

func TestParseOverridesOnlyGivenFields(t *testing.T) {
	cfg, err := Parse([]byte(`
scene: level2.json
controller:
  speed: 8
camera:
  eyeOffset: [0, 1.5, 0]
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Scene != "level2.json" || cfg.Controller.Speed != 8 {
		t.Errorf("Overrides not applied: %+v", cfg)
	}
	if cfg.Controller.Gravity != 5 {
		t.Errorf("Expected default gravity to survive, got %v", cfg.Controller.Gravity)
	}
	if cfg.Camera.EyeOffset != [3]float32{0, 1.5, 0} {
		t.Errorf("Expected eye offset override, got %v", cfg.Camera.EyeOffset)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	if _, err := Parse([]byte("simulation:\n  fixedStep: 0\n")); err == nil {
		t.Error("Expected error for zero fixed step")
	}
	if _, err := Parse([]byte("controller: [")); err == nil {
		t.Error("Expected YAML error")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walk3d.yaml")
	cfg := Default()
	cfg.Character = "Hero"
	cfg.Debug.Addr = ":9000"
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != cfg {
		t.Errorf("Expected %+v, got %+v", cfg, got)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
	if def, err := Load(""); err != nil || def != Default() {
		t.Error("Empty path should give defaults")
	}
}
