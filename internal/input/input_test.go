package input

import (
	"os"
	"path/filepath"
	"testing"
)

const walkScript = `
name: walk and jump
steps:
  - at: 1.0
    duration: 1.0
    hold: [forward]
    mouse: [4, 0]
  - at: 0
    duration: 0.5
    hold: [left, right]
  - at: 1.5
    press: [jump, fly]
`

func TestParseTimeline(t *testing.T) {
	tl, err := ParseTimeline([]byte(walkScript))
	if err != nil {
		t.Fatal(err)
	}
	if tl.Name != "walk and jump" {
		t.Errorf("Expected name, got %q", tl.Name)
	}
	if len(tl.Steps) != 3 {
		t.Fatalf("Expected 3 steps, got %d", len(tl.Steps))
	}
	if tl.Steps[0].At != 0 {
		t.Error("Steps should be sorted by start time")
	}
	if tl.Duration() != 2 {
		t.Errorf("Expected duration 2, got %v", tl.Duration())
	}
}

func TestParseTimelineRejectsUnknownKeys(t *testing.T) {
	_, err := ParseTimeline([]byte("steps:\n  - at: 0\n    duration: 1\n    hold: [crouch]\n"))
	if err == nil {
		t.Error("Expected error for unknown hold key")
	}
	_, err = ParseTimeline([]byte("steps:\n  - at: 0\n    press: [forward]\n"))
	if err == nil {
		t.Error("Expected error for forward used as a press key")
	}
	_, err = ParseTimeline([]byte("steps: [oops"))
	if err == nil {
		t.Error("Expected YAML error")
	}
}

func TestTimelineAt(t *testing.T) {
	tl, err := ParseTimeline([]byte(walkScript))
	if err != nil {
		t.Fatal(err)
	}
	const dt = 0.25

	s := tl.At(0.25, dt)
	if !s.Left || !s.Right || s.Forward {
		t.Errorf("Unexpected state at 0.25: %+v", s)
	}
	if !tl.At(0.75, dt).Idle() {
		t.Errorf("Expected idle input at 0.75, got %+v", tl.At(0.75, dt))
	}

	s = tl.At(1.25, dt)
	if !s.Forward || s.MouseDX != 4 {
		t.Errorf("Expected forward with mouse at 1.25, got %+v", s)
	}
	if s.ToggleFly || s.Jump {
		t.Error("Press should not fire before its start")
	}

	s = tl.At(1.5, dt)
	if !s.Jump || !s.ToggleFly {
		t.Errorf("Expected jump and fly toggle at 1.5, got %+v", s)
	}
	s = tl.At(1.75, dt)
	if s.ToggleFly || s.Jump {
		t.Errorf("Press should fire once, got %+v at 1.75", s)
	}
	if !tl.At(2.0, dt).Idle() {
		t.Error("Hold should end at At+Duration")
	}
}

func TestLoadTimeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walk.yaml")
	if err := os.WriteFile(path, []byte(walkScript), 0644); err != nil {
		t.Fatal(err)
	}
	tl, err := LoadTimeline(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(tl.Steps) != 3 {
		t.Errorf("Expected 3 steps, got %d", len(tl.Steps))
	}
	if _, err := LoadTimeline(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
