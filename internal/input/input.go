package input

import (
	"os"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// State is the input of one frame. Hold keys are level-triggered; the
// toggles are edge-triggered and only set on the frame the key is released.
type State struct {
	Forward bool
	Back    bool
	Left    bool
	Right   bool
	Jump    bool

	MouseDX float32
	MouseDY float32

	ToggleThirdPerson bool
	ToggleFly         bool
	ToggleBounds      bool
}

// Idle reports whether the state asks for nothing at all.
func (s State) Idle() bool {
	return s == State{}
}

// Key names accepted in scripted timelines.
const (
	KeyForward     = "forward"
	KeyBack        = "back"
	KeyLeft        = "left"
	KeyRight       = "right"
	KeyJump        = "jump"
	KeyThirdPerson = "thirdperson"
	KeyFly         = "fly"
	KeyBounds      = "bounds"
)

var holdKeys = map[string]func(*State){
	KeyForward: func(s *State) { s.Forward = true },
	KeyBack:    func(s *State) { s.Back = true },
	KeyLeft:    func(s *State) { s.Left = true },
	KeyRight:   func(s *State) { s.Right = true },
	KeyJump:    func(s *State) { s.Jump = true },
}

var pressKeys = map[string]func(*State){
	KeyThirdPerson: func(s *State) { s.ToggleThirdPerson = true },
	KeyFly:         func(s *State) { s.ToggleFly = true },
	KeyBounds:      func(s *State) { s.ToggleBounds = true },
	KeyJump:        func(s *State) { s.Jump = true },
}

// Step is one entry of a scripted input timeline. Hold keys are down for the
// whole [At, At+Duration) window, Press keys fire once on the first frame
// of it and Mouse is the per-frame mouse delta during it.
type Step struct {
	At       float32    `yaml:"at"`
	Duration float32    `yaml:"duration"`
	Hold     []string   `yaml:"hold,omitempty"`
	Press    []string   `yaml:"press,omitempty"`
	Mouse    [2]float32 `yaml:"mouse,omitempty"`
}

func (s Step) active(t float32) bool {
	return t >= s.At && t < s.At+s.Duration
}

// Timeline replays recorded or hand-written input headlessly.
type Timeline struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// ParseTimeline decodes a YAML timeline and checks its key names.
func ParseTimeline(data []byte) (*Timeline, error) {
	var tl Timeline
	if err := yaml.Unmarshal(data, &tl); err != nil {
		return nil, errors.Wrap(err, "parse input timeline")
	}
	for i, s := range tl.Steps {
		if s.Duration < 0 {
			return nil, errors.Errorf("step %d: negative duration %v", i, s.Duration)
		}
		for _, k := range s.Hold {
			if _, ok := holdKeys[k]; !ok {
				return nil, errors.Errorf("step %d: unknown hold key %q", i, k)
			}
		}
		for _, k := range s.Press {
			if _, ok := pressKeys[k]; !ok {
				return nil, errors.Errorf("step %d: unknown press key %q", i, k)
			}
		}
	}
	sort.SliceStable(tl.Steps, func(a, b int) bool { return tl.Steps[a].At < tl.Steps[b].At })
	return &tl, nil
}

func LoadTimeline(path string) (*Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read input timeline %s", path)
	}
	tl, err := ParseTimeline(data)
	if err != nil {
		return nil, errors.Wrapf(err, "input timeline %s", path)
	}
	return tl, nil
}

// Duration is the time at which the last step ends.
func (tl *Timeline) Duration() float32 {
	var end float32
	for _, s := range tl.Steps {
		if e := s.At + s.Duration; e > end {
			end = e
		}
	}
	return end
}

// At returns the input of the frame that ends at time t and lasted dt.
func (tl *Timeline) At(t, dt float32) State {
	var st State
	start := t - dt
	for _, s := range tl.Steps {
		if s.active(t) {
			for _, k := range s.Hold {
				holdKeys[k](&st)
			}
			st.MouseDX += s.Mouse[0]
			st.MouseDY += s.Mouse[1]
		}
		// a press fires on the frame whose interval contains the step start
		if s.At > start && s.At <= t {
			for _, k := range s.Press {
				pressKeys[k](&st)
			}
		}
	}
	return st
}
