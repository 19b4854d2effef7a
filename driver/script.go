package driver

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// scriptStep is a single action in a capture script.
type scriptStep struct {
	Action string `yaml:"action"`
	Label  string `yaml:"label,omitempty"`
	Frames int    `yaml:"frames,omitempty"`
}

// captureScript is the top-level structure of a capture script file.
type captureScript struct {
	Steps []scriptStep `yaml:"steps"`
}

// scriptTarget is what a Script drives. *Game implements it.
type scriptTarget interface {
	Screenshot(label string)
}

// Script sequences screenshots across frames for automated visual checks of
// a running meadow. Supported actions are "screenshot" (with a label),
// "wait" (for a number of frames) and "quit". Attach it via Options.Script.
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	quit      bool
}

// ParseScript parses a YAML (or JSON) capture script.
func ParseScript(data []byte) (*Script, error) {
	var script captureScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse capture script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse capture script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "screenshot", "wait", "quit":
		default:
			return nil, fmt.Errorf("parse capture script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: script.Steps}, nil
}

// LoadScript reads and parses the capture script at path.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read capture script %s: %w", path, err)
	}
	return ParseScript(data)
}

// Done reports whether all steps in the script have been executed.
func (s *Script) Done() bool {
	return s.done
}

// Quit reports whether the script asked the game to stop.
func (s *Script) Quit() bool {
	return s.quit
}

// step advances the script by one frame. Called from Game.Update.
func (s *Script) step(t scriptTarget) {
	if s.done {
		return
	}
	// Count down wait frames.
	if s.waitCount > 0 {
		s.waitCount--
		return
	}
	if s.cursor >= len(s.steps) {
		s.done = true
		return
	}

	st := s.steps[s.cursor]
	s.cursor++

	switch st.Action {
	case "screenshot":
		t.Screenshot(st.Label)
	case "wait":
		if st.Frames > 0 {
			s.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "quit":
		s.quit = true
		s.done = true
		return
	}

	if s.cursor >= len(s.steps) && s.waitCount == 0 {
		s.done = true
	}
}
