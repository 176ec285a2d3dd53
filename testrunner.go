package utopia

import (
	"encoding/json"
	"fmt"
	"strings"
)

// gestureStep is a single action in a gesture script.
type gestureStep struct {
	Action    string   `json:"action"`
	X         float64  `json:"x,omitempty"`
	Y         float64  `json:"y,omitempty"`
	FromX     float64  `json:"fromX,omitempty"`
	FromY     float64  `json:"fromY,omitempty"`
	ToX       float64  `json:"toX,omitempty"`
	ToY       float64  `json:"toY,omitempty"`
	Frames    int      `json:"frames,omitempty"`
	Key       string   `json:"key,omitempty"`
	Modifiers []string `json:"modifiers,omitempty"`
}

// gestureScript is the top-level JSON structure of a gesture script.
type gestureScript struct {
	Steps []gestureStep `json:"steps"`
}

// GestureRunner replays a scripted sequence of pointer and key events across
// Update calls. Attach it to an Editor via SetGestureRunner.
//
// Actions: press, move, release (x, y), click (x, y), drag (fromX, fromY,
// toX, toY, frames), key and keyup (key), escape, commit, wait (frames).
// Every pointer and key action accepts a modifiers list (shift, ctrl, alt,
// meta).
type GestureRunner struct {
	steps     []gestureStep
	mods      []KeyModifiers
	cursor    int
	waitCount int
	done      bool
}

// LoadGestureScript parses a JSON gesture script.
func LoadGestureScript(jsonData []byte) (*GestureRunner, error) {
	var script gestureScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse gesture script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse gesture script: no steps")
	}
	r := &GestureRunner{steps: script.Steps, mods: make([]KeyModifiers, len(script.Steps))}
	for i, st := range script.Steps {
		switch st.Action {
		case "press", "move", "release", "click", "drag", "escape", "commit", "wait":
		case "key", "keyup":
			if st.Key == "" {
				return nil, fmt.Errorf("parse gesture script: step %d: %s needs a key", i, st.Action)
			}
		default:
			return nil, fmt.Errorf("parse gesture script: step %d: unknown action %q", i, st.Action)
		}
		mods, err := parseModifiers(st.Modifiers)
		if err != nil {
			return nil, fmt.Errorf("parse gesture script: step %d: %w", i, err)
		}
		r.mods[i] = mods
	}
	return r, nil
}

func parseModifiers(names []string) (KeyModifiers, error) {
	var mods KeyModifiers
	for _, n := range names {
		switch strings.ToLower(n) {
		case "shift":
			mods |= ModShift
		case "ctrl", "control":
			mods |= ModCtrl
		case "alt", "option":
			mods |= ModAlt
		case "meta", "cmd", "command":
			mods |= ModMeta
		default:
			return 0, fmt.Errorf("unknown modifier %q", n)
		}
	}
	return mods, nil
}

// SetGestureRunner attaches a runner. Its steps are fed to the editor from
// Update, one queued event per frame.
func (e *Editor) SetGestureRunner(r *GestureRunner) {
	e.runner = r
}

// Done reports whether every step has run and its events were consumed.
func (r *GestureRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame. Called from Editor.Update.
func (r *GestureRunner) step(e *Editor) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(e.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	mods := r.mods[r.cursor]
	r.cursor++

	switch st.Action {
	case "press":
		e.InjectPress(st.X, st.Y, mods)
	case "move":
		e.InjectMove(st.X, st.Y, mods)
	case "release":
		e.InjectRelease(st.X, st.Y, mods)
	case "click":
		e.InjectClick(st.X, st.Y, mods)
	case "drag":
		e.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames, mods)
	case "key":
		e.InjectKey(Key(st.Key), mods)
	case "keyup":
		e.InjectKeyUp(Key(st.Key), mods)
	case "escape":
		e.InjectKey(KeyEscape, mods)
	case "commit":
		e.EndInteraction()
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}
}
