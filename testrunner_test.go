package utopia

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func runScript(t *testing.T, e *Editor, script string) {
	t.Helper()
	r, err := LoadGestureScript([]byte(script))
	if err != nil {
		t.Fatalf("LoadGestureScript() error = %v", err)
	}
	e.SetGestureRunner(r)
	for i := 0; !r.Done(); i++ {
		if i > 200 {
			t.Fatal("script never finished")
		}
		e.Update(1.0 / 60)
	}
}

func TestLoadGestureScript(t *testing.T) {
	r, err := LoadGestureScript([]byte(`{
		"steps": [
			{"action": "press", "x": 10, "y": 20, "modifiers": ["shift", "Meta"]},
			{"action": "wait", "frames": 3},
			{"action": "key", "key": "ArrowLeft", "modifiers": ["cmd", "alt"]},
			{"action": "release", "x": 10, "y": 20}
		]
	}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(r.steps) != 4 || r.steps[1].Frames != 3 || r.steps[2].Key != "ArrowLeft" {
		t.Errorf("steps = %+v", r.steps)
	}
	want := []KeyModifiers{ModShift | ModMeta, 0, ModMeta | ModAlt, 0}
	if diff := cmp.Diff(want, r.mods); diff != "" {
		t.Errorf("modifiers (-want +got):\n%s", diff)
	}
}

func TestLoadGestureScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"not json", `not json`, "parse gesture script"},
		{"no steps", `{"steps": []}`, "no steps"},
		{"unknown action", `{"steps": [{"action": "screenshot"}]}`, `unknown action "screenshot"`},
		{"key without key", `{"steps": [{"action": "key"}]}`, "needs a key"},
		{"unknown modifier", `{"steps": [{"action": "click", "modifiers": ["hyper"]}]}`, `unknown modifier "hyper"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadGestureScript([]byte(tt.script))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestGestureScriptReparentDrag(t *testing.T) {
	e, _, _ := newTestEditor(t)
	runScript(t, e, `{"steps": [
		{"action": "drag", "fromX": 100, "fromY": 100, "toX": 595, "toY": 80, "frames": 3, "modifiers": ["meta"]},
		{"action": "wait", "frames": 2}
	]}`)
	if diff := cmp.Diff([]string{"a", "card", "b", "c"}, childUIDs(t, e.State().Tree, pathRow)); diff != "" {
		t.Errorf("row children (-want +got):\n%s", diff)
	}
}

func TestGestureScriptKeyboardCommit(t *testing.T) {
	e, _, _ := newTestEditor(t, pathCard)
	runScript(t, e, `{"steps": [
		{"action": "key", "key": "ArrowRight"},
		{"action": "key", "key": "ArrowRight", "modifiers": ["shift"]},
		{"action": "commit"}
	]}`)
	if e.Interacting() {
		t.Fatal("commit step left the gesture open")
	}
	wantNumber(t, mustProps(t, e.State().Tree, pathCard), PropLeft, 41)
}

func TestGestureScriptEscape(t *testing.T) {
	e, sink, f := newTestEditor(t, pathCard)
	runScript(t, e, `{"steps": [
		{"action": "press", "x": 100, "y": 100},
		{"action": "move", "x": 140, "y": 100},
		{"action": "escape"},
		{"action": "release", "x": 140, "y": 100}
	]}`)
	if !e.State().Tree.Equal(f.tree) {
		t.Error("escaped drag changed the tree")
	}
	for _, ev := range sink.events {
		if ev.Type == EventInteractionCommit {
			t.Error("escaped drag committed")
		}
	}
}
