package utopia

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// actionLog subscribes to a fresh channel on e and records what it receives.
func actionLog(e *Editor) *[]EditorAction {
	var got []EditorAction
	ch := NewActionChannel()
	ch.Subscribe(func(a []EditorAction) { got = append(got, a...) })
	e.SetActionChannel(ch)
	return &got
}

// --- press / drag / release ---

func TestProcessPointerDragSelectsAndMoves(t *testing.T) {
	e, _, _ := newTestEditor(t)
	actions := actionLog(e)

	e.ProcessPointer(100, 100, true, 0)
	if !e.Pressed() || !e.Interacting() {
		t.Fatal("press did not start a gesture")
	}
	if diff := cmp.Diff([]ElementPath{pathCard}, e.State().Selection); diff != "" {
		t.Errorf("selection after press (-want +got):\n%s", diff)
	}

	// Inside the dead zone the drag vector stays nil.
	e.ProcessPointer(101, 100, true, 0)
	s, _ := e.Session()
	if d, _ := s.Drag(); d.Drag != nil {
		t.Errorf("drag inside dead zone = %v", *d.Drag)
	}

	e.ProcessPointer(110, 105, true, 0)
	wantNumber(t, mustProps(t, e.TransientState().Tree, pathCard), PropLeft, 40)
	e.ProcessPointer(110, 105, false, 0)
	if e.Pressed() || e.Interacting() {
		t.Fatal("release did not end the gesture")
	}
	props := mustProps(t, e.State().Tree, pathCard)
	wantNumber(t, props, PropLeft, 40)
	wantNumber(t, props, PropTop, 35)

	want := []EditorAction{
		SelectComponents(false, pathCard),
		SelectComponents(false, pathCard),
	}
	if diff := cmp.Diff(want, *actions); diff != "" {
		t.Errorf("actions (-want +got):\n%s", diff)
	}
}

func TestProcessPointerClickDoesNotCommit(t *testing.T) {
	e, sink, f := newTestEditor(t)
	e.ProcessPointer(100, 100, true, 0)
	e.ProcessPointer(100, 100, false, 0)
	if !e.State().Tree.Equal(f.tree) {
		t.Error("click changed the tree")
	}
	if sink.last().Type != EventInteractionCancel {
		t.Errorf("last event = %v, want cancel", sink.last().Type)
	}
	if diff := cmp.Diff([]ElementPath{pathCard}, e.State().Selection); diff != "" {
		t.Errorf("selection (-want +got):\n%s", diff)
	}
}

func TestProcessPointerSelection(t *testing.T) {
	tests := []struct {
		name     string
		selected []ElementPath
		x, y     float64
		mods     KeyModifiers
		want     []ElementPath
		action   *EditorAction
	}{
		{
			name: "press selects topmost", x: 600, y: 80,
			want:   []ElementPath{pathB},
			action: &EditorAction{Type: ActionSelectComponents, Paths: []ElementPath{pathB}},
		},
		{
			name: "shift extends", selected: []ElementPath{pathCard}, x: 600, y: 80, mods: ModShift,
			want:   []ElementPath{pathCard, pathB},
			action: &EditorAction{Type: ActionSelectComponents, Paths: []ElementPath{pathB}, Additive: true},
		},
		{
			name: "already selected keeps selection", selected: []ElementPath{pathCard, pathB}, x: 600, y: 80,
			want: []ElementPath{pathCard, pathB},
		},
		{
			name: "empty canvas clears", selected: []ElementPath{pathCard}, x: 2000, y: 2000,
			action: &EditorAction{Type: ActionSelectComponents},
		},
		{
			name: "shift on empty canvas keeps", selected: []ElementPath{pathCard}, x: 2000, y: 2000, mods: ModShift,
			want: []ElementPath{pathCard},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, _ := newTestEditor(t, tt.selected...)
			actions := actionLog(e)
			e.ProcessPointer(tt.x, tt.y, true, tt.mods)
			if diff := cmp.Diff(tt.want, e.State().Selection); diff != "" {
				t.Errorf("selection (-want +got):\n%s", diff)
			}
			var first *EditorAction
			if len(*actions) > 0 {
				first = &(*actions)[0]
			}
			if diff := cmp.Diff(tt.action, first); diff != "" {
				t.Errorf("first action (-want +got):\n%s", diff)
			}
		})
	}
}

func TestProcessPointerResizeHandle(t *testing.T) {
	e, _, _ := newTestEditor(t, pathCard)
	// Bottom-right corner of the card's global frame (70,70,120,80).
	e.ProcessPointer(190, 150, true, 0)
	s, _ := e.Session()
	if diff := cmp.Diff(ResizeHandle(EdgeBottomRight), s.ActiveControl); diff != "" {
		t.Fatalf("active control (-want +got):\n%s", diff)
	}
	e.ProcessPointer(210, 160, true, 0)
	e.ProcessPointer(210, 160, false, 0)
	props := mustProps(t, e.State().Tree, pathCard)
	wantNumber(t, props, PropWidth, 140)
	wantNumber(t, props, PropHeight, 90)
	wantNumber(t, props, PropLeft, 30)
}

func TestProcessPointerEscapeIgnoresRestOfPress(t *testing.T) {
	e, _, f := newTestEditor(t, pathCard)
	e.ProcessPointer(100, 100, true, 0)
	e.ProcessPointer(150, 150, true, 0)
	e.KeyDown(KeyEscape, 0)
	if e.Interacting() {
		t.Fatal("escape left the gesture running")
	}
	e.ProcessPointer(180, 180, true, 0)
	if e.Interacting() {
		t.Error("move after escape restarted a gesture")
	}
	e.ProcessPointer(180, 180, false, 0)
	if !e.State().Tree.Equal(f.tree) {
		t.Error("cancelled drag changed the tree")
	}
}

func TestProcessPointerModifierBeforeDeadZone(t *testing.T) {
	e, _, _ := newTestEditor(t, pathCard)
	e.ProcessPointer(100, 100, true, 0)
	e.ProcessPointer(100, 100, true, ModMeta)
	s, _ := e.Session()
	if d, _ := s.Drag(); d.Modifiers != ModMeta || d.Drag != nil {
		t.Errorf("drag = %+v, want meta held and no vector", d)
	}
}

func TestProcessPointerZoomedViewport(t *testing.T) {
	e, _, _ := newTestEditor(t)
	e.Viewport().Zoom = 2
	e.ProcessPointer(200, 200, true, 0)
	s, _ := e.Session()
	d, _ := s.Drag()
	if d.DragStart != (CanvasPoint{100, 100}) {
		t.Errorf("drag start = %v, want canvas (100,100)", d.DragStart)
	}
}

func TestProcessPointerInsertMode(t *testing.T) {
	e, _, _ := newTestEditor(t)
	if err := e.SetInsertionSubjects(newSubject()); err != nil {
		t.Fatal(err)
	}
	e.ProcessPointer(300, 400, true, 0)
	if len(e.State().Selection) != 0 {
		t.Error("press in insert mode changed the selection")
	}
	e.ProcessPointer(320, 410, true, 0)
	e.ProcessPointer(320, 410, false, 0)
	if !e.State().Tree.Has(pathNew) {
		t.Error("drag in insert mode inserted nothing")
	}
}

// --- hover ---

func TestProcessPointerHover(t *testing.T) {
	e, _, _ := newTestEditor(t)
	actions := actionLog(e)

	e.ProcessPointer(100, 100, false, 0)
	e.ProcessPointer(101, 100, false, 0)
	if p, ok := e.Hovered(); !ok || !p.Equal(pathCard) {
		t.Errorf("Hovered = %s, %v", p, ok)
	}
	e.ProcessPointer(600, 80, false, 0)
	e.ProcessPointer(2000, 2000, false, 0)
	if _, ok := e.Hovered(); ok {
		t.Error("still hovering over empty canvas")
	}
	want := []EditorAction{
		SetHighlightedViews(pathCard),
		SetHighlightedViews(pathB),
		ClearHighlightedViews(),
	}
	if diff := cmp.Diff(want, *actions); diff != "" {
		t.Errorf("actions (-want +got):\n%s", diff)
	}
}

func TestHandleAt(t *testing.T) {
	frame := CanvasRectangle{X: 0, Y: 0, Width: 100, Height: 50}
	tests := []struct {
		name string
		p    CanvasPoint
		want EdgePosition
		ok   bool
	}{
		{"top left", CanvasPoint{1, -1}, EdgeTopLeft, true},
		{"bottom right", CanvasPoint{100, 50}, EdgeBottomRight, true},
		{"top edge", CanvasPoint{50, 2}, EdgeTop, true},
		{"left edge", CanvasPoint{-3, 25}, EdgeLeft, true},
		{"inside", CanvasPoint{50, 25}, EdgePosition{}, false},
		{"too far", CanvasPoint{104, 50}, EdgePosition{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := handleAt(frame, tt.p, 3)
			if ok != tt.ok || got != tt.want {
				t.Errorf("handleAt = %v, %v; want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}
