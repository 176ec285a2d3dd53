package utopia

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFlexReparent(t *testing.T) {
	f := newFixture(t)
	sel := NewSelector(DefaultStrategies())
	cs := f.canvas(sel, pathCard)
	session := f.drag(CanvasPoint{100, 100}, CanvasVector{495, -20}, ModMeta, BoundingArea())

	w, ok := sel.Find(cs, session, CustomStrategyState{})
	if !ok || w.Strategy.ID() != FlexReparentID || w.Fitness != 3 {
		t.Fatalf("Find = %v (%v), %v; want %s", w.Strategy, w.Fitness, ok, FlexReparentID)
	}
	res := w.Strategy.Apply(cs, session, CustomStrategyState{}, LifecycleMidInteraction)
	moved := MustParsePath("sb/row/card")
	want := []Command{
		ReparentElement{When: RunAlways, Target: pathCard, NewParent: pathRow, Index: 1},
		DeleteProperties{When: RunAlways, Target: moved, Props: []PropertyPath{PropPosition, PropLeft, PropTop}},
		HighlightElements{When: RunTransientOnly, Paths: []ElementPath{pathRow}},
		SetCursor{When: RunTransientOnly, Cursor: CursorReparent},
		UpdateSelectedViews{When: RunAlways, Paths: []ElementPath{moved}},
	}
	if diff := cmp.Diff(want, res.Commands); diff != "" {
		t.Errorf("commands (-want +got):\n%s", diff)
	}

	end := mustFold(t, f.state(), res.Commands, LifecycleEndInteraction)
	if diff := cmp.Diff([]string{"a", "card", "b", "c"}, childUIDs(t, end.State.Tree, pathRow)); diff != "" {
		t.Errorf("row children (-want +got):\n%s", diff)
	}
	wantProps := Props{"style": map[string]any{"width": 120.0, "height": 80.0}}
	if diff := cmp.Diff(wantProps, mustProps(t, end.State.Tree, moved)); diff != "" {
		t.Errorf("moved props (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]ElementPath{moved}, end.State.Selection); diff != "" {
		t.Errorf("selection (-want +got):\n%s", diff)
	}
	// The row lays the card out as its second child.
	after := MeasureTree(end.State.Tree).MetadataMap
	if got, _ := after.Frame(moved); got != (CanvasRectangle{590, 40, 120, 80}) {
		t.Errorf("card frame after commit = %v", got)
	}
}

func TestFlexReparentApplicability(t *testing.T) {
	f := newFixture(t)
	sel := NewSelector(DefaultStrategies())
	exprTree, _ := f.tree.SetProps(pathCard, Props{"style": map[string]any{"position": Expression{Code: "p"}}})
	tests := []struct {
		name string
		cs   CanvasState
		want bool
	}{
		{"absolute element", f.canvas(sel, pathCard), true},
		{"flex child", f.canvas(sel, pathA), true},
		{"root", f.canvas(sel, pathRoot), false},
		{"no targets", f.canvas(sel), false},
		{"position is an expression", sel.Bind(CanvasState{Target: TargetPaths(pathCard), Tree: exprTree}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FlexReparentStrategy().IsApplicable(tt.cs, nil, f.snap.MetadataMap, f.snap.Props); got != tt.want {
				t.Errorf("IsApplicable = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFlexReparentNotOverFlexContainer(t *testing.T) {
	f := newFixture(t)
	sel := NewSelector(DefaultStrategies())
	cs := f.canvas(sel, pathCard)
	session := f.drag(CanvasPoint{100, 100}, CanvasVector{300, 300}, ModMeta, BoundingArea())
	if got := FlexReparentStrategy().Fitness(cs, session, CustomStrategyState{}); got != 0 {
		t.Errorf("Fitness over empty canvas = %v, want 0", got)
	}
	if res := FlexReparentStrategy().Apply(cs, session, CustomStrategyState{}, LifecycleMidInteraction); !res.IsEmpty() {
		t.Errorf("Apply over empty canvas = %v", commandTypes(res.Commands))
	}
}

func TestFlexReorder(t *testing.T) {
	f := newFixture(t)
	sel := NewSelector(DefaultStrategies())
	cs := f.canvas(sel, pathA)

	session := f.drag(CanvasPoint{540, 80}, CanvasVector{150, 0}, 0, BoundingArea())
	w, ok := sel.Find(cs, session, CustomStrategyState{})
	if !ok || w.Strategy.ID() != FlexReorderID {
		t.Fatalf("Find = %v, %v; want %s", w.Strategy, ok, FlexReorderID)
	}
	res := w.Strategy.Apply(cs, session, CustomStrategyState{}, LifecycleMidInteraction)
	want := []Command{
		ReparentElement{When: RunAlways, Target: pathA, NewParent: pathRow, Index: 1},
		SetCursor{When: RunTransientOnly, Cursor: CursorMove},
	}
	if diff := cmp.Diff(want, res.Commands); diff != "" {
		t.Errorf("commands (-want +got):\n%s", diff)
	}
	wantPatch := map[StrategyID]any{FlexReorderID: FlexReorderState{LastReorderIndex: 1}}
	if diff := cmp.Diff(wantPatch, res.CustomStatePatch); diff != "" {
		t.Errorf("custom state patch (-want +got):\n%s", diff)
	}
	end := mustFold(t, f.state(), res.Commands, LifecycleEndInteraction)
	if diff := cmp.Diff([]string{"b", "a", "c"}, childUIDs(t, end.State.Tree, pathRow)); diff != "" {
		t.Errorf("row children (-want +got):\n%s", diff)
	}
}

func TestFlexReorderCustomState(t *testing.T) {
	f := newFixture(t)
	sel := NewSelector(DefaultStrategies())
	cs := f.canvas(sel, pathA)
	session := f.drag(CanvasPoint{540, 80}, CanvasVector{10, 0}, 0, BoundingArea())

	tests := []struct {
		name   string
		custom CustomStrategyState
		patch  map[StrategyID]any
	}{
		{"first evaluation records the index", CustomStrategyState{}, map[StrategyID]any{FlexReorderID: FlexReorderState{}}},
		{"unchanged index", CustomStrategyState{}.With(FlexReorderID, FlexReorderState{}), nil},
		{"changed index", CustomStrategyState{}.With(FlexReorderID, FlexReorderState{LastReorderIndex: 2}), map[StrategyID]any{FlexReorderID: FlexReorderState{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := FlexReorderStrategy().Apply(cs, session, tt.custom, LifecycleMidInteraction)
			if diff := cmp.Diff([]string{"SET_CURSOR"}, commandTypes(res.Commands)); diff != "" {
				t.Errorf("commands (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.patch, res.CustomStatePatch); diff != "" {
				t.Errorf("custom state patch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFlexReorderWinsOverReparentWithinOwnParent(t *testing.T) {
	f := newFixture(t)
	sel := NewSelector(DefaultStrategies())
	cs := f.canvas(sel, pathA)
	session := f.drag(CanvasPoint{540, 80}, CanvasVector{150, 0}, ModMeta, BoundingArea())
	w, ok := sel.Find(cs, session, CustomStrategyState{})
	if !ok || w.Strategy.ID() != FlexReorderID {
		t.Errorf("Find = %v, %v; want %s", w.Strategy, ok, FlexReorderID)
	}
}

func TestFlexReorderApplicability(t *testing.T) {
	f := newFixture(t)
	sel := NewSelector(DefaultStrategies())
	tests := []struct {
		name string
		cs   CanvasState
		want bool
	}{
		{"flex child", f.canvas(sel, pathB), true},
		{"absolute element", f.canvas(sel, pathCard), false},
		{"child of a non-flex parent", f.canvas(sel, pathRow), false},
		{"two targets", f.canvas(sel, pathA, pathB), false},
		{"root", f.canvas(sel, pathRoot), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FlexReorderStrategy().IsApplicable(tt.cs, nil, f.snap.MetadataMap, f.snap.Props); got != tt.want {
				t.Errorf("IsApplicable = %v, want %v", got, tt.want)
			}
		})
	}
}
