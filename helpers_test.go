package utopia

import (
	"testing"
)

// Paths of the shared fixture tree.
var (
	pathRoot  = MustParsePath("sb")
	pathScene = MustParsePath("sb/scene")
	pathCard  = MustParsePath("sb/scene/card")
	pathRow   = MustParsePath("sb/row")
	pathA     = MustParsePath("sb/row/a")
	pathB     = MustParsePath("sb/row/b")
	pathC     = MustParsePath("sb/row/c")
)

func absProps(left, top, w, h float64) Props {
	return Props{"style": map[string]any{
		"position": "absolute", "left": left, "top": top, "width": w, "height": h,
	}}
}

func sizedProps(w, h float64) Props {
	return Props{"style": map[string]any{"width": w, "height": h}}
}

// fixtureTree builds:
//
//	sb
//	  scene  absolute (40,40) 420x300
//	    card absolute (30,30) 120x80, global (70,70)
//	  row    absolute flex row (500,40) 400x120, gap 10
//	    a, b, c  80x80 at x = 500, 590, 680
func fixtureTree(t *testing.T) ElementTree {
	t.Helper()
	tree := NewElementTree(Element{UID: "sb", Name: "Storyboard"})
	rowProps := absProps(500, 40, 400, 120)
	rowProps, _ = rowProps.Set(PropDisplay, "flex")
	rowProps, _ = rowProps.Set(PropFlexDir, "row")
	rowProps, _ = rowProps.Set(PropGap, 10.0)
	steps := []struct {
		parent ElementPath
		el     Element
	}{
		{pathRoot, Element{UID: "scene", Name: "div", Props: absProps(40, 40, 420, 300)}},
		{pathScene, Element{UID: "card", Name: "div", Props: absProps(30, 30, 120, 80)}},
		{pathRoot, Element{UID: "row", Name: "div", Props: rowProps}},
		{pathRow, Element{UID: "a", Name: "div", Props: sizedProps(80, 80)}},
		{pathRow, Element{UID: "b", Name: "div", Props: sizedProps(80, 80)}},
		{pathRow, Element{UID: "c", Name: "div", Props: sizedProps(80, 80)}},
	}
	for _, s := range steps {
		var err error
		tree, err = tree.Insert(s.parent, s.el, -1)
		if err != nil {
			t.Fatalf("build fixture: %v", err)
		}
	}
	return tree
}

// fixture bundles the tree with its measured snapshot.
type fixture struct {
	tree ElementTree
	snap MeasuredSnapshot
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	tree := fixtureTree(t)
	return fixture{tree: tree, snap: MeasureTree(tree)}
}

// canvas returns a canvas state targeting paths, bound to sel, with the
// parents of the targets filtered out the way the editor does it.
func (f fixture) canvas(sel *Selector, paths ...ElementPath) CanvasState {
	return sel.Bind(CanvasState{
		Target:             TargetPaths(paths...),
		Tree:               f.tree,
		Scale:              1,
		ParentsToFilterOut: parentsOf(paths),
	})
}

// drag returns a drag session from start moved by drag with mods held.
func (f fixture) drag(start CanvasPoint, drag CanvasVector, mods KeyModifiers, control CanvasControl) InteractionSession {
	s := NewDragSession(start, mods, control, f.snap.MetadataMap, f.snap.Props)
	return s.WithDrag(drag, mods)
}

func (f fixture) keys(mods KeyModifiers, keys ...Key) InteractionSession {
	return NewKeyboardSession(keys, mods, f.snap.MetadataMap, f.snap.Props)
}

func (f fixture) state() EditorState {
	return NewEditorState(f.tree)
}

func mustFold(t *testing.T, state EditorState, cmds []Command, lifecycle InteractionLifecycle) FoldResult {
	t.Helper()
	res, err := FoldCommands(state, cmds, lifecycle)
	if err != nil {
		t.Fatalf("FoldCommands() error = %v", err)
	}
	return res
}

func mustProps(t *testing.T, tree ElementTree, path ElementPath) Props {
	t.Helper()
	el, ok := tree.Get(path)
	if !ok {
		t.Fatalf("element %s missing", path)
	}
	return el.Props
}

func wantNumber(t *testing.T, props Props, path PropertyPath, want float64) {
	t.Helper()
	got, ok := props.GetNumber(path)
	if !ok {
		t.Errorf("%s missing, want %v", path, want)
		return
	}
	if got != want {
		t.Errorf("%s = %v, want %v", path, got, want)
	}
}

func commandTypes(cmds []Command) []string {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = c.Type()
	}
	return out
}

func patchOps(patches []EditorStatePatch) []PatchOp {
	out := make([]PatchOp, len(patches))
	for i, p := range patches {
		out[i] = p.Op
	}
	return out
}

func childUIDs(t *testing.T, tree ElementTree, path ElementPath) []string {
	t.Helper()
	el, ok := tree.Get(path)
	if !ok {
		t.Fatalf("element %s missing", path)
	}
	return el.Children
}

// stubStrategy is a strategy with fixed answers, for selector tests.
type stubStrategy struct {
	id         StrategyID
	fitness    float64
	applicable bool
	cmds       []Command
	apply      func(cs CanvasState, session InteractionSession, custom CustomStrategyState, lifecycle InteractionLifecycle) StrategyApplicationResult
}

func (s stubStrategy) ID() StrategyID                         { return s.id }
func (s stubStrategy) Name() string                           { return string(s.id) }
func (s stubStrategy) ControlsToRender() []ControlDescription { return nil }

func (s stubStrategy) IsApplicable(CanvasState, *InteractionSession, MetadataMap, AllElementProps) bool {
	return s.applicable
}

func (s stubStrategy) Fitness(CanvasState, InteractionSession, CustomStrategyState) float64 {
	return s.fitness
}

func (s stubStrategy) Apply(cs CanvasState, session InteractionSession, custom CustomStrategyState, lifecycle InteractionLifecycle) StrategyApplicationResult {
	if s.apply != nil {
		return s.apply(cs, session, custom, lifecycle)
	}
	return StrategyApplicationResult{Commands: s.cmds}
}
