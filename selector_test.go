package utopia

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func strategyIDs(ws []StrategyWithFitness) []StrategyID {
	out := make([]StrategyID, len(ws))
	for i, w := range ws {
		out[i] = w.Strategy.ID()
	}
	return out
}

func TestSelectorFind(t *testing.T) {
	tests := []struct {
		name     string
		registry []Strategy
		want     StrategyID
		found    bool
	}{
		{
			name: "highest fitness wins",
			registry: []Strategy{
				stubStrategy{id: "low", fitness: 1, applicable: true},
				stubStrategy{id: "high", fitness: 3, applicable: true},
			},
			want: "high", found: true,
		},
		{
			name: "tie goes to first registered",
			registry: []Strategy{
				stubStrategy{id: "first", fitness: 2, applicable: true},
				stubStrategy{id: "second", fitness: 2, applicable: true},
			},
			want: "first", found: true,
		},
		{
			name: "inapplicable ignored",
			registry: []Strategy{
				stubStrategy{id: "blocked", fitness: 5, applicable: false},
				stubStrategy{id: "ok", fitness: 1, applicable: true},
			},
			want: "ok", found: true,
		},
		{
			name: "zero fitness is no winner",
			registry: []Strategy{
				stubStrategy{id: "zero", fitness: 0, applicable: true},
			},
			found: false,
		},
		{
			name:  "empty registry",
			found: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := NewSelector(tt.registry)
			got, ok := sel.Find(CanvasState{}, InteractionSession{}, CustomStrategyState{})
			if ok != tt.found {
				t.Fatalf("Find() found = %v, want %v", ok, tt.found)
			}
			if ok && got.Strategy.ID() != tt.want {
				t.Errorf("Find() = %s, want %s", got.Strategy.ID(), tt.want)
			}
		})
	}
}

func TestSelectorApplicableAndPick(t *testing.T) {
	sel := NewSelector([]Strategy{
		stubStrategy{id: "a", fitness: 1, applicable: true},
		stubStrategy{id: "b", fitness: 3, applicable: true},
		stubStrategy{id: "c", fitness: 1, applicable: true},
		stubStrategy{id: "d", fitness: 0, applicable: true},
		stubStrategy{id: "e", fitness: 9, applicable: false},
	})
	got := strategyIDs(sel.Applicable(CanvasState{}, InteractionSession{}, CustomStrategyState{}))
	if diff := cmp.Diff([]StrategyID{"b", "a", "c"}, got); diff != "" {
		t.Errorf("Applicable (-want +got):\n%s", diff)
	}

	tests := []struct {
		preferred StrategyID
		want      StrategyID
	}{
		{"", "b"},
		{"c", "c"},
		{"d", "b"}, // not fit
		{"e", "b"}, // not applicable
		{"unknown", "b"},
	}
	for _, tt := range tests {
		session := InteractionSession{UserPreferredStrategy: tt.preferred}
		w, ok := sel.Pick(CanvasState{}, session, CustomStrategyState{})
		if !ok || w.Strategy.ID() != tt.want {
			t.Errorf("Pick(preferred=%q) = %v, %v; want %s", tt.preferred, w.Strategy, ok, tt.want)
		}
	}
}

func TestSelectorRun(t *testing.T) {
	cmds := []Command{SetCursor{When: RunAlways, Cursor: CursorMove}}
	sel := NewSelector([]Strategy{stubStrategy{id: "s", fitness: 1, applicable: true, cmds: cmds}})
	run, ok := sel.Run(CanvasState{}, InteractionSession{}, CustomStrategyState{}, LifecycleMidInteraction)
	if !ok {
		t.Fatal("Run found no strategy")
	}
	if run.Strategy.ID() != "s" || run.Fitness != 1 || len(run.Result.Commands) != 1 {
		t.Errorf("Run = %+v", run)
	}

	empty := NewSelector(nil)
	if _, ok := empty.Run(CanvasState{}, InteractionSession{}, CustomStrategyState{}, LifecycleMidInteraction); ok {
		t.Error("Run on an empty registry reported a winner")
	}
}

func TestSelectorStrategyLookup(t *testing.T) {
	sel := NewSelector(DefaultStrategies())
	if s, ok := sel.Strategy(FlexReorderID); !ok || s.ID() != FlexReorderID {
		t.Errorf("Strategy(FlexReorderID) = %v, %v", s, ok)
	}
	if _, ok := sel.Strategy("nope"); ok {
		t.Error("Strategy(nope) found something")
	}
	reg := sel.Registry()
	reg[0] = nil
	if sel.Registry()[0] == nil {
		t.Error("Registry leaked internal storage")
	}
}

// recursingStrategy starts a nested selection from Apply and records the
// depth of every Apply call.
func recursingStrategy(depths *[]int) Strategy {
	return stubStrategy{id: "recurse", fitness: 1, applicable: true,
		apply: func(cs CanvasState, session InteractionSession, custom CustomStrategyState, lifecycle InteractionLifecycle) StrategyApplicationResult {
			*depths = append(*depths, cs.Depth())
			cs.RunNested(cs, session, custom, lifecycle)
			return EmptyStrategyApplicationResult()
		}}
}

func TestRunNestedDepthLimit(t *testing.T) {
	tests := []struct {
		name     string
		maxDepth int
		want     []int
		warn     bool
	}{
		{"default allows one level", DefaultMaxStrategyDepth, []int{0, 1}, true},
		{"zero forbids nesting", 0, []int{0}, true},
		{"three levels", 3, []int{0, 1, 2, 3}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))
			var depths []int
			sel := NewSelector([]Strategy{recursingStrategy(&depths)},
				WithMaxStrategyDepth(tt.maxDepth), WithSelectorLogger(logger))
			if _, ok := sel.Run(CanvasState{}, InteractionSession{}, CustomStrategyState{}, LifecycleMidInteraction); !ok {
				t.Fatal("Run found no strategy")
			}
			if diff := cmp.Diff(tt.want, depths); diff != "" {
				t.Errorf("apply depths (-want +got):\n%s", diff)
			}
			if got := strings.Contains(buf.String(), "nested strategy selection refused"); got != tt.warn {
				t.Errorf("warning logged = %v, want %v\n%s", got, tt.warn, buf.String())
			}
		})
	}
}

func TestRunNestedUnbound(t *testing.T) {
	if _, ok := (CanvasState{}).RunNested(CanvasState{}, InteractionSession{}, CustomStrategyState{}, LifecycleMidInteraction); ok {
		t.Error("RunNested on an unbound state succeeded")
	}
	if _, _, ok := (CanvasState{}).FindNested(CanvasState{}, InteractionSession{}, CustomStrategyState{}); ok {
		t.Error("FindNested on an unbound state succeeded")
	}
}

func TestFindNested(t *testing.T) {
	sel := NewSelector([]Strategy{stubStrategy{id: "s", fitness: 2, applicable: true}})
	top := sel.Bind(CanvasState{})
	if top.Depth() != 0 {
		t.Fatalf("bound depth = %d", top.Depth())
	}
	w, nested, ok := top.FindNested(CanvasState{}, InteractionSession{}, CustomStrategyState{})
	if !ok || w.Strategy.ID() != "s" {
		t.Fatalf("FindNested = %v, %v", w, ok)
	}
	if nested.Depth() != 1 {
		t.Errorf("nested depth = %d, want 1", nested.Depth())
	}
	if _, _, ok := nested.FindNested(CanvasState{}, InteractionSession{}, CustomStrategyState{}); ok {
		t.Error("FindNested beyond the depth limit succeeded")
	}
}

func TestSelectorRunKeepsNestedDepth(t *testing.T) {
	var depths []int
	sel := NewSelector([]Strategy{stubStrategy{id: "s", fitness: 1, applicable: true,
		apply: func(cs CanvasState, _ InteractionSession, _ CustomStrategyState, _ InteractionLifecycle) StrategyApplicationResult {
			depths = append(depths, cs.Depth())
			return EmptyStrategyApplicationResult()
		}}})
	top := sel.Bind(CanvasState{})
	_, nested, _ := top.FindNested(CanvasState{}, InteractionSession{}, CustomStrategyState{})
	sel.Run(nested, InteractionSession{}, CustomStrategyState{}, LifecycleMidInteraction)
	// A state bound to a different selector restarts at depth 0.
	NewSelector(sel.Registry()).Run(nested, InteractionSession{}, CustomStrategyState{}, LifecycleMidInteraction)
	if diff := cmp.Diff([]int{1, 0}, depths); diff != "" {
		t.Errorf("depths (-want +got):\n%s", diff)
	}
}

func TestDefaultStrategiesIgnoreHover(t *testing.T) {
	f := newFixture(t)
	sel := NewSelector(DefaultStrategies())
	hover := InteractionSession{
		InteractionData:         HoverInteraction{Point: CanvasPoint{100, 100}, Modifiers: ReparentModifier},
		ActiveControl:           BoundingArea(),
		StartingMetadata:        f.snap.MetadataMap,
		StartingAllElementProps: f.snap.Props,
		LatestMetadata:          f.snap.MetadataMap,
		LatestAllElementProps:   f.snap.Props,
	}
	targets := []struct {
		name string
		cs   CanvasState
	}{
		{"absolute card", f.canvas(sel, pathCard)},
		{"flex child", f.canvas(sel, pathA)},
		{"insertion subject", f.insertCanvas(sel, newSubject())},
	}
	for _, target := range targets {
		for _, st := range DefaultStrategies() {
			t.Run(target.name+"/"+string(st.ID()), func(t *testing.T) {
				if got := st.Fitness(target.cs, hover, CustomStrategyState{}); got != 0 {
					t.Errorf("Fitness = %v, want 0", got)
				}
				for _, lifecycle := range []InteractionLifecycle{LifecycleMidInteraction, LifecycleEndInteraction} {
					if res := st.Apply(target.cs, hover, CustomStrategyState{}, lifecycle); !res.IsEmpty() {
						t.Errorf("Apply(%s) = %v, want empty", lifecycle, commandTypes(res.Commands))
					}
				}
			})
		}
		if w, ok := sel.Find(target.cs, hover, CustomStrategyState{}); ok {
			t.Errorf("%s: Find on hover = %s", target.name, w.Strategy.ID())
		}
	}
}

func TestSelectorRegistryOrderBreaksTies(t *testing.T) {
	f := newFixture(t)
	session := f.drag(CanvasPoint{100, 100}, CanvasVector{10, 0}, 0, BoundingArea())
	rival := stubStrategy{id: "rival", fitness: 1, applicable: true}

	tests := []struct {
		name     string
		registry []Strategy
		want     StrategyID
	}{
		{"built-in registered first", append(DefaultStrategies(), rival), AbsoluteMoveID},
		{"rival registered first", append([]Strategy{rival}, DefaultStrategies()...), "rival"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := NewSelector(tt.registry)
			cs := f.canvas(sel, pathCard)
			w, ok := sel.Find(cs, session, CustomStrategyState{})
			if !ok || w.Strategy.ID() != tt.want || w.Fitness != 1 {
				t.Fatalf("Find = %v (%v), %v; want %s", w.Strategy, w.Fitness, ok, tt.want)
			}
			applicable := strategyIDs(sel.Applicable(cs, session, CustomStrategyState{}))
			if len(applicable) != 2 || applicable[0] != tt.want {
				t.Errorf("Applicable = %v, want %s first", applicable, tt.want)
			}
		})
	}
}
