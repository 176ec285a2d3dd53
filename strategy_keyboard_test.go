package utopia

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestKeyboardStrategies(t *testing.T) {
	f := newFixture(t)
	sel := NewSelector(DefaultStrategies())
	cs := f.canvas(sel, pathCard)

	press := func(states ...KeyState) InteractionSession {
		s := f.keys(states[0].Modifiers, states[0].Keys...)
		for _, ks := range states[1:] {
			s = s.WithKeyState(ks)
		}
		return s
	}
	repeat := func(n int, ks KeyState) []KeyState {
		out := make([]KeyState, n)
		for i := range out {
			out[i] = ks
		}
		return out
	}
	setLengths := func(props ...any) []Command {
		var out []Command
		for i := 0; i < len(props); i += 2 {
			out = append(out, SetCSSLength{When: RunAlways, Target: pathCard, Prop: props[i].(PropertyPath), Value: props[i+1].(float64)})
		}
		return out
	}

	tests := []struct {
		name    string
		session InteractionSession
		want    StrategyID
		cmds    []Command
	}{
		{
			name:    "arrow nudges by one",
			session: press(KeyState{Keys: []Key{KeyArrowRight}}),
			want:    KeyboardAbsoluteMoveID,
			cmds:    setLengths(PropLeft, 31.0, PropTop, 30.0),
		},
		{
			name:    "shift nudges by ten",
			session: press(KeyState{Keys: []Key{KeyArrowRight}, Modifiers: ModShift}),
			want:    KeyboardAbsoluteMoveID,
			cmds:    setLengths(PropLeft, 40.0, PropTop, 30.0),
		},
		{
			name: "presses accumulate",
			session: press(
				KeyState{Keys: []Key{KeyArrowRight}},
				KeyState{Keys: []Key{KeyArrowDown}, Modifiers: ModShift},
			),
			want: KeyboardAbsoluteMoveID,
			cmds: setLengths(PropLeft, 31.0, PropTop, 40.0),
		},
		{
			name:    "meta resizes",
			session: press(KeyState{Keys: []Key{KeyArrowLeft}, Modifiers: ModMeta}),
			want:    KeyboardAbsoluteResizeID,
			cmds:    setLengths(PropWidth, 119.0, PropHeight, 80.0),
		},
		{
			name: "resize ignores move presses",
			session: press(
				KeyState{Keys: []Key{KeyArrowRight}},
				KeyState{Keys: []Key{KeyArrowRight}, Modifiers: ModMeta},
			),
			want: KeyboardAbsoluteResizeID,
			cmds: setLengths(PropWidth, 121.0, PropHeight, 80.0),
		},
		{
			name:    "size clamps at zero",
			session: press(repeat(13, KeyState{Keys: []Key{KeyArrowLeft}, Modifiers: ModMeta | ModShift})...),
			want:    KeyboardAbsoluteResizeID,
			cmds:    setLengths(PropWidth, 0.0, PropHeight, 80.0),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run, ok := sel.Run(cs, tt.session, CustomStrategyState{}, LifecycleMidInteraction)
			if !ok || run.Strategy.ID() != tt.want {
				t.Fatalf("Run = %v, %v; want %s", run.Strategy, ok, tt.want)
			}
			if diff := cmp.Diff(tt.cmds, run.Result.Commands); diff != "" {
				t.Errorf("commands (-want +got):\n%s", diff)
			}
		})
	}
}

func TestKeyboardStrategiesNoWinner(t *testing.T) {
	f := newFixture(t)
	sel := NewSelector(DefaultStrategies())
	tests := []struct {
		name    string
		cs      CanvasState
		session InteractionSession
	}{
		{"not an arrow", f.canvas(sel, pathCard), f.keys(0, KeyTab)},
		{"flex child", f.canvas(sel, pathA), f.keys(0, KeyArrowLeft)},
		{"no selection", f.canvas(sel), f.keys(0, KeyArrowLeft)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w, ok := sel.Find(tt.cs, tt.session, CustomStrategyState{}); ok {
				t.Errorf("Find = %s, want no winner", w.Strategy.ID())
			}
		})
	}
}

func TestKeyboardStrategiesIgnoreDrags(t *testing.T) {
	f := newFixture(t)
	cs := f.canvas(NewSelector(nil), pathCard)
	session := f.drag(CanvasPoint{100, 100}, CanvasVector{5, 5}, 0, BoundingArea())
	for _, s := range []Strategy{KeyboardAbsoluteMoveStrategy(), KeyboardAbsoluteResizeStrategy()} {
		if got := s.Fitness(cs, session, CustomStrategyState{}); got != 0 {
			t.Errorf("%s Fitness on a drag = %v", s.ID(), got)
		}
		if res := s.Apply(cs, session, CustomStrategyState{}, LifecycleMidInteraction); !res.IsEmpty() {
			t.Errorf("%s Apply on a drag = %v", s.ID(), commandTypes(res.Commands))
		}
	}
}
