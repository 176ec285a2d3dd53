package utopia

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// ReparentModifier gates reparenting strategies during a drag.
const ReparentModifier = ModMeta

// Has reports whether every modifier in want is held.
func (m KeyModifiers) Has(want KeyModifiers) bool {
	return m&want == want
}

// Key names a non-modifier key.
type Key string

// Keys understood by the built-in keyboard strategies and the driver.
const (
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
	KeyArrowUp    Key = "ArrowUp"
	KeyArrowDown  Key = "ArrowDown"
	KeyEscape     Key = "Escape"
	KeyTab        Key = "Tab"
)

// IsArrow reports whether k is one of the four arrow keys.
func (k Key) IsArrow() bool {
	return k == KeyArrowLeft || k == KeyArrowRight || k == KeyArrowUp || k == KeyArrowDown
}

// InteractionData is the gesture-shape variant of an interaction session:
// DragInteraction, KeyboardInteraction or HoverInteraction.
type InteractionData interface {
	interactionData()
}

// DragInteraction is a pointer drag. Drag is nil until the pointer has moved
// past the dead zone.
type DragInteraction struct {
	DragStart         CanvasPoint
	OriginalDragStart CanvasPoint
	Drag              *CanvasVector
	Modifiers         KeyModifiers
	HasMouseMoved     bool
}

// KeyState is one keyboard event within a keyboard interaction.
type KeyState struct {
	Keys      []Key
	Modifiers KeyModifiers
}

// KeyboardInteraction accumulates the key presses of one keyboard gesture.
type KeyboardInteraction struct {
	KeyStates []KeyState
}

// HoverInteraction is pointer movement with no button held.
type HoverInteraction struct {
	Point     CanvasPoint
	Modifiers KeyModifiers
}

func (DragInteraction) interactionData()     {}
func (KeyboardInteraction) interactionData() {}
func (HoverInteraction) interactionData()    {}

// Modifiers returns the modifiers of the latest key state.
func (k KeyboardInteraction) Modifiers() KeyModifiers {
	if len(k.KeyStates) == 0 {
		return 0
	}
	return k.KeyStates[len(k.KeyStates)-1].Modifiers
}

// ControlKind identifies the on-canvas affordance that started a gesture.
type ControlKind uint8

const (
	ControlBoundingArea    ControlKind = iota // body of the selection / empty canvas
	ControlResizeHandle                       // one of the eight resize handles
	ControlKeyboardCatcher                    // keyboard focus on the canvas
)

// CanvasControl is the active control of a session. Edge is meaningful only
// for ControlResizeHandle.
type CanvasControl struct {
	Kind ControlKind
	Edge EdgePosition
}

// BoundingArea is the bounding-area control.
func BoundingArea() CanvasControl { return CanvasControl{Kind: ControlBoundingArea} }

// ResizeHandle is the resize-handle control for edge.
func ResizeHandle(edge EdgePosition) CanvasControl {
	return CanvasControl{Kind: ControlResizeHandle, Edge: edge}
}

// KeyboardCatcher is the keyboard control.
func KeyboardCatcher() CanvasControl { return CanvasControl{Kind: ControlKeyboardCatcher} }

// InteractionSession is the per-gesture record. Sessions are passed by
// value; anything that needs a different session (recursive selection, the
// driver on every event) builds a modified copy.
type InteractionSession struct {
	InteractionData         InteractionData
	ActiveControl           CanvasControl
	StartingMetadata        MetadataMap
	StartingAllElementProps AllElementProps
	LatestMetadata          MetadataMap
	LatestAllElementProps   AllElementProps
	UserPreferredStrategy   StrategyID
}

// Drag returns the drag data if the session is a drag.
func (s InteractionSession) Drag() (DragInteraction, bool) {
	d, ok := s.InteractionData.(DragInteraction)
	return d, ok
}

// Keyboard returns the keyboard data if the session is a keyboard gesture.
func (s InteractionSession) Keyboard() (KeyboardInteraction, bool) {
	k, ok := s.InteractionData.(KeyboardInteraction)
	return k, ok
}

// NewDragSession starts a drag session at start using the given snapshot.
func NewDragSession(start CanvasPoint, mods KeyModifiers, control CanvasControl, md MetadataMap, props AllElementProps) InteractionSession {
	return InteractionSession{
		InteractionData: DragInteraction{
			DragStart:         start,
			OriginalDragStart: start,
			Modifiers:         mods,
		},
		ActiveControl:           control,
		StartingMetadata:        md,
		StartingAllElementProps: props,
		LatestMetadata:          md,
		LatestAllElementProps:   props,
	}
}

// NewKeyboardSession starts a keyboard session with one key state.
func NewKeyboardSession(keys []Key, mods KeyModifiers, md MetadataMap, props AllElementProps) InteractionSession {
	return InteractionSession{
		InteractionData: KeyboardInteraction{
			KeyStates: []KeyState{{Keys: append([]Key(nil), keys...), Modifiers: mods}},
		},
		ActiveControl:           KeyboardCatcher(),
		StartingMetadata:        md,
		StartingAllElementProps: props,
		LatestMetadata:          md,
		LatestAllElementProps:   props,
	}
}

// WithDrag returns a copy of the session with the drag vector and modifiers
// replaced. It is a no-op for non-drag sessions.
func (s InteractionSession) WithDrag(drag CanvasVector, mods KeyModifiers) InteractionSession {
	d, ok := s.Drag()
	if !ok {
		return s
	}
	v := drag
	d.Drag = &v
	d.Modifiers = mods
	d.HasMouseMoved = true
	s.InteractionData = d
	return s
}

// WithModifiers returns a copy of the session with the drag modifiers
// replaced, keeping the drag vector.
func (s InteractionSession) WithModifiers(mods KeyModifiers) InteractionSession {
	d, ok := s.Drag()
	if !ok {
		return s
	}
	d.Modifiers = mods
	s.InteractionData = d
	return s
}

// WithKeyState returns a copy of a keyboard session with ks appended.
func (s InteractionSession) WithKeyState(ks KeyState) InteractionSession {
	k, ok := s.Keyboard()
	if !ok {
		return s
	}
	states := make([]KeyState, 0, len(k.KeyStates)+1)
	states = append(states, k.KeyStates...)
	states = append(states, ks)
	s.InteractionData = KeyboardInteraction{KeyStates: states}
	return s
}

// InteractionLifecycle tells Apply and the fold whether the result is a
// preview or the final commit.
type InteractionLifecycle uint8

const (
	LifecycleMidInteraction InteractionLifecycle = iota // transient preview
	LifecycleEndInteraction                             // commit
)

func (l InteractionLifecycle) String() string {
	if l == LifecycleEndInteraction {
		return "end-interaction"
	}
	return "mid-interaction"
}

// CustomStrategyState carries strategy-private scratch values across the
// events of one gesture. It is immutable; With and Merge return copies.
type CustomStrategyState struct {
	values map[StrategyID]any
}

// Get returns the value stored for id.
func (c CustomStrategyState) Get(id StrategyID) (any, bool) {
	v, ok := c.values[id]
	return v, ok
}

// With returns a copy with v stored for id.
func (c CustomStrategyState) With(id StrategyID, v any) CustomStrategyState {
	out := make(map[StrategyID]any, len(c.values)+1)
	for k, x := range c.values {
		out[k] = x
	}
	out[id] = v
	return CustomStrategyState{values: out}
}

// Merge returns a copy with every entry of patch applied.
func (c CustomStrategyState) Merge(patch map[StrategyID]any) CustomStrategyState {
	if len(patch) == 0 {
		return c
	}
	out := make(map[StrategyID]any, len(c.values)+len(patch))
	for k, x := range c.values {
		out[k] = x
	}
	for k, x := range patch {
		out[k] = x
	}
	return CustomStrategyState{values: out}
}

// Len returns the number of stored entries.
func (c CustomStrategyState) Len() int {
	return len(c.values)
}

// CustomStateValue returns the value stored for id converted to T.
func CustomStateValue[T any](c CustomStrategyState, id StrategyID) (T, bool) {
	v, ok := c.Get(id)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}
