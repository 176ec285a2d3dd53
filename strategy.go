package utopia

// StrategyID names a registered strategy.
type StrategyID string

// Built-in strategy ids, in default registry order.
const (
	DragToInsertID           StrategyID = "DRAG_TO_INSERT"
	FlexReparentID           StrategyID = "FLEX_REPARENT"
	AbsoluteReparentID       StrategyID = "ABSOLUTE_REPARENT"
	FlexReorderID            StrategyID = "FLEX_REORDER"
	AbsoluteMoveID           StrategyID = "ABSOLUTE_MOVE"
	AbsoluteResizeID         StrategyID = "ABSOLUTE_RESIZE"
	KeyboardAbsoluteMoveID   StrategyID = "KEYBOARD_ABSOLUTE_MOVE"
	KeyboardAbsoluteResizeID StrategyID = "KEYBOARD_ABSOLUTE_RESIZE"
)

// ControlVisibility says when an overlay control is shown.
type ControlVisibility uint8

const (
	ShowAlways          ControlVisibility = iota // while the strategy is a candidate
	ShowWhileActive                              // only while the strategy is applied
	ShowOnlyWhenDragged                          // only once the pointer moved
)

// Overlay controls a strategy may ask the canvas to render.
const (
	OverlayParentOutlines         = "parent-outlines"
	OverlayParentBounds           = "parent-bounds"
	OverlayDragOutline            = "drag-outline"
	OverlayReparentTarget         = "reparent-target-indicator"
	OverlayFlexReorderIndicator   = "flex-reorder-indicator"
	OverlayResizeHandles          = "resize-handles"
	OverlayZeroSizedElementBounds = "zero-sized-element-bounds"
)

// ControlDescription is a declarative overlay bound to session activity. It
// plays no part in selection or command generation.
type ControlDescription struct {
	Key     string
	Overlay string
	Show    ControlVisibility
}

// InteractionTarget is what a gesture acts on: existing elements, or
// insertion subjects queued for creation.
type InteractionTarget struct {
	Paths    []ElementPath
	Subjects []InsertionSubject
}

// TargetPaths targets existing elements.
func TargetPaths(paths ...ElementPath) InteractionTarget {
	return InteractionTarget{Paths: clonePaths(paths)}
}

// TargetSubjects targets pending insertions.
func TargetSubjects(subjects ...InsertionSubject) InteractionTarget {
	return InteractionTarget{Subjects: append([]InsertionSubject(nil), subjects...)}
}

// HasInsertionSubjects reports whether the target queues any insertion.
func (t InteractionTarget) HasInsertionSubjects() bool {
	return len(t.Subjects) > 0
}

// CanvasState is the read-only view of the editor a strategy evaluates
// against. Tree is the gesture's starting tree. The unexported fields bind the
// state to the selector evaluating it so that a strategy can run a nested
// selection through RunNested.
type CanvasState struct {
	Target             InteractionTarget
	Tree               ElementTree
	Scale              float64
	CanvasOffset       CanvasVector
	ParentsToFilterOut []ElementPath
	InsertSize         Size

	selector *Selector
	depth    int
}

// Depth returns how many nested selections enclose this state (0 at the top
// level).
func (cs CanvasState) Depth() int {
	return cs.depth
}

// RunNested runs strategy selection and application against a synthetic
// canvas state and session, one level deeper than cs. It returns false when
// cs is not bound to a selector, when the depth limit would be exceeded, or
// when no strategy wins. The live session is never touched: callers pass
// patched copies.
func (cs CanvasState) RunNested(nested CanvasState, session InteractionSession, custom CustomStrategyState, lifecycle InteractionLifecycle) (StrategyRun, bool) {
	if cs.selector == nil {
		return StrategyRun{}, false
	}
	depth := cs.depth + 1
	if depth > cs.selector.maxDepth {
		cs.selector.logger.Warn("nested strategy selection refused",
			"depth", depth, "max_depth", cs.selector.maxDepth)
		return StrategyRun{}, false
	}
	nested.selector = cs.selector
	nested.depth = depth
	return cs.selector.run(nested, session, custom, lifecycle)
}

// StrategyStatus reports whether Apply produced a usable result.
type StrategyStatus uint8

const (
	StrategySuccess StrategyStatus = iota
	StrategyFailure
)

// StrategyApplicationResult is what Apply returns: the commands for the
// current pointer state plus updates to the strategy's scratch state.
type StrategyApplicationResult struct {
	Commands         []Command
	CustomStatePatch map[StrategyID]any
	Status           StrategyStatus
}

// EmptyStrategyApplicationResult is the "nothing to do" result. It is not an
// error.
func EmptyStrategyApplicationResult() StrategyApplicationResult {
	return StrategyApplicationResult{}
}

// IsEmpty reports whether the result carries no commands and no state patch.
func (r StrategyApplicationResult) IsEmpty() bool {
	return len(r.Commands) == 0 && len(r.CustomStatePatch) == 0
}

// Strategy is one interpretation of a gesture. Implementations hold no
// mutable state; every method is a pure function of its arguments.
type Strategy interface {
	ID() StrategyID
	Name() string
	// ControlsToRender lists overlays shown while the strategy is a candidate
	// or active.
	ControlsToRender() []ControlDescription
	// IsApplicable reports whether the strategy can ever act on the current
	// interaction target. It must not assume a drag is in progress; session
	// may be nil.
	IsApplicable(cs CanvasState, session *InteractionSession, md MetadataMap, props AllElementProps) bool
	// Fitness scores the strategy for this exact gesture. 0 means not a
	// candidate. Gesture-shape checks live here, not in IsApplicable.
	Fitness(cs CanvasState, session InteractionSession, custom CustomStrategyState) float64
	// Apply computes the commands for the current gesture state. It returns
	// EmptyStrategyApplicationResult when its preconditions are unmet.
	Apply(cs CanvasState, session InteractionSession, custom CustomStrategyState, lifecycle InteractionLifecycle) StrategyApplicationResult
}
