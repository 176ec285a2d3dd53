package utopia

import "math"

// --- absolute move ---

type absoluteMoveStrategy struct{}

// AbsoluteMoveStrategy drags absolutely positioned elements by their
// bounding area, writing style.left and style.top.
func AbsoluteMoveStrategy() Strategy { return absoluteMoveStrategy{} }

func (absoluteMoveStrategy) ID() StrategyID { return AbsoluteMoveID }
func (absoluteMoveStrategy) Name() string   { return "Absolute Move" }

func (absoluteMoveStrategy) ControlsToRender() []ControlDescription {
	return []ControlDescription{
		{Key: "parent-bounds", Overlay: OverlayParentBounds, Show: ShowOnlyWhenDragged},
		{Key: "parent-outlines", Overlay: OverlayParentOutlines, Show: ShowOnlyWhenDragged},
	}
}

func (absoluteMoveStrategy) IsApplicable(cs CanvasState, _ *InteractionSession, md MetadataMap, _ AllElementProps) bool {
	return targetsMovable(cs, md, PropLeft, PropTop)
}

func (absoluteMoveStrategy) Fitness(_ CanvasState, session InteractionSession, _ CustomStrategyState) float64 {
	if isBoundingAreaDrag(session) {
		return 1
	}
	return 0
}

func (absoluteMoveStrategy) Apply(cs CanvasState, session InteractionSession, _ CustomStrategyState, _ InteractionLifecycle) StrategyApplicationResult {
	_, drag, ok := activeDrag(session)
	if !ok {
		return EmptyStrategyApplicationResult()
	}
	var cmds []Command
	for _, p := range topLevelPaths(cs.Target.Paths) {
		frame, ok := LocalFrame(cs.Tree, session.StartingMetadata, p)
		if !ok {
			continue
		}
		cmds = append(cmds,
			SetCSSLength{When: RunAlways, Target: p, Prop: PropLeft, Value: frame.X + drag.X},
			SetCSSLength{When: RunAlways, Target: p, Prop: PropTop, Value: frame.Y + drag.Y},
		)
	}
	if len(cmds) == 0 {
		return EmptyStrategyApplicationResult()
	}
	cmds = append(cmds, SetCursor{When: RunTransientOnly, Cursor: CursorMove})
	return StrategyApplicationResult{Commands: cmds}
}

// --- absolute resize ---

type absoluteResizeStrategy struct{}

// AbsoluteResizeStrategy resizes absolutely positioned elements from one of
// the eight resize handles.
func AbsoluteResizeStrategy() Strategy { return absoluteResizeStrategy{} }

func (absoluteResizeStrategy) ID() StrategyID { return AbsoluteResizeID }
func (absoluteResizeStrategy) Name() string   { return "Absolute Resize" }

func (absoluteResizeStrategy) ControlsToRender() []ControlDescription {
	return []ControlDescription{
		{Key: "resize-handles", Overlay: OverlayResizeHandles, Show: ShowAlways},
		{Key: "zero-sized-element-bounds", Overlay: OverlayZeroSizedElementBounds, Show: ShowWhileActive},
	}
}

func (absoluteResizeStrategy) IsApplicable(cs CanvasState, _ *InteractionSession, md MetadataMap, _ AllElementProps) bool {
	return targetsMovable(cs, md, FramePropertyPaths...)
}

func (absoluteResizeStrategy) Fitness(_ CanvasState, session InteractionSession, _ CustomStrategyState) float64 {
	if _, ok := session.Drag(); ok && session.ActiveControl.Kind == ControlResizeHandle {
		return 1
	}
	return 0
}

func (absoluteResizeStrategy) Apply(cs CanvasState, session InteractionSession, _ CustomStrategyState, _ InteractionLifecycle) StrategyApplicationResult {
	_, drag, ok := activeDrag(session)
	if !ok {
		return EmptyStrategyApplicationResult()
	}
	edge := session.ActiveControl.Edge
	var cmds []Command
	for _, p := range topLevelPaths(cs.Target.Paths) {
		frame, ok := LocalFrame(cs.Tree, session.StartingMetadata, p)
		if !ok {
			continue
		}
		r := ResizeRect(frame, edge, drag)
		cmds = append(cmds,
			SetCSSLength{When: RunAlways, Target: p, Prop: PropLeft, Value: r.X},
			SetCSSLength{When: RunAlways, Target: p, Prop: PropTop, Value: r.Y},
			SetCSSLength{When: RunAlways, Target: p, Prop: PropWidth, Value: r.Width},
			SetCSSLength{When: RunAlways, Target: p, Prop: PropHeight, Value: r.Height},
		)
	}
	if len(cmds) == 0 {
		return EmptyStrategyApplicationResult()
	}
	cmds = append(cmds, SetCursor{When: RunTransientOnly, Cursor: cursorForEdge(edge)})
	return StrategyApplicationResult{Commands: cmds}
}

// --- absolute reparent ---

type absoluteReparentStrategy struct{}

// AbsoluteReparentStrategy moves absolutely positioned elements into the
// container under the pointer while the reparent modifier is held, keeping
// their position on the canvas.
func AbsoluteReparentStrategy() Strategy { return absoluteReparentStrategy{} }

func (absoluteReparentStrategy) ID() StrategyID { return AbsoluteReparentID }
func (absoluteReparentStrategy) Name() string   { return "Absolute Reparent" }

func (absoluteReparentStrategy) ControlsToRender() []ControlDescription {
	return []ControlDescription{
		{Key: "parent-outlines", Overlay: OverlayParentOutlines, Show: ShowOnlyWhenDragged},
		{Key: "reparent-target", Overlay: OverlayReparentTarget, Show: ShowWhileActive},
	}
}

func (absoluteReparentStrategy) IsApplicable(cs CanvasState, _ *InteractionSession, md MetadataMap, _ AllElementProps) bool {
	return targetsMovable(cs, md, FramePropertyPaths...)
}

func (absoluteReparentStrategy) Fitness(cs CanvasState, session InteractionSession, _ CustomStrategyState) float64 {
	target, ok := reparentTargetForDrag(cs, session)
	if !ok || target.Layout == LayoutFlex {
		return 0
	}
	return 2
}

func (absoluteReparentStrategy) Apply(cs CanvasState, session InteractionSession, _ CustomStrategyState, _ InteractionLifecycle) StrategyApplicationResult {
	_, drag, ok := activeDrag(session)
	if !ok {
		return EmptyStrategyApplicationResult()
	}
	target, ok := reparentTargetForDrag(cs, session)
	if !ok || target.Layout == LayoutFlex {
		return EmptyStrategyApplicationResult()
	}
	md := session.StartingMetadata
	parentFrame, _ := md.Frame(target.Parent)

	var cmds []Command
	var moved []ElementPath
	for _, p := range topLevelPaths(cs.Target.Paths) {
		local, ok := LocalFrame(cs.Tree, md, p)
		if !ok {
			continue
		}
		origin := ParentFrame(md, p)
		global := local.Offset(CanvasVector{X: origin.X + drag.X, Y: origin.Y + drag.Y})
		r := global.RelativeTo(parentFrame)
		newPath := target.Parent.AppendToPath(p.LastID())
		cmds = append(cmds,
			ReparentElement{When: RunAlways, Target: p, NewParent: target.Parent, Index: target.Index},
			SetProperty{When: RunAlways, Target: newPath, Prop: PropPosition, Value: "absolute"},
			SetCSSLength{When: RunAlways, Target: newPath, Prop: PropLeft, Value: r.X},
			SetCSSLength{When: RunAlways, Target: newPath, Prop: PropTop, Value: r.Y},
			SetCSSLength{When: RunAlways, Target: newPath, Prop: PropWidth, Value: r.Width},
			SetCSSLength{When: RunAlways, Target: newPath, Prop: PropHeight, Value: r.Height},
		)
		moved = append(moved, newPath)
	}
	if len(moved) == 0 {
		return EmptyStrategyApplicationResult()
	}
	cmds = append(cmds,
		HighlightElements{When: RunTransientOnly, Paths: []ElementPath{target.Parent}},
		SetCursor{When: RunTransientOnly, Cursor: CursorReparent},
		UpdateSelectedViews{When: RunAlways, Paths: moved},
	)
	return StrategyApplicationResult{Commands: cmds}
}

// reparentTargetForDrag resolves the drop target of a modifier drag. It fails
// unless the reparent modifier is held and the pointer is over a container
// other than the current parent of every target.
func reparentTargetForDrag(cs CanvasState, session InteractionSession) (ReparentTarget, bool) {
	d, _, ok := activeDrag(session)
	if !ok || session.ActiveControl.Kind != ControlBoundingArea || !d.Modifiers.Has(ReparentModifier) {
		return ReparentTarget{}, false
	}
	if len(cs.Target.Paths) == 0 {
		return ReparentTarget{}, false
	}
	point, _ := DragPointer(d)
	target, ok := FindReparentTarget(cs, session.StartingMetadata, point, cs.Target.Paths)
	if !ok {
		return ReparentTarget{}, false
	}
	for _, p := range cs.Target.Paths {
		if p.Parent().Equal(target.Parent) {
			return ReparentTarget{}, false
		}
	}
	return target, true
}

func clampSize(v float64) float64 {
	return math.Max(v, 0)
}
