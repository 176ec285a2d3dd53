package utopia

// flexPositionProps are removed when an element joins a flex layout.
var flexPositionProps = []PropertyPath{PropPosition, PropLeft, PropTop}

// --- flex reparent ---

type flexReparentStrategy struct{}

// FlexReparentStrategy moves elements into the flex container under the
// pointer while the reparent modifier is held. The moved elements become flex
// participants: their absolute position props are removed.
func FlexReparentStrategy() Strategy { return flexReparentStrategy{} }

func (flexReparentStrategy) ID() StrategyID { return FlexReparentID }
func (flexReparentStrategy) Name() string   { return "Flex Reparent" }

func (flexReparentStrategy) ControlsToRender() []ControlDescription {
	return []ControlDescription{
		{Key: "parent-outlines", Overlay: OverlayParentOutlines, Show: ShowOnlyWhenDragged},
		{Key: "flex-reparent-target", Overlay: OverlayReparentTarget, Show: ShowWhileActive},
	}
}

func (flexReparentStrategy) IsApplicable(cs CanvasState, _ *InteractionSession, _ MetadataMap, _ AllElementProps) bool {
	if len(cs.Target.Paths) == 0 {
		return false
	}
	for _, p := range cs.Target.Paths {
		if p.Equal(cs.Tree.Root()) || anyExpression(cs.Tree, p, flexPositionProps...) {
			return false
		}
	}
	return true
}

func (flexReparentStrategy) Fitness(cs CanvasState, session InteractionSession, _ CustomStrategyState) float64 {
	target, ok := reparentTargetForDrag(cs, session)
	if !ok || target.Layout != LayoutFlex {
		return 0
	}
	return 3
}

func (flexReparentStrategy) Apply(cs CanvasState, session InteractionSession, _ CustomStrategyState, _ InteractionLifecycle) StrategyApplicationResult {
	target, ok := reparentTargetForDrag(cs, session)
	if !ok || target.Layout != LayoutFlex {
		return EmptyStrategyApplicationResult()
	}
	var cmds []Command
	var moved []ElementPath
	for i, p := range topLevelPaths(cs.Target.Paths) {
		newPath := target.Parent.AppendToPath(p.LastID())
		cmds = append(cmds,
			ReparentElement{When: RunAlways, Target: p, NewParent: target.Parent, Index: target.Index + i},
			DeleteProperties{When: RunAlways, Target: newPath, Props: flexPositionProps},
		)
		moved = append(moved, newPath)
	}
	cmds = append(cmds,
		HighlightElements{When: RunTransientOnly, Paths: []ElementPath{target.Parent}},
		SetCursor{When: RunTransientOnly, Cursor: CursorReparent},
		UpdateSelectedViews{When: RunAlways, Paths: moved},
	)
	return StrategyApplicationResult{Commands: cmds}
}

// --- flex reorder ---

// FlexReorderState is the scratch state of the flex reorder strategy.
type FlexReorderState struct {
	LastReorderIndex int
}

type flexReorderStrategy struct{}

// FlexReorderStrategy drags a single flex child to a new position among its
// siblings.
func FlexReorderStrategy() Strategy { return flexReorderStrategy{} }

func (flexReorderStrategy) ID() StrategyID { return FlexReorderID }
func (flexReorderStrategy) Name() string   { return "Flex Reorder" }

func (flexReorderStrategy) ControlsToRender() []ControlDescription {
	return []ControlDescription{
		{Key: "flex-reorder-indicator", Overlay: OverlayFlexReorderIndicator, Show: ShowWhileActive},
	}
}

func (flexReorderStrategy) IsApplicable(cs CanvasState, _ *InteractionSession, md MetadataMap, _ AllElementProps) bool {
	if len(cs.Target.Paths) != 1 {
		return false
	}
	p := cs.Target.Paths[0]
	if p.Equal(cs.Tree.Root()) || IsAbsolutelyPositioned(cs.Tree, md, p) {
		return false
	}
	return IsFlexContainer(md, p.Parent())
}

func (flexReorderStrategy) Fitness(_ CanvasState, session InteractionSession, _ CustomStrategyState) float64 {
	if isBoundingAreaDrag(session) {
		return 1
	}
	return 0
}

func (flexReorderStrategy) Apply(cs CanvasState, session InteractionSession, custom CustomStrategyState, _ InteractionLifecycle) StrategyApplicationResult {
	d, _, ok := activeDrag(session)
	if !ok || len(cs.Target.Paths) != 1 {
		return EmptyStrategyApplicationResult()
	}
	p := cs.Target.Paths[0]
	parent := p.Parent()
	point, _ := DragPointer(d)
	index := FlexInsertionIndex(cs.Tree, session.StartingMetadata, parent, point, []ElementPath{p})

	var cmds []Command
	if index != cs.Tree.IndexOf(p) {
		cmds = append(cmds, ReparentElement{When: RunAlways, Target: p, NewParent: parent, Index: index})
	}
	cmds = append(cmds, SetCursor{When: RunTransientOnly, Cursor: CursorMove})

	res := StrategyApplicationResult{Commands: cmds}
	if prev, ok := CustomStateValue[FlexReorderState](custom, FlexReorderID); !ok || prev.LastReorderIndex != index {
		res.CustomStatePatch = map[StrategyID]any{FlexReorderID: FlexReorderState{LastReorderIndex: index}}
	}
	return res
}
