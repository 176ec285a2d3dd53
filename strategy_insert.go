package utopia

import "fmt"

type dragToInsertStrategy struct{}

// DragToInsertStrategy creates the queued insertion subjects where a drag
// starts, then hands the new elements to whichever strategy would handle a
// modifier drag of them, so that a single gesture both inserts and places.
func DragToInsertStrategy() Strategy { return dragToInsertStrategy{} }

func (dragToInsertStrategy) ID() StrategyID { return DragToInsertID }
func (dragToInsertStrategy) Name() string   { return "Drag to Insert" }

func (dragToInsertStrategy) ControlsToRender() []ControlDescription {
	return []ControlDescription{
		{Key: "parent-outlines", Overlay: OverlayParentOutlines, Show: ShowOnlyWhenDragged},
		{Key: "drag-outline", Overlay: OverlayDragOutline, Show: ShowOnlyWhenDragged},
	}
}

func (dragToInsertStrategy) IsApplicable(cs CanvasState, _ *InteractionSession, _ MetadataMap, _ AllElementProps) bool {
	return cs.Target.HasInsertionSubjects()
}

func (dragToInsertStrategy) Fitness(_ CanvasState, session InteractionSession, _ CustomStrategyState) float64 {
	if _, _, ok := activeDrag(session); ok && session.ActiveControl.Kind == ControlBoundingArea {
		return 1
	}
	return 0
}

type insertedElement struct {
	path  ElementPath
	frame CanvasRectangle
	props Props
}

func (s dragToInsertStrategy) Apply(cs CanvasState, session InteractionSession, custom CustomStrategyState, _ InteractionLifecycle) StrategyApplicationResult {
	d, _, ok := activeDrag(session)
	if !ok || !cs.Target.HasInsertionSubjects() {
		return EmptyStrategyApplicationResult()
	}
	root := cs.Tree.Root()
	var cmds []Command
	var inserted []insertedElement
	for _, subject := range cs.Target.Subjects {
		parent := subject.ParentOr(root)
		frame := RectCenteredOn(d.DragStart, subject.FrameSize(cs.InsertSize))
		parentFrame, _ := session.StartingMetadata.Frame(parent)
		props, err := UpdateLayoutPropsWithFrame(subject.Element.Props, frame.RelativeTo(parentFrame), FramePropertyPaths)
		if err != nil {
			panic(fmt.Sprintf("utopia: drag to insert %s: %v", subject.UID, err))
		}
		stamped := subject
		stamped.Element.Props = props
		cmds = append(cmds, InsertElementInsertionSubject{When: RunAlways, Subject: stamped})
		inserted = append(inserted, insertedElement{path: subject.PathIn(root), frame: frame, props: props})
	}
	cmds = append(cmds, UpdateFunction{
		When: RunAlways,
		Name: "reparent inserted elements",
		Fn: func(state EditorState, lifecycle InteractionLifecycle) []EditorStatePatch {
			return s.placeInserted(cs, session, custom, inserted, state, lifecycle)
		},
	})
	return StrategyApplicationResult{Commands: cmds}
}

// placeInserted runs a nested selection that treats the freshly inserted
// elements as if they had always existed and were being dragged with the
// reparent modifier. The winner's commands are folded onto state and their
// patches returned.
func (dragToInsertStrategy) placeInserted(cs CanvasState, session InteractionSession, custom CustomStrategyState, inserted []insertedElement, state EditorState, lifecycle InteractionLifecycle) []EditorStatePatch {
	md := session.StartingMetadata
	props := session.StartingAllElementProps
	paths := make([]ElementPath, 0, len(inserted))
	for _, in := range inserted {
		md = md.With(SynthesizedMetadata(in.path, in.frame))
		props = props.With(in.path, in.props)
		paths = append(paths, in.path)
	}

	nestedSession := session
	nestedSession.StartingMetadata = md
	nestedSession.LatestMetadata = md
	nestedSession.StartingAllElementProps = props
	nestedSession.LatestAllElementProps = props
	nestedSession.UserPreferredStrategy = ""
	if d, ok := session.Drag(); ok {
		nestedSession = nestedSession.WithModifiers(d.Modifiers | ReparentModifier)
	}

	nested := cs
	nested.Target = TargetPaths(paths...)
	nested.Tree = state.Tree
	nested.ParentsToFilterOut = nil

	run, ok := cs.RunNested(nested, nestedSession, custom, lifecycle)
	if !ok {
		return nil
	}
	res, err := FoldCommands(state, run.Result.Commands, lifecycle)
	if err != nil {
		panic(fmt.Sprintf("utopia: drag to insert: %s against inserted elements: %v", run.Strategy.ID(), err))
	}
	return res.Patches
}
