package utopia

const (
	// InsertionButtonOffset is the distance, in screen pixels, between a
	// flex container's leading edge and its insertion buttons.
	InsertionButtonOffset = 10.0
	// InsertionButtonSize is the diameter of an insertion button in screen
	// pixels.
	InsertionButtonSize = 12.0
)

// InsertionControl is a "+" button between two children of a selected flex
// container. Clicking it opens the insert menu for Index within Parent.
type InsertionControl struct {
	Parent ElementPath
	Index  int
	// Position is the button center, just outside the container.
	Position CanvasPoint
	// LineEnd is the far end of the guide line drawn from Position across
	// the container.
	LineEnd CanvasPoint
	// Horizontal is set when the guide line runs horizontally, i.e. for
	// column containers.
	Horizontal bool
}

// InsertionControls returns the insertion buttons of a single selected flex
// container: one before the first child, one between each pair of siblings
// and one after the last, or a single button at the leading edge of an empty
// container. scale is the canvas zoom; the button offset stays constant on
// screen. Any other selection yields none.
func InsertionControls(tree ElementTree, md MetadataMap, selection []ElementPath, scale float64) []InsertionControl {
	if len(selection) != 1 {
		return nil
	}
	parent := selection[0]
	frame, ok := md.Frame(parent)
	if !ok || !frame.Valid() || !IsFlexContainer(md, parent) {
		return nil
	}
	m, _ := md.Get(parent)
	dir := m.SpecialSizeMeasurements.FlexDirection
	if scale <= 0 {
		scale = 1
	}
	offset := InsertionButtonOffset / scale

	var children []CanvasRectangle
	for _, c := range tree.Children(parent) {
		if f, ok := md.Frame(c); ok {
			children = append(children, f)
		}
	}
	// lead and trail are a frame's first and last coordinate along the main
	// axis, in child order.
	lead := func(r CanvasRectangle) float64 {
		start, end := mainSpan(r, dir)
		if dir.IsReverse() {
			return end
		}
		return start
	}
	trail := func(r CanvasRectangle) float64 {
		start, end := mainSpan(r, dir)
		if dir.IsReverse() {
			return start
		}
		return end
	}

	var positions []float64
	if len(children) == 0 {
		positions = []float64{lead(frame)}
	} else {
		positions = append(positions, lead(children[0]))
		for i := 1; i < len(children); i++ {
			positions = append(positions, (trail(children[i-1])+lead(children[i]))/2)
		}
		positions = append(positions, trail(children[len(children)-1]))
	}

	out := make([]InsertionControl, len(positions))
	for i, pos := range positions {
		c := InsertionControl{Parent: parent, Index: i}
		if dir.IsHorizontal() {
			c.Position = CanvasPoint{X: pos, Y: frame.Y - offset}
			c.LineEnd = CanvasPoint{X: pos, Y: frame.Y + frame.Height}
		} else {
			c.Position = CanvasPoint{X: frame.X - offset, Y: pos}
			c.LineEnd = CanvasPoint{X: frame.X + frame.Width, Y: pos}
			c.Horizontal = true
		}
		out[i] = c
	}
	return out
}

func mainSpan(r CanvasRectangle, dir FlexDirection) (start, end float64) {
	if dir.IsHorizontal() {
		return r.X, r.X + r.Width
	}
	return r.Y, r.Y + r.Height
}

// InsertionControlAt returns the control whose button lies within radius of
// p.
func InsertionControlAt(controls []InsertionControl, p CanvasPoint, radius float64) (InsertionControl, bool) {
	for _, c := range controls {
		if p.Sub(c.Position).Length() <= radius {
			return c, true
		}
	}
	return InsertionControl{}, false
}

// InsertionControls returns the insertion buttons for the committed
// selection. They are hidden while a gesture is in progress.
func (e *Editor) InsertionControls() []InsertionControl {
	if e.g != nil {
		return nil
	}
	md, _ := e.snapshot()
	return InsertionControls(e.state.Tree, md, e.state.Selection, e.viewport.zoom())
}

// ActivateInsertionControl opens the floating insert menu at the control's
// parent and index, and highlights the parent.
func (e *Editor) ActivateInsertionControl(c InsertionControl) {
	e.actions.Dispatch(
		OpenFloatingInsertMenuAt(c.Parent, c.Index),
		SetHighlightedViews(c.Parent),
	)
}

// insertionControlAt finds the insertion button under p for a press.
func (e *Editor) insertionControlAt(p CanvasPoint) (InsertionControl, bool) {
	if len(e.subjects) > 0 {
		return InsertionControl{}, false
	}
	return InsertionControlAt(e.InsertionControls(), p, InsertionButtonSize/2/e.viewport.zoom())
}
