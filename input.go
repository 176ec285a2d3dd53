package utopia

import "math"

// pointerState is the press/drag state machine of the primary pointer.
type pointerState struct {
	down      bool
	dragging  bool
	cancelled bool // escape pressed; ignore moves until release
	start     CanvasPoint
	last      CanvasPoint
	mods      KeyModifiers
}

// SetDragDeadZone sets the minimum movement in canvas pixels before a press
// becomes a drag.
func (e *Editor) SetDragDeadZone(pixels float64) {
	e.dragDeadZone = pixels
}

// ProcessPointer feeds one pointer sample, in screen coordinates, through the
// press / dead zone / drag / release state machine:
//
//   - press on an insertion button: open the insert menu and ignore the rest
//     of the press
//   - press: pick the control under the pointer (a resize handle of the
//     selection, or the bounding area), update the selection when pressing an
//     unselected element, and start a drag gesture with a nil drag vector
//   - move while pressed: once past the dead zone, update the drag
//   - release: commit when a drag happened, otherwise cancel
//   - move while released: dispatch hover highlights
func (e *Editor) ProcessPointer(screenX, screenY float64, pressed bool, mods KeyModifiers) {
	p := e.viewport.ScreenToCanvas(screenX, screenY)
	ps := &e.pointer

	switch {
	case pressed && !ps.down:
		*ps = pointerState{down: true, start: p, last: p, mods: mods}
		e.finishPrevious()
		if c, ok := e.insertionControlAt(p); ok {
			e.ActivateInsertionControl(c)
			ps.cancelled = true
			return
		}
		control := e.controlAt(p)
		if control.Kind == ControlBoundingArea && len(e.subjects) == 0 {
			e.selectAt(p, mods)
		}
		e.StartDrag(p, mods, control)

	case !pressed && ps.down:
		if ps.dragging && !ps.cancelled {
			e.UpdateDrag(p.Sub(ps.start), mods)
			e.EndInteraction()
		} else {
			e.CancelInteraction()
		}
		*ps = pointerState{last: p}

	case pressed && ps.down:
		if ps.cancelled {
			ps.last = p
			return
		}
		if p != ps.last || mods != ps.mods {
			if !ps.dragging && p.Sub(ps.start).Length() > e.dragDeadZone {
				ps.dragging = true
			}
			if ps.dragging {
				e.UpdateDrag(p.Sub(ps.start), mods)
			} else if mods != ps.mods {
				e.SetModifiers(mods)
			}
		}
		ps.last = p
		ps.mods = mods

	default:
		if p != ps.last {
			e.hover(p)
			ps.last = p
		}
	}
}

// Pressed reports whether the primary pointer is down.
func (e *Editor) Pressed() bool {
	return e.pointer.down
}

// controlAt returns the resize handle of a selected element under p, or the
// bounding area.
func (e *Editor) controlAt(p CanvasPoint) CanvasControl {
	if len(e.subjects) > 0 {
		return BoundingArea()
	}
	md, _ := e.snapshot()
	half := e.cfg.ResizeHandleSize / 2 / e.viewport.zoom()
	for _, sel := range e.state.Selection {
		frame, ok := md.Frame(sel)
		if !ok {
			continue
		}
		if edge, ok := handleAt(frame, p, half); ok {
			return ResizeHandle(edge)
		}
	}
	return BoundingArea()
}

// handleAt finds the resize handle of frame within radius of p. Corner
// handles take precedence over edge handles.
func handleAt(frame CanvasRectangle, p CanvasPoint, radius float64) (EdgePosition, bool) {
	edges := []EdgePosition{
		EdgeTopLeft, EdgeTopRight, EdgeBottomRight, EdgeBottomLeft,
		EdgeTop, EdgeRight, EdgeBottom, EdgeLeft,
	}
	for _, edge := range edges {
		hx := frame.X + frame.Width*edge.X
		hy := frame.Y + frame.Height*edge.Y
		if math.Abs(p.X-hx) <= radius && math.Abs(p.Y-hy) <= radius {
			return edge, true
		}
	}
	return EdgePosition{}, false
}

// selectAt selects the topmost element under p unless it is already
// selected. Shift extends the selection. Pressing empty canvas clears it.
func (e *Editor) selectAt(p CanvasPoint, mods KeyModifiers) {
	hit, ok := e.elementAt(p)
	if !ok {
		if len(e.state.Selection) > 0 && !mods.Has(ModShift) {
			e.state.Selection = nil
			e.actions.Dispatch(SelectComponents(false))
		}
		return
	}
	if ContainsPath(e.state.Selection, hit) {
		return
	}
	if mods.Has(ModShift) {
		e.state.Selection = append(clonePaths(e.state.Selection), hit)
		e.actions.Dispatch(SelectComponents(true, hit))
		return
	}
	e.state.Selection = []ElementPath{hit}
	e.actions.Dispatch(SelectComponents(false, hit))
}

// elementAt returns the topmost element under p, excluding the root.
func (e *Editor) elementAt(p CanvasPoint) (ElementPath, bool) {
	md, _ := e.snapshot()
	root := e.state.Tree.Root()
	for _, hit := range ElementsUnderPoint(e.state.Tree, md, p, nil) {
		if !hit.Equal(root) {
			return hit, true
		}
	}
	return ElementPath{}, false
}

// hover dispatches highlight changes as the pointer moves over elements.
func (e *Editor) hover(p CanvasPoint) {
	hit, ok := e.elementAt(p)
	switch {
	case ok && !hit.Equal(e.hovered):
		e.hovered = hit
		e.actions.Dispatch(SetHighlightedViews(hit))
	case !ok && !e.hovered.IsEmpty():
		e.hovered = ElementPath{}
		e.actions.Dispatch(ClearHighlightedViews())
	}
}

// Hovered returns the element under the pointer while no button is held.
func (e *Editor) Hovered() (ElementPath, bool) {
	return e.hovered, !e.hovered.IsEmpty()
}
