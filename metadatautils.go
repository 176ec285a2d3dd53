package utopia

// ElementsUnderPoint returns the elements of tree whose measured global frame
// contains point, topmost first (reverse painter order). Elements without a
// frame, and elements under any path in exclude, are skipped.
func ElementsUnderPoint(tree ElementTree, md MetadataMap, point CanvasPoint, exclude []ElementPath) []ElementPath {
	paths := tree.Paths()
	var out []ElementPath
	for i := len(paths) - 1; i >= 0; i-- {
		p := paths[i]
		if underAny(p, exclude) {
			continue
		}
		frame, ok := md.Frame(p)
		if !ok || !frame.Contains(point) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func underAny(p ElementPath, roots []ElementPath) bool {
	for _, r := range roots {
		if p.IsDescendantOrEqual(r) {
			return true
		}
	}
	return false
}

// IsFlexContainer reports whether path lays out its children with flexbox.
func IsFlexContainer(md MetadataMap, path ElementPath) bool {
	m, ok := md.Get(path)
	return ok && m.SpecialSizeMeasurements.LayoutSystemForChildren == LayoutFlex
}

// ProvidesBoundsForAbsoluteChildren reports whether absolutely positioned
// children of path are positioned relative to it.
func ProvidesBoundsForAbsoluteChildren(md MetadataMap, path ElementPath) bool {
	m, ok := md.Get(path)
	return ok && m.SpecialSizeMeasurements.ProvidesBoundsForAbsoluteChildren
}

// IsAbsolutelyPositioned reports whether path is absolutely positioned,
// reading the metadata first and falling back to the element's props.
func IsAbsolutelyPositioned(tree ElementTree, md MetadataMap, path ElementPath) bool {
	if m, ok := md.Get(path); ok {
		return m.SpecialSizeMeasurements.Position == PositionAbsolute
	}
	el, ok := tree.Get(path)
	if !ok {
		return false
	}
	pos, _ := el.Props.GetString(PropPosition)
	return pos == "absolute"
}

// ParentFrame returns the frame absolute children of path are positioned
// against. The root, and anything without a measured parent, uses the canvas
// origin.
func ParentFrame(md MetadataMap, path ElementPath) CanvasRectangle {
	if m, ok := md.Get(path); ok && m.SpecialSizeMeasurements.ImmediateParentBounds != nil {
		return *m.SpecialSizeMeasurements.ImmediateParentBounds
	}
	if f, ok := md.Frame(path.Parent()); ok {
		return f
	}
	return CanvasRectangle{}
}

// LocalFrame returns the frame of path in its parent's coordinate space. The
// element's left/top/width/height props win; missing values come from the
// measured global frame.
func LocalFrame(tree ElementTree, md MetadataMap, path ElementPath) (CanvasRectangle, bool) {
	var measured CanvasRectangle
	hasMeasured := false
	if g, ok := md.Frame(path); ok {
		measured = g.RelativeTo(ParentFrame(md, path))
		hasMeasured = true
	}
	el, ok := tree.Get(path)
	if !ok {
		return measured, hasMeasured
	}
	out := measured
	fields := []struct {
		prop PropertyPath
		dst  *float64
	}{
		{PropLeft, &out.X}, {PropTop, &out.Y}, {PropWidth, &out.Width}, {PropHeight, &out.Height},
	}
	found := hasMeasured
	for _, f := range fields {
		if n, ok := el.Props.GetNumber(f.prop); ok {
			*f.dst = n
			found = true
		}
	}
	return out, found
}

// ReparentTarget is where a dragged element would be dropped.
type ReparentTarget struct {
	Parent ElementPath
	// Index among the new parent's children; -1 appends.
	Index  int
	Layout LayoutSystem
}

// FindReparentTarget picks the container under point that would receive the
// dragged targets. Targets and their descendants are never candidates. When
// the topmost candidate is one of cs.ParentsToFilterOut no target is found, so
// dragging over an element's own parent keeps it there. With nothing under the
// pointer the root is the candidate.
func FindReparentTarget(cs CanvasState, md MetadataMap, point CanvasPoint, targets []ElementPath) (ReparentTarget, bool) {
	candidate := cs.Tree.Root()
	for _, p := range ElementsUnderPoint(cs.Tree, md, point, targets) {
		if IsFlexContainer(md, p) || ProvidesBoundsForAbsoluteChildren(md, p) {
			candidate = p
			break
		}
	}
	if ContainsPath(cs.ParentsToFilterOut, candidate) {
		return ReparentTarget{}, false
	}
	for _, t := range targets {
		if candidate.IsDescendantOrEqual(t) {
			return ReparentTarget{}, false
		}
	}
	target := ReparentTarget{Parent: candidate, Index: -1, Layout: LayoutNone}
	if m, ok := md.Get(candidate); ok {
		target.Layout = m.SpecialSizeMeasurements.LayoutSystemForChildren
	}
	if target.Layout == LayoutFlex {
		target.Index = FlexInsertionIndex(cs.Tree, md, candidate, point, targets)
	}
	return target, true
}

// FlexInsertionIndex returns where an element dropped at point would land
// among the children of the flex container parent, ignoring exclude. The
// index counts the siblings whose center lies before point on the main axis.
func FlexInsertionIndex(tree ElementTree, md MetadataMap, parent ElementPath, point CanvasPoint, exclude []ElementPath) int {
	dir := FlexRow
	if m, ok := md.Get(parent); ok {
		dir = m.SpecialSizeMeasurements.FlexDirection
	}
	index := 0
	for _, c := range tree.Children(parent) {
		if ContainsPath(exclude, c) {
			continue
		}
		frame, ok := md.Frame(c)
		if !ok {
			continue
		}
		center := frame.Center()
		var before bool
		if dir.IsHorizontal() {
			before = center.X < point.X
		} else {
			before = center.Y < point.Y
		}
		if dir.IsReverse() {
			before = !before
		}
		if before {
			index++
		}
	}
	return index
}

// DragPointer returns the current pointer position of a drag, or false if the
// pointer has not moved.
func DragPointer(d DragInteraction) (CanvasPoint, bool) {
	if d.Drag == nil {
		return CanvasPoint{}, false
	}
	return d.DragStart.Add(*d.Drag), true
}
