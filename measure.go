package utopia

// Measurer lays out an element tree from its props and reports the result as
// metadata, standing in for DOM measurement. It understands enough css for
// the built-in strategies: absolute positioning, flex rows and columns with a
// gap, and vertical block flow. Values held in Expressions measure as zero.
type Measurer struct {
	// Origin is where the storyboard's coordinate space starts.
	Origin CanvasPoint
}

// MeasuredSnapshot is a MetadataProvider over a measured tree.
type MeasuredSnapshot struct {
	MetadataMap MetadataMap
	Props       AllElementProps
}

// Metadata implements MetadataProvider.
func (s MeasuredSnapshot) Metadata() MetadataMap { return s.MetadataMap }

// AllElementProps implements MetadataProvider.
func (s MeasuredSnapshot) AllElementProps() AllElementProps { return s.Props }

// Measure measures every element of tree.
func (m Measurer) Measure(tree ElementTree) MeasuredSnapshot {
	var snap MeasuredSnapshot
	root := tree.Root()
	rootEl, ok := tree.Get(root)
	if !ok {
		return snap
	}
	snap.MetadataMap = snap.MetadataMap.With(ElementInstanceMetadata{
		ElementPath: root,
		SpecialSizeMeasurements: SpecialSizeMeasurements{
			Display:                           "block",
			LayoutSystemForChildren:           LayoutNone,
			ParentLayoutSystem:                LayoutNone,
			ProvidesBoundsForAbsoluteChildren: true,
		},
	})
	snap.Props = snap.Props.With(root, rootEl.Props)
	origin := CanvasRectangle{X: m.Origin.X, Y: m.Origin.Y}
	m.measureChildren(tree, root, origin, LayoutNone, FlexRow, 0, &snap)
	return snap
}

// MeasureTree measures tree with the storyboard at the canvas origin.
func MeasureTree(tree ElementTree) MeasuredSnapshot {
	return Measurer{}.Measure(tree)
}

func (m Measurer) measureChildren(tree ElementTree, parent ElementPath, frame CanvasRectangle, layout LayoutSystem, dir FlexDirection, gap float64, snap *MeasuredSnapshot) {
	// Reverse flex directions place the first child at the main-axis end.
	cursor := 0.0
	for _, c := range tree.Children(parent) {
		el, _ := tree.Get(c)
		props := el.Props
		pos := PositionStatic
		if s, ok := props.GetString(PropPosition); ok {
			pos = ParsePositionMode(s)
		}
		w, _ := props.GetNumber(PropWidth)
		h, _ := props.GetNumber(PropHeight)

		var global CanvasRectangle
		switch {
		case pos == PositionAbsolute || layout == LayoutNone:
			left, _ := props.GetNumber(PropLeft)
			top, _ := props.GetNumber(PropTop)
			global = CanvasRectangle{X: frame.X + left, Y: frame.Y + top, Width: w, Height: h}
		case layout == LayoutFlex && dir.IsHorizontal():
			global = CanvasRectangle{X: frame.X + cursor, Y: frame.Y, Width: w, Height: h}
			if dir.IsReverse() {
				global.X = frame.X + frame.Width - cursor - w
			}
			cursor += w + gap
		case layout == LayoutFlex:
			global = CanvasRectangle{X: frame.X, Y: frame.Y + cursor, Width: w, Height: h}
			if dir.IsReverse() {
				global.Y = frame.Y + frame.Height - cursor - h
			}
			cursor += h + gap
		default:
			if _, ok := props.GetNumber(PropWidth); !ok {
				w = frame.Width
			}
			global = CanvasRectangle{X: frame.X, Y: frame.Y + cursor, Width: w, Height: h}
			cursor += h
		}

		display, _ := props.GetString(PropDisplay)
		childLayout := LayoutFlow
		switch display {
		case "flex":
			childLayout = LayoutFlex
		case "grid":
			childLayout = LayoutGrid
		}
		flexDir := FlexRow
		if s, ok := props.GetString(PropFlexDir); ok {
			flexDir = ParseFlexDirection(s)
		}
		childGap, _ := props.GetNumber(PropGap)
		if display == "" {
			display = "block"
		}

		g := global
		local := global.RelativeTo(frame)
		parentBounds := frame
		computed := map[string]string{"display": display}
		if pos != PositionStatic {
			computed["position"] = positionKeyword(pos)
		}
		snap.MetadataMap = snap.MetadataMap.With(ElementInstanceMetadata{
			ElementPath:   c,
			GlobalFrame:   &g,
			LocalFrame:    &local,
			ComputedStyle: computed,
			SpecialSizeMeasurements: SpecialSizeMeasurements{
				Position:                          pos,
				Display:                           display,
				LayoutSystemForChildren:           childLayout,
				ParentLayoutSystem:                layout,
				FlexDirection:                     flexDir,
				ParentFlexDirection:               dir,
				Gap:                               childGap,
				ProvidesBoundsForAbsoluteChildren: pos != PositionStatic,
				ImmediateParentBounds:             &parentBounds,
			},
		})
		snap.Props = snap.Props.With(c, props)
		m.measureChildren(tree, c, global, childLayout, flexDir, childGap, snap)
	}
}

func positionKeyword(p PositionMode) string {
	switch p {
	case PositionRelative:
		return "relative"
	case PositionAbsolute:
		return "absolute"
	case PositionFixed:
		return "fixed"
	case PositionSticky:
		return "sticky"
	}
	return "static"
}
