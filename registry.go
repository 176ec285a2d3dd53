package utopia

import "fmt"

// DefaultStrategies returns the built-in strategies in registry order. The
// order matters: equally fit strategies are resolved in favour of the earlier
// one.
func DefaultStrategies() []Strategy {
	return []Strategy{
		DragToInsertStrategy(),
		FlexReparentStrategy(),
		AbsoluteReparentStrategy(),
		FlexReorderStrategy(),
		AbsoluteMoveStrategy(),
		AbsoluteResizeStrategy(),
		KeyboardAbsoluteMoveStrategy(),
		KeyboardAbsoluteResizeStrategy(),
	}
}

// StrategiesByID builds a registry from ids, in the given order. Unknown ids
// are an error.
func StrategiesByID(ids []StrategyID) ([]Strategy, error) {
	all := make(map[StrategyID]Strategy)
	for _, s := range DefaultStrategies() {
		all[s.ID()] = s
	}
	out := make([]Strategy, 0, len(ids))
	seen := make(map[StrategyID]bool, len(ids))
	for _, id := range ids {
		s, ok := all[id]
		if !ok {
			return nil, fmt.Errorf("unknown strategy %q", id)
		}
		if seen[id] {
			return nil, fmt.Errorf("strategy %q listed twice", id)
		}
		seen[id] = true
		out = append(out, s)
	}
	return out, nil
}

// activeDrag returns the drag of a session whose pointer has moved.
func activeDrag(session InteractionSession) (DragInteraction, CanvasVector, bool) {
	d, ok := session.Drag()
	if !ok || d.Drag == nil {
		return DragInteraction{}, CanvasVector{}, false
	}
	return d, *d.Drag, true
}

func isBoundingAreaDrag(session InteractionSession) bool {
	_, ok := session.Drag()
	return ok && session.ActiveControl.Kind == ControlBoundingArea
}

// topLevelPaths drops every path that lies inside another path of the list.
func topLevelPaths(paths []ElementPath) []ElementPath {
	out := make([]ElementPath, 0, len(paths))
	for i, p := range paths {
		nested := false
		for j, q := range paths {
			if i != j && p.IsDescendantOf(q) {
				nested = true
				break
			}
		}
		if !nested && !ContainsPath(out, p) {
			out = append(out, p)
		}
	}
	return out
}

// anyExpression reports whether any of props on path holds an Expression.
func anyExpression(tree ElementTree, path ElementPath, props ...PropertyPath) bool {
	el, ok := tree.Get(path)
	if !ok {
		return false
	}
	for _, p := range props {
		if v, present := el.Props.Get(p); present {
			if _, isExpr := v.(Expression); isExpr {
				return true
			}
		}
	}
	return false
}

func targetsMovable(cs CanvasState, md MetadataMap, props ...PropertyPath) bool {
	paths := cs.Target.Paths
	if len(paths) == 0 {
		return false
	}
	for _, p := range paths {
		if p.Equal(cs.Tree.Root()) || !IsAbsolutelyPositioned(cs.Tree, md, p) || anyExpression(cs.Tree, p, props...) {
			return false
		}
	}
	return true
}

func parentsOf(paths []ElementPath) []ElementPath {
	out := make([]ElementPath, 0, len(paths))
	for _, p := range paths {
		if parent := p.Parent(); !ContainsPath(out, parent) {
			out = append(out, parent)
		}
	}
	return out
}

func cursorForEdge(edge EdgePosition) CursorKind {
	switch {
	case edge == EdgeTopLeft || edge == EdgeBottomRight:
		return CursorResizeNWSE
	case edge == EdgeTopRight || edge == EdgeBottomLeft:
		return CursorResizeNESW
	case edge.X == 0.5:
		return CursorResizeNS
	default:
		return CursorResizeEW
	}
}
