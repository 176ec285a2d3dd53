package utopia

import (
	"fmt"
	"strings"
)

// debugLog logs at debug level when debug mode is on.
func (e *Editor) debugLog(msg string, args ...any) {
	if !e.debug {
		return
	}
	e.logger.Debug(msg, args...)
}

// debugMaxTreeDepth is the element nesting depth above which DebugReport
// warns.
const debugMaxTreeDepth = 64

// DebugReport renders a human-readable summary of the editor: the committed
// and transient trees, the live session and the active strategy. It is meant
// for test failures and the demo's overlay.
func (e *Editor) DebugReport() string {
	var b strings.Builder
	state := e.TransientState()
	fmt.Fprintf(&b, "elements: %d committed, %d transient\n", e.state.Tree.Len(), state.Tree.Len())
	fmt.Fprintf(&b, "selection: %s\n", joinPaths(state.Selection))
	if len(state.Highlighted) > 0 {
		fmt.Fprintf(&b, "highlighted: %s\n", joinPaths(state.Highlighted))
	}
	if s, ok := e.Session(); ok {
		switch d := s.InteractionData.(type) {
		case DragInteraction:
			if d.Drag != nil {
				fmt.Fprintf(&b, "drag: start=(%.1f,%.1f) delta=(%.1f,%.1f) mods=%d\n",
					d.DragStart.X, d.DragStart.Y, d.Drag.X, d.Drag.Y, d.Modifiers)
			} else {
				fmt.Fprintf(&b, "drag: start=(%.1f,%.1f) not moved\n", d.DragStart.X, d.DragStart.Y)
			}
		case KeyboardInteraction:
			fmt.Fprintf(&b, "keyboard: %d key states\n", len(d.KeyStates))
		}
	}
	if w, ok := e.ActiveStrategy(); ok {
		fmt.Fprintf(&b, "strategy: %s (fitness %g)\n", w.Strategy.Name(), w.Fitness)
	}
	for _, p := range state.Tree.Paths() {
		if p.Depth() > debugMaxTreeDepth {
			fmt.Fprintf(&b, "warning: %s is nested %d deep (threshold %d)\n", p, p.Depth(), debugMaxTreeDepth)
		}
	}
	return b.String()
}

func joinPaths(paths []ElementPath) string {
	if len(paths) == 0 {
		return "(none)"
	}
	parts := make([]string, len(paths))
	for i, p := range paths {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}
