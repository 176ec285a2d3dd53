package utopia

import (
	"fmt"
	"strings"
)

// WhenToRun is the lifecycle tag of a command.
type WhenToRun uint8

const (
	RunAlways        WhenToRun = iota // every fold: previews and the commit
	RunTransientOnly                  // previews only (mid-interaction)
	RunPermanentOnly                  // the commit only (end of interaction)
)

func (w WhenToRun) String() string {
	switch w {
	case RunTransientOnly:
		return "mid-interaction"
	case RunPermanentOnly:
		return "on-complete"
	default:
		return "always"
	}
}

// runsIn reports whether a command tagged w participates in a fold for the
// given lifecycle.
func (w WhenToRun) runsIn(l InteractionLifecycle) bool {
	switch w {
	case RunTransientOnly:
		return l == LifecycleMidInteraction
	case RunPermanentOnly:
		return l == LifecycleEndInteraction
	default:
		return true
	}
}

// Command is one atomic edit instruction. The set of commands is closed:
// every command compiles to EditorStatePatches against the state folded so
// far. Commands are plain values; running one never mutates it.
type Command interface {
	Type() string
	WhenToRun() WhenToRun
	run(state EditorState, lifecycle InteractionLifecycle) ([]EditorStatePatch, error)
}

// InsertElementInsertionSubject inserts the element described by Subject.
type InsertElementInsertionSubject struct {
	When    WhenToRun
	Subject InsertionSubject
}

func (c InsertElementInsertionSubject) Type() string         { return "INSERT_ELEMENT_INSERTION_SUBJECT" }
func (c InsertElementInsertionSubject) WhenToRun() WhenToRun { return c.When }

func (c InsertElementInsertionSubject) run(state EditorState, _ InteractionLifecycle) ([]EditorStatePatch, error) {
	parent := c.Subject.ParentOr(state.Tree.Root())
	if !state.Tree.Has(parent) {
		return nil, fmt.Errorf("insert %s: parent %s: %w", c.Subject.UID, parent, ErrElementNotFound)
	}
	el := c.Subject.Element
	el.UID = c.Subject.UID
	el.Children = nil
	return []EditorStatePatch{{
		Op:      PatchInsertElement,
		Parent:  parent,
		Index:   c.Subject.Index,
		Element: el,
	}}, nil
}

// SetProperty sets a single prop to a literal value.
type SetProperty struct {
	When   WhenToRun
	Target ElementPath
	Prop   PropertyPath
	Value  any
}

func (c SetProperty) Type() string         { return "SET_PROPERTY" }
func (c SetProperty) WhenToRun() WhenToRun { return c.When }

func (c SetProperty) run(state EditorState, _ InteractionLifecycle) ([]EditorStatePatch, error) {
	if !state.Tree.Has(c.Target) {
		return nil, fmt.Errorf("set %s on %s: %w", c.Prop, c.Target, ErrElementNotFound)
	}
	return []EditorStatePatch{{Op: PatchSetProp, Path: c.Target, Prop: c.Prop, Value: c.Value}}, nil
}

// DeleteProperties removes props. Missing props are ignored.
type DeleteProperties struct {
	When   WhenToRun
	Target ElementPath
	Props  []PropertyPath
}

func (c DeleteProperties) Type() string         { return "DELETE_PROPERTIES" }
func (c DeleteProperties) WhenToRun() WhenToRun { return c.When }

func (c DeleteProperties) run(state EditorState, _ InteractionLifecycle) ([]EditorStatePatch, error) {
	el, ok := state.Tree.Get(c.Target)
	if !ok {
		return nil, fmt.Errorf("delete props on %s: %w", c.Target, ErrElementNotFound)
	}
	var patches []EditorStatePatch
	for _, p := range c.Props {
		if _, present := el.Props.Get(p); present {
			patches = append(patches, EditorStatePatch{Op: PatchDeleteProp, Path: c.Target, Prop: p})
		}
	}
	return patches, nil
}

// SetCSSLength sets a numeric css length prop. It refuses to overwrite an
// Expression.
type SetCSSLength struct {
	When   WhenToRun
	Target ElementPath
	Prop   PropertyPath
	Value  float64
}

func (c SetCSSLength) Type() string         { return "SET_CSS_LENGTH_PROPERTY" }
func (c SetCSSLength) WhenToRun() WhenToRun { return c.When }

func (c SetCSSLength) run(state EditorState, _ InteractionLifecycle) ([]EditorStatePatch, error) {
	el, ok := state.Tree.Get(c.Target)
	if !ok {
		return nil, fmt.Errorf("set %s on %s: %w", c.Prop, c.Target, ErrElementNotFound)
	}
	if cur, present := el.Props.Get(c.Prop); present {
		if _, isExpr := cur.(Expression); isExpr {
			return nil, fmt.Errorf("set %s on %s: %w", c.Prop, c.Target, ErrLayoutWriteRejected)
		}
	}
	return []EditorStatePatch{{Op: PatchSetProp, Path: c.Target, Prop: c.Prop, Value: c.Value}}, nil
}

// AdjustCSSLength adds Delta to a numeric prop. A missing prop starts from
// Fallback.
type AdjustCSSLength struct {
	When     WhenToRun
	Target   ElementPath
	Prop     PropertyPath
	Delta    float64
	Fallback float64
}

func (c AdjustCSSLength) Type() string         { return "ADJUST_CSS_LENGTH_PROPERTY" }
func (c AdjustCSSLength) WhenToRun() WhenToRun { return c.When }

func (c AdjustCSSLength) run(state EditorState, _ InteractionLifecycle) ([]EditorStatePatch, error) {
	el, ok := state.Tree.Get(c.Target)
	if !ok {
		return nil, fmt.Errorf("adjust %s on %s: %w", c.Prop, c.Target, ErrElementNotFound)
	}
	base := c.Fallback
	if cur, present := el.Props.Get(c.Prop); present {
		n, isNum := toNumber(cur)
		if !isNum {
			return nil, fmt.Errorf("adjust %s on %s: not a number: %w", c.Prop, c.Target, ErrLayoutWriteRejected)
		}
		base = n
	}
	return []EditorStatePatch{{Op: PatchSetProp, Path: c.Target, Prop: c.Prop, Value: base + c.Delta}}, nil
}

// ReparentElement moves Target under NewParent at Index (-1 appends).
type ReparentElement struct {
	When      WhenToRun
	Target    ElementPath
	NewParent ElementPath
	Index     int
}

func (c ReparentElement) Type() string         { return "REPARENT_ELEMENT" }
func (c ReparentElement) WhenToRun() WhenToRun { return c.When }

func (c ReparentElement) run(state EditorState, _ InteractionLifecycle) ([]EditorStatePatch, error) {
	if !state.Tree.Has(c.Target) {
		return nil, fmt.Errorf("reparent %s: %w", c.Target, ErrElementNotFound)
	}
	return []EditorStatePatch{{Op: PatchMoveElement, Path: c.Target, Parent: c.NewParent, Index: c.Index}}, nil
}

// UpdateSelectedViews replaces the selection.
type UpdateSelectedViews struct {
	When  WhenToRun
	Paths []ElementPath
}

func (c UpdateSelectedViews) Type() string         { return "UPDATE_SELECTED_VIEWS" }
func (c UpdateSelectedViews) WhenToRun() WhenToRun { return c.When }

func (c UpdateSelectedViews) run(EditorState, InteractionLifecycle) ([]EditorStatePatch, error) {
	return []EditorStatePatch{{Op: PatchSetSelection, Paths: clonePaths(c.Paths)}}, nil
}

// HighlightElements replaces the highlighted views (reparent targets, drop
// indicators).
type HighlightElements struct {
	When  WhenToRun
	Paths []ElementPath
}

func (c HighlightElements) Type() string         { return "HIGHLIGHT_ELEMENTS" }
func (c HighlightElements) WhenToRun() WhenToRun { return c.When }

func (c HighlightElements) run(EditorState, InteractionLifecycle) ([]EditorStatePatch, error) {
	return []EditorStatePatch{{Op: PatchSetHighlights, Paths: clonePaths(c.Paths)}}, nil
}

// SetCursor sets the canvas cursor.
type SetCursor struct {
	When   WhenToRun
	Cursor CursorKind
}

func (c SetCursor) Type() string         { return "SET_CURSOR" }
func (c SetCursor) WhenToRun() WhenToRun { return c.When }

func (c SetCursor) run(EditorState, InteractionLifecycle) ([]EditorStatePatch, error) {
	return []EditorStatePatch{{Op: PatchSetCursor, Cursor: c.Cursor}}, nil
}

// UpdateFunction defers work until the fold reaches it: Fn receives the state
// produced by every earlier command of the same fold and returns the patches
// to apply next. Fn must be deterministic in its inputs.
type UpdateFunction struct {
	When WhenToRun
	Name string
	Fn   func(state EditorState, lifecycle InteractionLifecycle) []EditorStatePatch
}

func (c UpdateFunction) Type() string         { return "UPDATE_FUNCTION" }
func (c UpdateFunction) WhenToRun() WhenToRun { return c.When }

func (c UpdateFunction) run(state EditorState, lifecycle InteractionLifecycle) ([]EditorStatePatch, error) {
	if c.Fn == nil {
		return nil, nil
	}
	return c.Fn(state, lifecycle), nil
}

// DescribeCommands renders a one-line summary of a command list, used in
// debug logs.
func DescribeCommands(cmds []Command) string {
	parts := make([]string, len(cmds))
	for i, c := range cmds {
		parts[i] = fmt.Sprintf("%s[%s]", c.Type(), c.WhenToRun())
	}
	return strings.Join(parts, ", ")
}
