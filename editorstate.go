package utopia

import "fmt"

// CursorKind is the canvas cursor requested by the active interaction.
type CursorKind uint8

const (
	CursorDefault CursorKind = iota
	CursorMove
	CursorResizeEW
	CursorResizeNS
	CursorResizeNWSE
	CursorResizeNESW
	CursorReparent
	CursorNotPermitted
)

// EditorState is the slice of editor state the interaction engine reads and
// produces. It is a value: every update returns a new EditorState and the
// element tree is structurally shared between versions.
type EditorState struct {
	Tree        ElementTree
	Selection   []ElementPath
	Highlighted []ElementPath
	Cursor      CursorKind
}

// NewEditorState creates a state holding tree with nothing selected.
func NewEditorState(tree ElementTree) EditorState {
	return EditorState{Tree: tree}
}

// PatchOp identifies the kind of an EditorStatePatch.
type PatchOp uint8

const (
	PatchInsertElement PatchOp = iota // insert Element under Parent at Index
	PatchRemoveElement                // remove the subtree at Path
	PatchMoveElement                  // move Path under Parent at Index
	PatchSetProp                      // set Prop of Path to Value
	PatchDeleteProp                   // delete Prop of Path
	PatchSetSelection                 // replace the selection with Paths
	PatchSetHighlights                // replace the highlighted views with Paths
	PatchSetCursor                    // set the canvas cursor
)

func (op PatchOp) String() string {
	switch op {
	case PatchInsertElement:
		return "insert-element"
	case PatchRemoveElement:
		return "remove-element"
	case PatchMoveElement:
		return "move-element"
	case PatchSetProp:
		return "set-prop"
	case PatchDeleteProp:
		return "delete-prop"
	case PatchSetSelection:
		return "set-selection"
	case PatchSetHighlights:
		return "set-highlights"
	case PatchSetCursor:
		return "set-cursor"
	default:
		return fmt.Sprintf("patch(%d)", uint8(op))
	}
}

// EditorStatePatch is one structural edit of EditorState. Commands compile
// to patches; patches are what the store applies.
type EditorStatePatch struct {
	Op      PatchOp
	Path    ElementPath
	Parent  ElementPath
	Index   int
	Element Element
	Prop    PropertyPath
	Value   any
	Paths   []ElementPath
	Cursor  CursorKind
}

// ApplyPatch returns the state with p applied. The receiver is not modified.
func (s EditorState) ApplyPatch(p EditorStatePatch) (EditorState, error) {
	switch p.Op {
	case PatchInsertElement:
		tree, err := s.Tree.Insert(p.Parent, p.Element, p.Index)
		if err != nil {
			return s, err
		}
		s.Tree = tree
	case PatchRemoveElement:
		tree, err := s.Tree.Remove(p.Path)
		if err != nil {
			return s, err
		}
		s.Tree = tree
		s.Selection = withoutSubtree(s.Selection, p.Path)
		s.Highlighted = withoutSubtree(s.Highlighted, p.Path)
	case PatchMoveElement:
		tree, newPath, err := s.Tree.Move(p.Path, p.Parent, p.Index)
		if err != nil {
			return s, err
		}
		s.Tree = tree
		s.Selection = rebaseAll(s.Selection, p.Path, newPath)
		s.Highlighted = rebaseAll(s.Highlighted, p.Path, newPath)
	case PatchSetProp, PatchDeleteProp:
		el, ok := s.Tree.Get(p.Path)
		if !ok {
			return s, fmt.Errorf("%s %s on %s: %w", p.Op, p.Prop, p.Path, ErrElementNotFound)
		}
		props := el.Props
		if p.Op == PatchSetProp {
			updated, err := props.Set(p.Prop, p.Value)
			if err != nil {
				return s, fmt.Errorf("%s on %s: %w", p.Op, p.Path, err)
			}
			props = updated
		} else {
			props = props.Delete(p.Prop)
		}
		tree, err := s.Tree.SetProps(p.Path, props)
		if err != nil {
			return s, err
		}
		s.Tree = tree
	case PatchSetSelection:
		s.Selection = clonePaths(p.Paths)
	case PatchSetHighlights:
		s.Highlighted = clonePaths(p.Paths)
	case PatchSetCursor:
		s.Cursor = p.Cursor
	default:
		return s, fmt.Errorf("apply patch: unknown op %s", p.Op)
	}
	return s, nil
}

// ApplyPatches applies patches in order, stopping at the first error.
func (s EditorState) ApplyPatches(patches []EditorStatePatch) (EditorState, error) {
	for i, p := range patches {
		next, err := s.ApplyPatch(p)
		if err != nil {
			return s, fmt.Errorf("patch %d: %w", i, err)
		}
		s = next
	}
	return s, nil
}

func clonePaths(paths []ElementPath) []ElementPath {
	if paths == nil {
		return nil
	}
	return append([]ElementPath(nil), paths...)
}

func rebaseAll(paths []ElementPath, from, to ElementPath) []ElementPath {
	if len(paths) == 0 {
		return paths
	}
	out := make([]ElementPath, len(paths))
	for i, p := range paths {
		out[i] = p.Rebase(from, to)
	}
	return out
}

func withoutSubtree(paths []ElementPath, root ElementPath) []ElementPath {
	if len(paths) == 0 {
		return paths
	}
	out := make([]ElementPath, 0, len(paths))
	for _, p := range paths {
		if !p.IsDescendantOrEqual(root) {
			out = append(out, p)
		}
	}
	return out
}
