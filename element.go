package utopia

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/xiaq/persistent/hash"
	"github.com/xiaq/persistent/hashmap"
)

// Errors returned by tree operations and command folding.
var (
	ErrElementNotFound  = errors.New("element not found")
	ErrDuplicateElement = errors.New("element already exists")
	ErrInvalidMove      = errors.New("invalid move")
)

// Element is one JSX element in the editor's model of the source. Children
// holds child UIDs in render order. Elements are values; trees never hand out
// references that could be mutated in place.
type Element struct {
	UID      string
	Name     string
	Props    Props
	Children []string
}

func (e Element) clone() Element {
	e.Children = append([]string(nil), e.Children...)
	return e
}

func newStringMap() hashmap.Map {
	return hashmap.New(
		func(a, b any) bool { return a.(string) == b.(string) },
		func(k any) uint32 { return hash.String(k.(string)) },
	)
}

// ElementTree is a persistent element tree keyed by path string. Updates
// return a new tree that shares every untouched element with the old one, so
// snapshots taken at gesture start stay valid however many previews are
// folded on top of them.
type ElementTree struct {
	root  ElementPath
	nodes hashmap.Map
}

// NewElementTree creates a tree containing only the root (storyboard) element.
func NewElementTree(root Element) ElementTree {
	root = root.clone()
	root.Children = nil
	path := NewElementPath([]string{root.UID})
	return ElementTree{root: path, nodes: newStringMap().Assoc(path.String(), root)}
}

// Root returns the path of the root element.
func (t ElementTree) Root() ElementPath {
	return t.root
}

// Len returns the number of elements, including the root.
func (t ElementTree) Len() int {
	if t.nodes == nil {
		return 0
	}
	return t.nodes.Len()
}

// Get returns the element at path.
func (t ElementTree) Get(path ElementPath) (Element, bool) {
	if t.nodes == nil {
		return Element{}, false
	}
	v, ok := t.nodes.Index(path.String())
	if !ok {
		return Element{}, false
	}
	return v.(Element).clone(), true
}

// Has reports whether an element exists at path.
func (t ElementTree) Has(path ElementPath) bool {
	if t.nodes == nil {
		return false
	}
	return hashmap.HasKey(t.nodes, path.String())
}

// Children returns the paths of the children of path, in order.
func (t ElementTree) Children(path ElementPath) []ElementPath {
	el, ok := t.Get(path)
	if !ok {
		return nil
	}
	out := make([]ElementPath, len(el.Children))
	for i, uid := range el.Children {
		out[i] = path.AppendToPath(uid)
	}
	return out
}

// IndexOf returns the position of path among its siblings, or -1.
func (t ElementTree) IndexOf(path ElementPath) int {
	parent, ok := t.Get(path.Parent())
	if !ok {
		return -1
	}
	uid := path.LastID()
	for i, c := range parent.Children {
		if c == uid {
			return i
		}
	}
	return -1
}

// Insert adds el as a child of parent at index (negative or past-the-end
// appends). el must not carry children; build subtrees with repeated inserts.
func (t ElementTree) Insert(parent ElementPath, el Element, index int) (ElementTree, error) {
	p, ok := t.Get(parent)
	if !ok {
		return t, fmt.Errorf("insert %s into %s: %w", el.UID, parent, ErrElementNotFound)
	}
	if el.UID == "" {
		return t, fmt.Errorf("insert into %s: empty uid", parent)
	}
	if len(el.Children) > 0 {
		return t, fmt.Errorf("insert %s: element must not carry children", el.UID)
	}
	path := parent.AppendToPath(el.UID)
	if t.Has(path) {
		return t, fmt.Errorf("insert %s: %w", path, ErrDuplicateElement)
	}
	p.Children = insertAt(p.Children, el.UID, index)
	nodes := t.nodes.Assoc(parent.String(), p).Assoc(path.String(), el.clone())
	return ElementTree{root: t.root, nodes: nodes}, nil
}

// Remove deletes the element at path together with its subtree.
func (t ElementTree) Remove(path ElementPath) (ElementTree, error) {
	if path.Equal(t.root) {
		return t, fmt.Errorf("remove %s: cannot remove root", path)
	}
	if !t.Has(path) {
		return t, fmt.Errorf("remove %s: %w", path, ErrElementNotFound)
	}
	parentPath := path.Parent()
	parent, _ := t.Get(parentPath)
	parent.Children = removeValue(parent.Children, path.LastID())
	nodes := t.nodes.Assoc(parentPath.String(), parent)
	for _, p := range t.subtree(path) {
		nodes = nodes.Dissoc(p.String())
	}
	return ElementTree{root: t.root, nodes: nodes}, nil
}

// Move reparents the subtree at path under newParent at index. When the
// parent does not change the index is interpreted against the sibling list
// without the moved element. Returns the element's new path.
func (t ElementTree) Move(path, newParent ElementPath, index int) (ElementTree, ElementPath, error) {
	if path.Equal(t.root) {
		return t, path, fmt.Errorf("move %s: cannot move root: %w", path, ErrInvalidMove)
	}
	if !t.Has(path) {
		return t, path, fmt.Errorf("move %s: %w", path, ErrElementNotFound)
	}
	if !t.Has(newParent) {
		return t, path, fmt.Errorf("move %s to %s: %w", path, newParent, ErrElementNotFound)
	}
	if newParent.IsDescendantOrEqual(path) {
		return t, path, fmt.Errorf("move %s into its own subtree: %w", path, ErrInvalidMove)
	}
	uid := path.LastID()
	target := newParent.AppendToPath(uid)
	oldParentPath := path.Parent()

	if oldParentPath.Equal(newParent) {
		parent, _ := t.Get(oldParentPath)
		parent.Children = insertAt(removeValue(parent.Children, uid), uid, index)
		return ElementTree{root: t.root, nodes: t.nodes.Assoc(newParent.String(), parent)}, path, nil
	}
	if t.Has(target) {
		return t, path, fmt.Errorf("move %s to %s: %w", path, newParent, ErrDuplicateElement)
	}

	oldParent, _ := t.Get(oldParentPath)
	oldParent.Children = removeValue(oldParent.Children, uid)
	nodes := t.nodes.Assoc(oldParentPath.String(), oldParent)

	sub := t.subtree(path)
	moved := make([]Element, len(sub))
	for i, p := range sub {
		el, _ := t.Get(p)
		moved[i] = el
		nodes = nodes.Dissoc(p.String())
	}
	for i, p := range sub {
		nodes = nodes.Assoc(p.Rebase(path, target).String(), moved[i])
	}

	np, _ := nodesGet(nodes, newParent)
	np.Children = insertAt(np.Children, uid, index)
	nodes = nodes.Assoc(newParent.String(), np)
	return ElementTree{root: t.root, nodes: nodes}, target, nil
}

// SetProps replaces the props of the element at path.
func (t ElementTree) SetProps(path ElementPath, props Props) (ElementTree, error) {
	el, ok := t.Get(path)
	if !ok {
		return t, fmt.Errorf("set props on %s: %w", path, ErrElementNotFound)
	}
	el.Props = props
	return ElementTree{root: t.root, nodes: t.nodes.Assoc(path.String(), el)}, nil
}

// Paths returns every path in depth-first render (painter) order: a parent
// precedes its children and later siblings paint over earlier ones.
func (t ElementTree) Paths() []ElementPath {
	if t.nodes == nil {
		return nil
	}
	return t.subtree(t.root)
}

// Walk calls fn for each element in painter order.
func (t ElementTree) Walk(fn func(path ElementPath, el Element)) {
	for _, p := range t.Paths() {
		el, _ := t.Get(p)
		fn(p, el)
	}
}

// Equal reports whether both trees hold the same elements in the same order.
// Used by go-cmp.
func (t ElementTree) Equal(o ElementTree) bool {
	if !t.root.Equal(o.root) || t.Len() != o.Len() {
		return false
	}
	if t.nodes == nil {
		return true
	}
	for it := t.nodes.Iterator(); it.HasElem(); it.Next() {
		k, v := it.Elem()
		ov, ok := o.nodes.Index(k)
		if !ok || !elementsEqual(v.(Element), ov.(Element)) {
			return false
		}
	}
	return true
}

func (t ElementTree) subtree(path ElementPath) []ElementPath {
	out := []ElementPath{path}
	for _, c := range t.Children(path) {
		out = append(out, t.subtree(c)...)
	}
	return out
}

func nodesGet(nodes hashmap.Map, path ElementPath) (Element, bool) {
	v, ok := nodes.Index(path.String())
	if !ok {
		return Element{}, false
	}
	return v.(Element).clone(), true
}

func elementsEqual(a, b Element) bool {
	if a.UID != b.UID || a.Name != b.Name || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if a.Children[i] != b.Children[i] {
			return false
		}
	}
	return valuesEqual(map[string]any(a.Props), map[string]any(b.Props))
}

func valuesEqual(a, b any) bool {
	am, aok := asMap(a)
	bm, bok := asMap(b)
	if aok || bok {
		if !aok || !bok || len(am) != len(bm) {
			return false
		}
		for k, v := range am {
			w, ok := bm[k]
			if !ok || !valuesEqual(v, w) {
				return false
			}
		}
		return true
	}
	if an, ok := toNumber(a); ok {
		bn, ok := toNumber(b)
		return ok && an == bn
	}
	return reflect.DeepEqual(a, b)
}

func insertAt(s []string, v string, index int) []string {
	out := make([]string, 0, len(s)+1)
	if index < 0 || index > len(s) {
		index = len(s)
	}
	out = append(out, s[:index]...)
	out = append(out, v)
	return append(out, s[index:]...)
}

func removeValue(s []string, v string) []string {
	out := make([]string, 0, len(s))
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
