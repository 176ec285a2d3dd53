package utopia

import (
	"fmt"
	"strings"
)

const (
	pathIDSeparator   = "/"
	pathPartSeparator = ":"
)

// ElementPath locates an element in the project tree. A path is a list of
// parts; each part is the chain of element ids inside one component instance.
// The zero value is the empty path. Paths are immutable: every method returns
// a new path and never aliases the receiver's storage.
type ElementPath struct {
	parts [][]string
}

// NewElementPath builds a path from its parts. Empty parts are dropped.
func NewElementPath(parts ...[]string) ElementPath {
	var p ElementPath
	for _, part := range parts {
		if len(part) == 0 {
			continue
		}
		p.parts = append(p.parts, append([]string(nil), part...))
	}
	return p
}

// ParsePath parses the string form produced by String.
func ParsePath(s string) (ElementPath, error) {
	if s == "" {
		return ElementPath{}, nil
	}
	var p ElementPath
	for _, rawPart := range strings.Split(s, pathPartSeparator) {
		ids := strings.Split(rawPart, pathIDSeparator)
		for _, id := range ids {
			if id == "" {
				return ElementPath{}, fmt.Errorf("parse path %q: empty element id", s)
			}
		}
		p.parts = append(p.parts, ids)
	}
	return p, nil
}

// MustParsePath is like ParsePath but panics on malformed input. Intended for
// tests and static paths.
func MustParsePath(s string) ElementPath {
	p, err := ParsePath(s)
	if err != nil {
		panic("utopia: " + err.Error())
	}
	return p
}

// String returns the canonical string form, which is also the map key used by
// metadata and element trees.
func (p ElementPath) String() string {
	var b strings.Builder
	for i, part := range p.parts {
		if i > 0 {
			b.WriteString(pathPartSeparator)
		}
		b.WriteString(strings.Join(part, pathIDSeparator))
	}
	return b.String()
}

// Equal reports structural equality.
func (p ElementPath) Equal(o ElementPath) bool {
	if len(p.parts) != len(o.parts) {
		return false
	}
	for i := range p.parts {
		if len(p.parts[i]) != len(o.parts[i]) {
			return false
		}
		for j := range p.parts[i] {
			if p.parts[i][j] != o.parts[i][j] {
				return false
			}
		}
	}
	return true
}

// IsEmpty reports whether p is the empty path.
func (p ElementPath) IsEmpty() bool {
	return len(p.parts) == 0
}

// Depth returns the total number of ids in the path.
func (p ElementPath) Depth() int {
	n := 0
	for _, part := range p.parts {
		n += len(part)
	}
	return n
}

// LastID returns the id of the element the path points at, or "" for the
// empty path.
func (p ElementPath) LastID() string {
	if len(p.parts) == 0 {
		return ""
	}
	last := p.parts[len(p.parts)-1]
	return last[len(last)-1]
}

// Parent drops the last id. A part left empty is removed entirely. The parent
// of the empty path is the empty path.
func (p ElementPath) Parent() ElementPath {
	if len(p.parts) == 0 {
		return p
	}
	out := p.clone()
	last := out.parts[len(out.parts)-1]
	if len(last) == 1 {
		out.parts = out.parts[:len(out.parts)-1]
	} else {
		out.parts[len(out.parts)-1] = last[:len(last)-1]
	}
	return out
}

// AppendToPath appends id to the last part, addressing a child inside the
// same component instance. On the empty path it starts a new part.
func (p ElementPath) AppendToPath(id string) ElementPath {
	if len(p.parts) == 0 {
		return NewElementPath([]string{id})
	}
	out := p.clone()
	last := out.parts[len(out.parts)-1]
	out.parts[len(out.parts)-1] = append(last, id)
	return out
}

// AppendNewPart appends id as the first element of a new part, addressing the
// root element rendered by a component instance.
func (p ElementPath) AppendNewPart(id string) ElementPath {
	out := p.clone()
	out.parts = append(out.parts, []string{id})
	return out
}

// IsDescendantOf reports whether p is strictly below ancestor.
func (p ElementPath) IsDescendantOf(ancestor ElementPath) bool {
	return p.Depth() > ancestor.Depth() && p.IsDescendantOrEqual(ancestor)
}

// IsDescendantOrEqual reports whether p is ancestor or lies below it.
func (p ElementPath) IsDescendantOrEqual(ancestor ElementPath) bool {
	if ancestor.IsEmpty() {
		return true
	}
	if len(ancestor.parts) > len(p.parts) {
		return false
	}
	for i, part := range ancestor.parts {
		own := p.parts[i]
		last := i == len(ancestor.parts)-1
		if last {
			if len(part) > len(own) {
				return false
			}
		} else if len(part) != len(own) {
			return false
		}
		for j := range part {
			if part[j] != own[j] {
				return false
			}
		}
	}
	return true
}

// Rebase replaces the prefix from with to. It returns p unchanged when p does
// not descend from (or equal) from.
func (p ElementPath) Rebase(from, to ElementPath) ElementPath {
	if from.IsEmpty() || !p.IsDescendantOrEqual(from) {
		return p
	}
	out := to.clone()
	i := len(from.parts) - 1
	for _, id := range p.parts[i][len(from.parts[i]):] {
		out = out.AppendToPath(id)
	}
	for _, part := range p.parts[i+1:] {
		out = out.AppendNewPart(part[0])
		for _, id := range part[1:] {
			out = out.AppendToPath(id)
		}
	}
	return out
}

// IsChildOf reports whether p's parent is parent.
func (p ElementPath) IsChildOf(parent ElementPath) bool {
	return !p.IsEmpty() && p.Parent().Equal(parent)
}

// CommonAncestor returns the deepest path both a and b descend from (or equal).
func CommonAncestor(a, b ElementPath) ElementPath {
	for c := a; ; c = c.Parent() {
		if b.IsDescendantOrEqual(c) {
			return c
		}
		if c.IsEmpty() {
			return c
		}
	}
}

// ContainsPath reports whether paths holds a path equal to p.
func ContainsPath(paths []ElementPath, p ElementPath) bool {
	for _, q := range paths {
		if q.Equal(p) {
			return true
		}
	}
	return false
}

func (p ElementPath) clone() ElementPath {
	out := ElementPath{parts: make([][]string, len(p.parts))}
	for i, part := range p.parts {
		out.parts[i] = append(make([]string, 0, len(part)+1), part...)
	}
	return out
}
