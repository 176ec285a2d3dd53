package utopia

import (
	"fmt"
	"sort"
	"strings"
)

// PropertyPath addresses a (possibly nested) prop, e.g. "style.left".
type PropertyPath string

// Common layout property paths.
const (
	PropStyle    PropertyPath = "style"
	PropPosition PropertyPath = "style.position"
	PropLeft     PropertyPath = "style.left"
	PropTop      PropertyPath = "style.top"
	PropWidth    PropertyPath = "style.width"
	PropHeight   PropertyPath = "style.height"
	PropDisplay  PropertyPath = "style.display"
	PropFlexDir  PropertyPath = "style.flexDirection"
	PropGap      PropertyPath = "style.gap"
)

// FramePropertyPaths is the whitelist of props that position an element.
var FramePropertyPaths = []PropertyPath{PropPosition, PropLeft, PropTop, PropWidth, PropHeight}

func (p PropertyPath) segments() []string {
	return strings.Split(string(p), ".")
}

// Expression is a non-literal prop value (arbitrary code in the source). The
// engine can read around it but must never overwrite it.
type Expression struct {
	Code string
}

// Props is the attribute map of an element. Nested maps (style) use
// map[string]any. Props values are treated as immutable: Set and Delete
// return copies and leave the receiver untouched.
type Props map[string]any

// Get returns the value at path.
func (p Props) Get(path PropertyPath) (any, bool) {
	var cur any = map[string]any(p)
	for _, seg := range path.segments() {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// GetNumber returns the numeric value at path. Integers are widened.
func (p Props) GetNumber(path PropertyPath) (float64, bool) {
	v, ok := p.Get(path)
	if !ok {
		return 0, false
	}
	return toNumber(v)
}

// GetString returns the string value at path.
func (p Props) GetString(path PropertyPath) (string, bool) {
	v, ok := p.Get(path)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Set returns a copy of p with value stored at path. Intermediate maps are
// created as needed. Returns an error when an intermediate segment holds a
// non-map value.
func (p Props) Set(path PropertyPath, value any) (Props, error) {
	segs := path.segments()
	out, err := setIn(map[string]any(p), segs, value)
	if err != nil {
		return nil, fmt.Errorf("set %s: %w", path, err)
	}
	return Props(out), nil
}

// Delete returns a copy of p without the value at path. Missing paths are a
// no-op.
func (p Props) Delete(path PropertyPath) Props {
	segs := path.segments()
	return Props(deleteIn(map[string]any(p), segs))
}

// Clone returns a deep copy of the nested map structure.
func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	return Props(cloneMap(p))
}

// Keys returns the top-level keys in sorted order.
func (p Props) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Props:
		return m, true
	}
	return nil, false
}

func setIn(m map[string]any, segs []string, value any) (map[string]any, error) {
	out := make(map[string]any, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	if len(segs) == 1 {
		out[segs[0]] = value
		return out, nil
	}
	child, exists := out[segs[0]]
	var childMap map[string]any
	if exists {
		cm, ok := asMap(child)
		if !ok {
			return nil, fmt.Errorf("segment %q is not an object", segs[0])
		}
		childMap = cm
	}
	updated, err := setIn(childMap, segs[1:], value)
	if err != nil {
		return nil, err
	}
	out[segs[0]] = updated
	return out, nil
}

func deleteIn(m map[string]any, segs []string) map[string]any {
	if m == nil {
		return nil
	}
	if _, ok := m[segs[0]]; !ok {
		return m
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	if len(segs) == 1 {
		delete(out, segs[0])
		return out
	}
	child, ok := asMap(out[segs[0]])
	if !ok {
		return m
	}
	out[segs[0]] = deleteIn(child, segs[1:])
	return out
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if cm, ok := asMap(v); ok {
			out[k] = cloneMap(cm)
		} else {
			out[k] = v
		}
	}
	return out
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
