package utopia

import (
	"encoding/json"
	"fmt"
)

// exprKey marks an encoded Expression inside serialized props.
const exprKey = "$expr"

// elementJSON is the nested wire form of an element subtree.
type elementJSON struct {
	UID      string         `json:"uid"`
	Name     string         `json:"name,omitempty"`
	Props    map[string]any `json:"props,omitempty"`
	Children []elementJSON  `json:"children,omitempty"`
}

// MarshalTree encodes tree as nested JSON. Expressions are written as
// {"$expr": code} objects.
func MarshalTree(tree ElementTree) ([]byte, error) {
	if tree.Len() == 0 {
		return nil, fmt.Errorf("marshal tree: empty tree")
	}
	return json.Marshal(encodeElement(tree, tree.Root()))
}

func encodeElement(tree ElementTree, path ElementPath) elementJSON {
	el, _ := tree.Get(path)
	out := elementJSON{UID: el.UID, Name: el.Name}
	if len(el.Props) > 0 {
		out.Props = encodeValue(map[string]any(el.Props)).(map[string]any)
	}
	for _, c := range tree.Children(path) {
		out.Children = append(out.Children, encodeElement(tree, c))
	}
	return out
}

func encodeValue(v any) any {
	switch x := v.(type) {
	case Expression:
		return map[string]any{exprKey: x.Code}
	case Props:
		return encodeValue(map[string]any(x))
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = encodeValue(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = encodeValue(val)
		}
		return out
	}
	return v
}

// UnmarshalTree decodes a tree written by MarshalTree.
func UnmarshalTree(data []byte) (ElementTree, error) {
	var root elementJSON
	if err := json.Unmarshal(data, &root); err != nil {
		return ElementTree{}, fmt.Errorf("unmarshal tree: %w", err)
	}
	if root.UID == "" {
		return ElementTree{}, fmt.Errorf("unmarshal tree: root has no uid")
	}
	tree := NewElementTree(Element{UID: root.UID, Name: root.Name, Props: decodeProps(root.Props)})
	var err error
	tree, err = decodeChildren(tree, tree.Root(), root.Children)
	if err != nil {
		return ElementTree{}, fmt.Errorf("unmarshal tree: %w", err)
	}
	return tree, nil
}

func decodeChildren(tree ElementTree, parent ElementPath, children []elementJSON) (ElementTree, error) {
	for _, c := range children {
		var err error
		tree, err = tree.Insert(parent, Element{UID: c.UID, Name: c.Name, Props: decodeProps(c.Props)}, -1)
		if err != nil {
			return tree, err
		}
		tree, err = decodeChildren(tree, parent.AppendToPath(c.UID), c.Children)
		if err != nil {
			return tree, err
		}
	}
	return tree, nil
}

func decodeProps(m map[string]any) Props {
	if m == nil {
		return nil
	}
	return Props(decodeValue(m).(map[string]any))
}

func decodeValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		if code, ok := x[exprKey].(string); ok && len(x) == 1 {
			return Expression{Code: code}
		}
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = decodeValue(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = decodeValue(val)
		}
		return out
	}
	return v
}
