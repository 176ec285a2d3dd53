package utopia

import (
	"strings"
	"testing"
)

func TestTreeJSONRoundTrip(t *testing.T) {
	tree := fixtureTree(t)
	tree, _ = tree.SetProps(pathA, Props{
		"style":   map[string]any{"width": Expression{Code: "props.w"}, "height": 80.0},
		"classes": []any{"a", Expression{Code: "extra"}},
	})
	data, err := MarshalTree(tree)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `{"$expr":"props.w"}`) {
		t.Errorf("expression not encoded: %s", data)
	}
	got, err := UnmarshalTree(data)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(tree) {
		t.Errorf("round trip changed the tree:\n%s", data)
	}
	if v, _ := mustProps(t, got, pathA).Get(PropWidth); v != (Expression{Code: "props.w"}) {
		t.Errorf("width = %#v", v)
	}
}

func TestUnmarshalTreeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"no root uid", `{"name": "x"}`},
		{"duplicate child", `{"uid": "sb", "children": [{"uid": "a"}, {"uid": "a"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := UnmarshalTree([]byte(tt.data)); err == nil {
				t.Error("UnmarshalTree succeeded")
			}
		})
	}
	if _, err := MarshalTree(ElementTree{}); err == nil {
		t.Error("MarshalTree of an empty tree succeeded")
	}
}

func TestUnmarshalTreeKeepsLookalikeMaps(t *testing.T) {
	tree, err := UnmarshalTree([]byte(`{"uid": "sb", "props": {"data": {"$expr": "x", "other": 1}}}`))
	if err != nil {
		t.Fatal(err)
	}
	v, _ := mustProps(t, tree, tree.Root()).Get("data")
	if _, ok := v.(map[string]any); !ok {
		t.Errorf("data = %#v, want a plain map", v)
	}
}
