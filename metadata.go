package utopia

import (
	"sort"

	"github.com/xiaq/persistent/hashmap"
)

// LayoutSystem is how an element lays out its children.
type LayoutSystem uint8

const (
	LayoutFlow LayoutSystem = iota // normal block/inline flow
	LayoutFlex                     // flexbox
	LayoutGrid                     // css grid
	LayoutNone                     // not laid out (e.g. storyboard)
)

func (l LayoutSystem) String() string {
	switch l {
	case LayoutFlow:
		return "flow"
	case LayoutFlex:
		return "flex"
	case LayoutGrid:
		return "grid"
	default:
		return "none"
	}
}

// PositionMode mirrors the css position property.
type PositionMode uint8

const (
	PositionStatic PositionMode = iota
	PositionRelative
	PositionAbsolute
	PositionFixed
	PositionSticky
)

// ParsePositionMode maps a css position keyword to a PositionMode. Unknown
// keywords are static.
func ParsePositionMode(s string) PositionMode {
	switch s {
	case "relative":
		return PositionRelative
	case "absolute":
		return PositionAbsolute
	case "fixed":
		return PositionFixed
	case "sticky":
		return PositionSticky
	}
	return PositionStatic
}

// FlexDirection mirrors the css flex-direction property.
type FlexDirection uint8

const (
	FlexRow FlexDirection = iota
	FlexColumn
	FlexRowReverse
	FlexColumnReverse
)

// ParseFlexDirection maps a css flex-direction keyword. Unknown keywords are row.
func ParseFlexDirection(s string) FlexDirection {
	switch s {
	case "column":
		return FlexColumn
	case "row-reverse":
		return FlexRowReverse
	case "column-reverse":
		return FlexColumnReverse
	}
	return FlexRow
}

// IsHorizontal reports whether the main axis runs along X.
func (d FlexDirection) IsHorizontal() bool {
	return d == FlexRow || d == FlexRowReverse
}

// IsReverse reports whether children are laid out against the axis.
func (d FlexDirection) IsReverse() bool {
	return d == FlexRowReverse || d == FlexColumnReverse
}

// MetadataOrigin records where a metadata entry came from.
type MetadataOrigin uint8

const (
	OriginMeasured    MetadataOrigin = iota // produced by the measurement pipeline
	OriginSynthesized                       // fake metadata for a not-yet-rendered element
)

// SpecialSizeMeasurements holds the layout facts strategies reason about.
type SpecialSizeMeasurements struct {
	Position                          PositionMode
	Display                           string
	LayoutSystemForChildren           LayoutSystem
	ParentLayoutSystem                LayoutSystem
	FlexDirection                     FlexDirection
	ParentFlexDirection               FlexDirection
	Gap                               float64
	ProvidesBoundsForAbsoluteChildren bool
	ImmediateParentBounds             *CanvasRectangle
}

// ElementInstanceMetadata is the measured layout of one rendered element.
// GlobalFrame is nil when the element has no measurable frame.
type ElementInstanceMetadata struct {
	ElementPath             ElementPath
	GlobalFrame             *CanvasRectangle
	LocalFrame              *CanvasRectangle
	ComputedStyle           map[string]string
	SpecialSizeMeasurements SpecialSizeMeasurements
	Origin                  MetadataOrigin
}

// SynthesizedMetadata builds fake metadata standing in for an element that
// has not been rendered yet. The element is treated as an absolutely
// positioned child of a flow parent with the given global frame.
func SynthesizedMetadata(path ElementPath, frame CanvasRectangle) ElementInstanceMetadata {
	f := frame
	return ElementInstanceMetadata{
		ElementPath:   path,
		GlobalFrame:   &f,
		ComputedStyle: map[string]string{"position": "absolute"},
		SpecialSizeMeasurements: SpecialSizeMeasurements{
			Position:                PositionAbsolute,
			Display:                 "block",
			LayoutSystemForChildren: LayoutFlow,
			ParentLayoutSystem:      LayoutFlow,
		},
		Origin: OriginSynthesized,
	}
}

// MetadataMap is an immutable snapshot of element metadata keyed by path
// string. The zero value is an empty map. With returns a patched copy that
// shares structure with the receiver; the receiver is never modified.
type MetadataMap struct {
	m hashmap.Map
}

// NewMetadataMap builds a snapshot from entries.
func NewMetadataMap(entries ...ElementInstanceMetadata) MetadataMap {
	var mm MetadataMap
	for _, e := range entries {
		mm = mm.With(e)
	}
	return mm
}

// Len returns the number of entries.
func (mm MetadataMap) Len() int {
	if mm.m == nil {
		return 0
	}
	return mm.m.Len()
}

// Get returns the metadata of path.
func (mm MetadataMap) Get(path ElementPath) (ElementInstanceMetadata, bool) {
	if mm.m == nil {
		return ElementInstanceMetadata{}, false
	}
	v, ok := mm.m.Index(path.String())
	if !ok {
		return ElementInstanceMetadata{}, false
	}
	return v.(ElementInstanceMetadata), true
}

// Frame returns the global frame of path, if measured.
func (mm MetadataMap) Frame(path ElementPath) (CanvasRectangle, bool) {
	md, ok := mm.Get(path)
	if !ok || md.GlobalFrame == nil {
		return CanvasRectangle{}, false
	}
	return *md.GlobalFrame, true
}

// With returns a copy of mm with md stored under md.ElementPath.
func (mm MetadataMap) With(md ElementInstanceMetadata) MetadataMap {
	base := mm.m
	if base == nil {
		base = newStringMap()
	}
	return MetadataMap{m: base.Assoc(md.ElementPath.String(), md)}
}

// Without returns a copy of mm with path removed.
func (mm MetadataMap) Without(path ElementPath) MetadataMap {
	if mm.m == nil {
		return mm
	}
	return MetadataMap{m: mm.m.Dissoc(path.String())}
}

// Paths returns every path in the snapshot, sorted by string form so that
// iteration is deterministic.
func (mm MetadataMap) Paths() []ElementPath {
	if mm.m == nil {
		return nil
	}
	keys := make([]string, 0, mm.m.Len())
	for it := mm.m.Iterator(); it.HasElem(); it.Next() {
		k, _ := it.Elem()
		keys = append(keys, k.(string))
	}
	sort.Strings(keys)
	out := make([]ElementPath, len(keys))
	for i, k := range keys {
		v, _ := mm.m.Index(k)
		out[i] = v.(ElementInstanceMetadata).ElementPath
	}
	return out
}

// Equal compares two snapshots entry by entry. Used by go-cmp.
func (mm MetadataMap) Equal(o MetadataMap) bool {
	if mm.Len() != o.Len() {
		return false
	}
	for _, p := range mm.Paths() {
		a, _ := mm.Get(p)
		b, ok := o.Get(p)
		if !ok || !metadataEqual(a, b) {
			return false
		}
	}
	return true
}

func metadataEqual(a, b ElementInstanceMetadata) bool {
	if !a.ElementPath.Equal(b.ElementPath) || a.Origin != b.Origin {
		return false
	}
	if !rectPtrEqual(a.GlobalFrame, b.GlobalFrame) || !rectPtrEqual(a.LocalFrame, b.LocalFrame) {
		return false
	}
	sa, sb := a.SpecialSizeMeasurements, b.SpecialSizeMeasurements
	if !rectPtrEqual(sa.ImmediateParentBounds, sb.ImmediateParentBounds) {
		return false
	}
	sa.ImmediateParentBounds, sb.ImmediateParentBounds = nil, nil
	if sa != sb || len(a.ComputedStyle) != len(b.ComputedStyle) {
		return false
	}
	for k, v := range a.ComputedStyle {
		if b.ComputedStyle[k] != v {
			return false
		}
	}
	return true
}

func rectPtrEqual(a, b *CanvasRectangle) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// AllElementProps is an immutable snapshot of the props each rendered element
// received, keyed by path string.
type AllElementProps struct {
	m hashmap.Map
}

// Get returns the props of path.
func (ap AllElementProps) Get(path ElementPath) (Props, bool) {
	if ap.m == nil {
		return nil, false
	}
	v, ok := ap.m.Index(path.String())
	if !ok {
		return nil, false
	}
	return v.(Props), true
}

// With returns a copy of ap with props stored for path.
func (ap AllElementProps) With(path ElementPath, props Props) AllElementProps {
	base := ap.m
	if base == nil {
		base = newStringMap()
	}
	return AllElementProps{m: base.Assoc(path.String(), props)}
}

// Len returns the number of entries.
func (ap AllElementProps) Len() int {
	if ap.m == nil {
		return 0
	}
	return ap.m.Len()
}

// MetadataProvider supplies the latest measured snapshot. Implementations are
// read-only from the engine's point of view.
type MetadataProvider interface {
	Metadata() MetadataMap
	AllElementProps() AllElementProps
}

// StaticMetadata is a MetadataProvider returning fixed snapshots.
type StaticMetadata struct {
	MetadataMap MetadataMap
	Props       AllElementProps
}

// Metadata implements MetadataProvider.
func (s StaticMetadata) Metadata() MetadataMap { return s.MetadataMap }

// AllElementProps implements MetadataProvider.
func (s StaticMetadata) AllElementProps() AllElementProps { return s.Props }
