package utopia

// Element names the navigator treats specially.
const (
	FragmentElementName    = "Fragment"
	ConditionalElementName = "$conditional"
)

// NavigatorOptions switches optional navigator features. The options are
// passed explicitly to every call; there is no package-level switch.
type NavigatorOptions struct {
	FragmentSupport    bool `yaml:"fragmentSupport"`
	ConditionalSupport bool `yaml:"conditionalSupport"`
}

// NavigatorEntryKind classifies a navigator row.
type NavigatorEntryKind uint8

const (
	EntryRegular NavigatorEntryKind = iota
	EntryFragment
	EntryConditional
)

// NavigatorEntry is one row of the navigator outline.
type NavigatorEntry struct {
	Path  ElementPath
	Name  string
	Depth int
	Kind  NavigatorEntryKind
}

func entryKind(el Element) NavigatorEntryKind {
	switch el.Name {
	case FragmentElementName, "React.Fragment":
		return EntryFragment
	case ConditionalElementName:
		return EntryConditional
	}
	return EntryRegular
}

func (o NavigatorOptions) shows(kind NavigatorEntryKind) bool {
	switch kind {
	case EntryFragment:
		return o.FragmentSupport
	case EntryConditional:
		return o.ConditionalSupport
	}
	return true
}

// NavigatorEntries flattens tree into outline rows in render order. The
// storyboard root is not listed; its children sit at depth 0. Fragments and
// conditionals are transparent unless the matching option is set: they get no
// row and their children take their depth.
func NavigatorEntries(tree ElementTree, opts NavigatorOptions) []NavigatorEntry {
	var out []NavigatorEntry
	var walk func(path ElementPath, depth int)
	walk = func(path ElementPath, depth int) {
		for _, c := range tree.Children(path) {
			el, _ := tree.Get(c)
			kind := entryKind(el)
			if !opts.shows(kind) {
				walk(c, depth)
				continue
			}
			out = append(out, NavigatorEntry{Path: c, Name: el.Name, Depth: depth, Kind: kind})
			walk(c, depth+1)
		}
	}
	walk(tree.Root(), 0)
	return out
}

// NavigatorDepth returns the outline depth of path, or -1 when path has no
// row (it is the root, missing, or a hidden fragment or conditional).
func NavigatorDepth(tree ElementTree, path ElementPath, opts NavigatorOptions) int {
	el, ok := tree.Get(path)
	if !ok || path.Equal(tree.Root()) || !opts.shows(entryKind(el)) {
		return -1
	}
	depth := 0
	for p := path.Parent(); !p.IsEmpty() && !p.Equal(tree.Root()); p = p.Parent() {
		anc, ok := tree.Get(p)
		if ok && opts.shows(entryKind(anc)) {
			depth++
		}
	}
	return depth
}
