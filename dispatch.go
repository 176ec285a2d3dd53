package utopia

// ActionType identifies an editor action sent over the dispatch channel.
type ActionType uint8

const (
	ActionOpenFloatingInsertMenu ActionType = iota
	ActionSetHighlightedViews
	ActionSelectComponents
	ActionClearHighlightedViews
)

func (t ActionType) String() string {
	switch t {
	case ActionOpenFloatingInsertMenu:
		return "OPEN_FLOATING_INSERT_MENU"
	case ActionSetHighlightedViews:
		return "SET_HIGHLIGHTED_VIEWS"
	case ActionSelectComponents:
		return "SELECT_COMPONENTS"
	case ActionClearHighlightedViews:
		return "CLEAR_HIGHLIGHTED_VIEWS"
	}
	return "UNKNOWN_ACTION"
}

// InsertMenuMode selects what the floating insert menu does with a pick.
type InsertMenuMode uint8

const (
	InsertMenuInsert InsertMenuMode = iota
	InsertMenuWrap
	InsertMenuSwap
)

// EditorAction is a fire-and-forget message from the engine to the rest of
// the editor. Only the fields relevant to Type are set.
type EditorAction struct {
	Type      ActionType
	Paths     []ElementPath
	Additive  bool
	InsertFor InsertMenuMode
	// Parent and Index place an insert-menu pick. Index is -1 when the menu
	// was not opened for a position.
	Parent ElementPath
	Index  int
}

// OpenFloatingInsertMenu asks the editor to show the insert menu for the
// current selection.
func OpenFloatingInsertMenu(mode InsertMenuMode) EditorAction {
	return EditorAction{Type: ActionOpenFloatingInsertMenu, InsertFor: mode, Index: -1}
}

// OpenFloatingInsertMenuAt asks the editor to show the insert menu for a new
// child of parent at index.
func OpenFloatingInsertMenuAt(parent ElementPath, index int) EditorAction {
	return EditorAction{
		Type:      ActionOpenFloatingInsertMenu,
		InsertFor: InsertMenuInsert,
		Parent:    parent.clone(),
		Index:     index,
	}
}

// SetHighlightedViews asks the editor to highlight paths.
func SetHighlightedViews(paths ...ElementPath) EditorAction {
	return EditorAction{Type: ActionSetHighlightedViews, Paths: clonePaths(paths)}
}

// ClearHighlightedViews removes every highlight.
func ClearHighlightedViews() EditorAction {
	return EditorAction{Type: ActionClearHighlightedViews}
}

// SelectComponents asks the editor to select paths, extending the selection
// when additive is set.
func SelectComponents(additive bool, paths ...ElementPath) EditorAction {
	return EditorAction{Type: ActionSelectComponents, Paths: clonePaths(paths), Additive: additive}
}

type actionHandler struct {
	id uint32
	fn func([]EditorAction)
}

// ActionChannel delivers dispatched actions to subscribers synchronously, in
// subscription order. Dispatch has no return value and subscribers cannot
// reject an action. Like the Editor, a channel is not safe for concurrent use.
type ActionChannel struct {
	handlers []actionHandler
	nextID   uint32
	sent     int
}

// NewActionChannel creates an empty channel.
func NewActionChannel() *ActionChannel {
	return &ActionChannel{}
}

// CallbackHandle allows removing a registered subscriber.
type CallbackHandle struct {
	id uint32
	ch *ActionChannel
}

// Remove unregisters the subscriber. Removing twice is a no-op.
func (h CallbackHandle) Remove() {
	if h.ch == nil {
		return
	}
	s := h.ch.handlers
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = actionHandler{}
			h.ch.handlers = s[:len(s)-1]
			return
		}
	}
}

// Subscribe registers fn to receive every later Dispatch.
func (c *ActionChannel) Subscribe(fn func([]EditorAction)) CallbackHandle {
	c.nextID++
	id := c.nextID
	c.handlers = append(c.handlers, actionHandler{id: id, fn: fn})
	return CallbackHandle{id: id, ch: c}
}

// Dispatch sends actions to every subscriber. A nil channel drops them.
func (c *ActionChannel) Dispatch(actions ...EditorAction) {
	if c == nil || len(actions) == 0 {
		return
	}
	c.sent += len(actions)
	handlers := append([]actionHandler(nil), c.handlers...)
	for _, h := range handlers {
		h.fn(actions)
	}
}

// Sent returns how many actions were dispatched so far.
func (c *ActionChannel) Sent() int {
	if c == nil {
		return 0
	}
	return c.sent
}
