package utopia

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// EventSink is the interface for optional event forwarding (for example the
// ECS bridge in utopia/ecs). When set on an Editor, interaction events are
// forwarded to it.
type EventSink interface {
	EmitEvent(event InteractionEvent)
}

// EventType identifies an InteractionEvent.
type EventType uint8

const (
	EventInteractionStart EventType = iota
	EventInteractionUpdate
	EventStrategyChanged
	EventInteractionCommit
	EventInteractionCancel
	EventFoldFailed
)

func (t EventType) String() string {
	switch t {
	case EventInteractionStart:
		return "interaction-start"
	case EventInteractionUpdate:
		return "interaction-update"
	case EventStrategyChanged:
		return "strategy-changed"
	case EventInteractionCommit:
		return "interaction-commit"
	case EventInteractionCancel:
		return "interaction-cancel"
	case EventFoldFailed:
		return "fold-failed"
	}
	return "unknown"
}

// InteractionEvent describes a step of a gesture for observers.
type InteractionEvent struct {
	Type      EventType
	Strategy  StrategyID
	Fitness   float64
	Point     CanvasPoint
	Drag      CanvasVector
	Modifiers KeyModifiers
	Patches   int
}

// gesture is the live state of one interaction.
type gesture struct {
	start   EditorState
	canvas  CanvasState
	session InteractionSession
	custom  CustomStrategyState
	run     StrategyRun
	active  bool
	result  FoldResult
}

// Editor drives interactions: it owns the committed EditorState, builds an
// InteractionSession per gesture and, on every event, re-runs strategy
// selection, Apply and the command fold from the gesture's starting state.
// The result is a transient preview until EndInteraction commits it.
//
// An Editor is not safe for concurrent use.
type Editor struct {
	state    EditorState
	provider MetadataProvider
	selector *Selector
	viewport *Viewport
	cfg      Config
	logger   *slog.Logger
	logOut   io.Writer
	ownLog   bool // logger set by SetLogger; config changes leave it alone
	sink     EventSink
	actions  *ActionChannel
	debug    bool

	subjects []InsertionSubject
	g        *gesture

	// Input state
	pointer      pointerState
	dragDeadZone float64
	hovered      ElementPath
	injectQueue  []syntheticEvent
	runner       *GestureRunner
}

// NewEditor creates an editor over state. Metadata for gestures is read from
// provider when a gesture starts.
func NewEditor(state EditorState, provider MetadataProvider, cfg Config) (*Editor, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.NewLogger(os.Stderr)
	sel, err := cfg.NewSelector(logger)
	if err != nil {
		return nil, err
	}
	e := &Editor{
		state:        state,
		provider:     provider,
		selector:     sel,
		viewport:     NewViewport(cfg.Zoom.Min, cfg.Zoom.Max),
		cfg:          cfg,
		logger:       logger,
		logOut:       os.Stderr,
		dragDeadZone: cfg.DragDeadZone,
		debug:        cfg.Debug,
	}
	return e, nil
}

// State returns the committed state.
func (e *Editor) State() EditorState {
	return e.state
}

// TransientState returns the preview of the gesture in progress, or the
// committed state when there is none.
func (e *Editor) TransientState() EditorState {
	if e.g == nil {
		return e.state
	}
	return e.g.result.State
}

// Viewport returns the editor's viewport.
func (e *Editor) Viewport() *Viewport {
	return e.viewport
}

// Selector returns the selector the editor uses.
func (e *Editor) Selector() *Selector {
	return e.selector
}

// SetSelector replaces the strategy selector.
func (e *Editor) SetSelector(s *Selector) {
	e.selector = s
}

// SetLogger sets the logger used by the editor and its selector. It replaces
// the logger built from the config, which later SetDebugMode and SetLogOutput
// calls no longer touch. A nil logger goes back to the config logger.
func (e *Editor) SetLogger(l *slog.Logger) {
	if l == nil {
		e.ownLog = false
		e.useLogger(e.configLogger())
		return
	}
	e.ownLog = true
	e.useLogger(l)
}

// SetLogOutput redirects the config logger, stderr by default.
func (e *Editor) SetLogOutput(w io.Writer) {
	e.logOut = w
	if !e.ownLog {
		e.useLogger(e.configLogger())
	}
}

// configLogger builds a logger at the configured level; debug mode lowers it
// to debug.
func (e *Editor) configLogger() *slog.Logger {
	cfg := e.cfg
	cfg.Debug = e.debug
	return cfg.NewLogger(e.logOut)
}

func (e *Editor) useLogger(l *slog.Logger) {
	e.logger = l
	e.selector.logger = l
}

// SetEventSink sets the optional event sink.
func (e *Editor) SetEventSink(sink EventSink) {
	e.sink = sink
}

// SetActionChannel sets the channel hover highlights and selections are
// dispatched on.
func (e *Editor) SetActionChannel(ch *ActionChannel) {
	e.actions = ch
}

// SetDebugMode enables or disables debug logging of strategy switches and
// fold timings. Without a logger from SetLogger, debug output goes to the log
// output (stderr by default).
func (e *Editor) SetDebugMode(enabled bool) {
	e.debug = enabled
	if !e.ownLog {
		e.useLogger(e.configLogger())
	}
}

// SetMetadataProvider replaces the metadata source used by later gestures.
func (e *Editor) SetMetadataProvider(p MetadataProvider) {
	e.provider = p
}

// SetState replaces the committed state. Any gesture in progress is
// cancelled.
func (e *Editor) SetState(s EditorState) {
	e.CancelInteraction()
	e.state = s
}

// SetSelection replaces the committed selection.
func (e *Editor) SetSelection(paths ...ElementPath) {
	e.state.Selection = clonePaths(paths)
}

// SetInsertionSubjects queues elements to be created by the next drag. An
// empty call leaves insert mode. An invalid subject leaves the queue
// unchanged.
func (e *Editor) SetInsertionSubjects(subjects ...InsertionSubject) error {
	for _, s := range subjects {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	e.subjects = append([]InsertionSubject(nil), subjects...)
	return nil
}

// InsertionSubjects returns the queued insertion subjects.
func (e *Editor) InsertionSubjects() []InsertionSubject {
	return append([]InsertionSubject(nil), e.subjects...)
}

// Interacting reports whether a gesture is in progress.
func (e *Editor) Interacting() bool {
	return e.g != nil
}

// Session returns the live session.
func (e *Editor) Session() (InteractionSession, bool) {
	if e.g == nil {
		return InteractionSession{}, false
	}
	return e.g.session, true
}

// CustomState returns the live custom strategy state.
func (e *Editor) CustomState() CustomStrategyState {
	if e.g == nil {
		return CustomStrategyState{}
	}
	return e.g.custom
}

// ActiveStrategy returns the strategy that produced the current preview.
func (e *Editor) ActiveStrategy() (StrategyWithFitness, bool) {
	if e.g == nil || !e.g.active {
		return StrategyWithFitness{}, false
	}
	return e.g.run.StrategyWithFitness, true
}

// ApplicableStrategies lists the fit strategies for the live gesture, highest
// fitness first, for a strategy picker.
func (e *Editor) ApplicableStrategies() []StrategyWithFitness {
	if e.g == nil {
		return nil
	}
	return e.selector.Applicable(e.g.canvas, e.g.session, e.g.custom)
}

// Controls returns the overlays of the active strategy.
func (e *Editor) Controls() []ControlDescription {
	if w, ok := e.ActiveStrategy(); ok {
		return w.Strategy.ControlsToRender()
	}
	return nil
}

// SetUserPreferredStrategy overrides fitness for the live gesture whenever
// the named strategy is fit.
func (e *Editor) SetUserPreferredStrategy(id StrategyID) {
	if e.g == nil {
		return
	}
	e.g.session.UserPreferredStrategy = id
	e.rerun()
}

// canvasState builds the canvas state for a new gesture from the committed
// state.
func (e *Editor) canvasState() CanvasState {
	cs := CanvasState{
		Tree:         e.state.Tree,
		Scale:        e.viewport.zoom(),
		CanvasOffset: e.viewport.CanvasOffset(),
		InsertSize:   e.cfg.DefaultInsertFrameSize(),
	}
	if len(e.subjects) > 0 {
		cs.Target = TargetSubjects(e.subjects...)
	} else {
		cs.Target = TargetPaths(e.state.Selection...)
		cs.ParentsToFilterOut = parentsOf(e.state.Selection)
	}
	return e.selector.Bind(cs)
}

func (e *Editor) snapshot() (MetadataMap, AllElementProps) {
	if e.provider == nil {
		return MetadataMap{}, AllElementProps{}
	}
	return e.provider.Metadata(), e.provider.AllElementProps()
}

// StartDrag begins a drag gesture at start. The drag vector stays nil until
// UpdateDrag is called. A keyboard gesture in progress is committed first; a
// drag in progress is cancelled.
func (e *Editor) StartDrag(start CanvasPoint, mods KeyModifiers, control CanvasControl) {
	e.finishPrevious()
	md, props := e.snapshot()
	e.begin(NewDragSession(start, mods, control, md, props))
}

// StartKeyboard begins a keyboard gesture with one key state.
func (e *Editor) StartKeyboard(keys []Key, mods KeyModifiers) {
	e.finishPrevious()
	md, props := e.snapshot()
	e.begin(NewKeyboardSession(keys, mods, md, props))
}

func (e *Editor) finishPrevious() {
	if e.g == nil {
		return
	}
	if _, ok := e.g.session.Keyboard(); ok {
		e.EndInteraction()
		return
	}
	e.CancelInteraction()
}

func (e *Editor) begin(session InteractionSession) {
	e.g = &gesture{
		start:   e.state,
		canvas:  e.canvasState(),
		session: session,
		result:  FoldResult{State: e.state},
	}
	e.emit(InteractionEvent{Type: EventInteractionStart, Point: sessionPoint(session), Modifiers: sessionModifiers(session)})
	e.rerun()
}

// UpdateDrag sets the drag vector and modifiers of the live drag and
// recomputes the preview.
func (e *Editor) UpdateDrag(drag CanvasVector, mods KeyModifiers) {
	if e.g == nil {
		return
	}
	if _, ok := e.g.session.Drag(); !ok {
		return
	}
	e.g.session = e.g.session.WithDrag(drag, mods)
	e.rerun()
}

// SetModifiers updates the modifiers of the live drag, e.g. when the
// reparent modifier is pressed mid-drag.
func (e *Editor) SetModifiers(mods KeyModifiers) {
	if e.g == nil {
		return
	}
	d, ok := e.g.session.Drag()
	if !ok || d.Modifiers == mods {
		return
	}
	e.g.session = e.g.session.WithModifiers(mods)
	e.rerun()
}

// KeyDown handles a key press. Escape cancels the live gesture. Other keys
// extend a keyboard gesture, or start one when none is in progress.
func (e *Editor) KeyDown(key Key, mods KeyModifiers) {
	if key == KeyEscape {
		e.CancelInteraction()
		e.pointer.cancelled = e.pointer.down
		return
	}
	if e.g == nil {
		e.StartKeyboard([]Key{key}, mods)
		return
	}
	if _, ok := e.g.session.Keyboard(); ok {
		e.g.session = e.g.session.WithKeyState(KeyState{Keys: []Key{key}, Modifiers: mods})
		e.rerun()
		return
	}
	e.SetModifiers(mods)
}

// KeyUp handles a key release. Releasing a modifier during a drag updates the
// drag; keyboard gestures stay open until EndInteraction.
func (e *Editor) KeyUp(_ Key, mods KeyModifiers) {
	if e.g == nil {
		return
	}
	if _, ok := e.g.session.Drag(); ok {
		e.SetModifiers(mods)
	}
}

// RefreshMetadata replaces the session's latest metadata with a fresh
// snapshot. Strategies keep reading the starting snapshot.
func (e *Editor) RefreshMetadata() {
	if e.g == nil {
		return
	}
	md, props := e.snapshot()
	e.g.session.LatestMetadata = md
	e.g.session.LatestAllElementProps = props
}

// EndInteraction commits the live gesture: the winning strategy is applied
// for LifecycleEndInteraction and its commands are folded onto the starting
// state. Returns the patches committed.
func (e *Editor) EndInteraction() []EditorStatePatch {
	g := e.g
	if g == nil {
		return nil
	}
	e.g = nil
	run, ok := e.selector.Run(g.canvas, g.session, g.custom, LifecycleEndInteraction)
	if !ok {
		e.emit(InteractionEvent{Type: EventInteractionCommit})
		return nil
	}
	res, err := FoldCommands(g.start, run.Result.Commands, LifecycleEndInteraction)
	if err != nil {
		e.logger.Warn("commit failed", "strategy", run.Strategy.ID(), "err", err)
		e.emit(InteractionEvent{Type: EventFoldFailed, Strategy: run.Strategy.ID()})
		return nil
	}
	e.state = res.State
	if g.canvas.Target.HasInsertionSubjects() && len(res.Patches) > 0 {
		e.subjects = nil
	}
	e.logger.Debug("interaction committed",
		"strategy", run.Strategy.ID(),
		"patches", len(res.Patches),
		"commands", DescribeCommands(res.Applied))
	e.emit(InteractionEvent{Type: EventInteractionCommit, Strategy: run.Strategy.ID(), Fitness: run.Fitness, Patches: len(res.Patches)})
	if len(res.State.Selection) > 0 {
		e.actions.Dispatch(SelectComponents(false, res.State.Selection...))
	}
	return res.Patches
}

// CancelInteraction discards the live gesture. The committed state is
// untouched.
func (e *Editor) CancelInteraction() {
	if e.g == nil {
		return
	}
	e.g = nil
	e.emit(InteractionEvent{Type: EventInteractionCancel})
}

// rerun selects, applies and folds from the starting state. On a fold error
// the previous preview is kept.
func (e *Editor) rerun() {
	g := e.g
	var t0 time.Time
	if e.debug {
		t0 = time.Now()
	}
	run, ok := e.selector.Run(g.canvas, g.session, g.custom, LifecycleMidInteraction)
	if !ok {
		if g.active {
			e.debugLog("strategy changed", "from", g.run.Strategy.ID(), "to", "none")
			e.emit(InteractionEvent{Type: EventStrategyChanged})
		}
		g.active = false
		g.run = StrategyRun{}
		g.result = FoldResult{State: g.start}
		return
	}
	if !g.active || g.run.Strategy.ID() != run.Strategy.ID() {
		from := StrategyID("none")
		if g.active {
			from = g.run.Strategy.ID()
		}
		e.debugLog("strategy changed", "from", from, "to", run.Strategy.ID(), "fitness", run.Fitness)
		e.emit(InteractionEvent{Type: EventStrategyChanged, Strategy: run.Strategy.ID(), Fitness: run.Fitness})
	}
	res, err := FoldCommands(g.start, run.Result.Commands, LifecycleMidInteraction)
	if err != nil {
		e.logger.Warn("preview fold failed", "strategy", run.Strategy.ID(), "err", err)
		e.emit(InteractionEvent{Type: EventFoldFailed, Strategy: run.Strategy.ID()})
		return
	}
	g.custom = g.custom.Merge(run.Result.CustomStatePatch)
	g.run = run
	g.active = true
	g.result = res
	if e.debug {
		e.debugLog("preview folded",
			"strategy", run.Strategy.ID(),
			"commands", len(run.Result.Commands),
			"patches", len(res.Patches),
			"elapsed", time.Since(t0))
	}
	ev := InteractionEvent{
		Type:      EventInteractionUpdate,
		Strategy:  run.Strategy.ID(),
		Fitness:   run.Fitness,
		Point:     sessionPoint(g.session),
		Modifiers: sessionModifiers(g.session),
		Patches:   len(res.Patches),
	}
	if d, ok := g.session.Drag(); ok && d.Drag != nil {
		ev.Drag = *d.Drag
	}
	e.emit(ev)
}

func (e *Editor) emit(ev InteractionEvent) {
	if e.sink != nil {
		e.sink.EmitEvent(ev)
	}
}

func sessionPoint(s InteractionSession) CanvasPoint {
	switch d := s.InteractionData.(type) {
	case DragInteraction:
		if p, ok := DragPointer(d); ok {
			return p
		}
		return d.DragStart
	case HoverInteraction:
		return d.Point
	}
	return CanvasPoint{}
}

func sessionModifiers(s InteractionSession) KeyModifiers {
	switch d := s.InteractionData.(type) {
	case DragInteraction:
		return d.Modifiers
	case KeyboardInteraction:
		return d.Modifiers()
	case HoverInteraction:
		return d.Modifiers
	}
	return 0
}
