package utopia

// Keyboard nudge steps in canvas pixels.
const (
	KeyboardStep      = 1
	KeyboardShiftStep = 10
)

// keyboardDelta sums the arrow presses of every key state matching resize.
// Key states with ModMeta count toward resizing, the rest toward moving.
func keyboardDelta(k KeyboardInteraction, resize bool) CanvasVector {
	var v CanvasVector
	for _, ks := range k.KeyStates {
		if ks.Modifiers.Has(ModMeta) != resize {
			continue
		}
		step := float64(KeyboardStep)
		if ks.Modifiers.Has(ModShift) {
			step = KeyboardShiftStep
		}
		for _, key := range ks.Keys {
			switch key {
			case KeyArrowLeft:
				v.X -= step
			case KeyArrowRight:
				v.X += step
			case KeyArrowUp:
				v.Y -= step
			case KeyArrowDown:
				v.Y += step
			}
		}
	}
	return v
}

// latestArrowState reports whether the newest key state presses an arrow and
// whether meta was held with it.
func latestArrowState(session InteractionSession) (meta bool, ok bool) {
	k, isKeyboard := session.Keyboard()
	if !isKeyboard || len(k.KeyStates) == 0 {
		return false, false
	}
	last := k.KeyStates[len(k.KeyStates)-1]
	for _, key := range last.Keys {
		if key.IsArrow() {
			return last.Modifiers.Has(ModMeta), true
		}
	}
	return false, false
}

// --- keyboard move ---

type keyboardAbsoluteMoveStrategy struct{}

// KeyboardAbsoluteMoveStrategy nudges absolutely positioned elements with the
// arrow keys, 1px per press or 10px with shift.
func KeyboardAbsoluteMoveStrategy() Strategy { return keyboardAbsoluteMoveStrategy{} }

func (keyboardAbsoluteMoveStrategy) ID() StrategyID { return KeyboardAbsoluteMoveID }
func (keyboardAbsoluteMoveStrategy) Name() string   { return "Keyboard Absolute Move" }

func (keyboardAbsoluteMoveStrategy) ControlsToRender() []ControlDescription {
	return []ControlDescription{
		{Key: "parent-bounds", Overlay: OverlayParentBounds, Show: ShowWhileActive},
	}
}

func (keyboardAbsoluteMoveStrategy) IsApplicable(cs CanvasState, _ *InteractionSession, md MetadataMap, _ AllElementProps) bool {
	return targetsMovable(cs, md, PropLeft, PropTop)
}

func (keyboardAbsoluteMoveStrategy) Fitness(_ CanvasState, session InteractionSession, _ CustomStrategyState) float64 {
	if meta, ok := latestArrowState(session); ok && !meta {
		return 1
	}
	return 0
}

func (keyboardAbsoluteMoveStrategy) Apply(cs CanvasState, session InteractionSession, _ CustomStrategyState, _ InteractionLifecycle) StrategyApplicationResult {
	k, ok := session.Keyboard()
	if !ok {
		return EmptyStrategyApplicationResult()
	}
	delta := keyboardDelta(k, false)
	var cmds []Command
	for _, p := range topLevelPaths(cs.Target.Paths) {
		frame, ok := LocalFrame(cs.Tree, session.StartingMetadata, p)
		if !ok {
			continue
		}
		cmds = append(cmds,
			SetCSSLength{When: RunAlways, Target: p, Prop: PropLeft, Value: frame.X + delta.X},
			SetCSSLength{When: RunAlways, Target: p, Prop: PropTop, Value: frame.Y + delta.Y},
		)
	}
	if len(cmds) == 0 {
		return EmptyStrategyApplicationResult()
	}
	return StrategyApplicationResult{Commands: cmds}
}

// --- keyboard resize ---

type keyboardAbsoluteResizeStrategy struct{}

// KeyboardAbsoluteResizeStrategy grows and shrinks absolutely positioned
// elements with meta+arrow keys. Right and down grow, left and up shrink.
func KeyboardAbsoluteResizeStrategy() Strategy { return keyboardAbsoluteResizeStrategy{} }

func (keyboardAbsoluteResizeStrategy) ID() StrategyID { return KeyboardAbsoluteResizeID }
func (keyboardAbsoluteResizeStrategy) Name() string   { return "Keyboard Absolute Resize" }

func (keyboardAbsoluteResizeStrategy) ControlsToRender() []ControlDescription {
	return []ControlDescription{
		{Key: "resize-handles", Overlay: OverlayResizeHandles, Show: ShowWhileActive},
	}
}

func (keyboardAbsoluteResizeStrategy) IsApplicable(cs CanvasState, _ *InteractionSession, md MetadataMap, _ AllElementProps) bool {
	return targetsMovable(cs, md, PropWidth, PropHeight)
}

func (keyboardAbsoluteResizeStrategy) Fitness(_ CanvasState, session InteractionSession, _ CustomStrategyState) float64 {
	if meta, ok := latestArrowState(session); ok && meta {
		return 1
	}
	return 0
}

func (keyboardAbsoluteResizeStrategy) Apply(cs CanvasState, session InteractionSession, _ CustomStrategyState, _ InteractionLifecycle) StrategyApplicationResult {
	k, ok := session.Keyboard()
	if !ok {
		return EmptyStrategyApplicationResult()
	}
	delta := keyboardDelta(k, true)
	var cmds []Command
	for _, p := range topLevelPaths(cs.Target.Paths) {
		frame, ok := LocalFrame(cs.Tree, session.StartingMetadata, p)
		if !ok {
			continue
		}
		cmds = append(cmds,
			SetCSSLength{When: RunAlways, Target: p, Prop: PropWidth, Value: clampSize(frame.Width + delta.X)},
			SetCSSLength{When: RunAlways, Target: p, Prop: PropHeight, Value: clampSize(frame.Height + delta.Y)},
		)
	}
	if len(cmds) == 0 {
		return EmptyStrategyApplicationResult()
	}
	return StrategyApplicationResult{Commands: cmds}
}
