package utopia

// syntheticEvent is one injected input event. Pointer coordinates are in
// screen space and go through the viewport exactly like real input.
type syntheticEvent struct {
	key              Key
	isKey            bool
	keyUp            bool
	screenX, screenY float64
	pressed          bool
	mods             KeyModifiers
}

// InjectPress queues a pointer press at the given screen coordinates. Queued
// events are consumed one per Update call.
func (e *Editor) InjectPress(x, y float64, mods KeyModifiers) {
	e.injectQueue = append(e.injectQueue, syntheticEvent{screenX: x, screenY: y, pressed: true, mods: mods})
}

// InjectMove queues a pointer move with the button held.
func (e *Editor) InjectMove(x, y float64, mods KeyModifiers) {
	e.injectQueue = append(e.injectQueue, syntheticEvent{screenX: x, screenY: y, pressed: true, mods: mods})
}

// InjectRelease queues a pointer release.
func (e *Editor) InjectRelease(x, y float64, mods KeyModifiers) {
	e.injectQueue = append(e.injectQueue, syntheticEvent{screenX: x, screenY: y, mods: mods})
}

// InjectClick queues a press and a release at the same point.
func (e *Editor) InjectClick(x, y float64, mods KeyModifiers) {
	e.InjectPress(x, y, mods)
	e.InjectRelease(x, y, mods)
}

// InjectDrag queues a full drag: a press at (fromX, fromY), frames-2
// linearly interpolated moves and a release at (toX, toY). Minimum frames is
// 2.
func (e *Editor) InjectDrag(fromX, fromY, toX, toY float64, frames int, mods KeyModifiers) {
	if frames < 2 {
		frames = 2
	}
	e.InjectPress(fromX, fromY, mods)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		e.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t, mods)
	}
	e.InjectRelease(toX, toY, mods)
}

// InjectKey queues a key press.
func (e *Editor) InjectKey(key Key, mods KeyModifiers) {
	e.injectQueue = append(e.injectQueue, syntheticEvent{key: key, isKey: true, mods: mods})
}

// InjectKeyUp queues a key release.
func (e *Editor) InjectKeyUp(key Key, mods KeyModifiers) {
	e.injectQueue = append(e.injectQueue, syntheticEvent{key: key, isKey: true, keyUp: true, mods: mods})
}

// PendingInput returns the number of queued synthetic events.
func (e *Editor) PendingInput() int {
	return len(e.injectQueue)
}

// processInjectedInput pops one queued event and feeds it through the input
// handlers. It reports whether an event was consumed.
func (e *Editor) processInjectedInput() bool {
	if len(e.injectQueue) == 0 {
		return false
	}
	evt := e.injectQueue[0]
	copy(e.injectQueue, e.injectQueue[1:])
	e.injectQueue = e.injectQueue[:len(e.injectQueue)-1]

	switch {
	case evt.isKey && evt.keyUp:
		e.KeyUp(evt.key, evt.mods)
	case evt.isKey:
		e.KeyDown(evt.key, evt.mods)
	default:
		e.ProcessPointer(evt.screenX, evt.screenY, evt.pressed, evt.mods)
	}
	return true
}

// Update advances one frame: the gesture runner steps, one injected event is
// processed and viewport animations advance by dt seconds.
func (e *Editor) Update(dt float32) {
	if e.runner != nil {
		e.runner.step(e)
	}
	e.processInjectedInput()
	e.viewport.Update(dt)
}
