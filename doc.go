// Package utopia is a headless canvas interaction engine for a visual
// JSX editor.
//
// It turns continuous pointer and keyboard gestures into discrete edits of an
// [EditorState]. On every event the gesture's [InteractionSession] is scored
// against a registry of [Strategy] values; the fittest one emits a list of
// [Command] values, and [FoldCommands] folds them into [EditorStatePatch]
// values starting from the state the gesture began with. While the gesture is
// in progress the result is a transient preview; when it ends the same
// commands are folded again for the commit.
//
// # Quick start
//
// The [Editor] drives everything. Give it a state, a source of measured
// metadata and a [Config]:
//
//	tree := utopia.NewElementTree(utopia.Element{UID: "storyboard"})
//	// ... insert elements ...
//	ed, err := utopia.NewEditor(utopia.NewEditorState(tree),
//		utopia.MeasureTree(tree), utopia.DefaultConfig())
//
//	ed.SetSelection(utopia.MustParsePath("storyboard/card"))
//	ed.StartDrag(utopia.CanvasPoint{X: 40, Y: 40}, 0, utopia.BoundingArea())
//	ed.UpdateDrag(utopia.CanvasVector{X: 25, Y: 0}, 0)
//	preview := ed.TransientState()
//	ed.EndInteraction()
//
// Pointer input in screen coordinates goes through [Editor.ProcessPointer],
// which runs the press, dead zone, drag and release state machine through
// the editor's [Viewport].
//
// # Strategies
//
// A strategy is a stateless interpretation of a gesture. [Selector.Find]
// filters the registry by IsApplicable, scores the rest with Fitness and
// picks the strictly highest score; ties go to the strategy registered
// first. [DefaultStrategies] lists the built-ins.
//
// Drag-to-insert is re-entrant: once its elements are inserted it runs a
// nested selection against synthesized metadata, as if the new elements had
// always existed and were being dragged with the [ReparentModifier] held.
// Nesting is limited by [Config.MaxStrategyDepth].
//
// # Commands and lifecycle
//
// Every command is tagged [RunAlways], [RunTransientOnly] or
// [RunPermanentOnly]. Previews skip permanent-only commands and the commit
// skips transient-only ones, so highlights and cursors never reach the
// committed state.
//
// # Snapshots
//
// [ElementTree], [MetadataMap] and [AllElementProps] are persistent maps
// (via [persistent]): updates return a new value sharing structure with the
// old one, so a gesture's starting snapshot stays valid however many
// previews are folded on top of it.
//
// [persistent]: https://github.com/xiaq/persistent
package utopia
