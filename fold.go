package utopia

import "fmt"

// FoldResult is the outcome of folding a command list onto a state.
type FoldResult struct {
	State   EditorState
	Patches []EditorStatePatch
	Applied []Command
}

// FoldCommands folds cmds onto state in list order and returns the resulting
// state with the patches that produced it. Commands whose lifecycle tag does
// not match lifecycle are skipped: previews (LifecycleMidInteraction) skip
// RunPermanentOnly commands and commits (LifecycleEndInteraction) skip
// RunTransientOnly ones.
//
// The fold is pure: state is never modified.
//
// On error the returned result carries the untouched input state.
func FoldCommands(state EditorState, cmds []Command, lifecycle InteractionLifecycle) (FoldResult, error) {
	res := FoldResult{State: state}
	for _, c := range cmds {
		if !c.WhenToRun().runsIn(lifecycle) {
			continue
		}
		patches, err := c.run(res.State, lifecycle)
		if err != nil {
			return FoldResult{State: state}, fmt.Errorf("fold %s: %w", c.Type(), err)
		}
		next, err := res.State.ApplyPatches(patches)
		if err != nil {
			return FoldResult{State: state}, fmt.Errorf("fold %s: %w", c.Type(), err)
		}
		res.State = next
		res.Patches = append(res.Patches, patches...)
		res.Applied = append(res.Applied, c)
	}
	return res, nil
}
