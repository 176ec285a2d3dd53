package utopia

import (
	"io"
	"log/slog"
	"sort"
)

// DefaultMaxStrategyDepth is the nesting limit for re-entrant selection. A
// strategy run at the top level may start one nested selection; strategies
// inside it may not start another.
const DefaultMaxStrategyDepth = 1

// StrategyWithFitness pairs a strategy with the score it got for a gesture.
type StrategyWithFitness struct {
	Strategy Strategy
	Fitness  float64
}

// StrategyRun is the outcome of selecting and applying a strategy.
type StrategyRun struct {
	StrategyWithFitness
	Result StrategyApplicationResult
}

// Selector scores a fixed registry of strategies against gestures. It holds
// no per-gesture state and may be shared by every editor using the same
// registry.
type Selector struct {
	registry []Strategy
	maxDepth int
	logger   *slog.Logger
}

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithMaxStrategyDepth sets the re-entrant selection limit.
func WithMaxStrategyDepth(n int) SelectorOption {
	return func(s *Selector) {
		if n >= 0 {
			s.maxDepth = n
		}
	}
}

// WithSelectorLogger sets the logger used for selection decisions.
func WithSelectorLogger(l *slog.Logger) SelectorOption {
	return func(s *Selector) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSelector creates a selector over registry. Registry order is the
// tie-break order: among equally fit strategies the first registered wins.
func NewSelector(registry []Strategy, opts ...SelectorOption) *Selector {
	s := &Selector{
		registry: append([]Strategy(nil), registry...),
		maxDepth: DefaultMaxStrategyDepth,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Registry returns the registered strategies in order.
func (s *Selector) Registry() []Strategy {
	return append([]Strategy(nil), s.registry...)
}

// Strategy returns the registered strategy with id.
func (s *Selector) Strategy(id StrategyID) (Strategy, bool) {
	for _, st := range s.registry {
		if st.ID() == id {
			return st, true
		}
	}
	return nil, false
}

// Bind returns cs bound to this selector at the top level so that strategies
// evaluated against it can start a nested selection.
func (s *Selector) Bind(cs CanvasState) CanvasState {
	cs.selector = s
	return cs
}

// Find returns the applicable strategy with the strictly highest positive
// fitness. Ties go to the strategy registered first. It reports false when no
// strategy is fit.
func (s *Selector) Find(cs CanvasState, session InteractionSession, custom CustomStrategyState) (StrategyWithFitness, bool) {
	cs = s.bindKeepDepth(cs)
	var best StrategyWithFitness
	found := false
	for _, st := range s.registry {
		if !st.IsApplicable(cs, &session, session.StartingMetadata, session.StartingAllElementProps) {
			continue
		}
		f := st.Fitness(cs, session, custom)
		if f <= 0 {
			continue
		}
		if !found || f > best.Fitness {
			best = StrategyWithFitness{Strategy: st, Fitness: f}
			found = true
		}
	}
	return best, found
}

// Applicable returns every fit strategy, highest fitness first. Equal scores
// keep registry order.
func (s *Selector) Applicable(cs CanvasState, session InteractionSession, custom CustomStrategyState) []StrategyWithFitness {
	cs = s.bindKeepDepth(cs)
	var out []StrategyWithFitness
	for _, st := range s.registry {
		if !st.IsApplicable(cs, &session, session.StartingMetadata, session.StartingAllElementProps) {
			continue
		}
		if f := st.Fitness(cs, session, custom); f > 0 {
			out = append(out, StrategyWithFitness{Strategy: st, Fitness: f})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Fitness > out[j].Fitness })
	return out
}

// Pick is Find, except that the session's UserPreferredStrategy wins whenever
// it is among the fit strategies.
func (s *Selector) Pick(cs CanvasState, session InteractionSession, custom CustomStrategyState) (StrategyWithFitness, bool) {
	if session.UserPreferredStrategy != "" {
		for _, c := range s.Applicable(cs, session, custom) {
			if c.Strategy.ID() == session.UserPreferredStrategy {
				return c, true
			}
		}
	}
	return s.Find(cs, session, custom)
}

// Run picks a strategy and applies it. It reports false when nothing is fit.
func (s *Selector) Run(cs CanvasState, session InteractionSession, custom CustomStrategyState, lifecycle InteractionLifecycle) (StrategyRun, bool) {
	return s.run(s.bindKeepDepth(cs), session, custom, lifecycle)
}

// ApplicableStrategiesForTarget lists the strategies whose IsApplicable holds
// for cs without a session, as shown before any gesture starts.
func (s *Selector) ApplicableStrategiesForTarget(cs CanvasState, md MetadataMap, props AllElementProps) []Strategy {
	cs = s.bindKeepDepth(cs)
	var out []Strategy
	for _, st := range s.registry {
		if st.IsApplicable(cs, nil, md, props) {
			out = append(out, st)
		}
	}
	return out
}

func (s *Selector) run(cs CanvasState, session InteractionSession, custom CustomStrategyState, lifecycle InteractionLifecycle) (StrategyRun, bool) {
	winner, ok := s.Pick(cs, session, custom)
	if !ok {
		s.logger.Debug("no strategy fit", "depth", cs.depth)
		return StrategyRun{}, false
	}
	res := winner.Strategy.Apply(cs, session, custom, lifecycle)
	s.logger.Debug("strategy applied",
		"strategy", winner.Strategy.ID(),
		"fitness", winner.Fitness,
		"depth", cs.depth,
		"lifecycle", lifecycle.String(),
		"commands", len(res.Commands))
	return StrategyRun{StrategyWithFitness: winner, Result: res}, true
}

func (s *Selector) bindKeepDepth(cs CanvasState) CanvasState {
	if cs.selector != s {
		cs.selector = s
		cs.depth = 0
	}
	return cs
}

// FindNested runs Find against a synthetic state one level deeper than cs,
// without applying the winner. It honours the same depth limit as RunNested.
func (cs CanvasState) FindNested(nested CanvasState, session InteractionSession, custom CustomStrategyState) (StrategyWithFitness, CanvasState, bool) {
	if cs.selector == nil {
		return StrategyWithFitness{}, nested, false
	}
	depth := cs.depth + 1
	if depth > cs.selector.maxDepth {
		cs.selector.logger.Warn("nested strategy selection refused",
			"depth", depth, "max_depth", cs.selector.maxDepth)
		return StrategyWithFitness{}, nested, false
	}
	nested.selector = cs.selector
	nested.depth = depth
	w, ok := cs.selector.Find(nested, session, custom)
	return w, nested, ok
}
