// Package aostar solves AND-OR graphs: a node is solved by solving every
// child of one of its option groups, and the cheapest group is chosen.
//
// The solver makes a single memoised pass. Costs are not revised after a
// node is solved, which is exact for acyclic graphs under the additive cost
// model used here (own heuristic plus the sum of the chosen children).
package aostar

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/maastrichtu-biss/informed-search/internal/graph"
)

// CyclePolicy decides what happens when the solver re-enters a node that is
// still being solved.
type CyclePolicy int

const (
	// CycleStrict fails with a *graph.CycleError.
	CycleStrict CyclePolicy = iota
	// CycleLenient treats the re-entered node as costing +Inf for the group
	// being evaluated, so that group is only chosen if every group is infinite.
	CycleLenient
)

func (p CyclePolicy) String() string {
	switch p {
	case CycleStrict:
		return "strict"
	case CycleLenient:
		return "lenient"
	}
	return fmt.Sprintf("CyclePolicy(%d)", int(p))
}

// ParseCyclePolicy converts "strict" or "lenient". Empty means strict.
func ParseCyclePolicy(s string) (CyclePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return CycleStrict, nil
	case "lenient":
		return CycleLenient, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCyclePolicy, s)
}

// Choice is the solved state of one node: the chosen option group (nil for
// terminals) and the node's total cost.
type Choice[N graph.Node] struct {
	Group []N
	Cost  float64
}

// Solution holds the choice made for every node reached from Root.
// Order lists nodes in the order they were solved, children before parents.
type Solution[N graph.Node] struct {
	Root    N
	Choices map[N]Choice[N]
	Order   []N
}

// Get returns the choice for n
func (s *Solution[N]) Get(n N) (Choice[N], bool) {
	c, ok := s.Choices[n]
	return c, ok
}

// Cost returns the total cost of the root
func (s *Solution[N]) Cost() float64 {
	return s.Choices[s.Root].Cost
}

// Plan returns the nodes of the solution graph: the root and, transitively,
// every child of a chosen group. Breadth-first, each node once.
func (s *Solution[N]) Plan() []N {
	seen := map[N]bool{s.Root: true}
	plan := []N{s.Root}
	for i := 0; i < len(plan); i++ {
		for _, child := range s.Choices[plan[i]].Group {
			if !seen[child] {
				seen[child] = true
				plan = append(plan, child)
			}
		}
	}
	return plan
}

type visitState uint8

const (
	unvisited visitState = iota
	inProgress
	solved
)

type config struct {
	cyclePolicy CyclePolicy
	logger      *slog.Logger
}

// Option configures FindSolution
type Option func(*config)

// WithCyclePolicy sets the cycle policy
func WithCyclePolicy(p CyclePolicy) Option {
	return func(c *config) { c.cyclePolicy = p }
}

// WithLogger enables debug tracing of solved nodes
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// solver carries the state of one FindSolution call. It is never shared
// between calls.
type solver[N graph.Node] struct {
	graph graph.AndOrGraph[N]
	h     graph.HeuristicTable[N]
	cfg   *config

	memo  map[N]Choice[N]
	state map[N]visitState
	order []N
	stack []N
}

// FindSolution solves the AND-OR graph from start.
//
// Terminal nodes cost their heuristic. A non-terminal node costs its
// heuristic plus the cheapest sum of child costs over its option groups; on
// equal sums the earlier group wins. Every reached node is solved once.
func FindSolution[N graph.Node](g graph.AndOrGraph[N], h graph.HeuristicTable[N], start N, opts ...Option) (*Solution[N], error) {
	cfg := &config{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(cfg)
	}

	s := &solver[N]{
		graph: g,
		h:     h,
		cfg:   cfg,
		memo:  make(map[N]Choice[N]),
		state: make(map[N]visitState),
	}
	if _, err := s.solve(start); err != nil {
		return nil, err
	}

	return &Solution[N]{Root: start, Choices: s.memo, Order: s.order}, nil
}

func (s *solver[N]) solve(n N) (Choice[N], error) {
	switch s.state[n] {
	case solved:
		return s.memo[n], nil
	case inProgress:
		if s.cfg.cyclePolicy == CycleLenient {
			return Choice[N]{Cost: math.Inf(1)}, nil
		}
		return Choice[N]{}, s.cycleError(n)
	}

	s.state[n] = inProgress
	s.stack = append(s.stack, n)
	defer func() { s.stack = s.stack[:len(s.stack)-1] }()

	est, err := s.h.Lookup(n)
	if err != nil {
		return Choice[N]{}, err
	}

	choice := Choice[N]{Cost: est}
	if !s.graph.IsTerminal(n) {
		best := math.Inf(1)
		var bestGroup []N

		for _, group := range s.graph.Groups(n) {
			if len(group) == 0 {
				return Choice[N]{}, &graph.NodeError{Node: fmt.Sprint(n), Err: graph.ErrEmptyGroup}
			}

			sum := 0.0
			for _, child := range group {
				c, err := s.solve(child)
				if err != nil {
					return Choice[N]{}, err
				}
				sum += c.Cost
			}

			if sum < best {
				best = sum
				bestGroup = slices.Clone(group)
			}
		}

		choice = Choice[N]{Group: bestGroup, Cost: est + best}
	}

	s.memo[n] = choice
	s.state[n] = solved
	s.order = append(s.order, n)

	s.cfg.logger.Debug("solved",
		slog.String("node", fmt.Sprint(n)),
		slog.Any("group", choice.Group),
		slog.Float64("cost", choice.Cost))
	return choice, nil
}

func (s *solver[N]) cycleError(n N) error {
	start := slices.Index(s.stack, n)
	path := make([]string, 0, len(s.stack)-start+1)
	for _, v := range s.stack[start:] {
		path = append(path, fmt.Sprint(v))
	}
	path = append(path, fmt.Sprint(n))
	return &graph.CycleError{Path: path}
}
