package astar

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// TieBreak decides the order of frontier entries with equal priority.
type TieBreak int

const (
	// TieBreakLowerG prefers the entry with the lower accumulated cost,
	// then the smaller node, then the lexicographically smaller path.
	TieBreakLowerG TieBreak = iota
	// TieBreakHigherG prefers the entry with the higher accumulated cost
	// (the deeper one), then the smaller node, then the smaller path.
	TieBreakHigherG
)

func (tb TieBreak) String() string {
	switch tb {
	case TieBreakLowerG:
		return "lower-g"
	case TieBreakHigherG:
		return "higher-g"
	}
	return fmt.Sprintf("TieBreak(%d)", int(tb))
}

// ParseTieBreak converts "lower-g" or "higher-g" to a TieBreak. Empty means the default.
func ParseTieBreak(s string) (TieBreak, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lower-g":
		return TieBreakLowerG, nil
	case "higher-g":
		return TieBreakHigherG, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTieBreak, s)
}

// Strategy decides how the frontier priority is computed.
type Strategy int

const (
	// StrategyAStar uses f = g + h.
	StrategyAStar Strategy = iota
	// StrategyGreedy uses f = h (greedy best-first).
	StrategyGreedy
	// StrategyUniformCost uses f = g and never reads the heuristic table.
	StrategyUniformCost
)

func (s Strategy) String() string {
	switch s {
	case StrategyAStar:
		return "astar"
	case StrategyGreedy:
		return "greedy"
	case StrategyUniformCost:
		return "uniform-cost"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy converts "astar", "greedy" or "uniform-cost" to a Strategy. Empty means A*.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "astar", "a*":
		return StrategyAStar, nil
	case "greedy":
		return StrategyGreedy, nil
	case "uniform-cost", "ucs":
		return StrategyUniformCost, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

type config struct {
	tieBreak      TieBreak
	strategy      Strategy
	maxExpansions int
	logger        *slog.Logger
}

// Option configures a Search call
type Option func(*config)

// WithTieBreak sets the tie-break policy
func WithTieBreak(tb TieBreak) Option {
	return func(c *config) { c.tieBreak = tb }
}

// WithStrategy sets the priority function
func WithStrategy(s Strategy) Option {
	return func(c *config) { c.strategy = s }
}

// WithMaxExpansions stops the search with ErrExpansionLimit after n expansions.
// Zero means unlimited.
func WithMaxExpansions(n int) Option {
	return func(c *config) { c.maxExpansions = n }
}

// WithLogger enables debug tracing of frontier operations
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func newConfig(opts []Option) *config {
	c := &config{
		tieBreak: TieBreakLowerG,
		strategy: StrategyAStar,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
