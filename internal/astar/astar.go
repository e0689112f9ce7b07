// Package astar implements best-first search over a weighted directed graph:
// A* (f = g + h), greedy best-first (f = h) and uniform-cost (f = g).
package astar

import (
	"container/heap"
	"fmt"
	"log/slog"
	"math"

	"github.com/maastrichtu-biss/informed-search/internal/graph"
)

// Result is the outcome of a search. When Found is false, Path is nil and
// Cost is +Inf.
type Result[N graph.Node] struct {
	Found    bool
	Path     []N
	Cost     float64
	Expanded int // nodes taken off the frontier and expanded
	Pushed   int // entries pushed onto the frontier, including the start
}

func notFound[N graph.Node]() Result[N] {
	return Result[N]{Cost: math.Inf(1)}
}

// Search finds a path from start to goal.
//
// Each node is expanded at most once and never reopened, so with
// StrategyAStar the returned cost is minimal when the heuristic is
// consistent (see CheckConsistent). An admissible but inconsistent table
// can still yield a suboptimal path. A missing heuristic entry for any
// node that has to be prioritised aborts the search with a
// *graph.MissingHeuristicError; an unreachable goal is not an error.
func Search[N graph.Node](g *graph.WeightedGraph[N], h graph.HeuristicTable[N], start, goal N, opts ...Option) (Result[N], error) {
	cfg := newConfig(opts)
	log := cfg.logger.With(slog.String("strategy", cfg.strategy.String()))

	priority := func(cost float64, n N) (float64, error) {
		if cfg.strategy == StrategyUniformCost {
			return cost, nil
		}
		est, err := h.Lookup(n)
		if err != nil {
			return 0, err
		}
		if cfg.strategy == StrategyGreedy {
			return est, nil
		}
		return cost + est, nil
	}

	f, err := priority(0, start)
	if err != nil {
		return notFound[N](), err
	}

	openSet := &frontier[N]{tieBreak: cfg.tieBreak}
	heap.Init(openSet)
	heap.Push(openSet, &entry[N]{f: f, g: 0, node: start, path: []N{start}})

	res := notFound[N]()
	res.Pushed = 1
	closedSet := make(map[N]bool)

	for openSet.Len() > 0 {
		current := heap.Pop(openSet).(*entry[N])

		if current.node == goal {
			res.Found = true
			res.Path = current.path
			res.Cost = current.g
			log.Debug("goal reached",
				slog.String("goal", fmt.Sprint(goal)),
				slog.Float64("cost", current.g),
				slog.Int("expanded", res.Expanded))
			return res, nil
		}

		if closedSet[current.node] {
			continue
		}
		if cfg.maxExpansions > 0 && res.Expanded >= cfg.maxExpansions {
			return res, fmt.Errorf("%w after %d expansions", ErrExpansionLimit, res.Expanded)
		}
		closedSet[current.node] = true
		res.Expanded++

		log.Debug("expand",
			slog.String("node", fmt.Sprint(current.node)),
			slog.Float64("f", current.f),
			slog.Float64("g", current.g))

		for _, edge := range g.Neighbors(current.node) {
			if closedSet[edge.To] {
				continue
			}

			tentativeG := current.g + edge.Cost
			f, err := priority(tentativeG, edge.To)
			if err != nil {
				return notFound[N](), fmt.Errorf("expanding %v: %w", current.node, err)
			}

			path := make([]N, len(current.path)+1)
			copy(path, current.path)
			path[len(current.path)] = edge.To

			heap.Push(openSet, &entry[N]{f: f, g: tentativeG, node: edge.To, path: path})
			res.Pushed++
		}
	}

	log.Debug("frontier exhausted", slog.Int("expanded", res.Expanded))
	return res, nil
}
