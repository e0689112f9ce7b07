package graph

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors
var (
	// Weighted graph errors
	ErrNegativeCost  = errors.New("edge cost must be non-negative")
	ErrInvalidCost   = errors.New("edge cost must be a finite number")
	ErrDuplicateEdge = errors.New("duplicate edge")
	ErrNoSuchEdge    = errors.New("no such edge")

	// Heuristic errors
	ErrMissingHeuristic  = errors.New("missing heuristic")
	ErrNegativeHeuristic = errors.New("heuristic must be a non-negative number")

	// AND-OR graph errors
	ErrEmptyGroup     = errors.New("option group has no children")
	ErrDuplicateChild = errors.New("child listed twice in option group")
	ErrCycle          = errors.New("cyclic dependency detected")
)

// EdgeError ties an edge error to the offending pair
type EdgeError struct {
	From string
	To   string
	Err  error
}

func (e *EdgeError) Error() string {
	return fmt.Sprintf("edge %s -> %s: %v", e.From, e.To, e.Err)
}

func (e *EdgeError) Unwrap() error { return e.Err }

// MissingHeuristicError is returned when a node has no heuristic entry.
type MissingHeuristicError struct {
	Node string
}

func (e *MissingHeuristicError) Error() string {
	return "missing heuristic for node " + e.Node
}

func (e *MissingHeuristicError) Unwrap() error { return ErrMissingHeuristic }

// CycleError describes a dependency cycle found while solving an AND-OR graph.
// Path starts and ends with the re-entered node.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "cyclic dependency detected: " + strings.Join(e.Path, " -> ")
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// NodeError ties an AND-OR validation error to a node
type NodeError struct {
	Node string
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %s: %v", e.Node, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }
