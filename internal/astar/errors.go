package astar

import "errors"

var (
	ErrExpansionLimit  = errors.New("expansion limit reached")
	ErrUnknownTieBreak = errors.New("unknown tie-break policy")
	ErrUnknownStrategy = errors.New("unknown search strategy")
)
