package engine

import (
	"errors"
	"fmt"
)

// ErrTerminal is returned by Step once the simulation has reached a
// terminal state; the world does not advance further.
var ErrTerminal = errors.New("simulation is terminal")

// ConsistencyError reports a violated apply-phase invariant: the resolver
// produced a plan whose preconditions no longer hold. The engine halts
// rather than corrupt state.
type ConsistencyError struct {
	Tick   uint64
	Reason string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("internal consistency violated at tick %d: %s", e.Tick, e.Reason)
}
