package circuit

import "fmt"

// InvariantError reports a violation of one of Circuit's structural
// invariants (in-range references, symmetric adjacency, level ordering,
// every gate having a kind) detected while building the graph. It always indicates a netlist/model
// mismatch (spec error kind 3: "illegal gate kind during evaluation" and
// its construction-time cousin, a malformed graph) and is fatal to the
// caller.
type InvariantError struct {
	Op      string
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("circuit invariant violated in %s: %s", e.Op, e.Message)
}

func newInvariantError(op, format string, args ...interface{}) *InvariantError {
	return &InvariantError{Op: op, Message: fmt.Sprintf(format, args...)}
}
