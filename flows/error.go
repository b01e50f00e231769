package flows

import "errors"

var (
	// ErrUndefinedVariable reports a read or delete of a variable, tape
	// entry, loop, or index that does not exist.
	ErrUndefinedVariable = errors.New("flows: undefined variable")

	// ErrMissingCondition reports consuming the condition variable before
	// any flow set it.
	ErrMissingCondition = errors.New("flows: missing condition")

	// ErrIllegalCompose reports presenting a non-flow value where a flow is
	// required.
	ErrIllegalCompose = errors.New("flows: illegal compose")

	// ErrTooManyIterations reports a loop exceeding its configured
	// iteration limit.
	ErrTooManyIterations = errors.New("flows: too many iterations")
)
