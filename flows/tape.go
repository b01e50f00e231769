package flows

import (
	"fmt"
	"strings"
)

// Tape is the append-only per-loop history of captured variable values, one
// entry per completed iteration of its owning loop.
type Tape struct {
	loop      *Loop
	histories map[Var][]any
	counter   int
}

func newTape(loop *Loop) *Tape {
	return &Tape{
		loop:      loop,
		histories: make(map[Var][]any),
		counter:   -1,
	}
}

// Counter returns the iteration counter: -1 before the baseline capture, 0
// after it, n after n body executions have been recorded.
func (t *Tape) Counter() int {
	return t.counter
}

// Len returns the number of recorded entries for v.
func (t *Tape) Len(v Var) int {
	return len(t.histories[v])
}

// At returns the history entry for v at index. Negative indexes count from
// the most recent entry, -1 being the latest.
func (t *Tape) At(v Var, index int) (any, error) {
	history, ok := t.histories[v]
	if !ok {
		return nil, fmt.Errorf("%w: no history for %q", ErrUndefinedVariable, v.Name())
	}
	if index < 0 {
		index += len(history)
	}
	if index < 0 || index >= len(history) {
		return nil, fmt.Errorf("%w: history index %d for %q", ErrUndefinedVariable, index, v.Name())
	}
	return history[index], nil
}

// advance records one completed iteration: the counter increments and the
// current value of each var in vars, if live, is appended.
func (t *Tape) advance(values map[Var]any, vars []Var) {
	t.counter++
	for _, v := range vars {
		if value, ok := values[v]; ok {
			t.histories[v] = append(t.histories[v], value)
		}
	}
}

func (t *Tape) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Tape[ n = %d\n", t.counter)
	for v, history := range t.histories {
		strs := make([]string, 0, len(history))
		for _, value := range history {
			strs = append(strs, fmt.Sprintf("%v", value))
		}
		fmt.Fprintf(&sb, "    %s => %s\n", v.Name(), strings.Join(strs, ", "))
	}
	sb.WriteString("]")
	return sb.String()
}
