package flows

import (
	"fmt"
	"iter"
	"strings"
)

// State is the single mutable execution context of a run: current variable
// values, the stack of active loops, their tapes, and tapes preserved after
// their loop exited. A State is created fresh per run and is not safe for
// concurrent use; execution is strictly sequential.
type State struct {
	values     map[Var]any
	loopStack  []*Loop
	tapes      map[*Loop]*Tape
	savedTapes map[*Loop]*Tape
}

func NewState() *State {
	return &State{
		values:     make(map[Var]any),
		tapes:      make(map[*Loop]*Tape),
		savedTapes: make(map[*Loop]*Tape),
	}
}

// Get returns the current value of v.
func (s *State) Get(v Var) (any, error) {
	value, ok := s.values[v]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUndefinedVariable, v.Name())
	}
	return value, nil
}

// Set overwrites the current value of v.
func (s *State) Set(v Var, value any) {
	s.values[v] = value
}

// Delete removes the current value of v.
func (s *State) Delete(v Var) error {
	if _, ok := s.values[v]; !ok {
		return fmt.Errorf("%w: %q", ErrUndefinedVariable, v.Name())
	}
	delete(s.values, v)
	return nil
}

// Read is Get under the name used by the indexed read family.
func (s *State) Read(v Var) (any, error) {
	return s.Get(v)
}

// History returns the entry for v at index in the innermost active loop's
// tape.
func (s *State) History(v Var, index int) (any, error) {
	if len(s.loopStack) == 0 {
		return nil, fmt.Errorf("%w: no active loop for history of %q", ErrUndefinedVariable, v.Name())
	}
	return s.HistoryAt(s.loopStack[len(s.loopStack)-1], v, index)
}

// HistoryAt returns the entry for v at index in the tape of loop, which must
// be active or saved.
func (s *State) HistoryAt(loop *Loop, v Var, index int) (any, error) {
	tape, ok := s.tapes[loop]
	if !ok {
		tape, ok = s.savedTapes[loop]
	}
	if !ok {
		return nil, fmt.Errorf("%w: loop has no tape", ErrUndefinedVariable)
	}
	return tape.At(v, index)
}

// HistoryDepth resolves the loop by relative depth, counting outward from
// the innermost active loop: -1 innermost, -2 next outer.
func (s *State) HistoryDepth(depth int, v Var, index int) (any, error) {
	if depth >= 0 || -depth > len(s.loopStack) {
		return nil, fmt.Errorf("%w: no active loop at depth %d", ErrUndefinedVariable, depth)
	}
	return s.HistoryAt(s.loopStack[len(s.loopStack)+depth], v, index)
}

// Values iterates the current variable values, for inspection after a run.
func (s *State) Values() iter.Seq2[Var, any] {
	return func(yield func(Var, any) bool) {
		for v, value := range s.values {
			if !yield(v, value) {
				break
			}
		}
	}
}

// SavedTape returns the preserved tape of a loop that ran with Save set.
func (s *State) SavedTape(loop *Loop) (*Tape, bool) {
	tape, ok := s.savedTapes[loop]
	return tape, ok
}

// Depth returns the current loop nesting level.
func (s *State) Depth() int {
	return len(s.loopStack)
}

func (s *State) pushLoop(loop *Loop) {
	s.loopStack = append(s.loopStack, loop)
	s.tapes[loop] = newTape(loop)
	s.values[loop.counter] = -1
}

// popLoop removes the innermost loop. The counter var is always scoped to
// active execution; the tape survives in savedTapes only when the loop has
// Save set.
func (s *State) popLoop() {
	loop := s.loopStack[len(s.loopStack)-1]
	s.loopStack = s.loopStack[:len(s.loopStack)-1]
	tape := s.tapes[loop]
	delete(s.tapes, loop)
	delete(s.values, loop.counter)
	if loop.save {
		s.savedTapes[loop] = tape
	}
}

// Advance increments the loop's counter and appends the current value of
// each var in vars that is live. Nil vars means the loop's tracked set.
func (s *State) Advance(loop *Loop, vars []Var) error {
	tape, ok := s.tapes[loop]
	if !ok {
		return fmt.Errorf("%w: loop not active", ErrUndefinedVariable)
	}
	if vars == nil {
		vars = loop.tracked
	}
	tape.advance(s.values, vars)
	s.values[loop.counter] = tape.counter
	return nil
}

func (s *State) String() string {
	var sb strings.Builder
	sb.WriteString("State[\n")
	for v, value := range s.values {
		fmt.Fprintf(&sb, "    %s => %v\n", v.Name(), value)
	}
	for _, tape := range s.tapes {
		sb.WriteString(tape.String())
		sb.WriteString("\n")
	}
	sb.WriteString("]")
	return sb.String()
}
