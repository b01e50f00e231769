package flows

import (
	"errors"
	"fmt"
	"testing"
)

func incVar(v Var) Flow {
	return OpFunc(func(inputs Inputs, state *State) error {
		value, err := state.Get(v)
		if err != nil {
			return err
		}
		state.Set(v, value.(int)+1)
		return nil
	})
}

func lessThan(v Var, n int) Flow {
	return OpFunc(func(inputs Inputs, state *State) error {
		value, err := state.Get(v)
		if err != nil {
			return err
		}
		state.Set(Condition, value.(int) < n)
		return nil
	})
}

// The reference scenario: x starts at 0, the body increments it while x < 3.
// The saved tape holds the baseline plus one entry per body execution.
func TestLoopSaved(t *testing.T) {
	x := NewVar("x", "")
	loop := NewLoop(LoopConfig{
		Body:       incVar(x),
		Condition:  lessThan(x, 3),
		Tracked:    []Var{x},
		Save:       true,
		CheckFirst: true,
	})

	state := NewState()
	err := Seq(setVar(x, 0), loop).Operate(nil, state)
	if err != nil {
		t.Fatal(err)
	}

	if value, _ := state.Get(x); value != 3 {
		t.Fatalf("got %v", value)
	}
	if _, err := state.Get(loop.Counter()); !errors.Is(err, ErrUndefinedVariable) {
		t.Fatal("counter var still live after exit")
	}
	if state.Depth() != 0 {
		t.Fatalf("got depth %d", state.Depth())
	}

	tape, ok := state.SavedTape(loop)
	if !ok {
		t.Fatal("no saved tape")
	}
	if tape.Len(x) != 4 {
		t.Fatalf("got %d entries", tape.Len(x))
	}
	for i, want := range []int{0, 1, 2, 3} {
		value, err := tape.At(x, i)
		if err != nil {
			t.Fatal(err)
		}
		if value != want {
			t.Fatalf("entry %d: got %v", i, value)
		}
	}
	if value, _ := tape.At(x, -1); value != 3 {
		t.Fatalf("got %v", value)
	}
	if tape.Counter() != 3 {
		t.Fatalf("got counter %d", tape.Counter())
	}
}

func TestLoopNeverRuns(t *testing.T) {
	x := NewVar("x", "")
	ran := false
	loop := NewLoop(LoopConfig{
		Body: OpFunc(func(inputs Inputs, state *State) error {
			ran = true
			return nil
		}),
		Condition:  lessThan(x, 0),
		Tracked:    []Var{x},
		Save:       true,
		CheckFirst: true,
	})

	state := NewState()
	if err := Seq(setVar(x, 5), loop).Operate(nil, state); err != nil {
		t.Fatal(err)
	}
	if ran {
		t.Fatal("body ran")
	}

	// only the baseline entry
	tape, ok := state.SavedTape(loop)
	if !ok {
		t.Fatal("no saved tape")
	}
	if tape.Len(x) != 1 {
		t.Fatalf("got %d entries", tape.Len(x))
	}
	if value, _ := tape.At(x, 0); value != 5 {
		t.Fatalf("got %v", value)
	}
}

func TestLoopDiscarded(t *testing.T) {
	x := NewVar("x", "")
	loop := NewLoop(LoopConfig{
		Body:       incVar(x),
		Condition:  lessThan(x, 2),
		Tracked:    []Var{x},
		CheckFirst: true,
	})

	state := NewState()
	if err := Seq(setVar(x, 0), loop).Operate(nil, state); err != nil {
		t.Fatal(err)
	}
	if _, ok := state.SavedTape(loop); ok {
		t.Fatal("tape survived without save")
	}
	if _, err := state.Get(loop.Counter()); !errors.Is(err, ErrUndefinedVariable) {
		t.Fatal("counter var still live")
	}
}

func TestLoopRunAtLeastOnce(t *testing.T) {
	x := NewVar("x", "")
	loop := NewLoop(LoopConfig{
		Body:      incVar(x),
		Condition: lessThan(x, 0),
		Tracked:   []Var{x},
		Save:      true,
		// no CheckFirst: the body runs before the first test
	})

	state := NewState()
	if err := Seq(setVar(x, 10), loop).Operate(nil, state); err != nil {
		t.Fatal(err)
	}
	if value, _ := state.Get(x); value != 11 {
		t.Fatalf("got %v", value)
	}

	tape, _ := state.SavedTape(loop)
	if tape.Len(x) != 2 {
		t.Fatalf("got %d entries", tape.Len(x))
	}
}

func TestLoopInitialVars(t *testing.T) {
	x := NewVar("x", "")
	y := NewVar("y", "")
	loop := NewLoop(LoopConfig{
		Body:       Seq(incVar(x), incVar(y)),
		Condition:  lessThan(x, 2),
		Tracked:    []Var{x, y},
		Initial:    []Var{x},
		Save:       true,
		CheckFirst: true,
	})

	state := NewState()
	if err := Seq(setVar(x, 0), setVar(y, 100), loop).Operate(nil, state); err != nil {
		t.Fatal(err)
	}

	tape, _ := state.SavedTape(loop)
	// x has the baseline plus two iterations, y only the iterations
	if tape.Len(x) != 3 {
		t.Fatalf("got %d entries for x", tape.Len(x))
	}
	if tape.Len(y) != 2 {
		t.Fatalf("got %d entries for y", tape.Len(y))
	}
	if value, _ := tape.At(y, 0); value != 101 {
		t.Fatalf("got %v", value)
	}
}

func TestLoopUntrackedHistory(t *testing.T) {
	x := NewVar("x", "")
	y := NewVar("y", "")
	loop := NewLoop(LoopConfig{
		Body:       incVar(x),
		Condition:  lessThan(x, 2),
		Tracked:    []Var{x},
		Save:       true,
		CheckFirst: true,
	})

	state := NewState()
	if err := Seq(setVar(x, 0), setVar(y, 0), loop).Operate(nil, state); err != nil {
		t.Fatal(err)
	}

	tape, _ := state.SavedTape(loop)
	if _, err := tape.At(y, 0); !errors.Is(err, ErrUndefinedVariable) {
		t.Fatalf("got %v", err)
	}
	if _, err := tape.At(x, 99); !errors.Is(err, ErrUndefinedVariable) {
		t.Fatalf("got %v", err)
	}
}

func TestLoopCounterVar(t *testing.T) {
	x := NewVar("x", "")
	var counts []int
	var loop *Loop
	loop = NewLoop(LoopConfig{
		Body: OpFunc(func(inputs Inputs, state *State) error {
			value, err := state.Get(loop.Counter())
			if err != nil {
				return err
			}
			counts = append(counts, value.(int))
			return incVar(x).Operate(inputs, state)
		}),
		Condition:  lessThan(x, 3),
		Tracked:    []Var{x},
		CheckFirst: true,
	})

	state := NewState()
	if err := Seq(setVar(x, 0), loop).Operate(nil, state); err != nil {
		t.Fatal(err)
	}
	if fmt.Sprint(counts) != "[0 1 2]" {
		t.Fatalf("got %v", counts)
	}
}

func TestNestedLoops(t *testing.T) {
	x := NewVar("x", "")
	i := NewVar("i", "")

	var innerSnapshots []any
	var outerSnapshots []any

	inner := NewLoop(LoopConfig{
		Body: Seq(
			incVar(x),
			// observe both tapes from inside the inner body; the snapshot
			// runs before the inner advance, so it sees the previous entry
			OpFunc(func(inputs Inputs, state *State) error {
				innerValue, err := state.HistoryDepth(-1, x, -1)
				if err != nil {
					return err
				}
				outerValue, err := state.HistoryDepth(-2, x, -1)
				if err != nil {
					return err
				}
				innerSnapshots = append(innerSnapshots, []any{innerValue, outerValue})
				return nil
			}),
		),
		Condition:  lessThan(x, 3),
		Tracked:    []Var{x},
		CheckFirst: true,
	})

	outer := NewLoop(LoopConfig{
		Body: Seq(
			setVar(x, 0),
			inner,
			OpFunc(func(inputs Inputs, state *State) error {
				// -1 addresses the outer loop here; the inner one has
				// already exited
				value, err := state.HistoryDepth(-1, x, -1)
				if err != nil {
					return err
				}
				outerSnapshots = append(outerSnapshots, value)
				return nil
			}),
			incVar(i),
		),
		Condition:  lessThan(i, 2),
		Tracked:    []Var{x, i},
		Save:       true,
		CheckFirst: true,
	})

	state := NewState()
	if err := Seq(setVar(i, 0), setVar(x, -100), outer).Operate(nil, state); err != nil {
		t.Fatal(err)
	}

	// the outer tape recorded x as tracked at its own pace, independent of
	// the inner tape
	tape, ok := state.SavedTape(outer)
	if !ok {
		t.Fatal("no saved tape")
	}
	if tape.Len(x) != 3 {
		t.Fatalf("got %d entries", tape.Len(x))
	}
	if value, _ := tape.At(x, 0); value != -100 {
		t.Fatalf("got %v", value)
	}
	if value, _ := tape.At(x, 1); value != 3 {
		t.Fatalf("got %v", value)
	}

	// inner history tracked per inner iteration; outer history stayed at the
	// baseline during the first outer iteration
	if fmt.Sprint(innerSnapshots[0]) != "[0 -100]" {
		t.Fatalf("got %v", innerSnapshots[0])
	}

	if fmt.Sprint(outerSnapshots) != "[-100 3]" {
		t.Fatalf("got %v", outerSnapshots)
	}

	if _, ok := state.SavedTape(inner); ok {
		t.Fatal("inner tape survived without save")
	}
}

func TestLoopNestedSwitch(t *testing.T) {
	x := NewVar("x", "")
	parity := NewVar("parity", "")

	loop := NewLoop(LoopConfig{
		Body: Seq(
			incVar(x),
			OpFunc(func(inputs Inputs, state *State) error {
				value, err := state.Get(x)
				if err != nil {
					return err
				}
				state.Set(Condition, value.(int)%2 == 0)
				return nil
			}),
			// the nested switch fully consumes its own condition and does
			// not interfere with the loop's test
			Switch{
				Yes: setVar(parity, "even"),
				No:  setVar(parity, "odd"),
			},
		),
		Condition:  lessThan(x, 4),
		Tracked:    []Var{x, parity},
		Save:       true,
		CheckFirst: true,
	})

	state := NewState()
	if err := Seq(setVar(x, 0), loop).Operate(nil, state); err != nil {
		t.Fatal(err)
	}
	if value, _ := state.Get(parity); value != "even" {
		t.Fatalf("got %v", value)
	}

	tape, _ := state.SavedTape(loop)
	if value, _ := tape.At(parity, -1); value != "even" {
		t.Fatalf("got %v", value)
	}
	if value, _ := tape.At(parity, 1); value != "even" {
		t.Fatalf("got %v", value)
	}
}

func TestLoopBodyError(t *testing.T) {
	x := NewVar("x", "")
	undefined := NewVar("undefined", "")

	loop := NewLoop(LoopConfig{
		Body: OpFunc(func(inputs Inputs, state *State) error {
			_, err := state.Get(undefined)
			return err
		}),
		Condition:  lessThan(x, 3),
		Tracked:    []Var{x},
		CheckFirst: true,
	})

	state := NewState()
	err := Seq(setVar(x, 0), loop).Operate(nil, state)
	if !errors.Is(err, ErrUndefinedVariable) {
		t.Fatalf("got %v", err)
	}

	// the loop scope unwound despite the failure
	if state.Depth() != 0 {
		t.Fatalf("got depth %d", state.Depth())
	}
	if _, err := state.Get(loop.Counter()); !errors.Is(err, ErrUndefinedVariable) {
		t.Fatal("counter var leaked")
	}
}

func TestLoopConditionNotSet(t *testing.T) {
	x := NewVar("x", "")
	loop := NewLoop(LoopConfig{
		Body:       incVar(x),
		Condition:  OpFunc(func(inputs Inputs, state *State) error { return nil }),
		Tracked:    []Var{x},
		CheckFirst: true,
	})

	state := NewState()
	err := Seq(setVar(x, 0), loop).Operate(nil, state)
	if !errors.Is(err, ErrMissingCondition) {
		t.Fatalf("got %v", err)
	}
	if state.Depth() != 0 {
		t.Fatalf("got depth %d", state.Depth())
	}
}

func TestLoopMaxIterations(t *testing.T) {
	x := NewVar("x", "")
	loop := NewLoop(LoopConfig{
		Body:          incVar(x),
		Condition:     setVar(Condition, true), // never terminates on its own
		Tracked:       []Var{x},
		CheckFirst:    true,
		MaxIterations: 10,
	})

	state := NewState()
	err := Seq(setVar(x, 0), loop).Operate(nil, state)
	if !errors.Is(err, ErrTooManyIterations) {
		t.Fatalf("got %v", err)
	}
	if value, _ := state.Get(x); value != 10 {
		t.Fatalf("got %v", value)
	}
}

func TestHistoryInnermost(t *testing.T) {
	x := NewVar("x", "")
	var seen []any
	loop := NewLoop(LoopConfig{
		Body: Seq(
			OpFunc(func(inputs Inputs, state *State) error {
				value, err := state.History(x, -1)
				if err != nil {
					return err
				}
				seen = append(seen, value)
				return nil
			}),
			incVar(x),
		),
		Condition:  lessThan(x, 3),
		Tracked:    []Var{x},
		CheckFirst: true,
	})

	state := NewState()
	if err := Seq(setVar(x, 0), loop).Operate(nil, state); err != nil {
		t.Fatal(err)
	}
	if fmt.Sprint(seen) != "[0 1 2]" {
		t.Fatalf("got %v", seen)
	}
}

func TestHistoryAtSavedTape(t *testing.T) {
	x := NewVar("x", "")
	first := NewLoop(LoopConfig{
		Body:       incVar(x),
		Condition:  lessThan(x, 3),
		Tracked:    []Var{x},
		Save:       true,
		CheckFirst: true,
	})

	read := NewVar("read", "")
	state := NewState()
	err := Seq(
		setVar(x, 0),
		first,
		// a later flow can still address the saved tape directly
		OpFunc(func(inputs Inputs, state *State) error {
			value, err := state.HistoryAt(first, x, 1)
			if err != nil {
				return err
			}
			state.Set(read, value)
			return nil
		}),
	).Operate(nil, state)
	if err != nil {
		t.Fatal(err)
	}
	if value, _ := state.Get(read); value != 1 {
		t.Fatalf("got %v", value)
	}
}
