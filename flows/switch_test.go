package flows

import (
	"errors"
	"testing"
)

func setVar(v Var, value any) Flow {
	return OpFunc(func(inputs Inputs, state *State) error {
		state.Set(v, value)
		return nil
	})
}

func TestSwitch(t *testing.T) {
	x := NewVar("x", "")

	for _, c := range []struct {
		condition any
		want      any
	}{
		{true, "yes"},
		{false, "no"},
		{1, "yes"},
		{0, "no"},
	} {
		state := NewState()
		err := Seq(
			setVar(Condition, c.condition),
			Switch{
				Yes: setVar(x, "yes"),
				No:  setVar(x, "no"),
			},
		).Operate(nil, state)
		if err != nil {
			t.Fatal(err)
		}
		if value, _ := state.Get(x); value != c.want {
			t.Fatalf("condition %v: got %v", c.condition, value)
		}
		// condition is consumed regardless of branch taken
		if _, err := state.Get(Condition); !errors.Is(err, ErrUndefinedVariable) {
			t.Fatalf("condition still set after switch: %v", err)
		}
	}
}

func TestSwitchMissingBranch(t *testing.T) {
	state := NewState()
	state.Set(Condition, false)
	if err := (Switch{Yes: setVar(NewVar("x", ""), 1)}).Operate(nil, state); err != nil {
		t.Fatal(err)
	}
	if _, err := state.Get(Condition); !errors.Is(err, ErrUndefinedVariable) {
		t.Fatal("condition still set")
	}
}

func TestSwitchMissingCondition(t *testing.T) {
	state := NewState()
	err := Switch{}.Operate(nil, state)
	if !errors.Is(err, ErrMissingCondition) {
		t.Fatalf("got %v", err)
	}
}
