package starflows

import (
	"fmt"

	"github.com/reusee/flow/flows"
	"go.starlark.net/starlark"
)

// StateValue exposes an engine state to scripts.
type StateValue struct {
	State *flows.State
}

var _ starlark.HasAttrs = StateValue{}

func (s StateValue) String() string {
	return "<state>"
}

func (s StateValue) Type() string {
	return "state"
}

func (s StateValue) Freeze() {}

func (s StateValue) Truth() starlark.Bool {
	return starlark.True
}

func (s StateValue) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable: state")
}

func (s StateValue) AttrNames() []string {
	return []string{
		"delete",
		"get",
		"history",
		"history_in",
		"set",
		"set_condition",
		"tape",
	}
}

func (s StateValue) Attr(name string) (starlark.Value, error) {
	switch name {

	case "get":
		return starlark.NewBuiltin("get", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var v VarValue
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &v); err != nil {
				return nil, err
			}
			value, err := s.State.Get(v.Var)
			if err != nil {
				return nil, err
			}
			return toStarlark(value), nil
		}), nil

	case "set":
		return starlark.NewBuiltin("set", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var v VarValue
			var value starlark.Value
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &v, &value); err != nil {
				return nil, err
			}
			s.State.Set(v.Var, fromStarlark(value))
			return starlark.None, nil
		}), nil

	case "delete":
		return starlark.NewBuiltin("delete", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var v VarValue
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &v); err != nil {
				return nil, err
			}
			if err := s.State.Delete(v.Var); err != nil {
				return nil, err
			}
			return starlark.None, nil
		}), nil

	case "set_condition":
		return starlark.NewBuiltin("set_condition", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var value starlark.Value
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &value); err != nil {
				return nil, err
			}
			s.State.Set(flows.Condition, fromStarlark(value))
			return starlark.None, nil
		}), nil

	case "history":
		return starlark.NewBuiltin("history", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var v VarValue
			var index int
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &v, &index); err != nil {
				return nil, err
			}
			value, err := s.State.History(v.Var, index)
			if err != nil {
				return nil, err
			}
			return toStarlark(value), nil
		}), nil

	case "history_in":
		return starlark.NewBuiltin("history_in", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var depth int
			var v VarValue
			var index int
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 3, &depth, &v, &index); err != nil {
				return nil, err
			}
			value, err := s.State.HistoryDepth(depth, v.Var, index)
			if err != nil {
				return nil, err
			}
			return toStarlark(value), nil
		}), nil

	case "tape":
		return starlark.NewBuiltin("tape", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var f FlowValue
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &f); err != nil {
				return nil, err
			}
			loop, ok := f.Flow.(*flows.Loop)
			if !ok {
				return nil, fmt.Errorf("not a loop: %s", f.String())
			}
			tape, ok := s.State.SavedTape(loop)
			if !ok {
				return nil, fmt.Errorf("%w: no saved tape", flows.ErrUndefinedVariable)
			}
			return TapeValue{Tape: tape}, nil
		}), nil

	}
	return nil, nil
}

// TapeValue exposes a saved tape to scripts.
type TapeValue struct {
	Tape *flows.Tape
}

var _ starlark.HasAttrs = TapeValue{}

func (t TapeValue) String() string {
	return t.Tape.String()
}

func (t TapeValue) Type() string {
	return "tape"
}

func (t TapeValue) Freeze() {}

func (t TapeValue) Truth() starlark.Bool {
	return starlark.True
}

func (t TapeValue) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable: tape")
}

func (t TapeValue) AttrNames() []string {
	return []string{
		"at",
		"counter",
		"len",
	}
}

func (t TapeValue) Attr(name string) (starlark.Value, error) {
	switch name {

	case "at":
		return starlark.NewBuiltin("at", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var v VarValue
			var index int
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &v, &index); err != nil {
				return nil, err
			}
			value, err := t.Tape.At(v.Var, index)
			if err != nil {
				return nil, err
			}
			return toStarlark(value), nil
		}), nil

	case "len":
		return starlark.NewBuiltin("len", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var v VarValue
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &v); err != nil {
				return nil, err
			}
			return starlark.MakeInt(t.Tape.Len(v.Var)), nil
		}), nil

	case "counter":
		return starlark.NewBuiltin("counter", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
				return nil, err
			}
			return starlark.MakeInt(t.Tape.Counter()), nil
		}), nil

	}
	return nil, nil
}
