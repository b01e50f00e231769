package starflows

import (
	"fmt"

	"github.com/reusee/flow/flows"
	"go.starlark.net/starlark"
)

// VarValue wraps an engine var for scripts. Hashable by handle, so vars can
// key script-side dicts the same way they key the state.
type VarValue struct {
	Var flows.Var
}

var _ starlark.Value = VarValue{}

func (v VarValue) String() string {
	return fmt.Sprintf("<var %s>", v.Var.Name())
}

func (v VarValue) Type() string {
	return "var"
}

func (v VarValue) Freeze() {}

func (v VarValue) Truth() starlark.Bool {
	return starlark.True
}

func (v VarValue) Hash() (uint32, error) {
	return uint32(v.Var) + 1, nil
}

func (v *VarValue) Unpack(value starlark.Value) error {
	vv, ok := value.(VarValue)
	if !ok {
		return fmt.Errorf("expected var, got %s", value.Type())
	}
	*v = vv
	return nil
}

// FlowValue wraps a composed flow.
type FlowValue struct {
	Flow flows.Flow
}

var _ starlark.Value = FlowValue{}

func (f FlowValue) String() string {
	return "<flow>"
}

func (f FlowValue) Type() string {
	return "flow"
}

func (f FlowValue) Freeze() {}

func (f FlowValue) Truth() starlark.Bool {
	return starlark.True
}

func (f FlowValue) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable: flow")
}

func (f *FlowValue) Unpack(value starlark.Value) error {
	fv, ok := value.(FlowValue)
	if !ok {
		return fmt.Errorf("expected flow, got %s", value.Type())
	}
	*f = fv
	return nil
}

// asFlow extracts the engine flow from a script value. None is the absent
// flow.
func asFlow(value starlark.Value) (flows.Flow, error) {
	switch v := value.(type) {
	case starlark.NoneType:
		return nil, nil
	case FlowValue:
		return v.Flow, nil
	}
	return nil, fmt.Errorf("%w: %s", flows.ErrIllegalCompose, value.Type())
}

func toStarlark(value any) starlark.Value {
	switch v := value.(type) {
	case nil:
		return starlark.None
	case bool:
		return starlark.Bool(v)
	case int:
		return starlark.MakeInt(v)
	case int64:
		return starlark.MakeInt64(v)
	case uint64:
		return starlark.MakeUint64(v)
	case float64:
		return starlark.Float(v)
	case string:
		return starlark.String(v)
	case []any:
		elems := make([]starlark.Value, len(v))
		for i, e := range v {
			elems[i] = toStarlark(e)
		}
		return starlark.NewList(elems)
	case map[string]any:
		d := starlark.NewDict(len(v))
		for key, e := range v {
			d.SetKey(starlark.String(key), toStarlark(e))
		}
		return d
	case flows.Var:
		return VarValue{Var: v}
	case flows.Flow:
		return FlowValue{Flow: v}
	case starlark.Value:
		// values that came from the script go back unchanged
		return v
	}
	return starlark.String(fmt.Sprintf("%v", value))
}

func fromStarlark(value starlark.Value) any {
	switch v := value.(type) {
	case starlark.NoneType:
		return nil
	case starlark.Bool:
		return bool(v)
	case starlark.Int:
		if i, ok := v.Int64(); ok {
			return i
		}
		return v
	case starlark.Float:
		return float64(v)
	case starlark.String:
		return string(v)
	case *starlark.List:
		ret := make([]any, 0, v.Len())
		for i := range v.Len() {
			ret = append(ret, fromStarlark(v.Index(i)))
		}
		return ret
	case starlark.Tuple:
		ret := make([]any, 0, len(v))
		for _, e := range v {
			ret = append(ret, fromStarlark(e))
		}
		return ret
	case *starlark.Dict:
		ret := make(map[string]any, v.Len())
		for _, item := range v.Items() {
			if s, ok := starlark.AsString(item[0]); ok {
				ret[s] = fromStarlark(item[1])
			}
		}
		return ret
	case VarValue:
		return v.Var
	case FlowValue:
		return v.Flow
	}
	// opaque script values are stored as they are
	return value
}
