package starflows

import (
	"fmt"

	"github.com/reusee/flow/flows"
	"github.com/reusee/flow/logs"
	"go.starlark.net/starlark"
)

// scriptFlow runs a starlark callable as a flow body. The thread is the one
// executing the program; script execution is single-threaded, so reentrant
// calls on it are safe.
type scriptFlow struct {
	thread *starlark.Thread
	fn     starlark.Callable
}

var _ flows.Flow = scriptFlow{}

func (s scriptFlow) Operate(inputs flows.Inputs, state *flows.State) error {
	inputsDict := starlark.NewDict(len(inputs))
	for key, value := range inputs {
		inputsDict.SetKey(starlark.String(key), toStarlark(value))
	}
	_, err := starlark.Call(s.thread, s.fn, starlark.Tuple{
		inputsDict,
		StateValue{State: state},
	}, nil)
	return err
}

func builtins(logger logs.Logger, defaultMaxIterations int) starlark.StringDict {
	ret := starlark.StringDict{
		"CONDITION": VarValue{Var: flows.Condition},
	}

	ret["var"] = starlark.NewBuiltin("var", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name string
		var docs string
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name, "docs?", &docs); err != nil {
			return nil, err
		}
		return VarValue{Var: flows.NewVar(name, docs)}, nil
	})

	ret["flow"] = starlark.NewBuiltin("flow", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var fn starlark.Callable
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &fn); err != nil {
			return nil, err
		}
		return FlowValue{Flow: scriptFlow{
			thread: thread,
			fn:     fn,
		}}, nil
	})

	ret["seq"] = starlark.NewBuiltin("seq", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(kwargs) > 0 {
			return nil, fmt.Errorf("%s: unexpected keyword arguments", b.Name())
		}
		sequenced := make([]flows.Flow, 0, len(args))
		for _, arg := range args {
			flow, err := asFlow(arg)
			if err != nil {
				return nil, err
			}
			sequenced = append(sequenced, flow)
		}
		return FlowValue{Flow: flows.Seq(sequenced...)}, nil
	})

	ret["switch"] = starlark.NewBuiltin("switch", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var yesValue starlark.Value = starlark.None
		var noValue starlark.Value = starlark.None
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "yes?", &yesValue, "no?", &noValue); err != nil {
			return nil, err
		}
		yes, err := asFlow(yesValue)
		if err != nil {
			return nil, err
		}
		no, err := asFlow(noValue)
		if err != nil {
			return nil, err
		}
		return FlowValue{Flow: flows.Switch{
			Yes: yes,
			No:  no,
		}}, nil
	})

	ret["loop"] = starlark.NewBuiltin("loop", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var bodyValue starlark.Value
		var conditionValue starlark.Value
		var varsValue *starlark.List
		var initialValue *starlark.List
		save := false
		checkFirst := true
		maxIterations := defaultMaxIterations
		if err := starlark.UnpackArgs(b.Name(), args, kwargs,
			"body", &bodyValue,
			"condition", &conditionValue,
			"vars?", &varsValue,
			"initial?", &initialValue,
			"save?", &save,
			"check_first?", &checkFirst,
			"max_iterations?", &maxIterations,
		); err != nil {
			return nil, err
		}

		body, err := asFlow(bodyValue)
		if err != nil {
			return nil, err
		}
		condition, err := asFlow(conditionValue)
		if err != nil {
			return nil, err
		}

		varList := func(list *starlark.List) ([]flows.Var, error) {
			if list == nil {
				return nil, nil
			}
			ret := make([]flows.Var, 0, list.Len())
			for i := range list.Len() {
				v, ok := list.Index(i).(VarValue)
				if !ok {
					return nil, fmt.Errorf("expected var, got %s", list.Index(i).Type())
				}
				ret = append(ret, v.Var)
			}
			return ret, nil
		}
		tracked, err := varList(varsValue)
		if err != nil {
			return nil, err
		}
		initial, err := varList(initialValue)
		if err != nil {
			return nil, err
		}

		return FlowValue{Flow: flows.NewLoop(flows.LoopConfig{
			Body:          body,
			Condition:     condition,
			Tracked:       tracked,
			Initial:       initial,
			Save:          save,
			CheckFirst:    checkFirst,
			MaxIterations: maxIterations,
		})}, nil
	})

	ret["run"] = starlark.NewBuiltin("run", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var f FlowValue
		var inputsDict *starlark.Dict
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "flow", &f, "inputs?", &inputsDict); err != nil {
			return nil, err
		}

		inputs := make(flows.Inputs)
		if inputsDict != nil {
			for _, item := range inputsDict.Items() {
				key, ok := starlark.AsString(item[0])
				if !ok {
					return nil, fmt.Errorf("input keys must be strings, got %s", item[0].Type())
				}
				inputs[key] = fromStarlark(item[1])
			}
		}

		logger.Info("run",
			"program", thread.Name,
		)
		state := flows.NewState()
		if err := f.Flow.Operate(inputs, state); err != nil {
			return nil, err
		}
		return StateValue{State: state}, nil
	})

	return ret
}
