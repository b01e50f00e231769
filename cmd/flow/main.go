package main

import (
	"context"
	"os"

	"github.com/reusee/dscope"
	"github.com/reusee/flow/cmds"
	"github.com/reusee/flow/debugs"
	"github.com/reusee/flow/flowconfigs"
	"github.com/reusee/flow/logs"
	"github.com/reusee/flow/modes"
	"github.com/reusee/flow/starflows"
)

func main() {
	cmds.Define("run", cmds.
		Func(runProgram).
		Desc("execute a flow program file"))

	if err := cmds.Execute(os.Args[1:]); err != nil {
		os.Stderr.WriteString(err.Error())
		os.Stderr.WriteString("\n")
		os.Exit(-1)
	}
}

func runProgram(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var retErr error
	dscope.New(
		modes.ForProduction(),
		new(logs.Module),
		new(flowconfigs.Module),
		new(debugs.Module),
		new(starflows.Module),
	).Call(func(
		load starflows.Load,
		trace flowconfigs.Trace,
		tap debugs.Tap,
		newSpan logs.NewSpan,
	) {
		ctx, _ := newSpan(context.Background(), "")

		globals, err := load(path, file)
		if err != nil {
			retErr = logs.WrapSpan(ctx, err)
			return
		}

		if trace {
			for name, value := range globals {
				if stateValue, ok := value.(starflows.StateValue); ok {
					tap(ctx, name, stateValue.State)
				}
			}
		}
	})
	return retErr
}
