package debugs

import (
	"context"

	"github.com/reusee/flow/flows"
	"github.com/reusee/flow/logs"
	"github.com/reusee/flow/modes"
	"go.starlark.net/repl"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Tap logs the live variables of a state and drops into a starlark REPL
// over a snapshot of their values. The REPL is skipped outside production
// mode, it would block on stdin.
type Tap func(ctx context.Context, what string, state *flows.State)

func (Module) Tap(
	logger logs.Logger,
	mode modes.Mode,
) Tap {
	return func(ctx context.Context, what string, state *flows.State) {
		var names []string
		mappings := make(starlark.StringDict)
		for v, value := range state.Values() {
			names = append(names, v.Name())
			mappings[v.Name()] = toStarlarkValue(value)
		}

		logger.InfoContext(ctx, "tap: "+what,
			"vars", names,
		)
		defer func() {
			logger.InfoContext(ctx, "tap end: "+what)
		}()

		if mode != modes.ModeProduction {
			return
		}

		thread := &starlark.Thread{
			Name: "repl",
		}
		repl.REPLOptions(&syntax.FileOptions{
			Set:             true,
			While:           true,
			TopLevelControl: true,
		}, thread, mappings)
	}
}
