package starflows

import (
	"io"

	"github.com/reusee/dscope"
	"github.com/reusee/flow/flowconfigs"
	"github.com/reusee/flow/logs"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

type Module struct {
	dscope.Module
}

var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
}

// Load executes a flow program and returns its globals. Runs happen inside
// the program through the run builtin.
type Load func(name string, src io.Reader) (starlark.StringDict, error)

func (Module) Load(
	logger logs.Logger,
	maxIterations flowconfigs.MaxIterations,
) Load {
	return func(name string, src io.Reader) (starlark.StringDict, error) {
		thread := &starlark.Thread{
			Name: name,
			Print: func(thread *starlark.Thread, msg string) {
				logger.Info("print",
					"program", thread.Name,
					"msg", msg,
				)
			},
		}
		content, err := io.ReadAll(src)
		if err != nil {
			return nil, err
		}
		return starlark.ExecFileOptions(
			fileOptions,
			thread,
			name,
			content,
			builtins(logger, int(maxIterations)),
		)
	}
}
