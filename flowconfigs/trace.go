package flowconfigs

import (
	"github.com/reusee/flow/cmds"
	"github.com/reusee/flow/configs"
)

// Trace dumps the final state after a run.
type Trace bool

var traceFlag = cmds.Switch("-trace")

func (Module) Trace(
	loader configs.Loader,
) Trace {
	if *traceFlag {
		return true
	}
	return Trace(configs.First[bool](loader, "trace"))
}
