package flowconfigs

import (
	"github.com/reusee/flow/cmds"
	"github.com/reusee/flow/configs"
	"github.com/reusee/flow/vars"
)

// MaxIterations is the default iteration guard applied to loops that do not
// set their own limit. Zero means unlimited.
type MaxIterations int

var maxIterationsFlag = cmds.Var[int]("-max-iterations")

func (Module) MaxIterations(
	loader configs.Loader,
) MaxIterations {
	return MaxIterations(vars.FirstNonZero(
		*maxIterationsFlag,
		configs.First[int](loader, "max_iterations"),
	))
}
