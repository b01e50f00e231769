package cmds

// the default executor, shared by flag registrations in init funcs across
// packages
var defaultExecutor = NewExecutor()

func Define(name string, command *Command) {
	defaultExecutor.Define(name, command)
}

func Execute(args []string) error {
	return defaultExecutor.Execute(args)
}

func MustExecute(args []string) {
	defaultExecutor.MustExecute(args)
}
