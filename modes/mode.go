package modes

type Mode int

const (
	ModeProduction Mode = iota
	ModeDevelopment
)
