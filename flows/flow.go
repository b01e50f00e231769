package flows

// Inputs holds read-only auxiliary parameters threaded unchanged through
// every flow of a run.
type Inputs map[string]any

// Flow is a composable computation unit over inputs and a shared State.
type Flow interface {
	Operate(inputs Inputs, state *State) error
}

// OpFunc adapts a plain function to Flow.
type OpFunc func(inputs Inputs, state *State) error

var _ Flow = OpFunc(nil)

func (f OpFunc) Operate(inputs Inputs, state *State) error {
	return f(inputs, state)
}

type seqFlow []Flow

// Seq sequences flows strictly left to right against the same inputs and
// state. Nil entries act as the identity, so optional pipeline stages can be
// composed without special cases. Sequencing is associative.
func Seq(flows ...Flow) Flow {
	var seq seqFlow
	for _, flow := range flows {
		switch f := flow.(type) {
		case nil:
		case seqFlow:
			seq = append(seq, f...)
		default:
			seq = append(seq, f)
		}
	}
	return seq
}

func (s seqFlow) Operate(inputs Inputs, state *State) error {
	for _, flow := range s {
		if err := flow.Operate(inputs, state); err != nil {
			return err
		}
	}
	return nil
}
