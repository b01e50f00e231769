package flows

// Switch dispatches on the condition set by a preceding flow in the same
// composition, consuming it exactly once. A missing branch is a no-op.
type Switch struct {
	Yes Flow
	No  Flow
}

var _ Flow = Switch{}

func (s Switch) Operate(inputs Inputs, state *State) error {
	yes, err := state.ConsumeCondition()
	if err != nil {
		return err
	}
	if yes {
		if s.Yes != nil {
			return s.Yes.Operate(inputs, state)
		}
	} else {
		if s.No != nil {
			return s.No.Operate(inputs, state)
		}
	}
	return nil
}
