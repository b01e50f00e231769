package flows

// Condition is the reserved one-shot signal between a condition-evaluating
// flow and its dispatcher. A condition flow sets it; the very next consumer
// (a Switch or a Loop's own test) reads and deletes it through
// ConsumeCondition. It must never be read twice without being re-set.
var Condition = NewVar("?", "The condition supplied to switches and loops.")

// ConsumeCondition reads the condition value, removes it from the state, and
// returns its truthiness. Consuming an unset condition is a hard failure.
func (s *State) ConsumeCondition() (bool, error) {
	value, ok := s.values[Condition]
	if !ok {
		return false, ErrMissingCondition
	}
	delete(s.values, Condition)
	return truthy(value), nil
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case int:
		return v != 0
	case int8:
		return v != 0
	case int16:
		return v != 0
	case int32:
		return v != 0
	case int64:
		return v != 0
	case uint:
		return v != 0
	case uint8:
		return v != 0
	case uint16:
		return v != 0
	case uint32:
		return v != 0
	case uint64:
		return v != 0
	case float32:
		return v != 0
	case float64:
		return v != 0
	case string:
		return v != ""
	}
	return true
}
