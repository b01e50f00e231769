package flows

import "fmt"

// LoopConfig describes a Loop.
type LoopConfig struct {
	// Body is run once per iteration.
	Body Flow
	// Condition must set the condition var each time it runs.
	Condition Flow
	// Tracked vars are captured into the tape after each body execution.
	Tracked []Var
	// Initial vars are captured at the iteration-0 baseline, before any
	// condition check. Nil means all tracked vars.
	Initial []Var
	// Save preserves the tape after the loop exits.
	Save bool
	// CheckFirst evaluates the condition before the first body execution
	// (while-style). When false the body runs at least once.
	CheckFirst bool
	// MaxIterations aborts the run after that many body executions. Zero
	// means unlimited.
	MaxIterations int
}

// Loop is a Flow implementing conditional iteration with automatic history
// capture. A Loop is an immutable description built once and run any number
// of times against different States. The same Loop must not be concurrently
// active twice on one State; its tape is keyed by loop identity.
type Loop struct {
	body          Flow
	condition     Flow
	tracked       []Var
	initial       []Var
	save          bool
	checkFirst    bool
	maxIterations int
	counter       Var
}

var _ Flow = new(Loop)

func NewLoop(config LoopConfig) *Loop {
	initial := config.Initial
	if initial == nil {
		initial = config.Tracked
	}
	return &Loop{
		body:          config.Body,
		condition:     config.Condition,
		tracked:       config.Tracked,
		initial:       initial,
		save:          config.Save,
		checkFirst:    config.CheckFirst,
		maxIterations: config.MaxIterations,
		counter:       NewVar("#", "The number of iterations in a loop."),
	}
}

// Counter returns the var holding the loop's iteration count while the loop
// is active.
func (l *Loop) Counter() Var {
	return l.counter
}

func (l *Loop) Operate(inputs Inputs, state *State) (err error) {
	state.pushLoop(l)
	// pop must happen even when an inner flow fails, or the loop stack and
	// tape map would hold stale entries.
	defer state.popLoop()

	// baseline capture, counter goes from -1 to 0
	if err := state.Advance(l, l.initial); err != nil {
		return err
	}

	if l.checkFirst {
		ok, err := l.test(inputs, state)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	for {
		if l.maxIterations > 0 && state.tapes[l].counter >= l.maxIterations {
			return fmt.Errorf("%w: %d", ErrTooManyIterations, l.maxIterations)
		}
		if l.body != nil {
			if err := l.body.Operate(inputs, state); err != nil {
				return err
			}
		}
		if err := state.Advance(l, nil); err != nil {
			return err
		}
		ok, err := l.test(inputs, state)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}

func (l *Loop) test(inputs Inputs, state *State) (bool, error) {
	if l.condition != nil {
		if err := l.condition.Operate(inputs, state); err != nil {
			return false, err
		}
	}
	return state.ConsumeCondition()
}
