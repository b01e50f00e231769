package flows

import "sync"

// Var is a handle to a registered variable. Two Vars sharing a display name
// are still distinct keys; identity is the handle, not the name.
type Var int

type varInfo struct {
	name string
	docs string
}

var (
	varsMu   sync.RWMutex
	registry []varInfo
)

// NewVar registers a variable and returns a fresh handle.
func NewVar(name string, docs string) Var {
	varsMu.Lock()
	defer varsMu.Unlock()
	registry = append(registry, varInfo{
		name: name,
		docs: docs,
	})
	return Var(len(registry) - 1)
}

func (v Var) Name() string {
	varsMu.RLock()
	defer varsMu.RUnlock()
	return registry[v].name
}

func (v Var) Docs() string {
	varsMu.RLock()
	defer varsMu.RUnlock()
	return registry[v].docs
}

func (v Var) String() string {
	return v.Name()
}
