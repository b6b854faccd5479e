package isp

import "sync"

// The step registry is the process-wide dispatch table from step identifier
// to implementation. Implementations register themselves from their own
// package's init, so loading the steps package (usually via a blank import
// from the composition root) is the discovery pass. Registration order must
// not matter and re-running discovery only re-registers.

var (
	registryMu sync.RWMutex
	registry   = make(map[Step]StepFunc)
)

// Register associates a step identifier with its implementation.
// Re-registering an identifier replaces the prior mapping: last
// registration wins, so a later-loaded package can override a built-in.
func Register(step Step, fn StepFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[step] = fn
}

// Resolve looks up a step implementation. Absent identifiers fail with
// *UnregisteredStepError.
func Resolve(step Step) (StepFunc, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fn, ok := registry[step]
	if !ok {
		return nil, &UnregisteredStepError{Step: step}
	}
	return fn, nil
}

// Registered reports whether an implementation exists for the identifier.
func Registered(step Step) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[step]
	return ok
}
