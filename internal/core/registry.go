package core

import "sync"

// RegisterTarget registers target under name so Context.Enter can resolve
// it. Registering a name twice replaces the earlier target. The returned
// func deregisters the name; pass it to t.Cleanup to scope a registration to
// one test.
func RegisterTarget(name string, target any) func() {
	targetsMu.Lock()
	defer targetsMu.Unlock()

	targets[name] = target

	return func() {
		targetsMu.Lock()
		defer targetsMu.Unlock()

		delete(targets, name)
	}
}

// resolveTarget looks up a registered target by name.
func resolveTarget(name string) (any, error) {
	targetsMu.Lock()
	defer targetsMu.Unlock()

	target, ok := targets[name]
	if !ok {
		return nil, &ResolutionError{Target: name}
	}

	return target, nil
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Package-level registry is intentional: targets are process-wide shared state
	targets = make(map[string]any)
	//nolint:gochecknoglobals // Mutex for targets
	targetsMu sync.Mutex
)
