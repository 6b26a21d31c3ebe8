package smartmock

import "github.com/toejough/smartmock/internal/core"

// RegisterTarget registers target under name so Enter can resolve it.
// Registering a name twice replaces the earlier target. The returned func
// deregisters the name; pass it to t.Cleanup to scope a registration to one
// test:
//
//	t.Cleanup(smartmock.RegisterTarget("app.config", cfg))
//
// The registry is process-wide shared state; callers must not run two
// independently scoped mocking operations against the same target from
// parallel tests.
func RegisterTarget(name string, target any) func() {
	return core.RegisterTarget(name, target)
}
