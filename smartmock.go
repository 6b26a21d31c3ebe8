// Package smartmock provides smart attribute substitution for Go tests: it
// classifies a replacement value (function, constant, mapping, class), picks
// the strategy that knows how to install it onto a named attribute of a
// registered target, and guarantees deterministic, nested-safe restoration of
// the original value afterward.
//
// This is the public API entry point. Implementation lives in internal/core.
package smartmock

import (
	"errors"

	"github.com/toejough/smartmock/internal/core"
)

// AttributeAccessError reports that a target refused an attribute operation.
type AttributeAccessError = core.AttributeAccessError

// Context orchestrates the mocks for a single logical scope: Enter applies
// them, AddMock/UpdatePatch/SuspendPatch mutate while open, Exit restores
// everything in reverse order.
type Context = core.Context

// NewContext creates a new unopened Context.
func NewContext() *Context {
	return core.NewContext()
}

// MockClass is a freshly synthesized class-like value with methods and
// class-level attributes.
type MockClass = core.MockClass

// MockInstance is an instance of a MockClass.
type MockInstance = core.MockInstance

// ObjectPatch is a single applied attribute replacement on a directly passed
// target.
type ObjectPatch = core.ObjectPatch

// ResolutionError reports an unresolvable target name.
type ResolutionError = core.ResolutionError

// Sentinel is a unique marker value compared by identity.
type Sentinel = core.Sentinel

// StrategyKind identifies which substitution strategy handles a value.
type StrategyKind = core.StrategyKind

// Strategy kinds, in dispatch priority order: classes are checked before
// plain callables because a class object may itself be invocable.
const (
	KindClass     = core.KindClass
	KindMethod    = core.KindMethod
	KindMapping   = core.KindMapping
	KindAttribute = core.KindAttribute
)

// TeardownError aggregates undo failures from a context exit.
type TeardownError = core.TeardownError

// TempPatch is the scoped token returned by UpdatePatch and SuspendPatch.
type TempPatch = core.TempPatch

// UsageError reports a misuse of the mocking API.
type UsageError = core.UsageError

// NoMock is the "do not touch this attribute" sentinel. Passing it as a
// replacement value skips that attribute entirely; it is distinct from nil,
// which is a legitimate replacement value.
//
//nolint:gochecknoglobals // Intentional identity-compared singleton
var NoMock = core.NoMock

// Enter constructs a Context and enters it over the named registered target.
// All-or-nothing: on error, nothing is left mocked and no Context is
// returned.
func Enter(targetName string, mocks map[string]any) (*Context, error) {
	ctx := core.NewContext()
	if err := ctx.Enter(targetName, mocks); err != nil {
		return nil, err
	}

	return ctx, nil
}

// NewMockClass synthesizes a class from method and attribute maps. A
// non-callable method behavior becomes a method returning that value
// unconditionally.
func NewMockClass(methods map[string]any, attributes map[string]any) *MockClass {
	return core.NewMockClass(methods, attributes)
}

// PatchObject replaces a single attribute on a directly passed target,
// returning a handle whose Release restores the original state.
func PatchObject(target any, name string, value any) (*ObjectPatch, error) {
	return core.PatchObject(target, name, value)
}

// SelectKind classifies a replacement value. Classification is a pure, total
// function of the value's shape, checked in fixed priority order: class,
// callable, mapping, attribute fallback.
func SelectKind(value any) StrategyKind {
	return core.Select(value).Kind()
}

// TestReporter is the minimal interface smartmock needs from test
// frameworks. Satisfied by *testing.T.
type TestReporter interface {
	Helper()
	Fatalf(format string, args ...any)
}

// With opens a Context over the named target, runs body, and guarantees
// teardown on every exit path, including panics raised inside body. Setup
// and teardown failures fail the test via t.
func With(t TestReporter, targetName string, mocks map[string]any, body func(ctx *Context)) {
	t.Helper()

	ctx := core.NewContext()
	if err := ctx.Enter(targetName, mocks); err != nil {
		t.Fatalf("entering mock context for %q: %v", targetName, err)

		return
	}

	defer func() {
		if err := ctx.Exit(); err != nil {
			t.Fatalf("exiting mock context for %q: %v", targetName, err)
		}
	}()

	body(ctx)
}

// WithPatch patches a single attribute on target for the duration of body,
// releasing it on every exit path including panics. Returns the release
// error, if any.
func WithPatch(target any, name string, value any, body func()) (err error) {
	patch, err := core.PatchObject(target, name, value)
	if err != nil {
		return err
	}

	defer func() {
		relErr := patch.Release()
		if relErr != nil {
			err = errors.Join(err, relErr)
		}
	}()

	body()

	return nil
}
