package core

import (
	"errors"
	"testing"

	. "github.com/onsi/gomega"
)

// TestExit_AggregatesTeardownFailures verifies that a failing undo does not
// stop teardown: every other entry is still restored, and the failures come
// back aggregated in a single TeardownError.
func TestExit_AggregatesTeardownFailures(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	target := map[string]any{"good": "pristine"}

	good := newEntry(target, "good", "mocked")
	g.Expect(good.apply()).To(Succeed())

	// An applied mapping entry carrying a foreign handle: its undo fails.
	bad := &patchEntry{
		target:  target,
		name:    "bad",
		strat:   mappingStrategy{},
		handle:  "bogus",
		applied: true,
	}

	ctx := &Context{
		target:  target,
		entries: []*patchEntry{good, bad},
		state:   stateOpen,
	}

	err := ctx.Exit()

	var tdErr *TeardownError

	g.Expect(errors.As(err, &tdErr)).To(BeTrue(), "want TeardownError, got %v", err)
	g.Expect(tdErr.Errs).To(HaveLen(1))

	g.Expect(target["good"]).To(Equal("pristine"),
		"one broken restoration must not leak the rest of the mocked state")

	var usageErr *UsageError

	g.Expect(errors.As(err, &usageErr)).To(BeTrue(),
		"the underlying failure should be reachable through Unwrap")
}

// TestEnter_OnEnteredContext verifies the unopened-only precondition.
func TestEnter_OnEnteredContext(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	defer RegisterTarget("core.reenter.module", map[string]any{})()

	ctx := NewContext()
	g.Expect(ctx.Enter("core.reenter.module", nil)).To(Succeed())

	var usageErr *UsageError

	g.Expect(errors.As(ctx.Enter("core.reenter.module", nil), &usageErr)).To(BeTrue())
	g.Expect(ctx.Exit()).To(Succeed())
}

// TestExit_BeforeEnter verifies exiting a never-entered context is a usage
// error, not a silent no-op.
func TestExit_BeforeEnter(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var usageErr *UsageError

	g.Expect(errors.As(NewContext().Exit(), &usageErr)).To(BeTrue())
}
