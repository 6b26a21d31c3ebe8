package core

import (
	"errors"
	"fmt"
	"sort"
)

// contextState tracks the Context lifecycle.
type contextState int

const (
	stateUnopened contextState = iota
	stateOpen
	stateClosed
)

// Context orchestrates the patch entries for one logical mocking scope. It
// applies mocks on Enter, accepts mutation while open, and reverses every
// applied entry on Exit in reverse application order. Closed is terminal:
// construct a new Context for reuse.
//
// A Context assumes sequential use within one scope. Nested Contexts over the
// same target layer correctly because each entry captures the value current
// at its own apply time.
type Context struct {
	targetName string
	target     any
	entries    []*patchEntry
	tokens     []*TempPatch
	state      contextState
}

// NewContext returns an unopened Context.
func NewContext() *Context {
	return &Context{}
}

// Enter resolves targetName to a registered target and applies every mock
// whose value is not the NoMock sentinel. All-or-nothing: if any mock fails
// to apply, every already-applied mock from the batch is undone and the
// error is returned with nothing left mocked.
//
// Go maps carry no iteration order, so mocks apply in sorted attribute-name
// order. Callers that need a specific order apply the order-sensitive mocks
// via AddMock instead.
func (c *Context) Enter(targetName string, mocks map[string]any) error {
	if c.state != stateUnopened {
		return &UsageError{Op: "Enter", Reason: "context already entered; construct a new Context for a new scope"}
	}

	target, err := resolveTarget(targetName)
	if err != nil {
		return err
	}

	c.targetName = targetName
	c.target = target

	names := make([]string, 0, len(mocks))
	for name := range mocks {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		value := mocks[name]
		if value == any(NoMock) {
			continue
		}

		entry := newEntry(target, name, value)
		if err := entry.apply(); err != nil {
			if rbErr := c.rollback(); rbErr != nil {
				return errors.Join(err, rbErr)
			}

			return err
		}

		c.entries = append(c.entries, entry)
	}

	c.state = stateOpen

	return nil
}

// AddMock registers and applies a mock while the context is open. If name
// already has an active entry, the old entry is fully undone first and a
// fresh entry is created (replace semantics; a mapping replacement then
// merges against the restored original, not the old mock). A NoMock value is
// a no-op.
func (c *Context) AddMock(name string, value any) error {
	if c.state != stateOpen {
		return &UsageError{Op: "AddMock", Reason: "context is not open"}
	}

	if value == any(NoMock) {
		return nil
	}

	// Release outstanding override tokens for this name first, newest first,
	// so a later release cannot resurrect state from the replaced entry.
	for i := len(c.tokens) - 1; i >= 0; i-- {
		if c.tokens[i].name != name {
			continue
		}

		if err := c.tokens[i].Release(); err != nil {
			return fmt.Errorf("replacing mock for %q: %w", name, err)
		}

		c.tokens = append(c.tokens[:i], c.tokens[i+1:]...)
	}

	for i, existing := range c.entries {
		if existing.name != name {
			continue
		}

		if err := existing.undo(); err != nil {
			return fmt.Errorf("replacing mock for %q: %w", name, err)
		}

		c.entries = append(c.entries[:i], c.entries[i+1:]...)

		break
	}

	entry := newEntry(c.target, name, value)
	if err := entry.apply(); err != nil {
		return err
	}

	c.entries = append(c.entries, entry)

	return nil
}

// UpdatePatch temporarily overrides the named mock with temp. While the
// returned token is held, the attribute reflects temp; releasing the token
// (explicitly, or implicitly at Exit) reverts the attribute to whatever
// value was active immediately before the override.
func (c *Context) UpdatePatch(name string, temp any) (*TempPatch, error) {
	if c.state != stateOpen {
		return nil, &UsageError{Op: "UpdatePatch", Reason: "context is not open"}
	}

	entry := c.find(name)
	if entry == nil {
		return nil, &UsageError{Op: "UpdatePatch", Reason: fmt.Sprintf("no active mock named %q", name)}
	}

	restore, err := entry.update(temp)
	if err != nil {
		return nil, err
	}

	token := &TempPatch{name: name, restore: restore}
	c.tokens = append(c.tokens, token)

	return token, nil
}

// SuspendPatch temporarily removes the named mock, exposing the pristine
// original. Releasing the returned token re-applies the mock.
func (c *Context) SuspendPatch(name string) (*TempPatch, error) {
	if c.state != stateOpen {
		return nil, &UsageError{Op: "SuspendPatch", Reason: "context is not open"}
	}

	entry := c.find(name)
	if entry == nil {
		return nil, &UsageError{Op: "SuspendPatch", Reason: fmt.Sprintf("no active mock named %q", name)}
	}

	restore, err := entry.suspend()
	if err != nil {
		return nil, err
	}

	token := &TempPatch{name: name, restore: restore}
	c.tokens = append(c.tokens, token)

	return token, nil
}

// Mock returns the active replacement value registered under name, and
// whether one exists.
func (c *Context) Mock(name string) (any, bool) {
	entry := c.find(name)
	if entry == nil {
		return nil, false
	}

	return entry.value, true
}

// TargetName returns the name the context was entered with.
func (c *Context) TargetName() string {
	return c.targetName
}

// Exit releases any outstanding temporary override tokens (newest first),
// undoes every entry in reverse application order, and closes the context.
// Every undo is attempted even when one fails; failures are aggregated into
// a TeardownError returned after teardown completes, so one broken
// restoration never leaks the rest of the mocked state.
func (c *Context) Exit() error {
	switch c.state {
	case stateClosed:
		return &UsageError{Op: "Exit", Reason: "context already closed"}
	case stateUnopened:
		return &UsageError{Op: "Exit", Reason: "context was never entered"}
	case stateOpen:
	}

	c.state = stateClosed

	var errs []error

	for i := len(c.tokens) - 1; i >= 0; i-- {
		if err := c.tokens[i].Release(); err != nil {
			errs = append(errs, fmt.Errorf("releasing override of %q: %w", c.tokens[i].name, err))
		}
	}

	for i := len(c.entries) - 1; i >= 0; i-- {
		if err := c.entries[i].undo(); err != nil {
			errs = append(errs, fmt.Errorf("restoring %q: %w", c.entries[i].name, err))
		}
	}

	c.tokens = nil
	c.entries = nil

	if len(errs) > 0 {
		return &TeardownError{Errs: errs}
	}

	return nil
}

// find returns the active entry for name, or nil.
func (c *Context) find(name string) *patchEntry {
	for _, entry := range c.entries {
		if entry.name == name {
			return entry
		}
	}

	return nil
}

// rollback undoes the entries applied so far, in reverse order, attempting
// all of them. Used when Enter fails partway.
func (c *Context) rollback() error {
	var errs []error

	for i := len(c.entries) - 1; i >= 0; i-- {
		if err := c.entries[i].undo(); err != nil {
			errs = append(errs, fmt.Errorf("rolling back %q: %w", c.entries[i].name, err))
		}
	}

	c.entries = nil

	if len(errs) > 0 {
		return &TeardownError{Errs: errs}
	}

	return nil
}

// TempPatch is the scoped token returned by UpdatePatch and SuspendPatch.
// While held, the temporary state is live; Release reverts it. Unreleased
// tokens are released automatically when the owning Context exits.
type TempPatch struct {
	name     string
	restore  func() error
	released bool
}

// Name returns the attribute name the token overrides.
func (tp *TempPatch) Name() string {
	return tp.name
}

// Release reverts the temporary state. Idempotent: a second Release is a
// no-op.
func (tp *TempPatch) Release() error {
	if tp.released {
		return nil
	}

	tp.released = true

	return tp.restore()
}
