package core

// patchEntry binds (target, attribute name) to the original value, the
// replacement value, and the strategy used. Entries are exclusively owned by
// the Context or ObjectPatch that created them.
type patchEntry struct {
	target  any
	name    string
	value   any
	strat   Strategy
	handle  any
	applied bool
}

// newEntry builds an unapplied entry, selecting the strategy for value.
func newEntry(target any, name string, value any) *patchEntry {
	return &patchEntry{
		target: target,
		name:   name,
		value:  value,
		strat:  Select(value),
	}
}

// apply installs the replacement and captures the original. Calling apply on
// an already-applied entry is a no-op: re-applying would capture the live
// replacement as the "original" and corrupt restoration.
func (e *patchEntry) apply() error {
	if e.applied {
		return nil
	}

	handle, err := e.strat.apply(e.target, e.name, e.value)
	if err != nil {
		return err
	}

	e.handle = handle
	e.applied = true

	return nil
}

// undo restores the captured original. Idempotent: undo on an entry that is
// not applied is a no-op.
func (e *patchEntry) undo() error {
	if !e.applied {
		return nil
	}

	// Flip the flag before restoring so a failed restoration is not
	// retried with a stale handle by a later teardown pass.
	e.applied = false

	return e.strat.undo(e.target, e.name, e.handle)
}

// update temporarily overrides the attribute with temp. The returned restore
// func re-applies whatever state was active immediately before the override,
// not the pristine original, so nested temporary overrides layer correctly.
// The restore func is idempotent.
func (e *patchEntry) update(temp any) (func() error, error) {
	sub := newEntry(e.target, e.name, temp)
	if err := sub.apply(); err != nil {
		return nil, err
	}

	return sub.undo, nil
}

// suspend temporarily restores the pristine original. The returned restore
// func re-applies the mock, capturing the then-current state as its new
// original. Idempotent.
func (e *patchEntry) suspend() (func() error, error) {
	if err := e.undo(); err != nil {
		return nil, err
	}

	return e.apply, nil
}
