package core

// ObjectPatch holds a single applied attribute replacement on a directly
// passed target, without the multi-attribute orchestration of a Context.
type ObjectPatch struct {
	entry    *patchEntry
	released bool
}

// PatchObject replaces the named attribute on target with value, selecting
// the strategy from the value's shape. The target is passed directly, not
// resolved by name. Fails with an AttributeAccessError if the attribute
// cannot be set (for example, an unexported struct field) — surfaced, not
// swallowed.
func PatchObject(target any, name string, value any) (*ObjectPatch, error) {
	entry := newEntry(target, name, value)
	if err := entry.apply(); err != nil {
		return nil, err
	}

	return &ObjectPatch{entry: entry}, nil
}

// Name returns the patched attribute name.
func (p *ObjectPatch) Name() string {
	return p.entry.name
}

// Release restores the original attribute state. Idempotent.
func (p *ObjectPatch) Release() error {
	if p.released {
		return nil
	}

	p.released = true

	return p.entry.undo()
}
