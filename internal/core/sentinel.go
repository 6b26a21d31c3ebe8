// Package core provides the internal implementation of smartmock's
// substitution engine: strategy dispatch, patch entries, the mock context
// orchestrator, the object patcher, and the mock class factory.
package core

// Sentinel is a unique marker value compared by identity. It exists so that
// "no value" can be distinguished from every legitimate payload value,
// including nil.
type Sentinel struct {
	name string
}

// String returns the sentinel's diagnostic name.
func (s *Sentinel) String() string {
	return s.name
}

// unexported variables.
var (
	// NoMock signals "do not touch this attribute" when passed as a
	// replacement value. It is distinct from nil, which is a legitimate
	// replacement.
	//nolint:gochecknoglobals // Intentional identity-compared singleton
	NoMock = &Sentinel{name: "smartmock.NoMock"}

	// absent records that an attribute did not exist before apply, so undo
	// deletes it instead of resetting it.
	//nolint:gochecknoglobals // Intentional identity-compared singleton
	absent = &Sentinel{name: "smartmock.absent"}
)
