package core

import (
	"reflect"
)

// StrategyKind identifies which substitution strategy handles a replacement
// value. The set is closed: every value classifies as exactly one kind.
type StrategyKind int

// Strategy kinds, in dispatch priority order. Class is checked before Method
// because a class object may itself be invocable; checking invocability first
// would misclassify classes as methods.
const (
	KindClass StrategyKind = iota
	KindMethod
	KindMapping
	KindAttribute
)

// String returns the kind's name.
func (k StrategyKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindMethod:
		return "method"
	case KindMapping:
		return "mapping"
	case KindAttribute:
		return "attribute"
	default:
		return "unknown"
	}
}

// Strategy knows how to install a replacement value onto a named attribute
// and how to undo the installation. Strategies are stateless; everything
// captured at apply time travels in the returned handle.
type Strategy interface {
	// Kind reports which variant this strategy is.
	Kind() StrategyKind

	// apply installs value and returns a handle holding the captured
	// original state, for undo.
	apply(target any, name string, value any) (any, error)

	// undo restores the state captured in handle.
	undo(target any, name string, handle any) error
}

// Select classifies value and returns the strategy responsible for it.
// Classification is a pure function of the value's shape, checked in fixed
// priority order: class, then callable, then mapping, then the attribute
// fallback. nil is a plain value (attribute), not a deletion signal. An empty
// map is still a mapping.
func Select(value any) Strategy {
	switch {
	case isClass(value):
		return setRestoreStrategy{kind: KindClass}
	case isCallable(value):
		return setRestoreStrategy{kind: KindMethod}
	case isMapping(value):
		return mappingStrategy{}
	default:
		return setRestoreStrategy{kind: KindAttribute}
	}
}

// isClass reports whether value is a type object: a reflect.Type or a
// synthesized MockClass.
func isClass(value any) bool {
	if _, ok := value.(reflect.Type); ok {
		return true
	}

	_, ok := value.(*MockClass)

	return ok
}

// isCallable reports whether value is invocable.
func isCallable(value any) bool {
	return value != nil && reflect.TypeOf(value).Kind() == reflect.Func
}

// isMapping reports whether value has key-value container shape.
func isMapping(value any) bool {
	return value != nil && reflect.TypeOf(value).Kind() == reflect.Map
}

// setRestoreStrategy implements the shared mechanics of the class, method,
// and attribute strategies: capture the current value (or absence), set the
// replacement, restore exactly on undo. The variants differ only in
// classification.
type setRestoreStrategy struct {
	kind StrategyKind
}

// Kind implements Strategy.
func (s setRestoreStrategy) Kind() StrategyKind {
	return s.kind
}

func (s setRestoreStrategy) apply(target any, name string, value any) (any, error) {
	original, err := getAttr(target, name)
	if err != nil {
		return nil, err
	}

	if err := setAttr(target, name, value); err != nil {
		return nil, err
	}

	return original, nil
}

func (s setRestoreStrategy) undo(target any, name string, handle any) error {
	return restoreAttr(target, name, handle)
}

// mappingStrategy merges the replacement into an existing mapping attribute
// key by key (new keys added, existing keys overwritten), retaining a full
// snapshot of the original contents for exact restoration. When the existing
// attribute is absent, nil, or not a compatible mapping, it degrades to
// attribute behavior.
type mappingStrategy struct{}

// Kind implements Strategy.
func (mappingStrategy) Kind() StrategyKind {
	return KindMapping
}

// mappingHandle is the captured state of a mapping apply.
type mappingHandle struct {
	merged   bool
	live     reflect.Value // the map mutated in place
	snapshot reflect.Value // full copy of its original contents
	original any           // set-restore path when merged is false
}

func (mappingStrategy) apply(target any, name string, value any) (any, error) {
	original, err := getAttr(target, name)
	if err != nil {
		return nil, err
	}

	replacement := reflect.ValueOf(value)

	live := reflect.ValueOf(original)
	if original != any(absent) && mergeable(live, replacement) {
		snapshot := copyMap(live)
		mergeMap(live, replacement)

		return &mappingHandle{merged: true, live: live, snapshot: snapshot}, nil
	}

	if err := setAttr(target, name, value); err != nil {
		return nil, err
	}

	return &mappingHandle{original: original}, nil
}

func (mappingStrategy) undo(target any, name string, handle any) error {
	h, ok := handle.(*mappingHandle)
	if !ok {
		return &UsageError{Op: "undo", Reason: "mapping strategy invoked with a foreign handle"}
	}

	if !h.merged {
		return restoreAttr(target, name, h.original)
	}

	// Restore the live map to its snapshot contents in place, so every
	// holder of the map sees the original state again.
	for _, key := range h.live.MapKeys() {
		h.live.SetMapIndex(key, reflect.Value{})
	}

	for iter := h.snapshot.MapRange(); iter.Next(); {
		h.live.SetMapIndex(iter.Key(), iter.Value())
	}

	return nil
}

// mergeable reports whether replacement's keys and values can be stored into
// live directly.
func mergeable(live, replacement reflect.Value) bool {
	if !live.IsValid() || live.Kind() != reflect.Map || live.IsNil() {
		return false
	}

	return replacement.Type().Key().AssignableTo(live.Type().Key()) &&
		replacement.Type().Elem().AssignableTo(live.Type().Elem())
}

func copyMap(m reflect.Value) reflect.Value {
	out := reflect.MakeMapWithSize(m.Type(), m.Len())
	for iter := m.MapRange(); iter.Next(); {
		out.SetMapIndex(iter.Key(), iter.Value())
	}

	return out
}

func mergeMap(dst, src reflect.Value) {
	for iter := src.MapRange(); iter.Next(); {
		dst.SetMapIndex(iter.Key(), iter.Value())
	}
}
