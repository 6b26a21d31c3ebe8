package core

import (
	"fmt"
	"reflect"
)

// This file is the only place that touches targets directly. A target is a
// live Go value: a map with string keys (namespace-like, attributes may be
// absent and can be deleted) or a pointer to a struct (exported settable
// fields). Every refusal surfaces as an AttributeAccessError.

// getAttr returns the current value of the named attribute, or the absent
// sentinel if the attribute does not exist on a map target.
func getAttr(target any, name string) (any, error) {
	tv, err := targetValue(target, name)
	if err != nil {
		return nil, err
	}

	if tv.Kind() == reflect.Map {
		existing := tv.MapIndex(reflect.ValueOf(name))
		if !existing.IsValid() {
			return absent, nil
		}

		return existing.Interface(), nil
	}

	field := tv.FieldByName(name)
	if !field.IsValid() {
		return nil, &AttributeAccessError{Name: name, Reason: fmt.Sprintf("no field %q on %T", name, target)}
	}

	if !field.CanSet() {
		return nil, &AttributeAccessError{Name: name, Reason: fmt.Sprintf("field %q on %T is not settable", name, target)}
	}

	return field.Interface(), nil
}

// setAttr sets the named attribute to value.
func setAttr(target any, name string, value any) error {
	tv, err := targetValue(target, name)
	if err != nil {
		return err
	}

	if tv.Kind() == reflect.Map {
		rv, err := valueFor(tv.Type().Elem(), name, value)
		if err != nil {
			return err
		}

		tv.SetMapIndex(reflect.ValueOf(name), rv)

		return nil
	}

	field := tv.FieldByName(name)
	if !field.IsValid() {
		return &AttributeAccessError{Name: name, Reason: fmt.Sprintf("no field %q on %T", name, target)}
	}

	if !field.CanSet() {
		return &AttributeAccessError{Name: name, Reason: fmt.Sprintf("field %q on %T is not settable", name, target)}
	}

	rv, err := valueFor(field.Type(), name, value)
	if err != nil {
		return err
	}

	field.Set(rv)

	return nil
}

// deleteAttr removes the named attribute entirely. Only map targets support
// deletion; the substitution engine only calls this when the captured
// original was absent, which cannot happen for struct fields.
func deleteAttr(target any, name string) error {
	tv, err := targetValue(target, name)
	if err != nil {
		return err
	}

	if tv.Kind() != reflect.Map {
		return &AttributeAccessError{Name: name, Reason: fmt.Sprintf("cannot delete attribute from %T", target)}
	}

	tv.SetMapIndex(reflect.ValueOf(name), reflect.Value{})

	return nil
}

// restoreAttr puts the attribute back to the captured original: a set for a
// captured value, a delete when the original state was "absent".
func restoreAttr(target any, name string, original any) error {
	if original == any(absent) {
		return deleteAttr(target, name)
	}

	return setAttr(target, name, original)
}

// targetValue validates the target and returns the reflect value to operate
// on: the map itself, or the struct pointed to.
func targetValue(target any, name string) (reflect.Value, error) {
	if name == "" {
		return reflect.Value{}, &AttributeAccessError{Name: name, Reason: "attribute name must be non-empty"}
	}

	tv := reflect.ValueOf(target)

	switch {
	case !tv.IsValid():
		return reflect.Value{}, &AttributeAccessError{Name: name, Reason: "target is nil"}
	case tv.Kind() == reflect.Map:
		if tv.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, &AttributeAccessError{
				Name:   name,
				Reason: fmt.Sprintf("map target %T must have string keys", target),
			}
		}

		if tv.IsNil() {
			return reflect.Value{}, &AttributeAccessError{Name: name, Reason: "map target is nil"}
		}

		return tv, nil
	case tv.Kind() == reflect.Pointer && tv.Elem().Kind() == reflect.Struct:
		return tv.Elem(), nil
	default:
		return reflect.Value{}, &AttributeAccessError{
			Name:   name,
			Reason: fmt.Sprintf("unsupported target %T: want a string-keyed map or a struct pointer", target),
		}
	}
}

// valueFor converts value into a reflect value assignable to typ.
func valueFor(typ reflect.Type, name string, value any) (reflect.Value, error) {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		// nil replacement: legal wherever the attribute type can hold nil
		switch typ.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			return reflect.Zero(typ), nil
		default:
			return reflect.Value{}, &AttributeAccessError{
				Name:   name,
				Reason: fmt.Sprintf("cannot store nil in attribute of type %s", typ),
			}
		}
	}

	if !rv.Type().AssignableTo(typ) {
		return reflect.Value{}, &AttributeAccessError{
			Name:   name,
			Reason: fmt.Sprintf("value of type %s is not assignable to attribute of type %s", rv.Type(), typ),
		}
	}

	return rv, nil
}
