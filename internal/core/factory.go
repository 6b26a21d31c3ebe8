package core

import (
	"fmt"
	"reflect"
)

// MockClass is a freshly synthesized class-like value: a set of named
// methods plus class-level attributes. It never touches pre-existing
// objects, so it has no patch/restore lifecycle. The Select classifier
// treats a *MockClass as a class object.
type MockClass struct {
	methods    map[string]any
	attributes map[string]any
}

// NewMockClass synthesizes a class from a map of method-name to behavior and
// a map of attribute-name to value. A behavior that is itself callable is
// invoked with the call's arguments; a behavior that is a plain non-callable
// value becomes a method that returns that value unconditionally — the
// common "just give me a method that returns X" case.
func NewMockClass(methods map[string]any, attributes map[string]any) *MockClass {
	cls := &MockClass{
		methods:    make(map[string]any, len(methods)),
		attributes: make(map[string]any, len(attributes)),
	}

	for name, behavior := range methods {
		cls.methods[name] = behavior
	}

	for name, value := range attributes {
		cls.attributes[name] = value
	}

	return cls
}

// Attr returns the class-level attribute, accessible without instantiation.
func (c *MockClass) Attr(name string) (any, bool) {
	value, ok := c.attributes[name]

	return value, ok
}

// HasMethod reports whether the class defines the named method.
func (c *MockClass) HasMethod(name string) bool {
	_, ok := c.methods[name]

	return ok
}

// New builds an instance of the class.
func (c *MockClass) New() *MockInstance {
	return &MockInstance{class: c}
}

// MockInstance is an instance of a synthesized MockClass.
type MockInstance struct {
	class *MockClass
}

// Call invokes the named method with args and returns its results. A
// constant behavior returns that constant as the single result, ignoring
// args. Calling an undefined method is a UsageError.
func (inst *MockInstance) Call(name string, args ...any) ([]any, error) {
	behavior, ok := inst.class.methods[name]
	if !ok {
		return nil, &UsageError{Op: "Call", Reason: fmt.Sprintf("class defines no method %q", name)}
	}

	if !isCallable(behavior) {
		return []any{behavior}, nil
	}

	return callBehavior(name, behavior, args)
}

// Get returns the named attribute from the class.
func (inst *MockInstance) Get(name string) (any, bool) {
	return inst.class.Attr(name)
}

// callBehavior invokes fn with args via reflection, adapting each argument
// to the parameter type.
func callBehavior(name string, fn any, args []any) ([]any, error) {
	fv := reflect.ValueOf(fn)
	ft := fv.Type()

	fixed := ft.NumIn()
	if ft.IsVariadic() {
		fixed--

		if len(args) < fixed {
			return nil, &UsageError{
				Op:     "Call",
				Reason: fmt.Sprintf("method %q wants at least %d argument(s), got %d", name, fixed, len(args)),
			}
		}
	} else if len(args) != fixed {
		return nil, &UsageError{
			Op:     "Call",
			Reason: fmt.Sprintf("method %q wants %d argument(s), got %d", name, fixed, len(args)),
		}
	}

	in := make([]reflect.Value, len(args))

	for i, arg := range args {
		paramType := ft.In(min(i, ft.NumIn()-1))
		if ft.IsVariadic() && i >= fixed {
			paramType = ft.In(ft.NumIn() - 1).Elem()
		}

		av := reflect.ValueOf(arg)
		if !av.IsValid() {
			av = reflect.Zero(paramType)
		}

		if !av.Type().AssignableTo(paramType) {
			return nil, &UsageError{
				Op:     "Call",
				Reason: fmt.Sprintf("method %q argument %d: %T is not assignable to %s", name, i, arg, paramType),
			}
		}

		in[i] = av
	}

	out := fv.Call(in)

	results := make([]any, len(out))
	for i, v := range out {
		results[i] = v.Interface()
	}

	return results, nil
}
