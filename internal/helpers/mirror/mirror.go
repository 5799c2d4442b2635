// Package mirror holds small reflect helpers used by the config loader.
package mirror

import (
	"errors"
	"reflect"
)

var (
	ErrNotPointer         = errors.New("not a pointer")
	ErrNilPointer         = errors.New("nil pointer")
	ErrInvalidPointerKind = errors.New("invalid pointer")
)

// IsStructPointer errors unless v is a non-nil pointer to a struct.
func IsStructPointer(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer {
		return ErrNotPointer
	}
	if rv.IsNil() {
		return ErrNilPointer
	}
	if rv.Elem().Kind() != reflect.Struct {
		return ErrInvalidPointerKind
	}
	return nil
}

// FreshLike returns a pointer to a new zeroed value of the type ptr points
// to. ptr must already have passed IsStructPointer.
func FreshLike(ptr any) any {
	return reflect.New(reflect.TypeOf(ptr).Elem()).Interface()
}
