package module

import (
	"fmt"
	"reflect"
)

// PortSet is whatever a module hands to its peers, usually a struct of service interfaces
type PortSet = any

// PortsOf finds a T in m's ports: the set itself, or else its first exported field holding a T
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	set := m.Ports()
	if t, ok := set.(T); ok {
		return t, true
	}
	v := reflect.ValueOf(set)
	if v.Kind() != reflect.Struct {
		return zero, false
	}
	for i := range v.NumField() {
		if !v.Type().Field(i).IsExported() {
			continue
		}
		if t, ok := v.Field(i).Interface().(T); ok {
			return t, true
		}
	}
	return zero, false
}

// MustPortsOf is PortsOf for wiring code, where a missing port is a programming error
func MustPortsOf[T any](m Module) T {
	t, ok := PortsOf[T](m)
	if !ok {
		panic(fmt.Sprintf("module %s exports no %s", m.Name(), reflect.TypeFor[T]()))
	}
	return t
}
