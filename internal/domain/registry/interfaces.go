package registry

import "reflect"

// Provider defines read-only access to a frozen registry.
// Selectors depend on this rather than on *Registry so tests can substitute
// hand-built tables.
type Provider[F Keyed] interface {
	// Lookup returns the factory registered under key.
	Lookup(key string) (F, bool)

	// All returns every factory in insertion order.
	All() []F
}

// Compile-time check that Registry implements Provider.
var _ Provider[Keyed] = (*Registry[Keyed])(nil)

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
