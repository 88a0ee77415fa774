package registry

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// Registry errors
var (
	ErrEmptyKey     = errors.New("registry key cannot be empty")
	ErrNilFactory   = errors.New("factory cannot be nil")
	ErrDuplicateKey = errors.New("key already registered")
	ErrFrozen       = errors.New("registry is frozen")
)

// Keyed is implemented by anything that can be stored in a Registry.
type Keyed interface {
	Key() string
}

// Validator inspects a factory before it is admitted to a Registry.
type Validator[F Keyed] func(F) error

// Option configures a Registry.
type Option[F Keyed] func(*Registry[F])

// WithValidator rejects factories at registration time when v returns an error.
func WithValidator[F Keyed](v Validator[F]) Option[F] {
	return func(r *Registry[F]) {
		r.validators = append(r.validators, v)
	}
}

// Registry maps unique, case-sensitive keys to factories.
//
// Invariant: each key is registered at most once. Factories are enumerated in
// insertion order; callers may rely on that order being stable.
//
// Register is only called during single-threaded startup. Once Freeze has been
// called the registry never changes and may be read concurrently without locks.
type Registry[F Keyed] struct {
	name       string
	order      []F
	index      map[string]int
	validators []Validator[F]
	frozen     atomic.Bool
}

// New creates an empty registry. name is used in error messages only.
func New[F Keyed](name string, opts ...Option[F]) *Registry[F] {
	r := &Registry[F]{
		name:  name,
		order: make([]F, 0),
		index: make(map[string]int),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name returns the registry name.
func (r *Registry[F]) Name() string {
	return r.name
}

// Register adds f under f.Key().
func (r *Registry[F]) Register(f F) error {
	if r.frozen.Load() {
		return fmt.Errorf("%s: %w", r.name, ErrFrozen)
	}
	if isNil(f) {
		return fmt.Errorf("%s: %w", r.name, ErrNilFactory)
	}

	key := f.Key()
	if key == "" {
		return fmt.Errorf("%s: %w", r.name, ErrEmptyKey)
	}
	if _, exists := r.index[key]; exists {
		return fmt.Errorf("%s: %w: %s", r.name, ErrDuplicateKey, key)
	}
	for _, validate := range r.validators {
		if err := validate(f); err != nil {
			return fmt.Errorf("%s: %s: %w", r.name, key, err)
		}
	}

	r.index[key] = len(r.order)
	r.order = append(r.order, f)
	return nil
}

// MustRegister is Register for static startup registration. A failure means
// the process was built or configured wrongly, so it panics.
func (r *Registry[F]) MustRegister(f F) {
	if err := r.Register(f); err != nil {
		panic(err)
	}
}

// Lookup returns the factory registered under key.
func (r *Registry[F]) Lookup(key string) (F, bool) {
	i, ok := r.index[key]
	if !ok {
		var zero F
		return zero, false
	}
	return r.order[i], true
}

// Contains reports whether key is registered.
func (r *Registry[F]) Contains(key string) bool {
	_, ok := r.index[key]
	return ok
}

// All returns the registered factories in insertion order.
// The returned slice is a copy.
func (r *Registry[F]) All() []F {
	out := make([]F, len(r.order))
	copy(out, r.order)
	return out
}

// Keys returns the registered keys in insertion order.
func (r *Registry[F]) Keys() []string {
	keys := make([]string, len(r.order))
	for i, f := range r.order {
		keys[i] = f.Key()
	}
	return keys
}

// Len returns the number of registered factories.
func (r *Registry[F]) Len() int {
	return len(r.order)
}

// Freeze ends the startup phase. Further Register calls fail with ErrFrozen.
func (r *Registry[F]) Freeze() {
	r.frozen.Store(true)
}

// Frozen reports whether Freeze has been called.
func (r *Registry[F]) Frozen() bool {
	return r.frozen.Load()
}

func isNil[F any](f F) bool {
	var v any = f
	if v == nil {
		return true
	}
	return isNilPointer(v)
}
