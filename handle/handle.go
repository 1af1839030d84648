// Package handle provides indirection cells so that consumers can be wired to an object
// before that object exists.
package handle

import (
	"errors"
	"sync/atomic"
)

// ErrUnlinked is returned when reading a handle that has no target.
var ErrUnlinked = errors.New("handle not linked")

// Handle gives read access to a possibly absent target.
type Handle[T any] interface {
	Current() (T, error)
	Empty() bool
}

// Fixed is bound once at construction.
type Fixed[T any] struct {
	target T
	ok     bool
}

// NewFixed returns a handle bound to target.
func NewFixed[T any](target T) Fixed[T] {
	return Fixed[T]{target: target, ok: true}
}

func (h Fixed[T]) Current() (T, error) {
	if !h.ok {
		var zero T
		return zero, ErrUnlinked
	}
	return h.target, nil
}

func (h Fixed[T]) Empty() bool {
	return !h.ok
}

// Relinkable can be rebound after construction. Holders share the *Relinkable, so a
// LinkTo is seen by all of them. Rebinding is a single atomic pointer swap.
type Relinkable[T any] struct {
	p atomic.Pointer[T]
}

// NewRelinkable returns an empty handle.
func NewRelinkable[T any]() *Relinkable[T] {
	return &Relinkable[T]{}
}

// LinkTo makes target the current target.
func (h *Relinkable[T]) LinkTo(target T) {
	h.p.Store(&target)
}

// Unlink clears the target.
func (h *Relinkable[T]) Unlink() {
	h.p.Store(nil)
}

func (h *Relinkable[T]) Current() (T, error) {
	p := h.p.Load()
	if p == nil {
		var zero T
		return zero, ErrUnlinked
	}
	return *p, nil
}

func (h *Relinkable[T]) Empty() bool {
	return h.p.Load() == nil
}
