package ecs

import "github.com/milk9111/platformer/ecs/component"

// Add inserts or replaces the component value on e.
func Add[T any](w *World, e Entity, handle component.ComponentHandle[T], value T) error {
	if w == nil || !w.entities.isAlive(e) {
		return component.ErrEntityNotAlive
	}
	kind := handle.Kind()
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	v := value
	w.store(kind.ID(), true).Set(e.id(), &v)
	return nil
}

// Remove deletes the component from e and reports whether it was present.
func Remove[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	return w.store(handle.Kind().ID(), false).Remove(e.id())
}

// Has reports whether e carries the component.
func Has[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	return w.store(handle.Kind().ID(), false).Has(e.id())
}

// Get returns a copy of the component on e.
func Get[T any](w *World, e Entity, handle component.ComponentHandle[T]) (T, bool) {
	var zero T
	ptr, ok := GetPtr(w, e, handle)
	if !ok {
		return zero, false
	}
	return *ptr, true
}

// GetPtr returns the stored component so callers can mutate it in place.
func GetPtr[T any](w *World, e Entity, handle component.ComponentHandle[T]) (*T, bool) {
	if w == nil || !w.entities.isAlive(e) {
		return nil, false
	}
	value := w.store(handle.Kind().ID(), false).Get(e.id())
	if value == nil {
		return nil, false
	}
	ptr, ok := value.(*T)
	return ptr, ok
}

// ForEach visits every live entity carrying the component.
func ForEach[T any](w *World, handle component.ComponentHandle[T], fn func(e Entity, v *T)) {
	if w == nil || fn == nil {
		return
	}
	for _, e := range w.Query(handle.Kind()) {
		if ptr, ok := GetPtr(w, e, handle); ok {
			fn(e, ptr)
		}
	}
}

// ForEach2 visits every live entity carrying both components.
func ForEach2[A, B any](w *World, ha component.ComponentHandle[A], hb component.ComponentHandle[B], fn func(e Entity, a *A, b *B)) {
	if w == nil || fn == nil {
		return
	}
	for _, e := range w.Query(ha.Kind(), hb.Kind()) {
		a, okA := GetPtr(w, e, ha)
		b, okB := GetPtr(w, e, hb)
		if okA && okB {
			fn(e, a, b)
		}
	}
}
