package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/platformer/ecs/component"
)

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, w.CreateEntity())
			}
			if len(w.Entities()) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(w.Entities()))
			}
			if c.destroyIndex < 0 {
				return
			}
			if !w.DestroyEntity(ents[c.destroyIndex]) {
				t.Fatalf("DestroyEntity should return true for alive entity")
			}
			if w.IsAlive(ents[c.destroyIndex]) {
				t.Fatalf("entity should not be alive after destruction")
			}
			if w.DestroyEntity(ents[c.destroyIndex]) {
				t.Fatalf("DestroyEntity should return false for a dead entity")
			}
			if len(w.Entities()) != c.create-1 {
				t.Fatalf("expected %d entities after destroy, got %d", c.create-1, len(w.Entities()))
			}
		})
	}
}

func TestWorldRecycledSlotRejectsStaleHandle(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	old := w.CreateEntity()
	if err := Add(w, old, h, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	w.DestroyEntity(old)

	fresh := w.CreateEntity()
	if fresh.id() != old.id() {
		t.Fatalf("expected slot %d to be recycled, got %d", old.id(), fresh.id())
	}
	if fresh == old {
		t.Fatalf("recycled entity must carry a new generation")
	}
	if w.IsAlive(old) {
		t.Fatalf("stale handle reported alive")
	}
	if Has(w, fresh, h) {
		t.Fatalf("recycled entity inherited a component")
	}
	if err := Add(w, old, h, 2); !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("expected ErrEntityNotAlive for stale handle, got %v", err)
	}
}

func TestWorldComponents(t *testing.T) {
	w := NewWorld()
	hi := component.NewComponent[int]()
	hs := component.NewComponent[string]()

	e1 := w.CreateEntity()
	e2 := w.CreateEntity()

	tests := []struct {
		name  string
		setup func() error
		check func(t *testing.T)
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, hi, 10) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, hi)
				if !ok || v != 10 {
					t.Fatalf("expected 10, got %v (ok=%v)", v, ok)
				}
			},
		},
		{
			name:  "replace_int_on_e1",
			setup: func() error { return Add(w, e1, hi, 11) },
			check: func(t *testing.T) {
				if v, _ := Get(w, e1, hi); v != 11 {
					t.Fatalf("expected 11, got %v", v)
				}
			},
		},
		{
			name:  "add_string_to_e2",
			setup: func() error { return Add(w, e2, hs, "hello") },
			check: func(t *testing.T) {
				if Has(w, e2, hi) {
					t.Fatalf("e2 should not have int")
				}
				if v, _ := Get(w, e2, hs); v != "hello" {
					t.Fatalf("expected hello, got %q", v)
				}
			},
		},
		{
			name: "mutate_through_pointer",
			setup: func() error {
				p, ok := GetPtr(w, e1, hi)
				if !ok {
					return errors.New("missing int on e1")
				}
				*p = 42
				return nil
			},
			check: func(t *testing.T) {
				if v, _ := Get(w, e1, hi); v != 42 {
					t.Fatalf("expected 42 after pointer write, got %v", v)
				}
			},
		},
		{
			name: "remove_int_from_e1",
			setup: func() error {
				if !Remove(w, e1, hi) {
					return errors.New("remove returned false")
				}
				return nil
			},
			check: func(t *testing.T) {
				if Has(w, e1, hi) {
					t.Fatalf("int should be gone from e1")
				}
				if Remove(w, e1, hi) {
					t.Fatalf("second remove should return false")
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup: %v", err)
			}
			tc.check(t)
		})
	}
}

func TestWorldAddInvalidKind(t *testing.T) {
	w := NewWorld()
	e := w.CreateEntity()
	var zero component.ComponentHandle[int]
	if err := Add(w, e, zero, 1); !errors.Is(err, component.ErrInvalidComponentKind) {
		t.Fatalf("expected ErrInvalidComponentKind, got %v", err)
	}
}

func TestWorldQuery(t *testing.T) {
	w := NewWorld()
	ha := component.NewComponent[int]()
	hb := component.NewComponent[float64]()

	both := w.CreateEntity()
	onlyA := w.CreateEntity()
	onlyB := w.CreateEntity()
	_ = Add(w, both, ha, 1)
	_ = Add(w, both, hb, 1.5)
	_ = Add(w, onlyA, ha, 2)
	_ = Add(w, onlyB, hb, 2.5)

	cases := []struct {
		name  string
		kinds []component.Kind
		want  []Entity
	}{
		{"a", []component.Kind{ha.Kind()}, []Entity{both, onlyA}},
		{"b", []component.Kind{hb.Kind()}, []Entity{both, onlyB}},
		{"a_and_b", []component.Kind{ha.Kind(), hb.Kind()}, []Entity{both}},
		{"none", nil, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := toSet(w.Query(c.kinds...))
			if len(got) != len(c.want) {
				t.Fatalf("expected %d entities, got %d", len(c.want), len(got))
			}
			for _, e := range c.want {
				if _, ok := got[e]; !ok {
					t.Fatalf("expected %v in result", e)
				}
			}
		})
	}

	w.DestroyEntity(both)
	if got := w.Query(ha.Kind(), hb.Kind()); len(got) != 0 {
		t.Fatalf("destroyed entity still queried: %v", got)
	}

	sum := 0
	ForEach(w, ha, func(_ Entity, v *int) { sum += *v })
	if sum != 2 {
		t.Fatalf("expected ForEach sum 2, got %d", sum)
	}
}

func TestForEach2Mutates(t *testing.T) {
	w := NewWorld()
	hp := component.NewComponent[float64]()
	hv := component.NewComponent[float64]()
	e := w.CreateEntity()
	_ = Add(w, e, hp, 1.0)
	_ = Add(w, e, hv, 2.0)

	ForEach2(w, hp, hv, func(_ Entity, p, v *float64) { *p += *v })
	if got, _ := Get(w, e, hp); got != 3 {
		t.Fatalf("expected 3, got %v", got)
	}
}

func TestEventQueue(t *testing.T) {
	var q EventQueue
	q.Push(Event{Kind: EventJump})
	q.Push(Event{Kind: EventLand})
	if len(q.Pending()) != 2 {
		t.Fatalf("expected 2 pending events")
	}
	got := q.Drain()
	if len(got) != 2 || got[0].Kind != EventJump || got[1].Kind != EventLand {
		t.Fatalf("unexpected drain order: %v", got)
	}
	if q.Drain() != nil {
		t.Fatalf("queue should be empty after drain")
	}
}

func toSet(ents []Entity) map[Entity]struct{} {
	m := make(map[Entity]struct{}, len(ents))
	for _, e := range ents {
		m[e] = struct{}{}
	}
	return m
}
