package ecs

import "github.com/milk9111/platformer/ecs/component"

// Query returns live entities that have every listed component kind.
func (w *World) Query(kinds ...component.Kind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	sets := make([]*SparseSet, 0, len(kinds))
	for _, k := range kinds {
		s := w.stores[k.ID()]
		if s == nil || s.Len() == 0 {
			return nil
		}
		sets = append(sets, s)
	}

	// iterate smallest set
	smallest := 0
	for i, s := range sets {
		if s.Len() < sets[smallest].Len() {
			smallest = i
		}
	}

	var out []Entity
	for _, id := range sets[smallest].denseEntities {
		matched := true
		for i, s := range sets {
			if i != smallest && !s.Has(id) {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		if e, ok := w.entities.entity(id); ok {
			out = append(out, e)
		}
	}
	return out
}

// First returns the first live entity with all listed kinds.
func (w *World) First(kinds ...component.Kind) (Entity, bool) {
	ents := w.Query(kinds...)
	if len(ents) == 0 {
		return 0, false
	}
	return ents[0], true
}
