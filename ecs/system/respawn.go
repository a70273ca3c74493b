package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

const RespawnOutOfBounds = "out_of_bounds"

type RespawnSystem struct{}

func NewRespawnSystem() *RespawnSystem { return &RespawnSystem{} }

// Update flags players that left the level and performs pending respawn
// requests. It runs after the PhysicsSystem so the teleport is not undone
// by the same tick's integration.
func (s *RespawnSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	if boundsEntity, ok := w.First(component.LevelBoundsComponent.Kind()); ok {
		bounds, _ := ecs.Get(w, boundsEntity, component.LevelBoundsComponent)
		for _, e := range w.Query(component.PlayerTagComponent.Kind(), component.TransformComponent.Kind()) {
			t, _ := ecs.Get(w, e, component.TransformComponent)
			if !bounds.Contains(t.X, t.Y) && !ecs.Has(w, e, component.RespawnRequestComponent) {
				_ = ecs.Add(w, e, component.RespawnRequestComponent, component.RespawnRequest{Reason: RespawnOutOfBounds})
			}
		}
	}

	ecs.ForEach(w, component.RespawnRequestComponent, func(e ecs.Entity, req *component.RespawnRequest) {
		defer ecs.Remove(w, e, component.RespawnRequestComponent)

		safe, ok := ecs.Get(w, e, component.SafeRespawnComponent)
		if !ok || !safe.Initialized {
			return
		}
		if t, ok := ecs.GetPtr(w, e, component.TransformComponent); ok {
			t.X, t.Y = safe.X, safe.Y
			t.PrevX, t.PrevY = safe.X, safe.Y
		}
		if pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent); ok && pb.Body != nil {
			ecs.BodyHandle{Body: pb.Body}.Teleport(mgl64.Vec2{safe.X, safe.Y})
		}
		if m, ok := ecs.Get(w, e, component.MotionComponent); ok && m.Controller != nil {
			m.Controller.Reset()
		}
		w.Events().Push(ecs.Event{Kind: ecs.EventRespawn, Entity: e, Data: req.Reason})
	})
}
