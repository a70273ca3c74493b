package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

// PhysicsSystem creates missing colliders, steps the physics world by one
// fixed tick and copies dynamic body positions back into transforms.
type PhysicsSystem struct {
	tracked map[ecs.Entity]component.PhysicsBody
}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{tracked: make(map[ecs.Entity]component.PhysicsBody)}
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	pw := w.PhysicsWorld()
	if pw == nil {
		return
	}

	ps.cleanupEntities(w, pw)
	ps.syncEntities(w, pw)

	ecs.ForEach(w, component.TransformComponent, func(_ ecs.Entity, t *component.Transform) {
		t.PrevX, t.PrevY = t.X, t.Y
	})

	pw.Step(w.Clock().FixedDelta)

	ps.syncTransforms(w)
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World, pw *ecs.PhysicsWorld) {
	ecs.ForEach2(w, component.PhysicsBodyComponent, component.TransformComponent, func(e ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
		if pb.Shape == nil {
			if pb.Static {
				bb := cp.BB{L: t.X - pb.Width/2, B: t.Y - pb.Height/2, R: t.X + pb.Width/2, T: t.Y + pb.Height/2}
				pb.Shape = pw.AddStaticBox(bb, ecs.Layer(pb.Layer))
				if pb.Shape != nil {
					pb.Body = pb.Shape.Body()
				}
			} else {
				pb.Body, pb.Shape = pw.AddCharacterBox(mgl64.Vec2{t.X, t.Y}, pb.Width, pb.Height, pb.Mass, ecs.Layer(pb.Layer))
			}
		}
		ps.tracked[e] = *pb
	})
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent, component.TransformComponent, func(_ ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
		if pb.Static || pb.Body == nil {
			return
		}
		pos := pb.Body.Position()
		t.X, t.Y = pos.X, pos.Y
	})
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World, pw *ecs.PhysicsWorld) {
	for e, pb := range ps.tracked {
		if w.IsAlive(e) && ecs.Has(w, e, component.PhysicsBodyComponent) {
			continue
		}
		if pb.Static {
			pw.RemoveShape(pb.Shape)
		} else {
			pw.RemoveBody(pb.Body)
		}
		delete(ps.tracked, e)
	}
}
