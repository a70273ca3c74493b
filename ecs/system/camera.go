package system

import (
	"math"

	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/motion"
)

// CameraSystem eases the camera towards its target with SmoothDamp, leading
// in the direction the target is moving.
type CameraSystem struct {
	camEntity    ecs.Entity
	targetEntity ecs.Entity
}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

func (cs *CameraSystem) Update(w *ecs.World) {
	if !w.IsAlive(cs.camEntity) {
		cs.camEntity, _ = w.First(component.CameraComponent.Kind())
	}
	cam, ok := ecs.GetPtr(w, cs.camEntity, component.CameraComponent)
	if !ok {
		return
	}
	camT, ok := ecs.GetPtr(w, cs.camEntity, component.TransformComponent)
	if !ok {
		return
	}

	if !w.IsAlive(cs.targetEntity) {
		cs.targetEntity = findEntityByNameOrTag(w, cam.Target)
	}
	target, ok := ecs.Get(w, cs.targetEntity, component.TransformComponent)
	if !ok {
		return
	}

	tx, ty := target.X, target.Y
	if pb, ok := ecs.Get(w, cs.targetEntity, component.PhysicsBodyComponent); ok && pb.Body != nil {
		tx += pb.Body.Velocity().X * cam.LookAhead
	}

	dt := w.Clock().Delta
	camT.PrevX, camT.PrevY = camT.X, camT.Y
	camT.X = motion.SmoothDamp(camT.X, tx, &cam.VelX, cam.Smoothness, math.Inf(1), dt)
	camT.Y = motion.SmoothDamp(camT.Y, ty, &cam.VelY, cam.Smoothness, math.Inf(1), dt)
}

// Snap moves the camera onto its target immediately.
func (cs *CameraSystem) Snap(w *ecs.World) {
	camEntity, ok := w.First(component.CameraComponent.Kind())
	if !ok {
		return
	}
	cam, _ := ecs.GetPtr(w, camEntity, component.CameraComponent)
	camT, ok := ecs.GetPtr(w, camEntity, component.TransformComponent)
	if !ok {
		return
	}
	target, ok := ecs.Get(w, findEntityByNameOrTag(w, cam.Target), component.TransformComponent)
	if !ok {
		return
	}
	camT.X, camT.Y = target.X, target.Y
	camT.PrevX, camT.PrevY = target.X, target.Y
	cam.VelX, cam.VelY = 0, 0
}

func findEntityByNameOrTag(w *ecs.World, name string) ecs.Entity {
	if name == "player" || name == "" {
		if e, ok := w.First(component.PlayerTagComponent.Kind()); ok {
			return e
		}
	}
	return 0
}
