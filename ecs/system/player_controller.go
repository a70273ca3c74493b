package system

import (
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/motion"
)

// MotionFrameSystem feeds sampled input to every motion controller once per
// rendered frame.
type MotionFrameSystem struct{}

func NewMotionFrameSystem() *MotionFrameSystem { return &MotionFrameSystem{} }

func (s *MotionFrameSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Clock().Delta
	ecs.ForEach2(w, component.InputComponent, component.MotionComponent, func(_ ecs.Entity, in *component.Input, m *component.Motion) {
		if m.Controller == nil {
			return
		}
		m.Controller.OnFrame(motion.Input{
			Axis:         in.MoveX,
			JumpPressed:  in.JumpPressed,
			JumpReleased: in.JumpReleased,
		}, dt)
	})
}

// MotionPhysicsSystem runs the controllers' fixed-step work. It must run
// before PhysicsSystem in the same tick.
type MotionPhysicsSystem struct{}

func NewMotionPhysicsSystem() *MotionPhysicsSystem { return &MotionPhysicsSystem{} }

func (s *MotionPhysicsSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Clock().FixedDelta
	gravity := w.PhysicsWorld().GravityY()
	ecs.ForEach(w, component.MotionComponent, func(_ ecs.Entity, m *component.Motion) {
		if m.Controller != nil {
			m.Controller.OnPhysicsStep(dt, gravity)
		}
	})
}
