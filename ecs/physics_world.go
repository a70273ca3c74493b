package ecs

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/motion"
)

// Layer is a physics category bit.
type Layer uint

const (
	LayerGround Layer = 1 << iota
	LayerPlatform
	LayerPlayer
)

var layerNames = map[string]Layer{
	"ground":   LayerGround,
	"platform": LayerPlatform,
	"player":   LayerPlayer,
}

// LayerMask converts layer names into a ground mask for the motion core.
func LayerMask(names ...string) (motion.LayerMask, error) {
	var mask motion.LayerMask
	for _, name := range names {
		layer, ok := layerNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return 0, fmt.Errorf("physics: unknown layer %q", name)
		}
		mask |= motion.LayerMask(layer)
	}
	return mask, nil
}

const (
	physicsIterations = 20
	collisionSlop     = 0.01
	staticFriction    = 0.8
)

// PhysicsWorld owns the Chipmunk space. The world is y-up: gravity is
// negative and one unit is one tile.
type PhysicsWorld struct {
	space    *cp.Space
	gravityY float64
}

// NewPhysicsWorld creates an empty space with the given vertical gravity.
func NewPhysicsWorld(gravityY float64) *PhysicsWorld {
	space := cp.NewSpace()
	space.Iterations = physicsIterations
	space.SetCollisionSlop(collisionSlop)
	space.SetGravity(cp.Vector{X: 0, Y: gravityY})
	return &PhysicsWorld{space: space, gravityY: gravityY}
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// GravityY returns the signed vertical gravity.
func (pw *PhysicsWorld) GravityY() float64 {
	if pw == nil {
		return 0
	}
	return pw.gravityY
}

// AddStaticBox adds an axis-aligned static collider on layer.
func (pw *PhysicsWorld) AddStaticBox(bb cp.BB, layer Layer) *cp.Shape {
	if pw == nil || pw.space == nil {
		return nil
	}
	shape := cp.NewBox2(pw.space.StaticBody, bb, 0)
	shape.SetFriction(staticFriction)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(layer), cp.ALL_CATEGORIES))
	pw.space.AddShape(shape)
	return shape
}

// AddCharacterBox adds a dynamic box centred on center that never rotates.
// Friction is zero so horizontal speed is owned by the motion controller.
func (pw *PhysicsWorld) AddCharacterBox(center mgl64.Vec2, width, height, mass float64, layer Layer) (*cp.Body, *cp.Shape) {
	if pw == nil || pw.space == nil {
		return nil, nil
	}
	if mass <= 0 {
		mass = 1
	}
	body := cp.NewBody(mass, math.Inf(1))
	body.SetPosition(cp.Vector{X: center.X(), Y: center.Y()})
	shape := cp.NewBox(body, width, height, 0)
	shape.SetFriction(0)
	shape.SetElasticity(0)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(layer), cp.ALL_CATEGORIES))

	pw.space.AddBody(body)
	pw.space.AddShape(shape)
	return body, shape
}

// RemoveBody detaches a dynamic body and its shapes.
func (pw *PhysicsWorld) RemoveBody(body *cp.Body) {
	if pw == nil || pw.space == nil || body == nil || !pw.space.ContainsBody(body) {
		return
	}
	var shapes []*cp.Shape
	body.EachShape(func(s *cp.Shape) { shapes = append(shapes, s) })
	for _, s := range shapes {
		pw.space.RemoveShape(s)
	}
	pw.space.RemoveBody(body)
}

// OverlapCircle reports whether any non-sensor shape whose category is in
// mask lies within radius of center.
func (pw *PhysicsWorld) OverlapCircle(center mgl64.Vec2, radius float64, mask motion.LayerMask) bool {
	if pw == nil || pw.space == nil || mask == 0 {
		return false
	}
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(mask))
	info := pw.space.PointQueryNearest(cp.Vector{X: center.X(), Y: center.Y()}, radius, filter)
	return info != nil && info.Shape != nil
}

// Step advances the simulation by dt seconds.
func (pw *PhysicsWorld) Step(dt float64) {
	if pw == nil || pw.space == nil || dt <= 0 {
		return
	}
	pw.space.Step(dt)
}

// BodyHandle adapts a Chipmunk body to motion.Body.
type BodyHandle struct {
	Body *cp.Body
}

func (h BodyHandle) Position() mgl64.Vec2 {
	p := h.Body.Position()
	return mgl64.Vec2{p.X, p.Y}
}

func (h BodyHandle) Velocity() mgl64.Vec2 {
	v := h.Body.Velocity()
	return mgl64.Vec2{v.X, v.Y}
}

func (h BodyHandle) SetVelocity(v mgl64.Vec2) {
	h.Body.SetVelocity(v.X(), v.Y())
}

// Teleport moves the body and clears its velocity.
func (h BodyHandle) Teleport(pos mgl64.Vec2) {
	h.Body.SetPosition(cp.Vector{X: pos.X(), Y: pos.Y()})
	h.Body.SetVelocity(0, 0)
}

// RemoveShape detaches a single shape, typically static level geometry.
func (pw *PhysicsWorld) RemoveShape(shape *cp.Shape) {
	if pw == nil || pw.space == nil || shape == nil || shape.Space() != pw.space {
		return
	}
	pw.space.RemoveShape(shape)
}
