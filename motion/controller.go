// Package motion implements the platformer character controller: smoothed
// horizontal movement, buffered and coyote-tolerant jumps, multi-jump, jump
// cut on release and extra gravity while falling.
//
// The controller is driven from two call sites. OnFrame runs once per
// rendered frame and handles input, timers and jump triggering. OnPhysicsStep
// runs once per fixed physics tick and handles horizontal smoothing, the
// ground check and fall acceleration. Both mutate the Body's velocity in
// place; the physics engine integrates it.
package motion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// timerFloor bounds how far the coyote and buffer timers run negative.
const timerFloor = -1000.0

// Body is the physics-owned state the controller reads and overwrites.
type Body interface {
	Position() mgl64.Vec2
	Velocity() mgl64.Vec2
	SetVelocity(v mgl64.Vec2)
}

// GroundProbe answers whether any collider on mask overlaps the circle.
type GroundProbe interface {
	OverlapCircle(center mgl64.Vec2, radius float64, mask LayerMask) bool
}

// Input is one frame of sampled input. JumpPressed and JumpReleased are
// edges: true only on the frame the button changed.
type Input struct {
	Axis         float64
	JumpPressed  bool
	JumpReleased bool
}

// State is the controller's mutable per-character state.
type State struct {
	HorizontalInput     float64
	SmoothedVelocityRef float64
	JumpsRemaining      int
	CoyoteTimer         float64
	JumpBufferTimer     float64
	Grounded            bool
}

// JumpKind tells which grant paid for a jump.
type JumpKind int

const (
	JumpGround JumpKind = iota
	JumpCoyote
	JumpAir
)

func (k JumpKind) String() string {
	switch k {
	case JumpGround:
		return "ground"
	case JumpCoyote:
		return "coyote"
	case JumpAir:
		return "air"
	default:
		return "unknown"
	}
}

// JumpEvent describes a jump that just fired.
type JumpEvent struct {
	Kind           JumpKind
	JumpsRemaining int
	// Previous vertical velocity, overwritten by the jump.
	PrevVY float64
}

// Hooks are optional callbacks invoked synchronously from the entry points.
type Hooks struct {
	OnJump    func(JumpEvent)
	OnLand    func()
	OnJumpCut func(before, after float64)
}

// GroundCheck is the ground-check circle in world space.
type GroundCheck struct {
	Center mgl64.Vec2
	Radius float64
}

// Controller owns the motion state for one character.
type Controller struct {
	cfg   Config
	state State
	body  Body
	probe GroundProbe
	hooks Hooks
}

// NewController validates cfg once and returns a controller with a full
// jump count and zeroed timers.
func NewController(cfg Config, body Body, probe GroundProbe, hooks Hooks) (*Controller, error) {
	if body == nil {
		return nil, ErrNilBody
	}
	if probe == nil {
		return nil, ErrNilProbe
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{cfg: cfg, body: body, probe: probe, hooks: hooks}
	c.Reset()
	return c, nil
}

// Config returns the active tuning.
func (c *Controller) Config() Config {
	return c.cfg
}

// SetConfig swaps the tuning. The jump count is clamped to the new maximum.
func (c *Controller) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	if c.state.JumpsRemaining > cfg.MaxJumps {
		c.state.JumpsRemaining = cfg.MaxJumps
	}
	return nil
}

// State returns a snapshot of the motion state.
func (c *Controller) State() State {
	return c.state
}

// Reset restores the initial state. The body's velocity is left alone.
func (c *Controller) Reset() {
	c.state = State{JumpsRemaining: c.cfg.MaxJumps}
}

// GroundCheck exposes the ground-check circle for debug drawing.
func (c *Controller) GroundCheck() GroundCheck {
	return GroundCheck{
		Center: c.body.Position().Add(c.cfg.GroundCheckOffset),
		Radius: c.cfg.GroundCheckRadius,
	}
}

// OnFrame samples input, decays timers, fires a pending jump and applies
// the jump cut. dt is the frame duration in seconds.
func (c *Controller) OnFrame(in Input, dt float64) {
	s := &c.state
	s.HorizontalInput = in.Axis

	if s.Grounded {
		s.CoyoteTimer = c.cfg.CoyoteTime
	} else {
		s.CoyoteTimer = math.Max(s.CoyoteTimer-dt, timerFloor)
	}

	if in.JumpPressed {
		s.JumpBufferTimer = c.cfg.JumpBufferTime
	} else {
		s.JumpBufferTimer = math.Max(s.JumpBufferTimer-dt, timerFloor)
	}

	if s.JumpBufferTimer > 0 && (s.JumpsRemaining > 0 || s.CoyoteTimer > 0) {
		c.jump()
	}

	if in.JumpReleased {
		v := c.body.Velocity()
		if v.Y() > 0 {
			before := v.Y()
			v[1] = before * c.cfg.JumpCutMultiplier
			c.body.SetVelocity(v)
			if c.hooks.OnJumpCut != nil {
				c.hooks.OnJumpCut(before, v[1])
			}
		}
	}
}

func (c *Controller) jump() {
	s := &c.state
	kind := JumpAir
	switch {
	case s.Grounded:
		kind = JumpGround
	case s.CoyoteTimer > 0:
		kind = JumpCoyote
	}

	v := c.body.Velocity()
	prev := v.Y()
	v[1] = c.cfg.JumpForce
	c.body.SetVelocity(v)

	// A coyote jump can fire with no jumps left; keep the count in range.
	s.JumpsRemaining--
	if s.JumpsRemaining < 0 {
		s.JumpsRemaining = 0
	}
	s.CoyoteTimer = 0
	s.JumpBufferTimer = 0

	if c.hooks.OnJump != nil {
		c.hooks.OnJump(JumpEvent{Kind: kind, JumpsRemaining: s.JumpsRemaining, PrevVY: prev})
	}
}

// OnPhysicsStep smooths horizontal velocity, refreshes the ground check and
// adds fall gravity. gravityY is the signed world gravity (negative is down).
func (c *Controller) OnPhysicsStep(dt, gravityY float64) {
	s := &c.state
	v := c.body.Velocity()

	target := s.HorizontalInput * c.cfg.MoveSpeed
	v[0] = SmoothDamp(v.X(), target, &s.SmoothedVelocityRef, c.cfg.AccelerationTime, math.Inf(1), dt)

	wasGrounded := s.Grounded
	gc := c.GroundCheck()
	s.Grounded = c.probe.OverlapCircle(gc.Center, gc.Radius, c.cfg.GroundLayerMask)
	if s.Grounded {
		s.JumpsRemaining = c.cfg.MaxJumps
	}

	if v.Y() < 0 {
		v[1] += gravityY * (c.cfg.FallMultiplier - 1) * dt
	}
	c.body.SetVelocity(v)

	if s.Grounded && !wasGrounded && c.hooks.OnLand != nil {
		c.hooks.OnLand()
	}
}
