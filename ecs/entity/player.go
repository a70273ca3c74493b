package entity

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/motion"
	"github.com/milk9111/platformer/prefabs"
)

const DefaultPlayerPrefab = "player.yaml"

// MotionConfig resolves a player prefab into controller tuning.
func MotionConfig(spec prefabs.PlayerSpec) (motion.Config, error) {
	cfg := spec.Motion
	mask, err := ecs.LayerMask(spec.GroundLayers...)
	if err != nil {
		return cfg, fmt.Errorf("player: ground layers: %w", err)
	}
	cfg.GroundLayerMask = mask
	cfg.GroundCheckOffset = spec.GroundCheckOffset.Vec2()
	return cfg, nil
}

// NewPlayerAt builds the player with its feet at (x, y). The world must
// have a physics world attached.
func NewPlayerAt(w *ecs.World, x, y float64, prefab string) (ecs.Entity, error) {
	pw := w.PhysicsWorld()
	if pw == nil {
		return 0, fmt.Errorf("player: world has no physics")
	}
	if prefab == "" {
		prefab = DefaultPlayerPrefab
	}
	spec, err := prefabs.LoadTuning(prefab, pw.GravityY())
	if err != nil {
		return 0, fmt.Errorf("player: %w", err)
	}
	cfg, err := MotionConfig(spec)
	if err != nil {
		return 0, err
	}
	for _, warning := range cfg.Warnings() {
		log.Printf("player: tuning: %s", warning)
	}

	center := mgl64.Vec2{x, y + spec.Collider.Height/2}
	body, shape := pw.AddCharacterBox(center, spec.Collider.Width, spec.Collider.Height, spec.Collider.Mass, ecs.LayerPlayer)

	e := w.CreateEntity()
	ctrl, err := motion.NewController(cfg, ecs.BodyHandle{Body: body}, pw, playerHooks(w, e))
	if err != nil {
		pw.RemoveBody(body)
		w.DestroyEntity(e)
		return 0, fmt.Errorf("player: %w", err)
	}

	adds := []func() error{
		func() error { return ecs.Add(w, e, component.PlayerTagComponent, component.PlayerTag{}) },
		func() error {
			return ecs.Add(w, e, component.PlayerComponent, component.Player{Prefab: prefab, Script: spec.TuningScript})
		},
		func() error {
			return ecs.Add(w, e, component.TransformComponent, component.Transform{
				X: center.X(), Y: center.Y(), PrevX: center.X(), PrevY: center.Y(),
			})
		},
		func() error {
			return ecs.Add(w, e, component.PhysicsBodyComponent, component.PhysicsBody{
				Body:   body,
				Shape:  shape,
				Width:  spec.Collider.Width,
				Height: spec.Collider.Height,
				Mass:   spec.Collider.Mass,
				Layer:  uint(ecs.LayerPlayer),
			})
		},
		func() error { return ecs.Add(w, e, component.InputComponent, component.Input{}) },
		func() error { return ecs.Add(w, e, component.MotionComponent, component.Motion{Controller: ctrl}) },
		func() error {
			return ecs.Add(w, e, component.SafeRespawnComponent, component.SafeRespawn{X: center.X(), Y: center.Y(), Initialized: true})
		},
		func() error {
			return ecs.Add(w, e, component.ColorRectComponent, component.ColorRect{
				Width: spec.Collider.Width, Height: spec.Collider.Height, Color: namedColor(spec.Color, common.PlayerColor),
			})
		},
		func() error { return ecs.Add(w, e, component.RenderLayerComponent, component.RenderLayer{Index: 10}) },
	}
	for _, add := range adds {
		if err := add(); err != nil {
			return 0, fmt.Errorf("player: %w", err)
		}
	}
	return e, nil
}

// playerHooks forwards controller callbacks to the world event queue.
func playerHooks(w *ecs.World, e ecs.Entity) motion.Hooks {
	return motion.Hooks{
		OnJump: func(evt motion.JumpEvent) {
			w.Events().Push(ecs.Event{Kind: ecs.EventJump, Entity: e, Data: evt})
		},
		OnLand: func() {
			w.Events().Push(ecs.Event{Kind: ecs.EventLand, Entity: e})
		},
		OnJumpCut: func(before, after float64) {
			w.Events().Push(ecs.Event{Kind: ecs.EventJumpCut, Entity: e, Data: [2]float64{before, after}})
		},
	}
}
