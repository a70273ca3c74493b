package entity

import (
	"fmt"

	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/prefabs"
)

func NewCameraAt(w *ecs.World, x, y float64) (ecs.Entity, error) {
	cameraSpec, err := prefabs.LoadCameraSpec()
	if err != nil {
		return 0, fmt.Errorf("camera: load spec: %w", err)
	}

	camera := w.CreateEntity()
	if err := ecs.Add(w, camera, component.CameraTagComponent, component.CameraTag{}); err != nil {
		return 0, fmt.Errorf("camera: add camera tag: %w", err)
	}
	if err := ecs.Add(w, camera, component.TransformComponent, component.Transform{X: x, Y: y, PrevX: x, PrevY: y}); err != nil {
		return 0, fmt.Errorf("camera: add transform: %w", err)
	}

	zoom := cameraSpec.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	if err := ecs.Add(w, camera, component.CameraComponent, component.Camera{
		Target:     cameraSpec.Target,
		Zoom:       zoom,
		Smoothness: cameraSpec.Smoothness,
		LookAhead:  cameraSpec.LookAhead,
	}); err != nil {
		return 0, fmt.Errorf("camera: add camera component: %w", err)
	}

	return camera, nil
}
