package system

import (
	"log"
	"path"
	"path/filepath"

	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/ecs/entity"
	"github.com/milk9111/platformer/prefabs"
)

// TuningLoader reads a player prefab, running its tuning script.
type TuningLoader func(prefab string, gravity float64) (prefabs.PlayerSpec, error)

// CameraLoader reads the camera prefab.
type CameraLoader func() (prefabs.CameraSpec, error)

// TuningSystem applies ReloadRequests. Players re-read their prefab and
// swap the controller's config; cameras re-read the camera spec. A bad
// file leaves the current tuning in place.
type TuningSystem struct {
	load       TuningLoader
	loadCamera CameraLoader
}

func NewTuningSystem(load TuningLoader) *TuningSystem {
	if load == nil {
		load = prefabs.LoadTuning
	}
	return &TuningSystem{load: load, loadCamera: prefabs.LoadCameraSpec}
}

// SetCameraLoader replaces the camera spec source. nil restores the
// prefab loader.
func (s *TuningSystem) SetCameraLoader(load CameraLoader) {
	if load == nil {
		load = prefabs.LoadCameraSpec
	}
	s.loadCamera = load
}

func (s *TuningSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	gravity := w.PhysicsWorld().GravityY()

	ecs.ForEach(w, component.ReloadRequestComponent, func(e ecs.Entity, req *component.ReloadRequest) {
		source := req.Source
		ecs.Remove(w, e, component.ReloadRequestComponent)

		if player, ok := ecs.GetPtr(w, e, component.PlayerComponent); ok {
			m, ok := ecs.Get(w, e, component.MotionComponent)
			if !ok || m.Controller == nil {
				return
			}
			err := s.applyPlayer(player, m, gravity)
			logReload(player.Prefab, source, err)
			w.Events().Push(ecs.Event{Kind: ecs.EventReload, Entity: e, Data: err})
			return
		}

		if cam, ok := ecs.GetPtr(w, e, component.CameraComponent); ok {
			err := s.applyCamera(cam)
			logReload(prefabs.CameraPrefab, source, err)
			w.Events().Push(ecs.Event{Kind: ecs.EventReload, Entity: e, Data: err})
		}
	})
}

func logReload(prefab, source string, err error) {
	if err != nil {
		log.Printf("tuning: reload %s (%s): %v", prefab, source, err)
		return
	}
	log.Printf("tuning: reloaded %s (%s)", prefab, source)
}

func (s *TuningSystem) applyPlayer(player *component.Player, m component.Motion, gravity float64) error {
	spec, err := s.load(player.Prefab, gravity)
	if err != nil {
		return err
	}
	cfg, err := entity.MotionConfig(spec)
	if err != nil {
		return err
	}
	if err := m.Controller.SetConfig(cfg); err != nil {
		return err
	}
	player.Script = spec.TuningScript
	for _, warning := range cfg.Warnings() {
		log.Printf("tuning: %s", warning)
	}
	return nil
}

func (s *TuningSystem) applyCamera(cam *component.Camera) error {
	spec, err := s.loadCamera()
	if err != nil {
		return err
	}
	cam.Target = spec.Target
	cam.Zoom = spec.Zoom
	if cam.Zoom <= 0 {
		cam.Zoom = 1
	}
	cam.Smoothness = spec.Smoothness
	cam.LookAhead = spec.LookAhead
	return nil
}

// RouteReload queues a ReloadRequest on every entity built from the edited
// file: players whose prefab or tuning script it is, and cameras for the
// camera prefab. It returns the number of requests queued.
func RouteReload(w *ecs.World, file string) int {
	if w == nil || file == "" {
		return 0
	}
	name := path.Base(filepath.ToSlash(file))
	queued := 0
	request := func(e ecs.Entity) {
		if err := ecs.Add(w, e, component.ReloadRequestComponent, component.ReloadRequest{Source: name}); err != nil {
			log.Printf("tuning: queue reload for %s: %v", name, err)
			return
		}
		queued++
	}

	ecs.ForEach(w, component.PlayerComponent, func(e ecs.Entity, p *component.Player) {
		if sameFile(name, p.Prefab) || sameFile(name, p.Script) {
			request(e)
		}
	})
	if name == prefabs.CameraPrefab {
		for _, e := range w.Query(component.CameraComponent.Kind()) {
			request(e)
		}
	}
	return queued
}

func sameFile(name, ref string) bool {
	return ref != "" && path.Base(filepath.ToSlash(ref)) == name
}
