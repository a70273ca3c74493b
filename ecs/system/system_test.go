package system

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/ecs/entity"
	"github.com/milk9111/platformer/levels"
	"github.com/milk9111/platformer/motion"
	"github.com/milk9111/platformer/prefabs"
)

const frameDT = 1.0 / 60.0

// scriptedInput replays a held state; edges last for one sample.
type scriptedInput struct {
	next component.Input
}

func (s *scriptedInput) Sample() component.Input {
	in := s.next
	s.next.JumpPressed = false
	s.next.JumpReleased = false
	return in
}

func (s *scriptedInput) press() {
	s.next.JumpHeld = true
	s.next.JumpPressed = true
}

func (s *scriptedInput) release() {
	s.next.JumpHeld = false
	s.next.JumpReleased = true
}

type harness struct {
	t      *testing.T
	w      *ecs.World
	sched  *ecs.Scheduler
	input  *scriptedInput
	tuning *TuningSystem
	player ecs.Entity
	events []ecs.Event
}

func newHarness(t *testing.T, loader TuningLoader) *harness {
	t.Helper()
	w := ecs.NewWorld()
	w.SetPhysicsWorld(ecs.NewPhysicsWorld(common.Gravity))
	lvl, err := levels.LoadLevelFromFS("test")
	if err != nil {
		t.Fatalf("level: %v", err)
	}
	if err := entity.LoadLevelToWorld(w, lvl, ""); err != nil {
		t.Fatalf("load level: %v", err)
	}
	player, ok := w.First(component.PlayerTagComponent.Kind())
	if !ok {
		t.Fatalf("no player")
	}

	input := &scriptedInput{}
	tuning := NewTuningSystem(loader)
	s := ecs.NewScheduler(common.PhysicsStep)
	s.AddFrame(NewInputSystem(input))
	s.AddFrame(tuning)
	s.AddFrame(NewMotionFrameSystem())
	s.AddFrame(NewCameraSystem())
	s.AddFixed(NewMotionPhysicsSystem())
	s.AddFixed(NewPhysicsSystem())
	s.AddFixed(NewRespawnSystem())

	return &harness{t: t, w: w, sched: s, input: input, tuning: tuning, player: player}
}

func (h *harness) run(frames int) {
	for i := 0; i < frames; i++ {
		h.sched.Update(h.w, frameDT)
		h.events = append(h.events, h.w.Events().Pending()...)
	}
}

func (h *harness) controller() *motion.Controller {
	m, ok := ecs.Get(h.w, h.player, component.MotionComponent)
	if !ok {
		h.t.Fatalf("player lost its controller")
	}
	return m.Controller
}

func (h *harness) position() mgl64.Vec2 {
	t, _ := ecs.Get(h.w, h.player, component.TransformComponent)
	return mgl64.Vec2{t.X, t.Y}
}

func (h *harness) velocity() mgl64.Vec2 {
	pb, _ := ecs.Get(h.w, h.player, component.PhysicsBodyComponent)
	return ecs.BodyHandle{Body: pb.Body}.Velocity()
}

func (h *harness) count(kind ecs.EventKind) int {
	n := 0
	for _, evt := range h.events {
		if evt.Kind == kind {
			n++
		}
	}
	return n
}

func (h *harness) jumpKinds() []motion.JumpKind {
	var kinds []motion.JumpKind
	for _, evt := range h.events {
		if jump, ok := evt.Data.(motion.JumpEvent); ok && evt.Kind == ecs.EventJump {
			kinds = append(kinds, jump.Kind)
		}
	}
	return kinds
}

func TestPlayerSettlesGrounded(t *testing.T) {
	h := newHarness(t, nil)
	start := h.position()
	h.run(30)

	if !h.controller().State().Grounded {
		t.Fatalf("expected player grounded after settling")
	}
	if d := math.Abs(h.position().Y() - start.Y()); d > 0.1 {
		t.Fatalf("player drifted %v vertically while idle", d)
	}
	if h.controller().State().JumpsRemaining != h.controller().Config().MaxJumps {
		t.Fatalf("expected full jumps on ground")
	}
}

func TestPlayerRunsRight(t *testing.T) {
	h := newHarness(t, nil)
	h.run(10)
	startX := h.position().X()

	h.input.next.MoveX = 1
	h.run(60)

	if moved := h.position().X() - startX; moved < 7 {
		t.Fatalf("expected to cover most of a second at move speed, moved %v", moved)
	}
	if vx := h.velocity().X(); math.Abs(vx-h.controller().Config().MoveSpeed) > 0.1 {
		t.Fatalf("expected top speed, got %v", vx)
	}

	h.input.next.MoveX = 0
	h.run(60)
	if vx := h.velocity().X(); math.Abs(vx) > 0.05 {
		t.Fatalf("expected to come to rest, got vx=%v", vx)
	}
}

func TestPlayerJumpApexAndLanding(t *testing.T) {
	h := newHarness(t, nil)
	h.run(10)
	groundY := h.position().Y()

	h.input.press()
	h.run(1)
	if h.count(ecs.EventJump) != 1 {
		t.Fatalf("expected one jump event, got %d", h.count(ecs.EventJump))
	}
	if kinds := h.jumpKinds(); kinds[0] != motion.JumpGround {
		t.Fatalf("expected a ground jump, got %v", kinds[0])
	}

	apex := groundY
	for i := 0; i < 120; i++ {
		h.run(1)
		apex = math.Max(apex, h.position().Y())
	}
	height := apex - groundY
	if height < 2.6 || height > 3.5 {
		t.Fatalf("expected an apex near the scripted 3.2 tiles, got %v", height)
	}
	if !h.controller().State().Grounded {
		t.Fatalf("expected to land again")
	}
	if h.count(ecs.EventLand) < 1 {
		t.Fatalf("expected a land event")
	}
}

func TestPlayerJumpCutShortensJump(t *testing.T) {
	full := newHarness(t, nil)
	cut := newHarness(t, nil)
	for _, h := range []*harness{full, cut} {
		h.run(10)
		h.input.press()
		h.run(1)
	}
	cut.run(4)
	cut.input.release()

	apex := func(h *harness) float64 {
		best := math.Inf(-1)
		for i := 0; i < 60; i++ {
			h.run(1)
			best = math.Max(best, h.position().Y())
		}
		return best
	}
	a, b := apex(full), apex(cut)
	if b >= a-0.5 {
		t.Fatalf("expected released jump to peak well below held jump: held %v, released %v", a, b)
	}
	if cut.count(ecs.EventJumpCut) != 1 {
		t.Fatalf("expected one jump cut event, got %d", cut.count(ecs.EventJumpCut))
	}
}

// The tick right after a ground jump still sees the floor and refills the
// count, so a full chain is one ground jump plus MaxJumps air jumps.
func TestPlayerAirJumpChain(t *testing.T) {
	h := newHarness(t, nil)
	h.run(10)
	h.input.press()
	h.run(20) // past coyote time
	h.input.press()
	h.run(5)
	h.input.press()
	h.run(5)
	h.input.press()
	h.run(1)

	kinds := h.jumpKinds()
	want := []motion.JumpKind{motion.JumpGround, motion.JumpAir, motion.JumpAir}
	if len(kinds) != len(want) {
		t.Fatalf("expected jumps %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("expected jumps %v, got %v", want, kinds)
		}
	}
	if got := h.controller().State().JumpsRemaining; got != 0 {
		t.Fatalf("expected no jumps left, got %d", got)
	}
}

func TestRespawnWhenOutOfBounds(t *testing.T) {
	h := newHarness(t, nil)
	h.run(10)
	safe, _ := ecs.Get(h.w, h.player, component.SafeRespawnComponent)

	pb, _ := ecs.Get(h.w, h.player, component.PhysicsBodyComponent)
	ecs.BodyHandle{Body: pb.Body}.Teleport(mgl64.Vec2{21.5, -10})
	h.run(3)

	if h.count(ecs.EventRespawn) != 1 {
		t.Fatalf("expected one respawn event, got %d", h.count(ecs.EventRespawn))
	}
	if d := h.position().Sub(mgl64.Vec2{safe.X, safe.Y}).Len(); d > 0.2 {
		t.Fatalf("expected player back at spawn, off by %v", d)
	}
	if ecs.Has(h.w, h.player, component.RespawnRequestComponent) {
		t.Fatalf("respawn request must be consumed")
	}
}

func TestManualRespawnResetsController(t *testing.T) {
	h := newHarness(t, nil)
	h.run(10)
	h.input.press()
	h.run(5)

	_ = ecs.Add(h.w, h.player, component.RespawnRequestComponent, component.RespawnRequest{Reason: "manual"})
	h.run(3)

	st := h.controller().State()
	if st.JumpsRemaining != h.controller().Config().MaxJumps {
		t.Fatalf("expected jumps restored after respawn, got %d", st.JumpsRemaining)
	}
	if h.count(ecs.EventRespawn) != 1 {
		t.Fatalf("expected a respawn event")
	}
}

func TestTuningSystemAppliesReload(t *testing.T) {
	calls := 0
	loader := func(prefab string, gravity float64) (prefabs.PlayerSpec, error) {
		calls++
		if gravity != common.Gravity {
			t.Errorf("expected world gravity, got %v", gravity)
		}
		spec := prefabs.DefaultPlayerSpec()
		spec.Motion.MaxJumps = 3
		spec.Motion.MoveSpeed = 4
		return spec, nil
	}
	h := newHarness(t, loader)
	_ = ecs.Add(h.w, h.player, component.ReloadRequestComponent, component.ReloadRequest{Source: "test"})
	h.run(1)

	if calls != 1 {
		t.Fatalf("expected loader called once, got %d", calls)
	}
	cfg := h.controller().Config()
	if cfg.MaxJumps != 3 || cfg.MoveSpeed != 4 {
		t.Fatalf("tuning not applied: %+v", cfg)
	}
	if ecs.Has(h.w, h.player, component.ReloadRequestComponent) {
		t.Fatalf("reload request must be consumed")
	}
	if h.count(ecs.EventReload) != 1 {
		t.Fatalf("expected a reload event")
	}
}

func TestRouteReload(t *testing.T) {
	cases := []struct {
		file       string
		wantPlayer bool
		wantCamera bool
	}{
		{"prefabs/player.yaml", true, false},
		{"prefabs/scripts/player_tuning.tengo", true, false},
		{"prefabs/camera.yaml", false, true},
		{"prefabs/enemy.yaml", false, false},
		{"prefabs/scripts/other.tengo", false, false},
	}
	for _, c := range cases {
		t.Run(c.file, func(t *testing.T) {
			h := newHarness(t, nil)
			cam, ok := h.w.First(component.CameraComponent.Kind())
			if !ok {
				t.Fatalf("no camera")
			}

			want := 0
			if c.wantPlayer {
				want++
			}
			if c.wantCamera {
				want++
			}
			if got := RouteReload(h.w, c.file); got != want {
				t.Fatalf("expected %d requests, got %d", want, got)
			}
			if got := ecs.Has(h.w, h.player, component.ReloadRequestComponent); got != c.wantPlayer {
				t.Fatalf("player request = %v, want %v", got, c.wantPlayer)
			}
			if got := ecs.Has(h.w, cam, component.ReloadRequestComponent); got != c.wantCamera {
				t.Fatalf("camera request = %v, want %v", got, c.wantCamera)
			}
		})
	}
}

func TestTuningSystemReloadsCamera(t *testing.T) {
	calls := 0
	loader := func(prefab string, gravity float64) (prefabs.PlayerSpec, error) {
		calls++
		return prefabs.DefaultPlayerSpec(), nil
	}
	h := newHarness(t, loader)
	h.tuning.SetCameraLoader(func() (prefabs.CameraSpec, error) {
		return prefabs.CameraSpec{Target: "player", Zoom: 2, Smoothness: 0.5, LookAhead: 0.3}, nil
	})
	cam, _ := h.w.First(component.CameraComponent.Kind())
	before := h.controller().Config()

	if RouteReload(h.w, "prefabs/camera.yaml") != 1 {
		t.Fatalf("expected one camera request")
	}
	h.run(1)

	c, _ := ecs.Get(h.w, cam, component.CameraComponent)
	if c.Zoom != 2 || c.Smoothness != 0.5 || c.LookAhead != 0.3 {
		t.Fatalf("camera spec not applied: %+v", c)
	}
	if calls != 0 || h.controller().Config() != before {
		t.Fatalf("camera edit must not reload player tuning")
	}
	if h.count(ecs.EventReload) != 1 {
		t.Fatalf("expected a reload event")
	}

	h.tuning.SetCameraLoader(func() (prefabs.CameraSpec, error) {
		return prefabs.CameraSpec{}, errors.New("boom")
	})
	RouteReload(h.w, "camera.yaml")
	h.run(1)
	if c, _ := ecs.Get(h.w, cam, component.CameraComponent); c.Zoom != 2 {
		t.Fatalf("failed reload must keep the camera, got zoom %v", c.Zoom)
	}
}

func TestTuningSystemKeepsConfigOnError(t *testing.T) {
	cases := []struct {
		name   string
		loader TuningLoader
	}{
		{"load_error", func(string, float64) (prefabs.PlayerSpec, error) {
			return prefabs.PlayerSpec{}, errors.New("boom")
		}},
		{"invalid_tuning", func(string, float64) (prefabs.PlayerSpec, error) {
			spec := prefabs.DefaultPlayerSpec()
			spec.Motion.JumpCutMultiplier = 2
			return spec, nil
		}},
		{"unknown_layer", func(string, float64) (prefabs.PlayerSpec, error) {
			spec := prefabs.DefaultPlayerSpec()
			spec.GroundLayers = []string{"lava"}
			return spec, nil
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := newHarness(t, c.loader)
			before := h.controller().Config()
			_ = ecs.Add(h.w, h.player, component.ReloadRequestComponent, component.ReloadRequest{Source: "test"})
			h.run(1)

			if h.controller().Config() != before {
				t.Fatalf("config changed despite error")
			}
			var reload *ecs.Event
			for i := range h.events {
				if h.events[i].Kind == ecs.EventReload {
					reload = &h.events[i]
				}
			}
			if reload == nil || reload.Data == nil {
				t.Fatalf("expected reload event carrying the error")
			}
		})
	}
}

func TestCameraFollowsPlayer(t *testing.T) {
	h := newHarness(t, nil)
	cam, ok := h.w.First(component.CameraComponent.Kind())
	if !ok {
		t.Fatalf("no camera")
	}
	camT, _ := ecs.GetPtr(h.w, cam, component.TransformComponent)
	camT.X, camT.Y = 0, 0

	h.run(120)
	p := h.position()
	camT, _ = ecs.GetPtr(h.w, cam, component.TransformComponent)
	if d := (mgl64.Vec2{camT.X, camT.Y}).Sub(p).Len(); d > 0.1 {
		t.Fatalf("camera did not converge on idle player, off by %v", d)
	}

	camT.X, camT.Y = 100, 100
	NewCameraSystem().Snap(h.w)
	if camT.X != p.X() || camT.Y != p.Y() {
		t.Fatalf("snap should place camera on player")
	}
}

func TestViewRoundTrip(t *testing.T) {
	v := View{CamX: 5, CamY: 3, Scale: 32, ScreenW: 640, ScreenH: 480}
	sx, sy := v.ToScreen(5, 3)
	if sx != 320 || sy != 240 {
		t.Fatalf("camera centre should map to screen centre, got (%v, %v)", sx, sy)
	}
	// y-up world, y-down screen.
	_, above := v.ToScreen(5, 4)
	if above >= sy {
		t.Fatalf("higher world y must be higher on screen")
	}
	wx, wy := v.ToWorld(v.ToScreen(7.25, -1.5))
	if math.Abs(wx-7.25) > 1e-9 || math.Abs(wy+1.5) > 1e-9 {
		t.Fatalf("round trip failed: (%v, %v)", wx, wy)
	}
}

func TestInputSystemClampsAxis(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity()
	_ = ecs.Add(w, e, component.InputComponent, component.Input{})

	src := InputSourceFunc(func() component.Input {
		return component.Input{MoveX: 3, JumpPressed: true}
	})
	NewInputSystem(src).Update(w)

	in, _ := ecs.Get(w, e, component.InputComponent)
	if in.MoveX != 1 || !in.JumpPressed {
		t.Fatalf("unexpected input %+v", in)
	}
}

func TestFormatMotionState(t *testing.T) {
	out := formatMotionState(motion.State{Grounded: true, JumpsRemaining: 2}, []ecs.Event{
		{Kind: ecs.EventJump, Data: motion.JumpEvent{Kind: motion.JumpCoyote}},
		{Kind: ecs.EventLand},
	})
	for _, want := range []string{"Grounded: true", "Jumps: 2", "jump (coyote)", "land"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestPhysicsSystemCreatesAndRemovesColliders(t *testing.T) {
	w := ecs.NewWorld()
	pw := ecs.NewPhysicsWorld(common.Gravity)
	w.SetPhysicsWorld(pw)

	floor := w.CreateEntity()
	_ = ecs.Add(w, floor, component.TransformComponent, component.Transform{X: 0, Y: -0.5})
	_ = ecs.Add(w, floor, component.PhysicsBodyComponent, component.PhysicsBody{Width: 10, Height: 1, Static: true, Layer: uint(ecs.LayerGround)})
	box := w.CreateEntity()
	_ = ecs.Add(w, box, component.TransformComponent, component.Transform{X: 0, Y: 3})
	_ = ecs.Add(w, box, component.PhysicsBodyComponent, component.PhysicsBody{Width: 1, Height: 1, Mass: 1, Layer: uint(ecs.LayerPlayer)})

	s := ecs.NewScheduler(common.PhysicsStep)
	s.AddFixed(NewPhysicsSystem())
	for i := 0; i < 150; i++ {
		s.Update(w, common.PhysicsStep)
	}

	bt, _ := ecs.Get(w, box, component.TransformComponent)
	if bt.Y < 0.4 || bt.Y > 0.6 {
		t.Fatalf("expected box to rest on floor, y=%v", bt.Y)
	}
	ground := motion.LayerMask(ecs.LayerGround)
	if !pw.OverlapCircle(mgl64.Vec2{0, 0}, 0.1, ground) {
		t.Fatalf("expected floor collider")
	}

	w.DestroyEntity(floor)
	s.Update(w, common.PhysicsStep)
	if pw.OverlapCircle(mgl64.Vec2{0, -0.5}, 0.1, ground) {
		t.Fatalf("floor collider should be removed with its entity")
	}
}
