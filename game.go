package main

import (
	"fmt"
	"image/color"
	"log"
	"path/filepath"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/ecs/entity"
	"github.com/milk9111/platformer/ecs/system"
	"github.com/milk9111/platformer/levels"
	"github.com/milk9111/platformer/motion"
	"github.com/milk9111/platformer/prefabs"
	"golang.design/x/clipboard"
)

// maxFrameDelta keeps a stalled frame (window drag, breakpoint) from
// turning into a huge timer decay.
const maxFrameDelta = 0.25

var backgroundColor = color.NRGBA{R: 0x1d, G: 0x23, B: 0x2b, A: 0xff}

type Game struct {
	levelName    string
	playerPrefab string
	debug        bool

	world  *ecs.World
	sched  *ecs.Scheduler
	camera *system.CameraSystem
	render *system.RenderSystem

	watcher      *prefabs.Watcher
	clipboardErr error

	paused  bool
	pauseUI *ebitenui.UI

	last        time.Time
	status      string
	statusUntil time.Time
}

func NewGame(levelName, playerPrefab string, debug bool) (*Game, error) {
	g := &Game{
		levelName:    levelName,
		playerPrefab: playerPrefab,
		debug:        debug,
		render:       system.NewRenderSystem(),
	}
	if err := g.loadWorld(); err != nil {
		return nil, err
	}
	g.pauseUI = NewPauseUI(g)

	watcher, err := prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"))
	if err != nil {
		log.Printf("game: prefab watcher disabled: %v", err)
	} else {
		g.watcher = watcher
	}

	g.clipboardErr = clipboard.Init()
	return g, nil
}

func (g *Game) loadWorld() error {
	lvl, err := levels.LoadLevelFromFS(g.levelName)
	if err != nil {
		return fmt.Errorf("game: load level %q: %w", g.levelName, err)
	}

	world := ecs.NewWorld()
	world.SetPhysicsWorld(ecs.NewPhysicsWorld(common.Gravity))
	if err := entity.LoadLevelToWorld(world, lvl, g.playerPrefab); err != nil {
		return fmt.Errorf("game: build level: %w", err)
	}

	g.camera = system.NewCameraSystem()
	sched := ecs.NewScheduler(common.PhysicsStep)
	sched.AddFrame(system.NewInputSystem(nil))
	sched.AddFrame(system.NewTuningSystem(nil))
	sched.AddFrame(system.NewMotionFrameSystem())
	sched.AddFrame(g.camera)
	sched.AddFixed(system.NewMotionPhysicsSystem())
	sched.AddFixed(system.NewPhysicsSystem())
	sched.AddFixed(system.NewRespawnSystem())

	g.world = world
	g.sched = sched
	g.camera.Snap(world)
	return nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	now := time.Now()
	dt := 1.0 / float64(ebiten.TPS())
	if !g.last.IsZero() {
		dt = min(now.Sub(g.last).Seconds(), maxFrameDelta)
	}
	g.last = now

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}

	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.resetPlayer()
	}
	g.pollWatcher()

	g.sched.Update(g.world, dt)
	if g.debug {
		g.logEvents()
	}
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for _, path := range g.watcher.Drain() {
		if system.RouteReload(g.world, path) > 0 {
			g.setStatus("reloading " + filepath.Base(path))
		} else if g.debug {
			log.Printf("game: %s changed, nothing built from it", filepath.Base(path))
		}
	}
	select {
	case err, ok := <-g.watcher.Errors:
		if ok {
			log.Printf("game: prefab watcher: %v", err)
		}
	default:
	}
}

func (g *Game) player() (ecs.Entity, bool) {
	return g.world.First(component.PlayerTagComponent.Kind())
}

// requestReload re-reads every player and camera prefab.
func (g *Game) requestReload(source string) {
	kinds := []component.Kind{component.PlayerComponent.Kind(), component.CameraComponent.Kind()}
	for _, kind := range kinds {
		for _, e := range g.world.Query(kind) {
			if err := ecs.Add(g.world, e, component.ReloadRequestComponent, component.ReloadRequest{Source: source}); err != nil {
				log.Printf("game: request reload: %v", err)
			}
		}
	}
	g.setStatus("reloading tuning (" + source + ")")
}

func (g *Game) resetPlayer() {
	player, ok := g.player()
	if !ok {
		return
	}
	if err := ecs.Add(g.world, player, component.RespawnRequestComponent, component.RespawnRequest{Reason: "manual"}); err != nil {
		log.Printf("game: request respawn: %v", err)
	}
}

func (g *Game) playerConfig() (motion.Config, bool) {
	player, ok := g.player()
	if !ok {
		return motion.Config{}, false
	}
	m, ok := ecs.Get(g.world, player, component.MotionComponent)
	if !ok || m.Controller == nil {
		return motion.Config{}, false
	}
	return m.Controller.Config(), true
}

func (g *Game) copyTuning() {
	if g.clipboardErr != nil {
		g.setStatus("clipboard unavailable: " + g.clipboardErr.Error())
		return
	}
	cfg, ok := g.playerConfig()
	if !ok {
		return
	}
	data, err := prefabs.EncodeMotion(cfg)
	if err != nil {
		g.setStatus(err.Error())
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	g.setStatus("tuning copied to clipboard")
}

func (g *Game) setStatus(msg string) {
	g.status = msg
	g.statusUntil = time.Now().Add(3 * time.Second)
}

func (g *Game) logEvents() {
	for _, evt := range g.world.Events().Pending() {
		switch data := evt.Data.(type) {
		case motion.JumpEvent:
			log.Printf("motion: %s jump, %d left, vy %.2f -> jump", data.Kind, data.JumpsRemaining, data.PrevVY)
		case [2]float64:
			log.Printf("motion: jump cut %.2f -> %.2f", data[0], data[1])
		case error:
			log.Printf("motion: %s failed: %v", evt.Kind, data)
		default:
			log.Printf("motion: %s", evt.Kind)
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	g.render.Draw(g.world, screen)

	if g.debug {
		system.DrawPhysicsDebug(g.world, screen)
		system.DrawPlayerStateDebug(g.world, screen)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.1f  TPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()), 10, common.BaseHeight-20)
	}

	if g.status != "" && time.Now().Before(g.statusUntil) {
		ebitenutil.DebugPrintAt(screen, g.status, common.BaseWidth/2-len(g.status)*3, 10)
	}

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
