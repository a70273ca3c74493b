package system

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/motion"
	"golang.org/x/image/colornames"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 4
)

// DrawPhysicsDebug outlines every collider and each controller's
// ground-check circle, green when grounded and red otherwise.
func DrawPhysicsDebug(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	pw := w.PhysicsWorld()
	if pw == nil || pw.Space() == nil {
		return
	}

	b := screen.Bounds()
	drawer := &physicsDebugDrawer{screen: screen, view: ViewFor(w, b.Dx(), b.Dy())}
	cp.DrawSpace(pw.Space(), drawer)

	ecs.ForEach(w, component.MotionComponent, func(_ ecs.Entity, m *component.Motion) {
		if m.Controller == nil {
			return
		}
		gc := m.Controller.GroundCheck()
		clr := colornames.Red
		if m.Controller.State().Grounded {
			clr = colornames.Lime
		}
		cx, cy := drawer.view.ToScreen(gc.Center.X(), gc.Center.Y())
		vector.StrokeCircle(screen, float32(cx), float32(cy), float32(gc.Radius*drawer.view.Scale), 1, clr, true)
	})
}

// DrawPlayerStateDebug prints the player's motion state and this frame's
// gameplay events.
func DrawPlayerStateDebug(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	player, ok := w.First(component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	m, ok := ecs.Get(w, player, component.MotionComponent)
	if !ok || m.Controller == nil {
		return
	}
	ebitenutil.DebugPrintAt(screen, formatMotionState(m.Controller.State(), w.Events().Pending()), 10, 10)
}

func formatMotionState(s motion.State, events []ecs.Event) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Grounded: %v\nJumps: %d\nCoyote: %.3f\nBuffer: %.3f\nInput: %.2f\n",
		s.Grounded, s.JumpsRemaining, s.CoyoteTimer, s.JumpBufferTimer, s.HorizontalInput)
	for _, evt := range events {
		switch data := evt.Data.(type) {
		case motion.JumpEvent:
			fmt.Fprintf(&sb, "%s (%s)\n", evt.Kind, data.Kind)
		default:
			fmt.Fprintf(&sb, "%s\n", evt.Kind)
		}
	}
	return sb.String()
}

type physicsDebugDrawer struct {
	screen *ebiten.Image
	view   View
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	d.drawCircle(pos, radius, outline)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, outline)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
	if radius > 0 {
		d.drawCircle(a, radius, outline)
		d.drawCircle(b, radius, outline)
	}
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = debugDotSize
	}
	x, y := d.view.ToScreen(pos.X, pos.Y)
	half := float32(size / 2)
	vector.StrokeLine(d.screen, float32(x)-half, float32(y), float32(x)+half, float32(y), 1, toNRGBA(fill), false)
	vector.StrokeLine(d.screen, float32(x), float32(y)-half, float32(x), float32(y)+half, 1, toNRGBA(fill), false)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES | cp.DRAW_COLLISION_POINTS
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return cp.FColor{R: 0.1, G: 0.6, B: 0.1, A: 0.5}
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, c cp.FColor) {
	x1, y1 := d.view.ToScreen(a.X, a.Y)
	x2, y2 := d.view.ToScreen(b.X, b.Y)
	vector.StrokeLine(d.screen, float32(x1), float32(y1), float32(x2), float32(y2), 1, toNRGBA(c), false)
}

func (d *physicsDebugDrawer) drawPolygon(verts []cp.Vector, c cp.FColor) {
	for i := 0; i < len(verts); i++ {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *physicsDebugDrawer) drawCircle(center cp.Vector, radius float64, c cp.FColor) {
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, c)
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
