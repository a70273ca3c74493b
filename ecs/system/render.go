package system

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

type RenderSystem struct{}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

// Draw renders every ColorRect, interpolating moving entities between the
// last two physics ticks.
func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	b := screen.Bounds()
	view := ViewFor(w, b.Dx(), b.Dy())
	alpha := w.Clock().Alpha

	entities := w.Query(component.TransformComponent.Kind(), component.ColorRectComponent.Kind())
	sort.SliceStable(entities, func(i, j int) bool {
		li := 0
		if layer, ok := ecs.Get(w, entities[i], component.RenderLayerComponent); ok {
			li = layer.Index
		}
		lj := 0
		if layer, ok := ecs.Get(w, entities[j], component.RenderLayerComponent); ok {
			lj = layer.Index
		}
		if li != lj {
			return li < lj
		}
		return uint64(entities[i]) < uint64(entities[j])
	})

	for _, e := range entities {
		t, _ := ecs.Get(w, e, component.TransformComponent)
		rect, _ := ecs.Get(w, e, component.ColorRectComponent)

		x := common.Lerp(t.PrevX, t.X, alpha)
		y := common.Lerp(t.PrevY, t.Y, alpha)
		sx, sy := view.ToScreen(x-rect.Width/2, y+rect.Height/2)
		vector.DrawFilledRect(screen, float32(sx), float32(sy), float32(rect.Width*view.Scale), float32(rect.Height*view.Scale), rect.Color, false)
	}
}
