package system

import (
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

// View maps world units (y-up) to screen pixels (y-down), centred on the
// camera.
type View struct {
	CamX    float64
	CamY    float64
	Scale   float64
	ScreenW float64
	ScreenH float64
}

// ViewFor builds the view of the first camera in w. Without a camera the
// world origin is centred at zoom 1.
func ViewFor(w *ecs.World, screenW, screenH int) View {
	v := View{Scale: common.TileSize, ScreenW: float64(screenW), ScreenH: float64(screenH)}
	camEntity, ok := w.First(component.CameraComponent.Kind())
	if !ok {
		return v
	}
	if t, ok := ecs.Get(w, camEntity, component.TransformComponent); ok {
		v.CamX, v.CamY = t.X, t.Y
	}
	if cam, ok := ecs.Get(w, camEntity, component.CameraComponent); ok && cam.Zoom > 0 {
		v.Scale *= cam.Zoom
	}
	return v
}

func (v View) ToScreen(x, y float64) (float64, float64) {
	return (x-v.CamX)*v.Scale + v.ScreenW/2, v.ScreenH/2 - (y-v.CamY)*v.Scale
}

func (v View) ToWorld(sx, sy float64) (float64, float64) {
	return (sx-v.ScreenW/2)/v.Scale + v.CamX, (v.ScreenH/2-sy)/v.Scale + v.CamY
}
