package component

// Transform is an entity's centre in world units, y-up. PrevX/PrevY hold the
// position before the last physics tick so renderers can interpolate.
type Transform struct {
	X     float64
	Y     float64
	PrevX float64
	PrevY float64
}

var TransformComponent = NewComponent[Transform]()
