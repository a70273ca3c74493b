package component

// LevelBounds stores the world-space extent of the current level. Anything
// that falls below MinY-KillMargin is considered out of the level.
type LevelBounds struct {
	MinX       float64
	MinY       float64
	MaxX       float64
	MaxY       float64
	KillMargin float64
}

func (b LevelBounds) Contains(x, y float64) bool {
	return y >= b.MinY-b.KillMargin && x >= b.MinX-b.KillMargin && x <= b.MaxX+b.KillMargin
}

var LevelBoundsComponent = NewComponent[LevelBounds]()
