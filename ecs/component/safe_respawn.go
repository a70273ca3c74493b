package component

// SafeRespawn stores the position an entity is returned to on respawn.
type SafeRespawn struct {
	X           float64
	Y           float64
	Initialized bool
}

var SafeRespawnComponent = NewComponent[SafeRespawn]()
