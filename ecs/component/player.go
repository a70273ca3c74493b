package component

// Player names the prefab and tuning script the player was built from so
// tuning can be re-read at runtime.
type Player struct {
	Prefab string
	Script string
}

var PlayerComponent = NewComponent[Player]()
