package component

// RespawnRequest marks an entity to be teleported to its SafeRespawn
// position after the physics tick.
type RespawnRequest struct {
	Reason string
}

var RespawnRequestComponent = NewComponent[RespawnRequest]()
