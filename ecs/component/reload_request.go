package component

// ReloadRequest asks the tuning system to re-read the prefab an entity was
// built from: the player's prefab and tuning script, or the camera's spec.
type ReloadRequest struct {
	Source string
}

var ReloadRequestComponent = NewComponent[ReloadRequest]()
