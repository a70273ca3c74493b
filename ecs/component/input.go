package component

// Input stores per-frame input state for an entity. JumpPressed and
// JumpReleased are edges and are only true on the frame they happen.
type Input struct {
	MoveX        float64
	JumpHeld     bool
	JumpPressed  bool
	JumpReleased bool
}

var InputComponent = NewComponent[Input]()
