package component

// Camera follows a target entity. Zoom scales the pixels-per-unit of the
// view, Smoothness is the SmoothDamp time of the follow and LookAhead
// shifts the view towards the target's horizontal velocity.
type Camera struct {
	Target     string
	Zoom       float64
	Smoothness float64
	LookAhead  float64

	// SmoothDamp state.
	VelX float64
	VelY float64
}

var CameraComponent = NewComponent[Camera]()
