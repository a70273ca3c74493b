package component

import "github.com/jakecoffman/cp"

// PhysicsBody stores Chipmunk2D runtime data and collider configuration.
// Body and Shape are filled in by the physics system on first sync.
type PhysicsBody struct {
	Body   *cp.Body
	Shape  *cp.Shape
	Width  float64
	Height float64
	Mass   float64
	Static bool
	// Layer is the collision category bit of the collider.
	Layer uint
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
