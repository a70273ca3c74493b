package component

import "github.com/milk9111/platformer/motion"

// Motion attaches a motion controller to an entity with a dynamic body.
type Motion struct {
	Controller *motion.Controller
}

var MotionComponent = NewComponent[Motion]()
