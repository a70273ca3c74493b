package common

import "image/color"

const (
	// TileSize is the number of screen pixels per world unit at zoom 1.
	TileSize = 32

	BaseWidth  = 960
	BaseHeight = 540

	// Gravity is the world's vertical acceleration in units/s^2, y-up.
	Gravity = -30.0

	// PhysicsStep is the fixed physics tick in seconds.
	PhysicsStep = 1.0 / 50.0
)

var (
	PlayerColor = color.NRGBA{R: 255, G: 165, B: 0, A: 255}
	TileColor   = color.NRGBA{R: 112, G: 128, B: 144, A: 255}
)
