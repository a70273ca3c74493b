package component

import "image/color"

// RenderLayer is used to sort draw order deterministically.
type RenderLayer struct {
	Index int
}

var RenderLayerComponent = NewComponent[RenderLayer]()

// ColorRect draws an entity as a filled rectangle of Width x Height world
// units centred on its transform.
type ColorRect struct {
	Width  float64
	Height float64
	Color  color.NRGBA
}

var ColorRectComponent = NewComponent[ColorRect]()
