package entity

import (
	"image/color"
	"strings"

	"golang.org/x/image/colornames"
)

func namedColor(name string, fallback color.NRGBA) color.NRGBA {
	c, ok := colornames.Map[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return fallback
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
