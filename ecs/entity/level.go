package entity

import (
	"fmt"
	"image/color"
	"log"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/levels"
)

const killMargin = 4.0

// LoadLevelToWorld creates level geometry, bounds and the level's entities.
// Tile (x, y) with row 0 at the top covers world [x, x+1] x [H-y-1, H-y].
func LoadLevelToWorld(w *ecs.World, lvl *levels.Level, playerPrefab string) error {
	if err := lvl.Validate(); err != nil {
		return err
	}

	boundsEntity := w.CreateEntity()
	if err := ecs.Add(w, boundsEntity, component.LevelBoundsComponent, component.LevelBounds{
		MinX:       0,
		MinY:       0,
		MaxX:       float64(lvl.Width),
		MaxY:       float64(lvl.Height),
		KillMargin: killMargin,
	}); err != nil {
		return err
	}

	for layerIdx, layer := range lvl.Layers {
		meta := lvl.Meta(layerIdx)
		if !meta.Physics {
			continue
		}
		collision := meta.Collision
		if collision == "" {
			collision = "ground"
		}
		mask, err := ecs.LayerMask(collision)
		if err != nil {
			return fmt.Errorf("level: layer %d: %w", layerIdx, err)
		}
		fill := namedColor(meta.Color, common.TileColor)
		for _, r := range mergeTiles(layer, lvl.Width, lvl.Height) {
			if err := addTileCollider(w, r, lvl.Height, uint(mask), fill, layerIdx); err != nil {
				return err
			}
		}
	}

	for _, ent := range lvl.Entities {
		fx := float64(ent.X) + 0.5
		fy := float64(lvl.Height - ent.Y - 1)
		switch strings.ToLower(ent.Type) {
		case "player":
			if _, err := NewPlayerAt(w, fx, fy, playerPrefab); err != nil {
				return err
			}
		case "camera":
			if _, err := NewCameraAt(w, fx, fy); err != nil {
				return err
			}
		default:
			log.Printf("level: unknown entity type %q", ent.Type)
		}
	}

	return nil
}

// tileRect is a merged block of solid tiles in grid coordinates.
type tileRect struct {
	X, Y, W, H int
}

// mergeTiles greedily merges solid tiles into rectangles, widest row first.
func mergeTiles(layer []int, width, height int) []tileRect {
	if width <= 0 || height <= 0 {
		return nil
	}
	visited := make([]bool, width*height)
	index := func(x, y int) int { return y*width + x }
	solid := func(idx int) bool { return idx < len(layer) && !visited[idx] && layer[idx] > 0 }

	var out []tileRect
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !solid(index(x, y)) {
				continue
			}

			maxW := 0
			for x2 := x; x2 < width && solid(index(x2, y)); x2++ {
				maxW++
			}

			maxH := 1
			for y2 := y + 1; y2 < height; y2++ {
				rowOK := true
				for x2 := x; x2 < x+maxW; x2++ {
					if !solid(index(x2, y2)) {
						rowOK = false
						break
					}
				}
				if !rowOK {
					break
				}
				maxH++
			}

			for yy := y; yy < y+maxH; yy++ {
				for xx := x; xx < x+maxW; xx++ {
					visited[index(xx, yy)] = true
				}
			}
			out = append(out, tileRect{X: x, Y: y, W: maxW, H: maxH})
		}
	}
	return out
}

func addTileCollider(w *ecs.World, r tileRect, levelHeight int, layer uint, fill color.NRGBA, renderLayer int) error {
	width := float64(r.W)
	height := float64(r.H)
	cx := float64(r.X) + width/2
	cy := float64(levelHeight-r.Y) - height/2

	body := component.PhysicsBody{
		Width:  width,
		Height: height,
		Static: true,
		Layer:  layer,
	}
	// Without a physics world the physics system creates the shape on sync.
	if pw := w.PhysicsWorld(); pw != nil {
		bb := cp.BB{L: cx - width/2, B: cy - height/2, R: cx + width/2, T: cy + height/2}
		body.Shape = pw.AddStaticBox(bb, ecs.Layer(layer))
		body.Body = body.Shape.Body()
	}

	e := w.CreateEntity()
	if err := ecs.Add(w, e, component.TransformComponent, component.Transform{X: cx, Y: cy, PrevX: cx, PrevY: cy}); err != nil {
		return err
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent, body); err != nil {
		return err
	}
	if err := ecs.Add(w, e, component.ColorRectComponent, component.ColorRect{Width: width, Height: height, Color: fill}); err != nil {
		return err
	}
	return ecs.Add(w, e, component.RenderLayerComponent, component.RenderLayer{Index: renderLayer})
}
