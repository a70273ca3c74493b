package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

var ErrInvalidLevel = errors.New("levels: invalid level")

// Level is a tile grid. Row 0 is the top row.
type Level struct {
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	Entities  []Entity    `json:"entities,omitempty"`
}

type LayerMeta struct {
	Physics bool `json:"physics"`
	// Collision names the physics layer of the layer's colliders.
	Collision string `json:"collision,omitempty"`
	Color     string `json:"color,omitempty"`
}

type Entity struct {
	Type  string                 `json:"type"`
	X     int                    `json:"x"`
	Y     int                    `json:"y"`
	Props map[string]interface{} `json:"props,omitempty"`
}

// Meta returns the metadata of layer i, or the zero value.
func (l *Level) Meta(i int) LayerMeta {
	if i < 0 || i >= len(l.LayerMeta) {
		return LayerMeta{}
	}
	return l.LayerMeta[i]
}

func (l *Level) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidLevel, l.Width, l.Height)
	}
	for i, layer := range l.Layers {
		if len(layer) != l.Width*l.Height {
			return fmt.Errorf("%w: layer %d has %d tiles, want %d", ErrInvalidLevel, i, len(layer), l.Width*l.Height)
		}
	}
	return nil
}

// LoadLevelFromFS loads an embedded level by name; the .json suffix is
// optional.
func LoadLevelFromFS(name string) (*Level, error) {
	if name == "" {
		name = "test"
	}
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}
