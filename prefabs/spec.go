package prefabs

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/platformer/motion"
	"gopkg.in/yaml.v3"
)

// LoadSpec reads a prefab and decodes it onto a copy of base, so keys the
// file omits keep base's values.
func LoadSpec[T any](filename string, base T) (T, error) {
	data, err := Load(filename)
	if err != nil {
		return base, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	spec := base
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return base, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return spec, nil
}

type VecSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v VecSpec) Vec2() mgl64.Vec2 {
	return mgl64.Vec2{v.X, v.Y}
}

type ColliderSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Mass   float64 `yaml:"mass"`
}

// PlayerSpec is the player prefab. Motion maps onto motion.Config; the
// fields it cannot express in YAML are given separately.
type PlayerSpec struct {
	Name              string        `yaml:"name"`
	Color             string        `yaml:"color"`
	Collider          ColliderSpec  `yaml:"collider"`
	Motion            motion.Config `yaml:"motion"`
	GroundLayers      []string      `yaml:"ground_layers"`
	GroundCheckOffset VecSpec       `yaml:"ground_check_offset"`
	// JumpHeight is the apex height in tiles handed to the tuning script.
	// Zero leaves motion.jump_force as written.
	JumpHeight   float64 `yaml:"jump_height"`
	TuningScript string  `yaml:"tuning_script"`
}

func DefaultPlayerSpec() PlayerSpec {
	return PlayerSpec{
		Name:              "player",
		Color:             "orange",
		Collider:          ColliderSpec{Width: 0.8, Height: 1, Mass: 1},
		Motion:            motion.DefaultConfig(),
		GroundLayers:      []string{"ground"},
		GroundCheckOffset: VecSpec{Y: -0.5},
	}
}

func LoadPlayerSpec(filename string) (PlayerSpec, error) {
	if filename == "" {
		filename = "player.yaml"
	}
	return LoadSpec(filename, DefaultPlayerSpec())
}

type CameraSpec struct {
	Name       string  `yaml:"name"`
	Target     string  `yaml:"target"`
	Zoom       float64 `yaml:"zoom"`
	Smoothness float64 `yaml:"smoothness"`
	LookAhead  float64 `yaml:"look_ahead"`
}

func DefaultCameraSpec() CameraSpec {
	return CameraSpec{Name: "camera", Target: "player", Zoom: 1, Smoothness: 0.15}
}

// CameraPrefab is the camera's prefab file.
const CameraPrefab = "camera.yaml"

func LoadCameraSpec() (CameraSpec, error) {
	return LoadSpec(CameraPrefab, DefaultCameraSpec())
}

// EncodeMotion renders cfg as the prefab's motion section.
func EncodeMotion(cfg motion.Config) ([]byte, error) {
	out, err := yaml.Marshal(struct {
		Motion motion.Config `yaml:"motion"`
	}{cfg})
	if err != nil {
		return nil, fmt.Errorf("prefabs: marshal motion: %w", err)
	}
	return out, nil
}
