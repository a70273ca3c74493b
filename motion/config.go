package motion

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrNilBody       = errors.New("motion: body is nil")
	ErrNilProbe      = errors.New("motion: ground probe is nil")
	ErrInvalidConfig = errors.New("motion: invalid config")
)

// LayerMask selects which physics layers count as ground.
type LayerMask uint

// Config holds the tuning for one controlled character.
type Config struct {
	MoveSpeed         float64   `yaml:"move_speed"`
	AccelerationTime  float64   `yaml:"acceleration_time"`
	JumpForce         float64   `yaml:"jump_force"`
	MaxJumps          int       `yaml:"max_jumps"`
	CoyoteTime        float64   `yaml:"coyote_time"`
	JumpCutMultiplier float64   `yaml:"jump_cut_multiplier"`
	FallMultiplier    float64   `yaml:"fall_multiplier"`
	JumpBufferTime    float64   `yaml:"jump_buffer_time"`
	GroundCheckRadius float64   `yaml:"ground_check_radius"`
	GroundLayerMask   LayerMask `yaml:"-"`

	// GroundCheckOffset is the ground-check position relative to the body.
	GroundCheckOffset mgl64.Vec2 `yaml:"-"`
}

// DefaultConfig returns the stock double-jump tuning.
func DefaultConfig() Config {
	return Config{
		MoveSpeed:         10,
		AccelerationTime:  0.1,
		JumpForce:         12,
		MaxJumps:          2,
		CoyoteTime:        0.2,
		JumpCutMultiplier: 0.5,
		FallMultiplier:    2,
		JumpBufferTime:    0.15,
		GroundCheckRadius: 0.2,
		GroundLayerMask:   ^LayerMask(0),
	}
}

// Validate reports configuration that breaks the controller's contract.
// MaxJumps == 0 and FallMultiplier <= 1 are legal; see Warnings.
func (c Config) Validate() error {
	durations := []struct {
		name  string
		value float64
	}{
		{"acceleration_time", c.AccelerationTime},
		{"coyote_time", c.CoyoteTime},
		{"jump_buffer_time", c.JumpBufferTime},
		{"ground_check_radius", c.GroundCheckRadius},
	}
	for _, d := range durations {
		if math.IsNaN(d.value) || d.value < 0 {
			return fmt.Errorf("%w: %s must be >= 0, got %v", ErrInvalidConfig, d.name, d.value)
		}
	}
	if c.MaxJumps < 0 {
		return fmt.Errorf("%w: max_jumps must be >= 0, got %d", ErrInvalidConfig, c.MaxJumps)
	}
	if math.IsNaN(c.JumpCutMultiplier) || c.JumpCutMultiplier < 0 || c.JumpCutMultiplier > 1 {
		return fmt.Errorf("%w: jump_cut_multiplier must be in [0,1], got %v", ErrInvalidConfig, c.JumpCutMultiplier)
	}
	for name, v := range map[string]float64{
		"move_speed":      c.MoveSpeed,
		"jump_force":      c.JumpForce,
		"fall_multiplier": c.FallMultiplier,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidConfig, name, v)
		}
	}
	return nil
}

// Warnings lists legal but degenerate settings.
func (c Config) Warnings() []string {
	var out []string
	if c.MaxJumps == 0 {
		out = append(out, "max_jumps is 0: only coyote jumps can fire")
	}
	if c.FallMultiplier <= 1 {
		out = append(out, fmt.Sprintf("fall_multiplier %v <= 1: falling is not faster than rising", c.FallMultiplier))
	}
	if c.GroundLayerMask == 0 {
		out = append(out, "ground layer mask is empty: the character never touches ground")
	}
	return out
}
