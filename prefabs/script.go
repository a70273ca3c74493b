package prefabs

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/platformer/motion"
)

// tuningVar binds one motion.Config field to a tengo global.
type tuningVar struct {
	name string
	get  func(c *motion.Config) any
	set  func(c *motion.Config, v *tengo.Variable)
}

var tuningVars = []tuningVar{
	{"move_speed", func(c *motion.Config) any { return c.MoveSpeed }, func(c *motion.Config, v *tengo.Variable) { c.MoveSpeed = v.Float() }},
	{"acceleration_time", func(c *motion.Config) any { return c.AccelerationTime }, func(c *motion.Config, v *tengo.Variable) { c.AccelerationTime = v.Float() }},
	{"jump_force", func(c *motion.Config) any { return c.JumpForce }, func(c *motion.Config, v *tengo.Variable) { c.JumpForce = v.Float() }},
	{"max_jumps", func(c *motion.Config) any { return c.MaxJumps }, func(c *motion.Config, v *tengo.Variable) { c.MaxJumps = v.Int() }},
	{"coyote_time", func(c *motion.Config) any { return c.CoyoteTime }, func(c *motion.Config, v *tengo.Variable) { c.CoyoteTime = v.Float() }},
	{"jump_cut_multiplier", func(c *motion.Config) any { return c.JumpCutMultiplier }, func(c *motion.Config, v *tengo.Variable) { c.JumpCutMultiplier = v.Float() }},
	{"fall_multiplier", func(c *motion.Config) any { return c.FallMultiplier }, func(c *motion.Config, v *tengo.Variable) { c.FallMultiplier = v.Float() }},
	{"jump_buffer_time", func(c *motion.Config) any { return c.JumpBufferTime }, func(c *motion.Config, v *tengo.Variable) { c.JumpBufferTime = v.Float() }},
	{"ground_check_radius", func(c *motion.Config) any { return c.GroundCheckRadius }, func(c *motion.Config, v *tengo.Variable) { c.GroundCheckRadius = v.Float() }},
}

// ScriptInputs are the read-only globals a tuning script sees next to the
// tuning fields.
type ScriptInputs struct {
	Gravity    float64
	JumpHeight float64
}

// ApplyTuningScript runs src with every tuning field plus gravity and
// jump_height as globals and returns cfg with whatever the script assigned.
// The result is not validated here.
func ApplyTuningScript(name string, src []byte, cfg motion.Config, in ScriptInputs) (motion.Config, error) {
	script := tengo.NewScript(src)
	for _, tv := range tuningVars {
		if err := script.Add(tv.name, tv.get(&cfg)); err != nil {
			return cfg, fmt.Errorf("prefabs: script %s: add %s: %w", name, tv.name, err)
		}
	}
	if err := script.Add("gravity", in.Gravity); err != nil {
		return cfg, fmt.Errorf("prefabs: script %s: add gravity: %w", name, err)
	}
	if err := script.Add("jump_height", in.JumpHeight); err != nil {
		return cfg, fmt.Errorf("prefabs: script %s: add jump_height: %w", name, err)
	}
	script.SetImports(stdlib.GetModuleMap("math"))

	compiled, err := script.Run()
	if err != nil {
		return cfg, fmt.Errorf("prefabs: script %s: %w", name, err)
	}

	out := cfg
	for _, tv := range tuningVars {
		if compiled.IsDefined(tv.name) {
			tv.set(&out, compiled.Get(tv.name))
		}
	}
	return out, nil
}

// LoadTuning reads the player prefab and, if it names one, applies its
// tuning script.
func LoadTuning(prefab string, gravity float64) (PlayerSpec, error) {
	spec, err := LoadPlayerSpec(prefab)
	if err != nil {
		return spec, err
	}
	if spec.TuningScript == "" {
		return spec, nil
	}
	src, err := LoadScript(spec.TuningScript)
	if err != nil {
		return spec, fmt.Errorf("prefabs: load script %s: %w", spec.TuningScript, err)
	}
	spec.Motion, err = ApplyTuningScript(spec.TuningScript, src, spec.Motion, ScriptInputs{Gravity: gravity, JumpHeight: spec.JumpHeight})
	return spec, err
}
