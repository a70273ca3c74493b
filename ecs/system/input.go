package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

const stickDeadzone = 0.2

// InputSource samples one frame of player input.
type InputSource interface {
	Sample() component.Input
}

// InputSourceFunc adapts a function to InputSource.
type InputSourceFunc func() component.Input

func (f InputSourceFunc) Sample() component.Input { return f() }

// EbitenInput reads the keyboard and the first standard gamepad.
type EbitenInput struct{}

var jumpKeys = []ebiten.Key{ebiten.KeySpace, ebiten.KeyW, ebiten.KeyArrowUp}

func (EbitenInput) Sample() component.Input {
	var in component.Input

	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		in.MoveX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		in.MoveX += 1
	}
	for _, k := range jumpKeys {
		in.JumpHeld = in.JumpHeld || ebiten.IsKeyPressed(k)
		in.JumpPressed = in.JumpPressed || inpututil.IsKeyJustPressed(k)
		in.JumpReleased = in.JumpReleased || inpututil.IsKeyJustReleased(k)
	}

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		leftX := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if math.Abs(leftX) > stickDeadzone {
			in.MoveX = leftX
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftLeft) {
			in.MoveX = -1
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftRight) {
			in.MoveX = 1
		}

		jump := ebiten.StandardGamepadButtonRightBottom
		in.JumpHeld = in.JumpHeld || ebiten.IsStandardGamepadButtonPressed(id, jump)
		in.JumpPressed = in.JumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, jump)
		in.JumpReleased = in.JumpReleased || inpututil.IsStandardGamepadButtonJustReleased(id, jump)
	}

	return in
}

type InputSystem struct {
	source InputSource
}

// NewInputSystem samples source once per frame; nil uses EbitenInput.
func NewInputSystem(source InputSource) *InputSystem {
	if source == nil {
		source = EbitenInput{}
	}
	return &InputSystem{source: source}
}

func (i *InputSystem) Update(w *ecs.World) {
	if i == nil || w == nil {
		return
	}

	sampled := i.source.Sample()
	sampled.MoveX = math.Max(-1, math.Min(1, sampled.MoveX))

	ecs.ForEach(w, component.InputComponent, func(_ ecs.Entity, input *component.Input) {
		*input = sampled
	})
}
