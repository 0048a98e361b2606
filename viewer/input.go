package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flowstrands/controls"
)

type binding struct {
	key    int32
	action controls.Action
}

var keymap = []binding{
	{rl.KeyRight, controls.NoiseNext},
	{rl.KeyLeft, controls.NoisePrev},
	{rl.KeyUp, controls.ScaleUp},
	{rl.KeyDown, controls.ScaleDown},
	{rl.KeyA, controls.ToggleAnimate},
	{rl.KeyPeriod, controls.CountUp},
	{rl.KeyComma, controls.CountDown},
	{rl.KeyC, controls.ContrastCycle},
	{rl.KeyI, controls.ToggleInvert},
	{rl.KeyF, controls.ToggleFreeze},
	{rl.KeyU, controls.ToggleInfo},
	{rl.KeyE, controls.Export},
	{rl.KeyR, controls.Reset},
	{rl.KeyOne, controls.Thickness1},
	{rl.KeyTwo, controls.Thickness2},
	{rl.KeyThree, controls.Thickness3},
	{rl.KeyFour, controls.Thickness4},
	{rl.KeyFive, controls.Thickness5},
	{rl.KeySix, controls.Thickness6},
	{rl.KeySeven, controls.Thickness7},
	{rl.KeyEight, controls.Thickness8},
	{rl.KeyNine, controls.Thickness9},
}

// handleInput applies pressed keys and the pointer position to the controller.
func (v *Viewer) handleInput() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	for _, b := range keymap {
		if rl.IsKeyPressed(b.key) {
			v.handleEffect(v.controls.Apply(b.action))
		}
	}

	w := float64(rl.GetScreenWidth())
	h := float64(rl.GetScreenHeight())
	if w > 0 && h > 0 {
		v.controls.SetPointer(float64(rl.GetMouseX())/w, float64(rl.GetMouseY())/h)
	}

	v.handleCamera()
}

// handleCamera zooms toward the cursor with the wheel and pans with a
// right-button drag. Home refits the canvas.
func (v *Viewer) handleCamera() {
	v.camera.Resize(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		mouse := rl.GetMousePosition()
		v.camera.ZoomAt(1+wheel*0.1, mouse.X, mouse.Y)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		v.camera.Pan(-d.X, -d.Y)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		v.camera.Reset()
	}
}

// handleDrop loads the first file dropped onto the window as the new source.
func (v *Viewer) handleDrop() {
	if !rl.IsFileDropped() {
		return
	}
	files := rl.LoadDroppedFiles()
	rl.UnloadDroppedFiles()
	if len(files) == 0 {
		return
	}
	if err := v.loadImage(files[0]); err != nil {
		v.log.Error("failed to load dropped image", "path", files[0], "error", err)
	}
}
