package viewer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	overlayFontSize   = 16
	overlayLineHeight = 20
	overlayPadding    = 10
)

// drawOverlay renders the parameter panel in the top-left corner.
func drawOverlay(lines []string, inverted bool) {
	boxWidth := int32(0)
	for _, line := range lines {
		boxWidth = max(boxWidth, rl.MeasureText(line, overlayFontSize)+2*overlayPadding)
	}
	boxHeight := int32(len(lines)*overlayLineHeight + overlayPadding)

	fill := color.RGBA{A: 150}
	text := rl.White
	if inverted {
		fill = color.RGBA{R: 255, G: 255, B: 255, A: 150}
		text = rl.Black
	}

	rl.DrawRectangleRounded(
		rl.Rectangle{X: 5, Y: 5, Width: float32(boxWidth), Height: float32(boxHeight)},
		0.05, 8, fill,
	)

	y := int32(overlayPadding)
	for _, line := range lines {
		rl.DrawText(line, 15, y, overlayFontSize, text)
		y += overlayLineHeight
	}
}

// drawPlaceholder is shown until a source image is loaded.
func drawPlaceholder(width, height int32) {
	msg := "Drop an image onto the window"
	w := rl.MeasureText(msg, 20)
	rl.DrawText(msg, (width-w)/2, height/2-10, 20, rl.DarkGray)
}
