// Flow field preview tool - interactive visualization with sliders.
//
// Usage: go run ./cmd/fieldpreview [config.yaml]
package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"

	"github.com/pthm-cable/flowstrands/config"
	"github.com/pthm-cable/flowstrands/field"
	"github.com/pthm-cable/flowstrands/strand"
)

const (
	windowWidth  = 1000
	windowHeight = 640
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 256
	arrowStep    = 32
)

type previewParams struct {
	Kind    field.Kind
	Scale   float32
	ZOffset float32
	Seed    int64
}

func main() {
	path := ""
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	cfg, err := config.Load(path)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rl.InitWindow(windowWidth, windowHeight, "Flow Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	defaults := previewParams{
		Kind:    cfg.Noise.Kind,
		Scale:   float32(cfg.Noise.Scale),
		ZOffset: float32(cfg.Noise.ZOffset),
		Seed:    cfg.Noise.Seed,
	}
	params := defaults

	grid := make([]float64, gridSize*gridSize)
	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	// Samples are taken in canvas coordinates so the preview matches renders.
	cw, ch := float64(cfg.Canvas.Width), float64(cfg.Canvas.Height)
	scaleMin, scaleMax := float32(cfg.Noise.ScaleMin), float32(cfg.Noise.ScaleMax)

	animating := false
	needsRegen := true

	for !rl.WindowShouldClose() {
		if animating {
			params.ZOffset += float32(cfg.Noise.ZStep)
			needsRegen = true
		}

		// Worley redraws its candidates on every sample, so only regenerate on change.
		if needsRegen {
			f := field.New(params.Seed, cfg.Canvas.Width, cfg.Canvas.Height, nil)
			fc := field.Config{Kind: params.Kind, Scale: float64(params.Scale), ZOffset: float64(params.ZOffset)}
			generateField(grid, f, fc, cw, ch)
			updateTexture(texture, grid)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		drawHeadings(grid)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		minVal, maxVal, avg := gridStats(grid)
		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Min: %.3f  Max: %.3f  Avg: %.3f", minVal, maxVal, avg), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Canvas: %dx%d", cfg.Canvas.Width, cfg.Canvas.Height), 15, statsY+20, 16, rl.DarkGray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Flow Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		rl.DrawText("Kind", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 30, Height: 24}, "<") {
			params.Kind = params.Kind.Prev()
			needsRegen = true
		}
		rl.DrawText(params.Kind.Label(), int32(panelX+45), int32(panelY+4), 16, rl.DarkGray)
		if gui.Button(rl.Rectangle{X: panelX + 200, Y: panelY, Width: 30, Height: 24}, ">") {
			params.Kind = params.Kind.Next()
			needsRegen = true
		}
		panelY += 40

		rl.DrawText("Scale (field frequency)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newScale := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			fmt.Sprintf("%.3f", scaleMin), fmt.Sprintf("%.3f", scaleMax),
			params.Scale, scaleMin, scaleMax,
		)
		rl.DrawText(fmt.Sprintf("%.4f", params.Scale), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newScale != params.Scale {
			params.Scale = newScale
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Z offset (animation phase)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newZ := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "10",
			params.ZOffset, 0, 10,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.ZOffset), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newZ != params.ZOffset {
			params.ZOffset = newZ
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Seed", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "99999",
			float32(params.Seed), 0, 99999,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Seed), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int64(newSeed) != params.Seed {
			params.Seed = int64(newSeed)
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset Z") {
			params.ZOffset = 0
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaults
			needsRegen = true
		}
		panelY += 55

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yaml := noiseYAML(params)
		for _, line := range strings.Split(yaml, "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

func noiseYAML(p previewParams) string {
	return fmt.Sprintf("noise:\n  kind: %s\n  scale: %.4f\n  z_offset: %.2f\n  seed: %d",
		p.Kind, p.Scale, p.ZOffset, p.Seed)
}

// generateField samples the field the way the tracer does, at canvas
// positions scaled by the noise scale.
func generateField(grid []float64, f *field.Field, fc field.Config, cw, ch float64) {
	for y := 0; y < gridSize; y++ {
		cy := (float64(y) + 0.5) / gridSize * ch
		for x := 0; x < gridSize; x++ {
			cx := (float64(x) + 0.5) / gridSize * cw
			grid[y*gridSize+x] = f.Sample(cx*fc.Scale, cy*fc.Scale, fc.ZOffset, fc)
		}
	}
}

func gridStats(grid []float64) (lo, hi, avg float64) {
	lo, hi = 1, 0
	var sum float64
	for _, v := range grid {
		sum += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, sum / float64(len(grid))
}

// drawHeadings overlays the target heading a strand would steer towards.
func drawHeadings(grid []float64) {
	scale := float32(previewSize) / gridSize
	for y := arrowStep / 2; y < gridSize; y += arrowStep {
		for x := arrowStep / 2; x < gridSize; x += arrowStep {
			angle := grid[y*gridSize+x] * strand.TurnRange
			cx := 10 + float32(x)*scale
			cy := 10 + float32(y)*scale
			l := float32(arrowStep) * scale * 0.4
			ex := cx + float32(math.Cos(angle))*l
			ey := cy + float32(math.Sin(angle))*l
			rl.DrawLineEx(rl.Vector2{X: cx, Y: cy}, rl.Vector2{X: ex, Y: ey}, 1.5, rl.White)
			rl.DrawCircleV(rl.Vector2{X: ex, Y: ey}, 2, rl.White)
		}
	}
}

// updateTexture updates the GPU texture from the grid values.
func updateTexture(texture rl.Texture2D, grid []float64) {
	pixels := make([]color.RGBA, len(grid))
	for i, v := range grid {
		// dark blue -> cyan -> yellow -> white
		var r, g, b uint8
		switch {
		case v < 0.25:
			t := v / 0.25
			r, g, b = uint8(10+t*30), uint8(20+t*60), uint8(60+t*100)
		case v < 0.5:
			t := (v - 0.25) / 0.25
			r, g, b = uint8(40+t*20), uint8(80+t*120), uint8(160+t*40)
		case v < 0.75:
			t := (v - 0.5) / 0.25
			r, g, b = uint8(60+t*140), uint8(200-t*40), uint8(200-t*150)
		default:
			t := math.Min((v-0.75)/0.25, 1)
			r, g, b = uint8(200+t*55), uint8(160+t*95), uint8(50+t*205)
		}
		pixels[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	rl.UpdateTexture(texture, pixels)
}
