// Package camera maps the canvas onto the window with pan and zoom.
package camera

// Camera controls which part of the canvas is shown in the window.
// The view never leaves the canvas: when the canvas is smaller than the
// viewport on an axis it is centred on that axis.
type Camera struct {
	// Position is the camera center in canvas coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Canvas dimensions
	CanvasW, CanvasH float32

	// Zoom constraints. MinZoom fits the whole canvas in the viewport.
	MinZoom, MaxZoom float32
}

// New creates a camera showing the whole canvas.
func New(viewportW, viewportH, canvasW, canvasH float32) *Camera {
	c := &Camera{
		CanvasW: canvasW,
		CanvasH: canvasH,
		MaxZoom: 4.0,
	}
	c.Resize(viewportW, viewportH)
	c.Reset()
	return c
}

// CanvasToScreen converts canvas coordinates to screen coordinates.
func (c *Camera) CanvasToScreen(cx, cy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (cx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (cy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToCanvas converts screen coordinates to canvas coordinates.
func (c *Camera) ScreenToCanvas(sx, sy float32) (cx, cy float32) {
	cx = c.X + (sx-c.ViewportW/2)/c.Zoom
	cy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return cx, cy
}

// Dest returns the screen rectangle the full canvas texture is drawn into.
func (c *Camera) Dest() (x, y, w, h float32) {
	x, y = c.CanvasToScreen(0, 0)
	return x, y, c.CanvasW * c.Zoom, c.CanvasH * c.Zoom
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = min(viewportW/c.CanvasW, viewportH/c.CanvasH)
	if c.MinZoom > c.MaxZoom {
		c.MinZoom = c.MaxZoom
	}
	c.SetZoom(c.Zoom)
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
	c.clampCenter()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCenter()
}

// ZoomAt multiplies the zoom by factor, keeping the canvas point under
// (sx, sy) fixed on screen.
func (c *Camera) ZoomAt(factor, sx, sy float32) {
	cx, cy := c.ScreenToCanvas(sx, sy)
	c.Zoom = clamp(c.Zoom*factor, c.MinZoom, c.MaxZoom)
	c.X = cx - (sx-c.ViewportW/2)/c.Zoom
	c.Y = cy - (sy-c.ViewportH/2)/c.Zoom
	c.clampCenter()
}

// Reset fits the whole canvas in the viewport.
func (c *Camera) Reset() {
	c.X = c.CanvasW / 2
	c.Y = c.CanvasH / 2
	c.Zoom = c.MinZoom
}

// clampCenter keeps the view inside the canvas.
func (c *Camera) clampCenter() {
	c.X = clampAxis(c.X, c.ViewportW/(2*c.Zoom), c.CanvasW)
	c.Y = clampAxis(c.Y, c.ViewportH/(2*c.Zoom), c.CanvasH)
}

func clampAxis(center, half, size float32) float32 {
	if 2*half >= size {
		return size / 2
	}
	return clamp(center, half, size-half)
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
