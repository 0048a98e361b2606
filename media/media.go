// Package media loads source images onto the canvas and exports surfaces.
package media

import (
	"fmt"
	"image"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
)

// Load decodes the image at path and stretches it to the canvas size, so that
// canvas coordinates address source pixels directly.
func Load(path string, width, height int) (*image.NRGBA, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("opening image %s: %w", path, err)
	}
	return Fit(img, width, height), nil
}

// Fit stretches img to exactly width x height.
func Fit(img image.Image, width, height int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, width, height, imaging.Lanczos)
}

// Export writes img as a PNG file.
func Export(path string, img image.Image) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("exporting %s: %w", path, err)
	}
	return nil
}

// ExportName returns the timestamped export path inside dir.
func ExportName(dir string, t time.Time) string {
	return filepath.Join(dir, "output-"+t.Format("20060102-150405.000")+".png")
}

// FrameName returns the path of frame i in a numbered sequence inside dir.
func FrameName(dir string, i int) string {
	return filepath.Join(dir, fmt.Sprintf("frame-%05d.png", i))
}
