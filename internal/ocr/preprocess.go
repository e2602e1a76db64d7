package ocr

import (
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register the webp decoder for scanlation pages
)

// Preprocessor enhances page images before OCR: small images are upscaled,
// then converted to grayscale, contrast-stretched and sharpened.
type Preprocessor struct {
	MinSide  int     // Images narrower or shorter than this are upscaled 2x
	Contrast float64 // Contrast adjustment in percent (-100..100)
	Sharpen  float64 // Sharpening sigma
	TempDir  string  // Where enhanced copies are written (default os.TempDir)
}

// NewPreprocessor returns a preprocessor with defaults tuned for scans
func NewPreprocessor() *Preprocessor {
	return &Preprocessor{
		MinSide:  300,
		Contrast: 10,
		Sharpen:  1.1,
	}
}

// Enhance writes an enhanced PNG copy of the image at path and returns its
// location along with a cleanup func that removes it. The source image is
// never modified.
func (p *Preprocessor) Enhance(path string) (string, func(), error) {
	src, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", nil, fmt.Errorf("opening image %s: %w", path, err)
	}

	var img image.Image = src
	bounds := img.Bounds()
	if bounds.Dx() < p.MinSide || bounds.Dy() < p.MinSide {
		img = imaging.Resize(img, bounds.Dx()*2, bounds.Dy()*2, imaging.Lanczos)
	}

	gray := imaging.Grayscale(img)
	contrast := imaging.AdjustContrast(gray, p.Contrast)
	sharp := imaging.Sharpen(contrast, p.Sharpen)

	tmp, err := os.CreateTemp(p.TempDir, "mangatl-*.png")
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	cleanup := func() { _ = os.Remove(tmpPath) }
	if err := imaging.Save(sharp, tmpPath); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("saving processed image: %w", err)
	}

	return tmpPath, cleanup, nil
}
