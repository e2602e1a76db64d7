// Package tesseract provides the local OCR engine backed by Tesseract via
// gosseract. It needs the jpn / jpn_vert traineddata installed.
package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"codeberg.org/snonux/mangatl/internal/ocr"
)

// Name is the registry name of this engine
const Name = "tesseract"

// DefaultLanguages covers vertical and horizontal Japanese text
var DefaultLanguages = []string{"jpn_vert", "jpn"}

func init() {
	ocr.Register(Name, New)
}

// Engine recognizes text with a single gosseract client that is reused for
// every image until Close
type Engine struct {
	client    *gosseract.Client
	languages []string
}

// New creates a Tesseract engine configured with cfg.Languages and
// cfg.Variables
func New(_ context.Context, cfg ocr.Config) (ocr.Engine, error) {
	languages := cfg.Languages
	if len(languages) == 0 {
		languages = DefaultLanguages
	}

	client := gosseract.NewClient()
	if err := client.SetLanguage(languages...); err != nil {
		client.Close()
		return nil, fmt.Errorf("set languages %s: %w", strings.Join(languages, "+"), err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		client.Close()
		return nil, fmt.Errorf("set page segmentation mode: %w", err)
	}
	for k, v := range cfg.Variables {
		if err := client.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			client.Close()
			return nil, fmt.Errorf("set variable %s: %w", k, err)
		}
	}

	return &Engine{client: client, languages: languages}, nil
}

// Recognize runs Tesseract on the image at imagePath
func (e *Engine) Recognize(ctx context.Context, imagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := e.client.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("set image %s: %w", imagePath, err)
	}
	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("failed to extract text from image %s: %w", imagePath, err)
	}
	return strings.TrimSpace(text), nil
}

// Name returns the engine name
func (e *Engine) Name() string {
	return Name
}

// Close releases the Tesseract client
func (e *Engine) Close() error {
	if e.client == nil {
		return nil
	}
	err := e.client.Close()
	e.client = nil
	return err
}
