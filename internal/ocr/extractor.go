package ocr

import (
	"context"
	"log/slog"

	"codeberg.org/snonux/mangatl/internal"
	"codeberg.org/snonux/mangatl/internal/logger"
)

// OpenFunc acquires the engine used by an Extractor
type OpenFunc func(ctx context.Context) (Engine, error)

// Options configures an Extractor
type Options struct {
	// Normalize applies NormalizeText to every recognized text
	Normalize bool
	// SkipNonImages drops directory entries without an image extension
	SkipNonImages bool
	// Preprocessor enhances images before recognition when set
	Preprocessor *Preprocessor
	Logger       *slog.Logger
}

// Extractor runs OCR over an image reference. The engine is acquired on the
// first call to Extract and held until Close.
type Extractor struct {
	open   OpenFunc
	engine Engine
	opts   Options
	logger *slog.Logger
}

// NewExtractor creates an extractor that opens its engine with open
func NewExtractor(open OpenFunc, opts Options) *Extractor {
	return &Extractor{
		open:   open,
		opts:   opts,
		logger: logger.OrDefault(opts.Logger),
	}
}

// Extract recognizes the text of every image in ref, one string per image in
// listing order. A failure on any image fails the whole call. Cancellation
// of ctx is checked before each image and returned as ctx.Err().
func (e *Extractor) Extract(ctx context.Context, ref ImageRef) ([]string, error) {
	paths, err := ref.Resolve(e.opts.SkipNonImages)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("resolved images", "ref", ref.String(), "count", len(paths))

	texts := make([]string, 0, len(paths))
	if len(paths) == 0 {
		return texts, nil
	}

	engine, err := e.acquire(ctx)
	if err != nil {
		return nil, &internal.CapabilityError{Stage: internal.StageOCR, Index: -1, Err: err}
	}

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := e.recognize(ctx, engine, i, path)
		if err != nil {
			return nil, err
		}
		if e.opts.Normalize {
			text = NormalizeText(text)
		}

		e.logger.Debug("recognized image", "index", i, "path", path, "chars", len([]rune(text)))
		texts = append(texts, text)
	}

	return texts, nil
}

func (e *Extractor) recognize(ctx context.Context, engine Engine, index int, path string) (string, error) {
	input := path
	if e.opts.Preprocessor != nil {
		enhanced, cleanup, err := e.opts.Preprocessor.Enhance(path)
		if err != nil {
			return "", &internal.InputError{Path: path, Err: err}
		}
		defer cleanup()
		input = enhanced
	}

	text, err := engine.Recognize(ctx, input)
	if err != nil {
		return "", &internal.CapabilityError{
			Stage:    internal.StageOCR,
			Provider: engine.Name(),
			Item:     path,
			Index:    index,
			Err:      err,
		}
	}
	return text, nil
}

func (e *Extractor) acquire(ctx context.Context) (Engine, error) {
	if e.engine != nil {
		return e.engine, nil
	}
	engine, err := e.open(ctx)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("OCR engine opened", "engine", engine.Name())
	e.engine = engine
	return engine, nil
}

// Close releases the engine if one was acquired
func (e *Extractor) Close() error {
	if e.engine == nil {
		return nil
	}
	err := e.engine.Close()
	e.engine = nil
	return err
}
