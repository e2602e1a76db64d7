package processor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"codeberg.org/snonux/mangatl/internal"
	"codeberg.org/snonux/mangatl/internal/bleu"
	"codeberg.org/snonux/mangatl/internal/cli"
	"codeberg.org/snonux/mangatl/internal/logger"
	"codeberg.org/snonux/mangatl/internal/ocr"
	"codeberg.org/snonux/mangatl/internal/references"
	"codeberg.org/snonux/mangatl/internal/translation"
)

// EngineFactory creates the OCR engine registered under name
type EngineFactory func(ctx context.Context, name string, cfg ocr.Config) (ocr.Engine, error)

// Option configures a Processor
type Option func(*Processor)

// WithEngineFactory replaces the OCR engine constructor
func WithEngineFactory(f EngineFactory) Option {
	return func(p *Processor) {
		p.newEngine = f
	}
}

// WithBackendFactory replaces the translation backend constructor
func WithBackendFactory(f translation.OpenFunc) Option {
	return func(p *Processor) {
		p.newBackend = f
	}
}

// WithLogger sets the logger for progress and debug output
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) {
		p.logger = l
	}
}

// WithOutput sets where results are printed
func WithOutput(w io.Writer) Option {
	return func(p *Processor) {
		p.out = w
	}
}

// Request describes one pipeline run
type Request struct {
	Images      ocr.ImageRef
	Model       string
	References  [][]string
	Concatenate bool
	Evaluate    bool
}

// Result holds the output of every pipeline stage. Score is nil when
// evaluation was not requested.
type Result struct {
	RunID      string      `json:"run_id"`
	Extracted  []string    `json:"extracted"`
	Translated []string    `json:"translated"`
	Score      *bleu.Score `json:"score,omitempty"`
}

// Processor handles the main pipeline logic
type Processor struct {
	flags      *cli.Flags
	config     Config
	newEngine  EngineFactory
	newBackend translation.OpenFunc
	logger     *slog.Logger
	out        io.Writer
}

// NewProcessor creates a new pipeline processor
func NewProcessor(flags *cli.Flags, opts ...Option) *Processor {
	p := &Processor{
		flags:      flags,
		config:     ConfigFromFlags(flags),
		newEngine:  ocr.NewEngine,
		newBackend: translation.NewBackend,
		out:        os.Stdout,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.New(os.Stderr, flags.Verbose)
	}
	return p
}

// Config returns the resolved configuration
func (p *Processor) Config() Config {
	return p.config
}

// Process runs the pipeline on the input given on the command line and
// prints the result
func (p *Processor) Process(ctx context.Context) error {
	req, err := p.BuildRequest()
	if err != nil {
		return err
	}

	result, err := p.Run(ctx, req)
	if err != nil {
		return err
	}

	if p.flags.JSON {
		return WriteJSON(p.out, result)
	}
	WriteText(p.out, result)
	return nil
}

// BuildRequest derives the run request from the command-line flags and
// loads the reference file if one was given
func (p *Processor) BuildRequest() (Request, error) {
	req := Request{
		Model:       p.flags.Model,
		Concatenate: p.flags.Concat,
		Evaluate:    p.flags.Evaluate || p.flags.References != "",
	}

	switch {
	case p.flags.Dir != "":
		req.Images = ocr.Directory(p.flags.Dir)
	case p.flags.Multi:
		req.Images = ocr.Directory(p.flags.ImagePath)
	default:
		req.Images = ocr.Single(p.flags.ImagePath)
	}

	if p.flags.References != "" {
		refs, err := references.Load(p.flags.References)
		if err != nil {
			return Request{}, err
		}
		req.References = refs
	} else if req.Evaluate {
		return Request{}, &internal.InputError{Err: fmt.Errorf("evaluation requires a reference file (--references)")}
	}

	return req, nil
}

// Run extracts text from the requested images, translates it and, when
// requested, scores the translation. The stages run in sequence; the OCR
// engine and translation backend live for the duration of the run. On
// failure no partial result is returned. Failures are reported as
// InputError, CapabilityError or ShapeMismatchError; a cancelled or expired
// ctx aborts the run between items and returns ctx.Err() unwrapped, so
// callers match it with errors.Is(err, context.Canceled) or
// context.DeadlineExceeded.
func (p *Processor) Run(ctx context.Context, req Request) (*Result, error) {
	if err := p.config.Validate(); err != nil {
		return nil, err
	}

	runID := internal.GenerateRunID()
	log := p.logger.With("run_id", runID)
	log.Info("starting run", "images", req.Images.String(), "model", req.Model,
		"concat", req.Concatenate, "evaluate", req.Evaluate)

	extractor := ocr.NewExtractor(p.engineOpener(), ocr.Options{
		Normalize:     p.config.Normalize,
		SkipNonImages: p.config.SkipNonImages,
		Preprocessor:  p.preprocessor(),
		Logger:        log,
	})
	defer func() {
		if err := extractor.Close(); err != nil {
			log.Warn("failed to close OCR engine", "error", err)
		}
	}()

	extracted, err := extractor.Extract(ctx, req.Images)
	if err != nil {
		return nil, err
	}
	log.Info("extracted text", "pages", len(extracted))

	translator := translation.New(req.Model, p.translationConfig(log), translation.WithOpenFunc(p.newBackend))
	defer func() {
		if err := translator.Close(); err != nil {
			log.Warn("failed to close translation backend", "error", err)
		}
	}()

	translated, err := translator.Translate(ctx, extracted, req.Concatenate)
	if err != nil {
		return nil, err
	}
	log.Info("translated text", "model", translator.Model(), "segments", len(translated))

	result := &Result{
		RunID:      runID,
		Extracted:  extracted,
		Translated: translated,
	}

	if req.Evaluate {
		score, err := bleu.Evaluate(translated, req.References,
			bleu.WithMaxOrder(p.config.MaxOrder), bleu.WithSmoothing(p.config.Smooth))
		if err != nil {
			return nil, err
		}
		log.Info("scored translation", "bleu", score.BLEU)
		result.Score = score
	}

	return result, nil
}

func (p *Processor) engineOpener() ocr.OpenFunc {
	cfg := ocr.Config{
		Languages: p.config.OCRLanguages,
		Model:     p.config.OCRModel,
		Variables: p.config.OCRVariables,
		Timeout:   p.config.Timeout,
	}
	switch p.config.Engine {
	case "ollama":
		cfg.BaseURL = p.config.OllamaURL
	case "openai":
		cfg.APIKey = p.config.OpenAIKey
	case "gemini":
		cfg.APIKey = p.config.GeminiKey
	}

	return func(ctx context.Context) (ocr.Engine, error) {
		return p.newEngine(ctx, p.config.Engine, cfg)
	}
}

func (p *Processor) preprocessor() *ocr.Preprocessor {
	if !p.config.Enhance {
		return nil
	}
	return ocr.NewPreprocessor()
}

func (p *Processor) translationConfig(log *slog.Logger) translation.Config {
	return translation.Config{
		SourceLang:    p.config.SourceLang,
		TargetLang:    p.config.TargetLang,
		FallbackModel: p.config.FallbackModel,
		OpenAIKey:     p.config.OpenAIKey,
		GeminiKey:     p.config.GeminiKey,
		HFToken:       p.config.HFToken,
		HFEndpoint:    p.config.HFEndpoint,
		Timeout:       p.config.Timeout,
		RateLimit:     p.config.RateLimit,
		Logger:        log,
	}
}
