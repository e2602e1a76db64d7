package processor

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"codeberg.org/snonux/mangatl/internal/cli"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds the settings of a processor, resolved from flags and the
// environment
type Config struct {
	// OCR
	Engine        string   `validate:"required"`
	OCRLanguages  []string `validate:"dive,required"`
	OCRModel      string
	OCRVariables  map[string]string
	OllamaURL     string `validate:"omitempty,url"`
	Enhance       bool
	Normalize     bool
	SkipNonImages bool

	// Translation
	FallbackModel string
	SourceLang    string        `validate:"required"`
	TargetLang    string        `validate:"required"`
	HFEndpoint    string        `validate:"omitempty,url"`
	RateLimit     float64       `validate:"gte=0"`
	Timeout       time.Duration `validate:"gte=0"`

	// Evaluation
	MaxOrder int `validate:"min=1,max=10"`
	Smooth   bool

	// Credentials
	OpenAIKey string
	GeminiKey string
	HFToken   string
}

// ConfigFromFlags builds a Config from command-line flags and the API keys
// found in the environment or config file
func ConfigFromFlags(flags *cli.Flags) Config {
	return Config{
		Engine:        flags.Engine,
		OCRLanguages:  flags.OCRLang,
		OCRModel:      flags.OCRModel,
		OCRVariables:  flags.OCRVariables,
		OllamaURL:     flags.OllamaURL,
		Enhance:       flags.Enhance,
		Normalize:     !flags.NoNormalize,
		SkipNonImages: flags.SkipNonImages,
		FallbackModel: flags.FallbackModel,
		SourceLang:    flags.SourceLang,
		TargetLang:    flags.TargetLang,
		HFEndpoint:    flags.HFEndpoint,
		RateLimit:     flags.RateLimit,
		Timeout:       flags.Timeout,
		MaxOrder:      flags.MaxOrder,
		Smooth:        flags.Smooth,
		OpenAIKey:     cli.GetOpenAIKey(),
		GeminiKey:     cli.GetGeminiKey(),
		HFToken:       cli.GetHFToken(),
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
