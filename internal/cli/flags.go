package cli

import "time"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	JSON       bool
	Verbose    bool
	ListModels bool

	// Input flags
	ImagePath     string // Positional argument, a file or with Multi a directory
	Dir           string
	Multi         bool
	SkipNonImages bool

	// OCR flags
	Engine       string
	OCRLang      []string
	OCRModel     string
	OCRVariables map[string]string // Tesseract variables, e.g. preserve_interword_spaces=1
	OllamaURL    string
	Enhance      bool
	NoNormalize  bool

	// Translation flags
	Model         string
	FallbackModel string
	Concat        bool
	SourceLang    string
	TargetLang    string
	HFEndpoint    string
	RateLimit     float64
	Timeout       time.Duration

	// Evaluation flags
	References string
	Evaluate   bool
	MaxOrder   int
	Smooth     bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Engine:     "tesseract",
		OCRLang:    []string{"jpn_vert", "jpn"},
		OllamaURL:  "http://localhost:11434",
		Model:      "Helsinki-NLP/opus-mt-ja-en",
		SourceLang: "Japanese",
		TargetLang: "English",
		HFEndpoint: "https://router.huggingface.co/hf-inference/models",
		Timeout:    time.Minute,
		MaxOrder:   4,
	}
}
