package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/mangatl/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mangatl [image]",
		Short: "Manga OCR, translation and BLEU scoring",
		Long: `mangatl extracts Japanese text from manga pages, translates it and
optionally scores the translation against reference translations with BLEU.

Examples:
  mangatl page01.png                               # OCR and translate one page
  mangatl --dir chapter1/                          # every page of a directory
  mangatl --dir chapter1/ --concat                 # translate the chapter as one text
  mangatl --dir chapter1/ --references refs.txt    # translate and score with BLEU
  mangatl page01.png --model openai:gpt-4o-mini    # translate with an OpenAI model
  mangatl page01.png --engine ollama --json        # vision OCR, JSON output`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.mangatl.yaml)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")

	// Input flags
	cmd.Flags().StringVarP(&flags.Dir, "dir", "d", "", "Process every page in directory (implies --multi)")
	cmd.Flags().BoolVarP(&flags.Multi, "multi", "m", false, "Treat the image argument as a directory of pages")
	cmd.Flags().BoolVar(&flags.SkipNonImages, "skip-non-images", false, "Ignore directory entries without an image extension")

	// OCR flags
	cmd.Flags().StringVarP(&flags.Engine, "engine", "e", flags.Engine, "OCR engine: tesseract, ollama, openai, gemini")
	cmd.Flags().StringSliceVar(&flags.OCRLang, "ocr-lang", flags.OCRLang, "Tesseract languages")
	cmd.Flags().StringVar(&flags.OCRModel, "ocr-model", "", "Vision model for the ollama, openai and gemini engines")
	cmd.Flags().StringToStringVar(&flags.OCRVariables, "ocr-var", nil, "Tesseract variable as key=value (repeatable)")
	cmd.Flags().StringVar(&flags.OllamaURL, "ollama-url", flags.OllamaURL, "Ollama server URL")
	cmd.Flags().BoolVar(&flags.Enhance, "enhance", false, "Upscale, grayscale and sharpen pages before OCR")
	cmd.Flags().BoolVar(&flags.NoNormalize, "no-normalize", false, "Keep recognized text as returned by the engine")

	// Translation flags
	cmd.Flags().StringVar(&flags.Model, "model", flags.Model, "Translation model: <org/model>, hf:<org/model>, openai:<model> or gemini:<model>")
	cmd.Flags().StringVar(&flags.FallbackModel, "fallback-model", "", "Translation model to try when the primary model fails")
	cmd.Flags().BoolVarP(&flags.Concat, "concat", "c", false, "Translate the text of all pages as one")
	cmd.Flags().StringVar(&flags.SourceLang, "source-lang", flags.SourceLang, "Source language name for LLM translation")
	cmd.Flags().StringVar(&flags.TargetLang, "target-lang", flags.TargetLang, "Target language name for LLM translation")
	cmd.Flags().StringVar(&flags.HFEndpoint, "hf-endpoint", flags.HFEndpoint, "Hugging Face inference API base URL")
	cmd.Flags().Float64Var(&flags.RateLimit, "rate-limit", 0, "Maximum translation requests per second (0 = unlimited)")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", flags.Timeout, "Timeout per remote request")

	// Evaluation flags
	cmd.Flags().StringVarP(&flags.References, "references", "r", "", "Reference translations file (.txt, .yaml or .json)")
	cmd.Flags().BoolVar(&flags.Evaluate, "evaluate", false, "Score translations with BLEU (implied by --references)")
	cmd.Flags().IntVar(&flags.MaxOrder, "max-order", flags.MaxOrder, "Longest n-gram used by BLEU")
	cmd.Flags().BoolVar(&flags.Smooth, "smooth", false, "Apply add-one smoothing to BLEU precisions")

	// Output flags
	cmd.Flags().BoolVar(&flags.JSON, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI models for the current API key")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("ocr.engine", cmd.Flags().Lookup("engine"))
	viper.BindPFlag("ocr.languages", cmd.Flags().Lookup("ocr-lang"))
	viper.BindPFlag("ocr.model", cmd.Flags().Lookup("ocr-model"))
	viper.BindPFlag("ocr.variables", cmd.Flags().Lookup("ocr-var"))
	viper.BindPFlag("ocr.ollama_url", cmd.Flags().Lookup("ollama-url"))
	viper.BindPFlag("ocr.enhance", cmd.Flags().Lookup("enhance"))
	viper.BindPFlag("translation.model", cmd.Flags().Lookup("model"))
	viper.BindPFlag("translation.fallback_model", cmd.Flags().Lookup("fallback-model"))
	viper.BindPFlag("translation.source_lang", cmd.Flags().Lookup("source-lang"))
	viper.BindPFlag("translation.target_lang", cmd.Flags().Lookup("target-lang"))
	viper.BindPFlag("translation.hf_endpoint", cmd.Flags().Lookup("hf-endpoint"))
	viper.BindPFlag("translation.rate_limit", cmd.Flags().Lookup("rate-limit"))
	viper.BindPFlag("translation.timeout", cmd.Flags().Lookup("timeout"))
	viper.BindPFlag("evaluation.max_order", cmd.Flags().Lookup("max-order"))
	viper.BindPFlag("evaluation.smooth", cmd.Flags().Lookup("smooth"))
}

// ApplyConfig copies the viper-bound settings into flags so that values
// from the config file or environment apply when a flag was not given
func ApplyConfig(flags *Flags) {
	flags.Engine = viper.GetString("ocr.engine")
	flags.OCRLang = viper.GetStringSlice("ocr.languages")
	flags.OCRModel = viper.GetString("ocr.model")
	flags.OCRVariables = viper.GetStringMapString("ocr.variables")
	flags.OllamaURL = viper.GetString("ocr.ollama_url")
	flags.Enhance = viper.GetBool("ocr.enhance")
	flags.Model = viper.GetString("translation.model")
	flags.FallbackModel = viper.GetString("translation.fallback_model")
	flags.SourceLang = viper.GetString("translation.source_lang")
	flags.TargetLang = viper.GetString("translation.target_lang")
	flags.HFEndpoint = viper.GetString("translation.hf_endpoint")
	flags.RateLimit = viper.GetFloat64("translation.rate_limit")
	flags.Timeout = viper.GetDuration("translation.timeout")
	flags.MaxOrder = viper.GetInt("evaluation.max_order")
	flags.Smooth = viper.GetBool("evaluation.smooth")
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".mangatl" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".mangatl")
	}

	// Environment variables
	viper.SetEnvPrefix("MANGATL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	return lookupKey("OPENAI_API_KEY", "translation.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	return lookupKey("GEMINI_API_KEY", "translation.gemini_key")
}

// GetHFToken retrieves the Hugging Face access token from environment or config
func GetHFToken() string {
	return lookupKey("HF_TOKEN", "translation.hf_token")
}

func lookupKey(envVar, configKey string) string {
	// First check environment variable
	if key := os.Getenv(envVar); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString(configKey)
}
