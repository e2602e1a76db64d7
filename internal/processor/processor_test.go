package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/mangatl/internal"
	"codeberg.org/snonux/mangatl/internal/cli"
	"codeberg.org/snonux/mangatl/internal/logger"
	"codeberg.org/snonux/mangatl/internal/ocr"
	"codeberg.org/snonux/mangatl/internal/testutil"
	"codeberg.org/snonux/mangatl/internal/translation"
)

// fixture bundles a processor with the mocks behind it
type fixture struct {
	proc          *Processor
	engine        *testutil.MockOCREngine
	backend       *testutil.MockTranslator
	engineOpens   int
	backendOpens  int
	engineConfigs []ocr.Config
	out           *bytes.Buffer
}

func newFixture(t *testing.T, flags *cli.Flags) *fixture {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	f := &fixture{
		engine:  &testutil.MockOCREngine{},
		backend: &testutil.MockTranslator{},
		out:     &bytes.Buffer{},
	}
	f.proc = NewProcessor(flags,
		WithEngineFactory(func(ctx context.Context, name string, cfg ocr.Config) (ocr.Engine, error) {
			f.engineOpens++
			f.engineConfigs = append(f.engineConfigs, cfg)
			return f.engine, nil
		}),
		WithBackendFactory(func(ctx context.Context, model string, cfg translation.Config) (translation.Backend, error) {
			f.backendOpens++
			return f.backend, nil
		}),
		WithLogger(logger.Discard()),
		WithOutput(f.out),
	)
	return f
}

func TestNewProcessor(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	flags := cli.NewFlags()
	f := newFixture(t, flags)

	cfg := f.proc.Config()
	assert.Equal(t, "tesseract", cfg.Engine)
	assert.True(t, cfg.Normalize)
	assert.Equal(t, "test-key", cfg.OpenAIKey)
	assert.Equal(t, 4, cfg.MaxOrder)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"missing engine", func(c *Config) { c.Engine = "" }},
		{"empty language", func(c *Config) { c.OCRLanguages = []string{""} }},
		{"bad ollama url", func(c *Config) { c.OllamaURL = "not a url" }},
		{"bad hf endpoint", func(c *Config) { c.HFEndpoint = "::" }},
		{"negative rate limit", func(c *Config) { c.RateLimit = -1 }},
		{"zero max order", func(c *Config) { c.MaxOrder = 0 }},
		{"missing target language", func(c *Config) { c.TargetLang = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ConfigFromFlags(cli.NewFlags())
			tt.modify(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestRunDirectoryWithEvaluation(t *testing.T) {
	dir := testutil.CreatePageDirectory(t, "page2.png", "page1.png")

	f := newFixture(t, cli.NewFlags())
	f.engine.Texts = map[string]string{"page1.png": "こんにちは 世界", "page2.png": "おはよう"}
	f.backend.Translations = map[string]string{"こんにちは世界": "hello world", "おはよう": "good morning"}

	result, err := f.proc.Run(context.Background(), Request{
		Images:     ocr.Directory(dir),
		References: [][]string{{"hello world"}, {"good morning", "good day"}},
		Evaluate:   true,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, []string{"こんにちは世界", "おはよう"}, result.Extracted, "listing order and normalization")
	assert.Equal(t, []string{"hello world", "good morning"}, result.Translated)
	require.NotNil(t, result.Score)

	metrics := result.Score.AsMap()
	bleuValue, ok := metrics["bleu"].(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, bleuValue, 0.0)
	assert.LessOrEqual(t, bleuValue, 1.0)

	assert.Equal(t, 1, f.engineOpens)
	assert.Equal(t, 1, f.backendOpens)
	assert.True(t, f.engine.Closed, "engine is released at the end of the run")
	assert.True(t, f.backend.Closed, "backend is released at the end of the run")
}

func TestRunSingleImage(t *testing.T) {
	dir := testutil.CreatePageDirectory(t, "page.png")

	f := newFixture(t, cli.NewFlags())
	result, err := f.proc.Run(context.Background(), Request{Images: ocr.Single(filepath.Join(dir, "page.png"))})
	require.NoError(t, err)

	assert.Len(t, result.Extracted, 1)
	assert.Len(t, result.Translated, 1)
	assert.Nil(t, result.Score)
}

func TestRunConcatenate(t *testing.T) {
	dir := testutil.CreatePageDirectory(t, "a.png", "b.png", "c.png")

	flags := cli.NewFlags()
	flags.NoNormalize = true
	f := newFixture(t, flags)
	result, err := f.proc.Run(context.Background(), Request{Images: ocr.Directory(dir), Concatenate: true})
	require.NoError(t, err)

	assert.Len(t, result.Extracted, 3)
	assert.Equal(t, []string{"mock translation of text of a.pngtext of b.pngtext of c.png"}, result.Translated)
	assert.Equal(t, 1, f.backend.CallCount())
}

func TestRunEmptyDirectory(t *testing.T) {
	f := newFixture(t, cli.NewFlags())

	result, err := f.proc.Run(context.Background(), Request{Images: ocr.Directory(t.TempDir()), Evaluate: true})
	require.NoError(t, err)

	assert.Empty(t, result.Extracted)
	assert.Empty(t, result.Translated)
	require.NotNil(t, result.Score)
	assert.Zero(t, result.Score.BLEU)
	assert.Zero(t, f.engineOpens, "no engine is needed for an empty directory")
	assert.Zero(t, f.backendOpens)
}

func TestRunErrors(t *testing.T) {
	t.Run("missing image", func(t *testing.T) {
		f := newFixture(t, cli.NewFlags())
		result, err := f.proc.Run(context.Background(), Request{Images: ocr.Single(filepath.Join(t.TempDir(), "nope.png"))})
		assert.Nil(t, result)
		assert.True(t, errors.Is(err, internal.ErrInput))
	})

	t.Run("ocr failure", func(t *testing.T) {
		dir := testutil.CreatePageDirectory(t, "1.png", "2.png")
		f := newFixture(t, cli.NewFlags())
		f.engine.Errors = map[string]error{"2.png": errors.New("unreadable")}

		result, err := f.proc.Run(context.Background(), Request{Images: ocr.Directory(dir)})
		assert.Nil(t, result)
		require.True(t, errors.Is(err, internal.ErrCapability))

		var capErr *internal.CapabilityError
		require.True(t, errors.As(err, &capErr))
		assert.Equal(t, internal.StageOCR, capErr.Stage)
		assert.Equal(t, 1, capErr.Index)
		assert.True(t, f.engine.Closed)
		assert.Zero(t, f.backendOpens)
	})

	t.Run("translation failure", func(t *testing.T) {
		dir := testutil.CreatePageDirectory(t, "1.png")
		flags := cli.NewFlags()
		flags.NoNormalize = true
		f := newFixture(t, flags)
		f.backend.Errors = map[string]error{"text of 1.png": errors.New("quota exceeded")}

		result, err := f.proc.Run(context.Background(), Request{Images: ocr.Directory(dir)})
		assert.Nil(t, result)

		var capErr *internal.CapabilityError
		require.True(t, errors.As(err, &capErr))
		assert.Equal(t, internal.StageTranslation, capErr.Stage)
		assert.True(t, f.backend.Closed)
	})

	t.Run("shape mismatch", func(t *testing.T) {
		dir := testutil.CreatePageDirectory(t, "1.png", "2.png")
		f := newFixture(t, cli.NewFlags())

		result, err := f.proc.Run(context.Background(), Request{
			Images:     ocr.Directory(dir),
			References: [][]string{{"only one"}},
			Evaluate:   true,
		})
		assert.Nil(t, result)
		assert.True(t, errors.Is(err, internal.ErrShapeMismatch))
	})

	t.Run("invalid config", func(t *testing.T) {
		flags := cli.NewFlags()
		flags.MaxOrder = 0
		f := newFixture(t, flags)

		_, err := f.proc.Run(context.Background(), Request{Images: ocr.Directory(t.TempDir())})
		assert.ErrorContains(t, err, "invalid configuration")
	})
}

func TestEngineOpenerConfig(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	dir := testutil.CreatePageDirectory(t, "1.png")

	flags := cli.NewFlags()
	flags.Engine = "gemini"
	flags.OCRModel = "gemini-2.5-flash"
	flags.OCRVariables = map[string]string{"preserve_interword_spaces": "1"}
	f := newFixture(t, flags)

	_, err := f.proc.Run(context.Background(), Request{Images: ocr.Directory(dir)})
	require.NoError(t, err)
	require.Len(t, f.engineConfigs, 1)
	assert.Equal(t, "gemini-key", f.engineConfigs[0].APIKey)
	assert.Equal(t, "gemini-2.5-flash", f.engineConfigs[0].Model)
	assert.Equal(t, map[string]string{"preserve_interword_spaces": "1"}, f.engineConfigs[0].Variables)
}

func TestRunCancelled(t *testing.T) {
	dir := testutil.CreatePageDirectory(t, "1.png", "2.png")
	f := newFixture(t, cli.NewFlags())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := f.proc.Run(ctx, Request{Images: ocr.Directory(dir)})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, internal.ErrCapability)
	assert.Empty(t, f.engine.Calls, "no image is recognized after cancellation")
	assert.True(t, f.engine.Closed)
	assert.Zero(t, f.backendOpens)
}

func TestBuildRequest(t *testing.T) {
	refsFile := filepath.Join(t.TempDir(), "refs.txt")
	testutil.CreateTestFile(t, refsFile, []byte("hello world\ngood morning | good day\n"))

	tests := []struct {
		name  string
		setup func(*cli.Flags)
		want  Request
	}{
		{
			name:  "single image",
			setup: func(f *cli.Flags) { f.ImagePath = "page.png" },
			want:  Request{Images: ocr.Single("page.png"), Model: "Helsinki-NLP/opus-mt-ja-en"},
		},
		{
			name: "multi flag",
			setup: func(f *cli.Flags) {
				f.ImagePath = "pages"
				f.Multi = true
				f.Concat = true
			},
			want: Request{Images: ocr.Directory("pages"), Model: "Helsinki-NLP/opus-mt-ja-en", Concatenate: true},
		},
		{
			name: "dir with references",
			setup: func(f *cli.Flags) {
				f.Dir = "chapter"
				f.References = refsFile
				f.Model = "openai:gpt-4o"
			},
			want: Request{
				Images:     ocr.Directory("chapter"),
				Model:      "openai:gpt-4o",
				References: [][]string{{"hello world"}, {"good morning", "good day"}},
				Evaluate:   true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := cli.NewFlags()
			tt.setup(flags)
			f := newFixture(t, flags)

			got, err := f.proc.BuildRequest()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildRequestErrors(t *testing.T) {
	flags := cli.NewFlags()
	flags.Evaluate = true
	f := newFixture(t, flags)

	_, err := f.proc.BuildRequest()
	assert.True(t, errors.Is(err, internal.ErrInput))

	flags = cli.NewFlags()
	flags.References = filepath.Join(t.TempDir(), "missing.txt")
	f = newFixture(t, flags)

	_, err = f.proc.BuildRequest()
	assert.True(t, errors.Is(err, internal.ErrInput))
}

func TestProcessOutput(t *testing.T) {
	dir := testutil.CreatePageDirectory(t, "1.png")
	refsFile := filepath.Join(t.TempDir(), "refs.yaml")
	testutil.CreateTestFile(t, refsFile, []byte("- [one]\n"))

	flags := cli.NewFlags()
	flags.Dir = dir
	flags.References = refsFile
	flags.JSON = true
	flags.NoNormalize = true
	f := newFixture(t, flags)
	f.backend.Translations = map[string]string{"text of 1.png": "one"}

	require.NoError(t, f.proc.Process(context.Background()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(f.out.Bytes(), &decoded))
	assert.Equal(t, []any{"text of 1.png"}, decoded["extracted"])
	assert.Equal(t, []any{"one"}, decoded["translated"])
	score := decoded["score"].(map[string]any)
	assert.Contains(t, score, "bleu")
	assert.Contains(t, score, "brevity_penalty")
}
