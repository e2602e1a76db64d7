package cli

import (
	"reflect"
	"testing"
	"time"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	// Test default values
	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Engine", flags.Engine, "tesseract"},
		{"OCRLang", flags.OCRLang, []string{"jpn_vert", "jpn"}},
		{"OllamaURL", flags.OllamaURL, "http://localhost:11434"},
		{"Model", flags.Model, "Helsinki-NLP/opus-mt-ja-en"},
		{"SourceLang", flags.SourceLang, "Japanese"},
		{"TargetLang", flags.TargetLang, "English"},
		{"Timeout", flags.Timeout, time.Minute},
		{"MaxOrder", flags.MaxOrder, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	// Test boolean defaults (should be false)
	boolTests := []struct {
		name  string
		value bool
	}{
		{"Multi", flags.Multi},
		{"SkipNonImages", flags.SkipNonImages},
		{"Enhance", flags.Enhance},
		{"NoNormalize", flags.NoNormalize},
		{"Concat", flags.Concat},
		{"Evaluate", flags.Evaluate},
		{"Smooth", flags.Smooth},
		{"JSON", flags.JSON},
		{"ListModels", flags.ListModels},
	}

	for _, tt := range boolTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != false {
				t.Errorf("%s = %v, want false", tt.name, tt.value)
			}
		})
	}

	// Test string defaults (should be empty)
	stringTests := []struct {
		name  string
		value string
	}{
		{"CfgFile", flags.CfgFile},
		{"ImagePath", flags.ImagePath},
		{"Dir", flags.Dir},
		{"OCRModel", flags.OCRModel},
		{"FallbackModel", flags.FallbackModel},
		{"References", flags.References},
	}

	for _, tt := range stringTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Errorf("%s = %q, want empty string", tt.name, tt.value)
			}
		})
	}
}
