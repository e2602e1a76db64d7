package internal

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by a pipeline run. Callers match them with errors.Is.
var (
	// ErrInput indicates an image, directory or reference file could not be resolved
	ErrInput = errors.New("input resolution failed")

	// ErrCapability indicates an OCR, translation or scoring collaborator failed
	ErrCapability = errors.New("capability invocation failed")

	// ErrShapeMismatch indicates predictions and references differ in length
	ErrShapeMismatch = errors.New("shape mismatch")
)

// Pipeline stages reported in CapabilityError.Stage
const (
	StageOCR         = "ocr"
	StageTranslation = "translation"
	StageScoring     = "scoring"
)

// InputError describes an input path that could not be used
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid input: %v", e.Err)
	}
	return fmt.Sprintf("invalid input %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrInput) match any InputError
func (e *InputError) Is(target error) bool { return target == ErrInput }

// CapabilityError describes a failed call into an external collaborator.
// Item is the image path or the source text that was being processed and
// Index its position in the sequence (-1 when the call covered the whole
// sequence, as in concatenation mode).
type CapabilityError struct {
	Stage    string
	Provider string
	Item     string
	Index    int
	Err      error
}

func (e *CapabilityError) Error() string {
	where := e.Stage
	if e.Provider != "" {
		where = e.Stage + "/" + e.Provider
	}
	if e.Index >= 0 {
		return fmt.Sprintf("%s failed on item %d (%s): %v", where, e.Index, e.Item, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", where, e.Err)
}

func (e *CapabilityError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrCapability) match any CapabilityError
func (e *CapabilityError) Is(target error) bool { return target == ErrCapability }

// ShapeMismatchError reports prediction/reference sequences of unequal length
type ShapeMismatchError struct {
	Predictions int
	References  int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%d predictions but %d reference groups", e.Predictions, e.References)
}

// Is makes errors.Is(err, ErrShapeMismatch) match any ShapeMismatchError
func (e *ShapeMismatchError) Is(target error) bool { return target == ErrShapeMismatch }
