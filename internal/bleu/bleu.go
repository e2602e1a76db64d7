package bleu

import (
	"fmt"
	"math"
	"strings"

	"codeberg.org/snonux/mangatl/internal"
)

// DefaultMaxOrder is the longest n-gram considered by default
const DefaultMaxOrder = 4

type options struct {
	maxOrder int
	smooth   bool
}

// Option configures Evaluate
type Option func(*options)

// WithMaxOrder sets the longest n-gram order
func WithMaxOrder(n int) Option {
	return func(o *options) {
		o.maxOrder = n
	}
}

// WithSmoothing enables add-one smoothing of the n-gram precisions
func WithSmoothing(smooth bool) Option {
	return func(o *options) {
		o.smooth = smooth
	}
}

// Evaluate scores predictions against references. Both must have the same
// length; position i of references holds the acceptable translations of
// predictions[i]. Empty input yields a zero score.
func Evaluate(predictions []string, references [][]string, opts ...Option) (*Score, error) {
	o := options{maxOrder: DefaultMaxOrder}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxOrder < 1 {
		return nil, &internal.CapabilityError{
			Stage: internal.StageScoring,
			Index: -1,
			Err:   fmt.Errorf("max order must be at least 1, got %d", o.maxOrder),
		}
	}

	if len(predictions) != len(references) {
		return nil, &internal.ShapeMismatchError{
			Predictions: len(predictions),
			References:  len(references),
		}
	}

	tokenized := make([][]string, len(predictions))
	for i, p := range predictions {
		tokenized[i] = Tokenize(p)
	}

	return Compute(FormatReferences(references), tokenized, o.maxOrder, o.smooth), nil
}

// Compute calculates corpus BLEU over tokenized input. references[i] holds
// the token lists of all references for translations[i]. The reference
// length of a position is that of its shortest reference.
func Compute(references [][][]string, translations [][]string, maxOrder int, smooth bool) *Score {
	matches := make([]int, maxOrder)
	possible := make([]int, maxOrder)
	translationLength, referenceLength := 0, 0

	for i, translation := range translations {
		var refs [][]string
		if i < len(references) {
			refs = references[i]
		}

		referenceLength += shortest(refs)
		translationLength += len(translation)

		maxRefCounts := make(map[string]int)
		for _, ref := range refs {
			for gram, count := range countNgrams(ref, maxOrder) {
				if count > maxRefCounts[gram] {
					maxRefCounts[gram] = count
				}
			}
		}

		for gram, count := range countNgrams(translation, maxOrder) {
			order := ngramOrder(gram)
			matches[order-1] += min(count, maxRefCounts[gram])
		}

		for order := 1; order <= maxOrder; order++ {
			if n := len(translation) - order + 1; n > 0 {
				possible[order-1] += n
			}
		}
	}

	precisions := make([]float64, maxOrder)
	for i := range precisions {
		switch {
		case smooth:
			precisions[i] = float64(matches[i]+1) / float64(possible[i]+1)
		case possible[i] > 0:
			precisions[i] = float64(matches[i]) / float64(possible[i])
		}
	}

	geoMean := 0.0
	if minPrecision(precisions) > 0 {
		logSum := 0.0
		for _, p := range precisions {
			logSum += math.Log(p) / float64(maxOrder)
		}
		geoMean = math.Exp(logSum)
	}

	ratio := 0.0
	if referenceLength > 0 {
		ratio = float64(translationLength) / float64(referenceLength)
	}

	bp := 0.0
	switch {
	case ratio > 1:
		bp = 1
	case ratio > 0:
		bp = math.Exp(1 - 1/ratio)
	}

	return &Score{
		BLEU:              geoMean * bp,
		Precisions:        precisions,
		BrevityPenalty:    bp,
		LengthRatio:       ratio,
		TranslationLength: translationLength,
		ReferenceLength:   referenceLength,
	}
}

// ngramSep joins the tokens of an n-gram key. Tokens never contain it since
// they are split on whitespace.
const ngramSep = " "

// countNgrams counts all n-grams of order 1 to maxOrder in tokens
func countNgrams(tokens []string, maxOrder int) map[string]int {
	counts := make(map[string]int)
	for order := 1; order <= maxOrder; order++ {
		for i := 0; i+order <= len(tokens); i++ {
			counts[strings.Join(tokens[i:i+order], ngramSep)]++
		}
	}
	return counts
}

func ngramOrder(gram string) int {
	return strings.Count(gram, ngramSep) + 1
}

func shortest(refs [][]string) int {
	if len(refs) == 0 {
		return 0
	}
	n := len(refs[0])
	for _, ref := range refs[1:] {
		n = min(n, len(ref))
	}
	return n
}

func minPrecision(precisions []float64) float64 {
	m := math.Inf(1)
	for _, p := range precisions {
		m = math.Min(m, p)
	}
	return m
}
