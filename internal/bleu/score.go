package bleu

// Score is the result of a BLEU evaluation
type Score struct {
	BLEU              float64   `json:"bleu"`
	Precisions        []float64 `json:"precisions"`
	BrevityPenalty    float64   `json:"brevity_penalty"`
	LengthRatio       float64   `json:"length_ratio"`
	TranslationLength int       `json:"translation_length"`
	ReferenceLength   int       `json:"reference_length"`
}

// AsMap returns the score keyed by metric name
func (s *Score) AsMap() map[string]any {
	precisions := make([]float64, len(s.Precisions))
	copy(precisions, s.Precisions)

	return map[string]any{
		"bleu":               s.BLEU,
		"precisions":         precisions,
		"brevity_penalty":    s.BrevityPenalty,
		"length_ratio":       s.LengthRatio,
		"translation_length": s.TranslationLength,
		"reference_length":   s.ReferenceLength,
	}
}
