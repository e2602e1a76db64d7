package processor

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// WriteJSON prints the result as indented JSON
func WriteJSON(w io.Writer, result *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

// WriteText prints the result in human readable form
func WriteText(w io.Writer, result *Result) {
	fmt.Fprintf(w, "Run: %s\n", result.RunID)

	fmt.Fprintf(w, "\n=== Extracted Text (%d) ===\n", len(result.Extracted))
	writeSegments(w, result.Extracted)

	fmt.Fprintf(w, "\n=== Translation (%d) ===\n", len(result.Translated))
	writeSegments(w, result.Translated)

	if result.Score == nil {
		return
	}

	s := result.Score
	precisions := make([]string, len(s.Precisions))
	for i, p := range s.Precisions {
		precisions[i] = fmt.Sprintf("%.4f", p)
	}

	fmt.Fprintf(w, "\n=== BLEU ===\n")
	fmt.Fprintf(w, "BLEU:               %.4f\n", s.BLEU)
	fmt.Fprintf(w, "Precisions:         %s\n", strings.Join(precisions, " / "))
	fmt.Fprintf(w, "Brevity penalty:    %.4f\n", s.BrevityPenalty)
	fmt.Fprintf(w, "Length ratio:       %.4f\n", s.LengthRatio)
	fmt.Fprintf(w, "Translation length: %d\n", s.TranslationLength)
	fmt.Fprintf(w, "Reference length:   %d\n", s.ReferenceLength)
}

func writeSegments(w io.Writer, segments []string) {
	if len(segments) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for i, segment := range segments {
		fmt.Fprintf(w, "[%d] %s\n", i+1, segment)
	}
}
