package ocr

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"
)

var dotRun = regexp.MustCompile(`[・.]{2,}`)

// NormalizeText cleans raw OCR output of a speech bubble: whitespace and line
// breaks are dropped (Japanese has no word spacing), ellipses become runs of
// dots and half-width characters are widened to their full-width forms.
func NormalizeText(text string) string {
	text = strings.Join(strings.Fields(text), "")
	text = strings.ReplaceAll(text, "…", "...")
	text = dotRun.ReplaceAllStringFunc(text, func(m string) string {
		return strings.Repeat(".", utf8.RuneCountInString(m))
	})
	return width.Widen.String(text)
}
