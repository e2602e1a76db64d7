package bleu

import "strings"

// Tokenize splits text on whitespace. Casing and punctuation are kept.
func Tokenize(text string) []string {
	tokens := strings.Fields(text)
	if tokens == nil {
		return []string{}
	}
	return tokens
}

// FormatReferences converts reference groups into token lists. Every
// position yields a list of token lists, one per reference, even when the
// group holds a single reference.
func FormatReferences(references [][]string) [][][]string {
	formatted := make([][][]string, len(references))
	for i, group := range references {
		tokenized := make([][]string, len(group))
		for j, ref := range group {
			tokenized[j] = Tokenize(ref)
		}
		formatted[i] = tokenized
	}
	return formatted
}
