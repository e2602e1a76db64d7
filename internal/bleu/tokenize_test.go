package bleu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatReferences(t *testing.T) {
	tests := []struct {
		name string
		refs [][]string
		want [][][]string
	}{
		{
			name: "single reference",
			refs: [][]string{{"the cat sat"}},
			want: [][][]string{{{"the", "cat", "sat"}}},
		},
		{
			name: "several references",
			refs: [][]string{{"a b", "a c"}},
			want: [][][]string{{{"a", "b"}, {"a", "c"}}},
		},
		{
			name: "mixed positions",
			refs: [][]string{{"hello world"}, {"good morning", "good day"}},
			want: [][][]string{{{"hello", "world"}}, {{"good", "morning"}, {"good", "day"}}},
		},
		{
			name: "whitespace only",
			refs: [][]string{{"  Hi,\tthere!\n"}},
			want: [][][]string{{{"Hi,", "there!"}}},
		},
		{
			name: "empty reference",
			refs: [][]string{{""}},
			want: [][][]string{{{}}},
		},
		{
			name: "empty input",
			refs: nil,
			want: [][][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatReferences(tt.refs))
		})
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"What", "the", "hell?!"}, Tokenize(" What the  hell?! "))
	assert.Equal(t, []string{}, Tokenize("   "))
}
