package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", []string{}},
		{"only separators", " , ,, ", []string{}},
		{"duplicates and spacing", "sci-fi, sci-fi ,  Fantasy", []string{"Fantasy", "sci-fi"}},
		{"inner whitespace", "science   fiction,\tspace\t opera ", []string{"science fiction", "space opera"}},
		{"sorted", "b,a,c", []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTags(tt.raw))
		})
	}
}

func TestNormalizeTags_Idempotent(t *testing.T) {
	inputs := []string{"", "a", "sci-fi, sci-fi ,  Fantasy", "  x  y , z,, x  y"}
	for _, raw := range inputs {
		once := NormalizeTags(raw)
		assert.Equal(t, once, NormalizeTagList(once), "input %q", raw)
	}
}

func TestNormalizeTagList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, NormalizeTagList([]string{" c ", "a,b", "a"}))
	assert.Equal(t, []string{}, NormalizeTagList(nil))
}
