package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKeyword(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Music", "music"},
		{"trims whitespace", "  jazz \t", "jazz"},
		{"keeps inner spaces", "lo fi beats", "lo fi beats"},
		{"blank becomes empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeKeyword(tt.input))
		})
	}
}

func TestNormalizeKeywords(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"dedupes preserving order", []string{"music", "Music", " MUSIC "}, []string{"music"}},
		{"drops blanks", []string{" ", "news", ""}, []string{"news"}},
		{"keeps first-seen order", []string{"b", "a", "b"}, []string{"b", "a"}},
		{"all blank yields empty", []string{"", "  "}, []string{}},
		{"nil yields empty", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeKeywords(tt.input))
		})
	}
}
