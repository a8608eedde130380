package vimcmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name      string
		userInput string
		expected  string
		want      bool
	}{
		{"exact match", "dd", "dd", true},
		{"surrounding whitespace ignored", "  dd  ", "dd", true},
		{"long form substitute", ":substitute/old/new/", ":s/old/new/", true},
		{"long form global", ":global/TODO/d", ":g/TODO/d", true},
		{"long form write", ":write", ":w", true},
		{"long form quit", ":quit", ":q", true},
		{"both sides long form", ":substitute/a/b/", ":substitute/a/b/", true},
		{"combined write quit", ":write | :quit", ":w | :q", true},
		{"different command", "dd", "yy", false},
		{"partial command", ":w", ":wq", false},
		{"case matters", "DD", "dd", false},
		{"empty input", "", "dd", false},
		{"empty both sides", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.userInput, tt.expected))
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{":substitute/old/new/g", ":s/old/new/g"},
		{":global/x/delete", ":g/x/delete"},
		{":write", ":w"},
		{"  :quit  ", ":q"},
		{"dd", "dd"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "input=%q", tt.in)
	}
}
