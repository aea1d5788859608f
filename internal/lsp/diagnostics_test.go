package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestLineIndexCharacter(t *testing.T) {
	lines := newLineIndex("é😀x\nab")

	assert.Equal(t, uint32(0), lines.character(1, 1))
	assert.Equal(t, uint32(1), lines.character(1, 2))
	assert.Equal(t, uint32(3), lines.character(1, 3))
	assert.Equal(t, uint32(4), lines.character(1, 99), "clamped to the line")
	assert.Equal(t, uint32(1), lines.character(2, 2))
	assert.Equal(t, uint32(0), lines.character(3, 1))
}

func TestApplyChange(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		rng      protocol.Range
		newText  string
		expected string
	}{
		{
			name:     "insert",
			text:     "ab\ncd",
			rng:      protocol.Range{Start: protocol.Position{Line: 1, Character: 1}, End: protocol.Position{Line: 1, Character: 1}},
			newText:  "[",
			expected: "ab\nc[d",
		},
		{
			name:     "across lines",
			text:     "ab\ncd",
			rng:      protocol.Range{Start: protocol.Position{Line: 0, Character: 1}, End: protocol.Position{Line: 1, Character: 1}},
			newText:  "",
			expected: "ad",
		},
		{
			name:     "after surrogate pair",
			text:     "😀b",
			rng:      protocol.Range{Start: protocol.Position{Line: 0, Character: 2}, End: protocol.Position{Line: 0, Character: 3}},
			newText:  "c",
			expected: "😀c",
		},
		{
			name:     "past the end",
			text:     "ab",
			rng:      protocol.Range{Start: protocol.Position{Line: 5, Character: 0}, End: protocol.Position{Line: 5, Character: 0}},
			newText:  "!",
			expected: "ab!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, applyChange(tt.text, tt.rng, tt.newText))
		})
	}
}
