package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"no fence", `  {"a":1}  `, `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFences(tt.in))
		})
	}
}

func TestStripMarkdown(t *testing.T) {
	in := "## Day 1\n- **9:00 AM** - Visit the [Louvre](https://louvre.fr)\n* _Lunch_ at `Chez Janou`\n\n\n\n> note"
	want := "Day 1\n9:00 AM - Visit the Louvre\nLunch at Chez Janou\n\nnote"
	assert.Equal(t, want, StripMarkdown(in))
}

func TestExtractJSONObject(t *testing.T) {
	got, ok := ExtractJSONObject(`Sure! Here it is: {"itinerary": [{"title": "a } b"}]} Enjoy.`)
	assert.True(t, ok)
	assert.Equal(t, `{"itinerary": [{"title": "a } b"}]}`, got)

	_, ok = ExtractJSONObject("no braces here")
	assert.False(t, ok)

	_, ok = ExtractJSONObject(`{"unterminated": true`)
	assert.False(t, ok)
}
