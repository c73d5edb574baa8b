package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStylePropertyName(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"camel case", "primaryColor", "--ai-primary-color"},
		{"multiple humps", "progressBarBackground", "--ai-progress-bar-background"},
		{"already lower", "accent", "--ai-accent"},
		{"with digits", "shade2", "--ai-shade2"},
		{"kebab passthrough", "border-radius", "--ai-border-radius"},
		{"underscores", "font_size", "--ai-font-size"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"invalid characters", "color!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StylePropertyName(tt.key))
		})
	}
}

func TestTheme_ApplySkipsInvalidEntries(t *testing.T) {
	s := NewMemorySurface()
	Theme{
		"primaryColor": "#7D56F4",
		"bad key!":     "#111111",
		"emptyValue":   "   ",
	}.apply(s)

	v, ok := s.StyleProperty("--ai-primary-color")
	assert.True(t, ok)
	assert.Equal(t, "#7D56F4", v)

	_, ok = s.StyleProperty("--ai-empty-value")
	assert.False(t, ok)
}

func TestTheme_ApplyNilSurface(t *testing.T) {
	assert.NotPanics(t, func() {
		Theme{"primaryColor": "#fff"}.apply(nil)
	})
}
