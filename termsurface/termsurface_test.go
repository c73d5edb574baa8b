package termsurface

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/widgetkit/widget"
)

// compile-time check that Surface satisfies the widget contracts
var (
	_ widget.Surface       = (*Surface)(nil)
	_ widget.ActionTrigger = (*Surface)(nil)
)

func TestFlatten(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{
			name:   "spans joined with spaces",
			markup: `<div><span>Attempt 2 of 3</span><span>fixed backoff</span></div>`,
			want:   "Attempt 2 of 3 fixed backoff",
		},
		{
			name:   "block closings become lines",
			markup: `<div><div class="a">first</div><div class="b">second</div></div>`,
			want:   "first\nsecond",
		},
		{
			name:   "buttons become bracketed labels",
			markup: `<button class="retry-button" data-action="manual-retry">Retry Now</button>`,
			want:   "[Retry Now]",
		},
		{
			name:   "entities decoded",
			markup: `<span>&#10003;</span><span>a &lt;b&gt;</span>`,
			want:   "✓ a <b>",
		},
		{
			name:   "list items on their own lines",
			markup: `<ul><li>one</li><li>two</li></ul>`,
			want:   "one\ntwo",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Flatten(tc.markup))
		})
	}
}

func TestSetMarkupPaints(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf, "Retry")

	s.SetMarkup(`<div><span>Waiting to retry...</span></div>`)

	out := buf.String()
	assert.Contains(t, out, "Retry")
	assert.Contains(t, out, "Waiting to retry...")
	assert.Contains(t, out, "─", "box border drawn")
}

func TestFrameWithoutWriter(t *testing.T) {
	s := New(nil, "")
	s.SetMarkup(`<div>quiet</div>`)

	assert.Contains(t, s.Frame(), "quiet")
}

func TestAttributes(t *testing.T) {
	s := New(nil, "")

	s.SetAttribute("role", "status")
	v, ok := s.Attribute("role")
	require.True(t, ok)
	assert.Equal(t, "status", v)

	s.RemoveAttribute("role")
	_, ok = s.Attribute("role")
	assert.False(t, ok)
}

func TestStyleProperty(t *testing.T) {
	s := New(nil, "")

	s.SetStyleProperty("--ai-primary-color", "#7D56F4")
	v, ok := s.StyleProperty("--ai-primary-color")
	require.True(t, ok)
	assert.Equal(t, "#7D56F4", v)
}

func TestActions(t *testing.T) {
	s := New(nil, "")

	fired := 0
	s.BindAction("manual-retry", func() { fired++ })

	require.True(t, s.TriggerAction("manual-retry"))
	assert.Equal(t, 1, fired)

	s.BindAction("manual-retry", nil)
	assert.False(t, s.TriggerAction("manual-retry"))
	assert.False(t, s.TriggerAction("never-bound"))
}
