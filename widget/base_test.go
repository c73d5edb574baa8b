package widget

import (
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/widgetkit/metric"
)

// stubWidget exercises the Base plumbing the way concrete widgets use it
type stubWidget struct {
	*Base
	renders int
	cleaned bool
	attrs   []string
}

func newStubWidget(cfg Config, deps Dependencies) *stubWidget {
	w := &stubWidget{}
	w.Base = NewBase(w, "stub", cfg, deps)
	return w
}

func (w *stubWidget) Meta() Metadata {
	return Metadata{Name: "stub", Category: "tracker", Description: "test stub", Version: "1.0.0"}
}

func (w *stubWidget) ConfigSchema() ConfigSchema { return ConfigSchema{} }

func (w *stubWidget) Render() {
	w.renders++
	w.WriteMarkup("<stub/>")
	w.BindAction("poke", func() {})
}

func (w *stubWidget) DefaultRole() string { return "status" }

func (w *stubWidget) Cleanup() { w.cleaned = true }

func (w *stubWidget) HandleAttributeChange(name, _, newValue string) {
	w.attrs = append(w.attrs, name+"="+newValue)
}

func TestBase_MountAppliesThemeAndAccessibility(t *testing.T) {
	w := newStubWidget(Config{AriaLabel: "upload progress"}, Dependencies{})
	w.SetTheme(Theme{
		"primaryColor": "#7D56F4",
		"bad key!":     "#000000", // no valid property name, skipped
	})

	s := NewMemorySurface()
	w.Mount(s)

	color, ok := s.StyleProperty("--ai-primary-color")
	require.True(t, ok)
	assert.Equal(t, "#7D56F4", color)

	_, ok = s.StyleProperty("--ai-bad-key")
	assert.False(t, ok, "malformed theme entries are silently skipped")

	role, _ := s.Attribute("role")
	assert.Equal(t, "status", role)

	label, _ := s.Attribute("aria-label")
	assert.Equal(t, "upload progress", label)

	assert.Equal(t, 1, w.renders, "mount invokes the widget's render")
	assert.Equal(t, "<stub/>", s.Markup())
}

func TestBase_MountNilSurfaceNoOps(t *testing.T) {
	w := newStubWidget(Config{}, Dependencies{})

	assert.NotPanics(t, func() { w.Mount(nil) })
	assert.False(t, w.Mounted())
	assert.Equal(t, 0, w.renders)
}

func TestBase_SetRoleOverridesDefault(t *testing.T) {
	w := newStubWidget(Config{}, Dependencies{})
	w.SetRole("progressbar")

	s := NewMemorySurface()
	w.Mount(s)

	role, _ := s.Attribute("role")
	assert.Equal(t, "progressbar", role)
}

func TestBase_SetDisabledSyncsAttributesAndRerenders(t *testing.T) {
	w := newStubWidget(Config{}, Dependencies{})
	s := NewMemorySurface()
	w.Mount(s)

	w.SetDisabled(true)

	v, ok := s.Attribute("aria-disabled")
	require.True(t, ok)
	assert.Equal(t, "true", v)
	_, ok = s.Attribute("disabled")
	assert.True(t, ok)
	assert.Equal(t, 2, w.renders)

	w.SetDisabled(false)

	_, ok = s.Attribute("aria-disabled")
	assert.False(t, ok)
	_, ok = s.Attribute("disabled")
	assert.False(t, ok)
	assert.Equal(t, 3, w.renders)
}

func TestBase_MountedDisabledConfigReflected(t *testing.T) {
	w := newStubWidget(Config{Disabled: true}, Dependencies{})
	s := NewMemorySurface()
	w.Mount(s)

	v, ok := s.Attribute("aria-disabled")
	require.True(t, ok)
	assert.Equal(t, "true", v)
	assert.True(t, w.Disabled())
}

func TestBase_WriteMarkupWithoutSurfaceNoOps(t *testing.T) {
	w := newStubWidget(Config{}, Dependencies{})

	assert.NotPanics(t, func() { w.Render() })
	assert.Equal(t, 1, w.renders)
}

func TestBase_EmitDeliversSynchronouslyInOrder(t *testing.T) {
	w := newStubWidget(Config{}, Dependencies{})

	var got []string
	w.On("ping", func(ev Event) {
		got = append(got, "first:"+ev.Name)
	})
	w.On("ping", func(ev Event) {
		got = append(got, "second:"+ev.Name)
	})
	w.OnAny(func(ev Event) {
		got = append(got, "any:"+ev.Name)
	})

	w.Emit("ping", map[string]any{"n": 1})
	w.Emit("pong", nil)

	assert.Equal(t, []string{"first:ping", "second:ping", "any:ping", "any:pong"}, got)
}

func TestBase_EmitCarriesDetailAndWidgetID(t *testing.T) {
	w := newStubWidget(Config{}, Dependencies{})

	var captured Event
	w.On("ping", func(ev Event) { captured = ev })
	w.Emit("ping", map[string]any{"attempt": 3})

	assert.Equal(t, "ping", captured.Name)
	assert.Equal(t, w.ID(), captured.Widget)
	assert.Equal(t, 3, captured.Detail["attempt"])
	assert.False(t, captured.Timestamp.IsZero())
}

func TestBase_Unsubscribe(t *testing.T) {
	w := newStubWidget(Config{}, Dependencies{})

	calls := 0
	unsub := w.On("ping", func(Event) { calls++ })

	w.Emit("ping", nil)
	unsub()
	w.Emit("ping", nil)

	assert.Equal(t, 1, calls)
}

func TestBase_UnmountRunsCleanup(t *testing.T) {
	w := newStubWidget(Config{}, Dependencies{})
	w.Mount(NewMemorySurface())

	w.Unmount()

	assert.True(t, w.cleaned)
	assert.False(t, w.Mounted())
	assert.Nil(t, w.Surface())
}

func TestBase_ApplyAttribute(t *testing.T) {
	w := newStubWidget(Config{}, Dependencies{})
	s := NewMemorySurface()
	w.Mount(s)

	// "disabled" is handled by the runtime itself
	w.ApplyAttribute("disabled", "", "true")
	assert.True(t, w.Disabled())

	// everything else is forwarded to the widget's handler
	w.ApplyAttribute("max-attempts", "3", "5")
	assert.Equal(t, []string{"max-attempts=5"}, w.attrs)
}

func TestBase_HealthTracksErrors(t *testing.T) {
	clock := clockwork.NewFakeClock()
	w := newStubWidget(Config{}, Dependencies{Clock: clock})

	h := w.Health()
	assert.True(t, h.Healthy)
	assert.Zero(t, h.ErrorCount)

	w.RecordError(assert.AnError)
	h = w.Health()
	assert.False(t, h.Healthy)
	assert.Equal(t, 1, h.ErrorCount)
	assert.Equal(t, assert.AnError.Error(), h.LastError)
}

func TestBase_MetricsInstrumentation(t *testing.T) {
	reg := metric.NewMetricsRegistry()
	w := newStubWidget(Config{}, Dependencies{Metrics: reg})

	s := NewMemorySurface()
	w.Mount(s)
	w.Emit("ping", nil)

	// Render and emit were counted; exact values matter less than wiring
	assert.Equal(t, 1, s.RenderCount())
	assert.True(t, s.TriggerAction("poke"))
}

func TestMemorySurface_TriggerUnknownAction(t *testing.T) {
	s := NewMemorySurface()
	assert.False(t, s.TriggerAction("missing"))
}
