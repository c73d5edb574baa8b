package widgetregistry

import (
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/widgetkit/widget"
)

func TestRegisterAllBuiltins(t *testing.T) {
	registry := widget.NewRegistry()
	require.NoError(t, Register(registry))

	available := registry.ListAvailable()
	for _, name := range []string{
		"retry-tracker",
		"batch-tracker",
		"loadstage-tracker",
		"token-counter",
		"queue-indicator",
		"parameter-panel",
	} {
		assert.Contains(t, available, name)
	}

	assert.Equal(t, "tracker", available["retry-tracker"].Category)
	assert.Equal(t, "counter", available["token-counter"].Category)
	assert.Equal(t, "indicator", available["queue-indicator"].Category)
	assert.Equal(t, "panel", available["parameter-panel"].Category)
}

func TestRegisterNilRegistry(t *testing.T) {
	assert.Error(t, Register(nil))
}

func TestRegisterTwiceFails(t *testing.T) {
	registry := widget.NewRegistry()
	require.NoError(t, Register(registry))
	assert.Error(t, Register(registry), "duplicate factory names rejected")
}

func TestCreateThroughRegistry(t *testing.T) {
	registry := widget.NewRegistry()
	require.NoError(t, Register(registry))

	deps := widget.Dependencies{Clock: clockwork.NewFakeClock()}
	w, err := registry.CreateWidget("upload-retry", widget.InstanceConfig{
		Name:   "retry-tracker",
		Config: []byte(`{"maxAttempts": 5, "strategy": "linear"}`),
	}, deps)
	require.NoError(t, err)
	require.NotNil(t, w)

	assert.Equal(t, "retry-tracker", w.Meta().Name)
	assert.Same(t, w, registry.WidgetInstance("upload-retry"))

	schema, err := registry.GetWidgetSchema("retry-tracker")
	require.NoError(t, err)
	assert.Contains(t, schema.Properties, "strategy")
}
