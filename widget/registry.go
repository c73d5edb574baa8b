package widget

import (
	"encoding/json"
	"fmt"
	"maps"
	"sync"

	"github.com/c360/widgetkit/errors"
)

// Info holds metadata about an available widget type
type Info struct {
	Category    string `json:"category"`    // "tracker", "counter", "indicator", "panel"
	Description string `json:"description"` // Human-readable description
	Version     string `json:"version"`     // Widget version
}

// Factory creates a widget instance from configuration. The factory
// receives raw JSON configuration and dependencies, parses its own config,
// and returns an initialized widget. Factories never touch a surface;
// mounting happens separately so hosts control when rendering starts.
type Factory func(rawConfig json.RawMessage, deps Dependencies) (Widget, error)

// Registration holds factory and metadata for a widget type
type Registration struct {
	Name        string       `json:"name"`        // Factory name (e.g., "retry-tracker")
	Category    string       `json:"category"`    // Widget category (tracker/counter/indicator/panel)
	Description string       `json:"description"` // Human-readable description
	Version     string       `json:"version"`     // Widget version
	Schema      ConfigSchema `json:"schema"`      // Schema as static metadata
	Factory     Factory      `json:"-"`           // Factory function (not serializable)
}

// RegistrationConfig provides a clean API for widget registration.
// It maps 1:1 to Registration struct fields.
type RegistrationConfig struct {
	Name        string       // Widget name (e.g., "retry-tracker", "token-counter")
	Factory     Factory      // Factory function to create widget instances
	Schema      ConfigSchema // Configuration schema for validation and discovery
	Category    string       // Widget category: "tracker", "counter", "indicator", "panel"
	Description string       // Human-readable description of the widget
	Version     string       // Widget version (semver recommended)
}

// InstanceConfig selects a factory and supplies widget-specific
// configuration when creating an instance.
type InstanceConfig struct {
	Name   string          `json:"name"`   // Factory name
	Config json.RawMessage `json:"config"` // Widget-specific configuration
}

// Registry manages widget factories and instances. Registration is an
// explicit, caller-invoked step: nothing registers itself at import time,
// so hosts decide exactly which widgets exist in their process.
type Registry struct {
	factories map[string]*Registration // Factory registry by name
	instances map[string]Widget        // Instance registry by name
	mu        sync.RWMutex             // Protects both maps
}

// NewRegistry creates a new empty widget registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]*Registration),
		instances: make(map[string]Widget),
	}
}

// RegisterFactory registers a widget factory with the given name.
// Returns an error if a factory with the same name is already registered.
func (r *Registry) RegisterFactory(name string, registration *Registration) error {
	if name == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Registry", "RegisterFactory", "factory name validation")
	}
	if registration == nil || registration.Factory == nil {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Registry", "RegisterFactory", "factory function validation")
	}
	if registration.Category == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Registry", "RegisterFactory", "widget category validation")
	}
	if err := ValidateWidgetName(name); err != nil {
		return errors.Wrap(err, "Registry", "RegisterFactory", "factory name validation")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		msg := fmt.Errorf("%w: %q", errors.ErrDuplicateFactory, name)
		return errors.WrapInvalid(msg, "Registry", "RegisterFactory", "duplicate factory check")
	}

	r.factories[name] = registration
	return nil
}

// RegisterWithConfig registers a widget using a configuration struct.
//
// Example usage:
//
//	registry.RegisterWithConfig(widget.RegistrationConfig{
//	    Name:        "retry-tracker",
//	    Factory:     retry.Create,
//	    Schema:      retry.Schema(),
//	    Category:    "tracker",
//	    Description: "Retry/backoff progress tracker",
//	    Version:     "1.0.0",
//	})
func (r *Registry) RegisterWithConfig(config RegistrationConfig) error {
	registration := &Registration{
		Name:        config.Name,
		Factory:     config.Factory,
		Schema:      config.Schema,
		Category:    config.Category,
		Description: config.Description,
		Version:     config.Version,
	}

	return r.RegisterFactory(config.Name, registration)
}

// CreateWidget creates and registers a new widget instance. The
// instanceName is the unique identifier for this instance (e.g.,
// "retry-upload-main"); config selects the factory and carries the
// widget-specific configuration.
func (r *Registry) CreateWidget(instanceName string, config InstanceConfig, deps Dependencies) (Widget, error) {
	if err := ValidateWidgetName(instanceName); err != nil {
		return nil, errors.Wrap(err, "Registry", "CreateWidget", "instance name validation")
	}
	if err := ValidateWidgetName(config.Name); err != nil {
		return nil, errors.Wrap(err, "Registry", "CreateWidget", "factory name validation")
	}

	r.mu.RLock()
	registration, exists := r.factories[config.Name]
	r.mu.RUnlock()

	if !exists {
		msg := fmt.Errorf("%w: %q", errors.ErrUnknownFactory, config.Name)
		return nil, errors.WrapInvalid(msg, "Registry", "CreateWidget", "factory lookup")
	}

	w, err := registration.Factory(config.Config, deps)
	if err != nil {
		return nil, errors.Wrap(err, "Registry", "CreateWidget", "factory execution")
	}

	if err := r.RegisterWidget(instanceName, w); err != nil {
		return nil, errors.Wrap(err, "Registry", "CreateWidget", "instance registration")
	}

	return w, nil
}

// RegisterWidget registers a widget instance with the given name so it can
// be discovered and managed. Returns an error if an instance with the same
// name is already registered.
func (r *Registry) RegisterWidget(name string, w Widget) error {
	if name == "" || w == nil {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Registry", "RegisterWidget", "instance validation")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.instances[name]; exists {
		msg := fmt.Errorf("%w: %q", errors.ErrDuplicateWidget, name)
		return errors.WrapInvalid(msg, "Registry", "RegisterWidget", "duplicate instance check")
	}

	r.instances[name] = w
	return nil
}

// UnregisterWidget removes a widget instance from the registry.
// Typically called when a widget is unmounted and discarded.
func (r *Registry) UnregisterWidget(name string) {
	if name == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.instances, name)
}

// WidgetInstance retrieves a specific widget instance by name.
// Returns nil if the instance is not found.
func (r *Registry) WidgetInstance(name string) Widget {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.instances[name]
}

// ListWidgets returns all registered widget instances
func (r *Registry) ListWidgets() map[string]Widget {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Return a copy to prevent external modification
	result := make(map[string]Widget, len(r.instances))
	maps.Copy(result, r.instances)
	return result
}

// ListFactories returns all registered widget factories without their
// factory functions.
func (r *Registry) ListFactories() map[string]*Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*Registration, len(r.factories))
	for name, registration := range r.factories {
		result[name] = &Registration{
			Name:        registration.Name,
			Category:    registration.Category,
			Description: registration.Description,
			Version:     registration.Version,
			Schema:      registration.Schema,
		}
	}
	return result
}

// GetFactory returns a specific factory function by name
func (r *Registry) GetFactory(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	registration, exists := r.factories[name]
	if !exists {
		return nil, false
	}
	return registration.Factory, true
}

// GetWidgetSchema retrieves a widget's schema from Registration metadata
// without instantiating the widget.
func (r *Registry) GetWidgetSchema(name string) (ConfigSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	registration, exists := r.factories[name]
	if !exists {
		msg := fmt.Errorf("%w: %q", errors.ErrUnknownFactory, name)
		return ConfigSchema{}, errors.WrapInvalid(msg, "Registry", "GetWidgetSchema", "type lookup")
	}

	return registration.Schema, nil
}

// ListAvailable returns information about all available widget types
func (r *Registry) ListAvailable() map[string]Info {
	factories := r.ListFactories()
	result := make(map[string]Info, len(factories))

	for name, registration := range factories {
		result[name] = Info{
			Category:    registration.Category,
			Description: registration.Description,
			Version:     registration.Version,
		}
	}
	return result
}

// MaxNameLength bounds widget and factory names
const MaxNameLength = 256

// ValidateWidgetName validates widget/instance names: non-empty, bounded,
// alphanumeric plus dash, underscore and dot.
func ValidateWidgetName(name string) error {
	if name == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Registry", "ValidateWidgetName", "empty name")
	}
	if len(name) > MaxNameLength {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Registry", "ValidateWidgetName", "name too long")
	}
	for _, r := range name {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.') {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "Registry", "ValidateWidgetName", "invalid name characters")
		}
	}
	return nil
}
