package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/c360/widgetkit/widget"
)

// WidgetConfigs holds widget instance declarations.
// The map key is the instance name (e.g., "retry-upload-main").
// Widgets are only created if both:
// 1. Their factory has been registered with the registry
// 2. They have an entry in this config map with enabled=true
type WidgetConfigs map[string]WidgetConfig

// WidgetConfig declares a single widget instance
type WidgetConfig struct {
	Type    string          `json:"type"`             // Factory name (e.g., "retry-tracker")
	Enabled bool            `json:"enabled"`          // Disabled instances are declared but never created
	Role    string          `json:"role,omitempty"`   // Accessibility role override
	Config  json.RawMessage `json:"config,omitempty"` // Widget-specific configuration
}

// Config represents a complete widget host configuration: a theme plus the
// set of widget instances to create.
type Config struct {
	Version string        `json:"version"` // Semantic version (e.g., "1.0.0")
	Theme   widget.Theme  `json:"theme,omitempty"`
	Widgets WidgetConfigs `json:"widgets"`
}

// SafeConfig provides thread-safe access to configuration
type SafeConfig struct {
	mu     sync.RWMutex
	config *Config
}

// NewSafeConfig creates a new thread-safe config wrapper
func NewSafeConfig(cfg *Config) *SafeConfig {
	if cfg == nil {
		cfg = &Config{}
	}
	return &SafeConfig{
		config: cfg,
	}
}

// Get returns a deep copy of the current configuration
func (sc *SafeConfig) Get() *Config {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.config.Clone()
}

// Update atomically updates the configuration after validation
func (sc *SafeConfig) Update(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.config = cfg
	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	if c == nil {
		return &Config{}
	}

	// JSON round trip for deep copy
	data, err := json.Marshal(c)
	if err != nil {
		copied := *c
		return &copied
	}

	var clone Config
	if err := json.Unmarshal(data, &clone); err != nil {
		copied := *c
		return &copied
	}

	return &clone
}

// Validate checks if the config is valid
func (c *Config) Validate() error {
	for key := range c.Theme {
		if widget.StylePropertyName(key) == "" {
			return fmt.Errorf("theme key %q has no style property mapping", key)
		}
	}

	for instanceName, wc := range c.Widgets {
		if instanceName == "" {
			return errors.New("widget instance name cannot be empty")
		}
		if err := widget.ValidateWidgetName(instanceName); err != nil {
			return fmt.Errorf("widget %s: %w", instanceName, err)
		}
		if wc.Type == "" {
			return fmt.Errorf("widget %s: type is required", instanceName)
		}
		if err := widget.ValidateWidgetName(wc.Type); err != nil {
			return fmt.Errorf("widget %s: %w", instanceName, err)
		}
		if len(wc.Config) > 0 && !json.Valid(wc.Config) {
			return fmt.Errorf("widget %s: config is not valid JSON", instanceName)
		}
	}

	return nil
}

// Instantiate creates every enabled widget declared in the config through
// the registry, applying the theme and role to each. Creation stops at the
// first failure; already-created instances stay registered so the caller
// can inspect or tear them down.
func (c *Config) Instantiate(reg *widget.Registry, deps widget.Dependencies) (map[string]widget.Widget, error) {
	if reg == nil {
		return nil, errors.New("registry cannot be nil")
	}

	created := make(map[string]widget.Widget)
	for name, wc := range c.Widgets {
		if !wc.Enabled {
			continue
		}

		w, err := reg.CreateWidget(name, widget.InstanceConfig{
			Name:   wc.Type,
			Config: wc.Config,
		}, deps)
		if err != nil {
			return created, fmt.Errorf("widget %s: %w", name, err)
		}

		if themed, ok := w.(interface{ SetTheme(widget.Theme) }); ok && len(c.Theme) > 0 {
			themed.SetTheme(c.Theme)
		}
		if roled, ok := w.(interface{ SetRole(string) }); ok && wc.Role != "" {
			roled.SetRole(wc.Role)
		}

		created[name] = w
	}

	return created, nil
}

// Loader handles configuration loading with layers
type Loader struct {
	layers     []string
	validation bool
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		layers: []string{},
	}
}

// AddLayer adds a configuration file layer. Later layers override earlier
// ones field by field.
func (l *Loader) AddLayer(path string) {
	l.layers = append(l.layers, path)
}

// EnableValidation enables or disables configuration validation
func (l *Loader) EnableValidation(enable bool) {
	l.validation = enable
}

// LoadFile loads configuration from a single file
func (l *Loader) LoadFile(path string) (*Config, error) {
	l.layers = []string{path}
	return l.Load()
}

// Load loads and merges all configuration layers
func (l *Loader) Load() (*Config, error) {
	cfg := l.getDefaults()

	for _, path := range l.layers {
		rawConfig, err := l.loadRawJSON(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		cfg = l.mergeFromMap(cfg, rawConfig)
	}

	if l.validation {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// getDefaults returns default configuration
func (l *Loader) getDefaults() *Config {
	return &Config{
		Version: "1.0.0",
		Theme: widget.Theme{
			"primaryColor": "#7D56F4",
		},
		Widgets: WidgetConfigs{},
	}
}

// loadRawJSON loads configuration from a JSON file as a map
func (l *Loader) loadRawJSON(path string) (map[string]any, error) {
	data, err := safeReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := validateJSONDepth(data); err != nil {
		return nil, fmt.Errorf("invalid JSON structure: %w", err)
	}

	var rawConfig map[string]any
	if err := json.Unmarshal(data, &rawConfig); err != nil {
		return nil, err
	}

	return rawConfig, nil
}

// mergeFromMap merges configuration from a raw map, only overriding fields
// present in the map
func (l *Loader) mergeFromMap(base *Config, override map[string]any) *Config {
	if override == nil {
		return base
	}

	baseJSON, err := json.Marshal(base)
	if err != nil {
		return base
	}

	var baseMap map[string]any
	if err := json.Unmarshal(baseJSON, &baseMap); err != nil {
		return base
	}

	mergedMap := deepMergeMaps(baseMap, override)

	mergedJSON, err := json.Marshal(mergedMap)
	if err != nil {
		return base
	}

	var merged Config
	if err := json.Unmarshal(mergedJSON, &merged); err != nil {
		return base
	}

	return &merged
}

// deepMergeMaps recursively merges two maps, with override taking precedence
func deepMergeMaps(base, override map[string]any) map[string]any {
	result := make(map[string]any)

	for k, v := range base {
		result[k] = v
	}

	for k, v := range override {
		if v == nil {
			continue
		}

		if baseMap, baseOk := base[k].(map[string]any); baseOk {
			if overrideMap, overrideOk := v.(map[string]any); overrideOk {
				result[k] = deepMergeMaps(baseMap, overrideMap)
				continue
			}
		}

		result[k] = v
	}

	return result
}
