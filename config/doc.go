// Package config provides configuration management for widget hosts.
//
// This package handles loading and validation of widget instance
// declarations from JSON files: which widgets a host runs, how each is
// configured, and the theme applied to all of them.
//
// # Core Components
//
// Config: Main configuration structure containing a theme and the set of
// widget instance declarations.
//
// SafeConfig: Thread-safe wrapper using RWMutex and deep cloning to prevent
// concurrent access issues and accidental mutations.
//
// Loader: Loads configuration with layer merging (base + overrides) for
// flexible deployment scenarios.
//
// # Basic Usage
//
// Loading configuration from files with layer merging:
//
//	loader := config.NewLoader()
//	loader.AddLayer("widgets/base.json")
//	loader.AddLayer("widgets/local.json") // Overrides base
//	loader.EnableValidation(true)
//
//	cfg, err := loader.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Creating the declared widgets through a registry:
//
//	reg := widget.NewRegistry()
//	if err := widgetregistry.Register(reg); err != nil {
//		log.Fatal(err)
//	}
//
//	widgets, err := cfg.Instantiate(reg, deps)
//
// # Layer Merging
//
// Configuration layers are merged with last-wins semantics:
//
//	base.json:
//	  {"widgets": {"upload": {"type": "retry-tracker", "enabled": true}}}
//
//	local.json:
//	  {"widgets": {"upload": {"enabled": false}}}
//
//	Result:
//	  {"widgets": {"upload": {"type": "retry-tracker", "enabled": false}}}
//
// # Security
//
// The package includes security validation:
//   - File size limits (1MB max) to prevent memory exhaustion
//   - JSON depth validation (100 levels max) to prevent DoS attacks
//   - Path validation to prevent directory traversal
//   - Regular file checks (no symlinks or device files)
package config
