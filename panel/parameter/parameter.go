// Package parameter implements a parameter-panel widget: a declared set of
// named numeric parameters with range and step constraints, optional
// persistence through a Store, and increment/decrement surface actions.
package parameter

import (
	"encoding/json"
	"fmt"
	"html"
	"math"
	"strings"
	"sync"

	"github.com/c360/widgetkit/errors"
	"github.com/c360/widgetkit/widget"
)

// WidgetName is the registration name for the parameter panel
const WidgetName = "parameter-panel"

// Event names emitted by the panel
const (
	EventChange = "paramchange"
	EventReset  = "paramreset"
)

// Parameter declares one adjustable value
type Parameter struct {
	Name    string  `json:"name"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Step    float64 `json:"step"`
	Default float64 `json:"default"`
}

// valid reports whether the declaration is usable: a name, a non-inverted
// range and a default inside it
func (p Parameter) valid() bool {
	return p.Name != "" && p.Max > p.Min &&
		p.Default >= p.Min && p.Default <= p.Max
}

// Store persists parameter values across sessions. Implementations must
// tolerate missing prior state by returning an empty map.
type Store interface {
	Load() (map[string]float64, error)
	Save(values map[string]float64) error
}

// Config holds the parameter panel settings
type Config struct {
	widget.Config

	// Parameters declares the adjustable set; invalid entries are dropped
	Parameters []Parameter
	// Store persists values across sessions; nil disables persistence
	Store Store
}

// Panel exposes a declared set of clamped, stepped numeric parameters
type Panel struct {
	*widget.Base

	mu     sync.Mutex
	params []Parameter
	values map[string]float64
	store  Store
}

// New creates a parameter panel
func New(cfg Config, deps widget.Dependencies) *Panel {
	p := &Panel{
		values: make(map[string]float64),
		store:  cfg.Store,
	}
	for _, param := range cfg.Parameters {
		if !param.valid() {
			continue
		}
		if _, dup := p.values[param.Name]; dup {
			continue
		}
		p.params = append(p.params, param)
		p.values[param.Name] = param.Default
	}
	p.Base = widget.NewBase(p, WidgetName, cfg.Config, deps)
	return p
}

// Create is the registry factory for the parameter panel. Persistence is a
// runtime collaborator, so factory-created panels have no Store; hosts
// needing one construct the panel with New.
func Create(raw json.RawMessage, deps widget.Dependencies) (widget.Widget, error) {
	var cfg Config
	if len(raw) > 0 {
		var fc struct {
			Parameters []Parameter `json:"parameters,omitempty"`
			Debug      *bool       `json:"debug,omitempty"`
			Disabled   *bool       `json:"disabled,omitempty"`
			AriaLabel  *string     `json:"ariaLabel,omitempty"`
		}
		if err := json.Unmarshal(raw, &fc); err != nil {
			return nil, errors.WrapInvalid(err, "parameter", "Create", "unmarshal config")
		}
		cfg.Parameters = fc.Parameters
		if fc.Debug != nil {
			cfg.Debug = *fc.Debug
		}
		if fc.Disabled != nil {
			cfg.Disabled = *fc.Disabled
		}
		if fc.AriaLabel != nil {
			cfg.AriaLabel = *fc.AriaLabel
		}
	}
	return New(cfg, deps), nil
}

// Register adds the parameter panel factory to the registry
func Register(r *widget.Registry) error {
	return r.RegisterWithConfig(widget.RegistrationConfig{
		Name:        WidgetName,
		Factory:     Create,
		Schema:      Schema(),
		Category:    "panel",
		Description: "Adjustable numeric parameters with range/step constraints and persistence",
		Version:     "1.0.0",
	})
}

// Meta returns basic widget information
func (p *Panel) Meta() widget.Metadata {
	return widget.Metadata{
		Name:        WidgetName,
		Category:    "panel",
		Description: "Adjustable numeric parameters with range/step constraints and persistence",
		Version:     "1.0.0",
	}
}

// ConfigSchema returns the configuration schema for this widget
func (p *Panel) ConfigSchema() widget.ConfigSchema { return Schema() }

// Schema describes the accepted configuration for registry discovery
func Schema() widget.ConfigSchema {
	return widget.ConfigSchema{
		Properties: map[string]widget.PropertySchema{
			"parameters": {
				Type:        "string",
				Description: "Parameter declarations (JSON array of {name, min, max, step, default})",
			},
		},
		Required: []string{"parameters"},
	}
}

// DefaultRole declares the accessibility role applied at mount
func (p *Panel) DefaultRole() string { return "group" }

// Mount loads persisted values before attaching to the surface. A failing
// store keeps the declared defaults and is recorded against widget health.
func (p *Panel) Mount(s widget.Surface) {
	if p.store != nil {
		saved, err := p.store.Load()
		if err != nil {
			p.RecordError(errors.Wrap(err, "parameter", "Mount", "load store"))
		} else {
			p.mu.Lock()
			for name, v := range saved {
				if param, ok := p.paramLocked(name); ok {
					p.values[name] = p.snap(param, v)
				}
			}
			p.mu.Unlock()
		}
	}
	p.Base.Mount(s)
}

// Get returns the current value of the named parameter
func (p *Panel) Get(name string) (float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.values[name]
	return v, ok
}

// Parameters returns the declared parameter set
func (p *Panel) Parameters() []Parameter {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Parameter, len(p.params))
	copy(out, p.params)
	return out
}

// SetValue sets the named parameter, clamped to its range and snapped to
// its step grid. Unknown names are ignored. The saved set and the
// paramchange event carry the effective (snapped) value.
func (p *Panel) SetValue(name string, v float64) {
	p.mu.Lock()
	param, ok := p.paramLocked(name)
	if !ok {
		p.mu.Unlock()
		return
	}

	effective := p.snap(param, v)
	if p.values[name] == effective {
		p.mu.Unlock()
		return
	}
	p.values[name] = effective
	detail := map[string]any{
		"name":      name,
		"value":     effective,
		"timestamp": p.Clock().Now().UnixMilli(),
	}
	p.mu.Unlock()

	p.persist()
	p.Render()
	p.Emit(EventChange, detail)
}

// Adjust moves the named parameter by n steps
func (p *Panel) Adjust(name string, steps int) {
	p.mu.Lock()
	param, ok := p.paramLocked(name)
	if !ok {
		p.mu.Unlock()
		return
	}
	step := param.Step
	if step <= 0 {
		step = 1
	}
	target := p.values[name] + float64(steps)*step
	p.mu.Unlock()

	p.SetValue(name, target)
}

// ResetDefaults restores every parameter to its declared default
func (p *Panel) ResetDefaults() {
	p.mu.Lock()
	for _, param := range p.params {
		p.values[param.Name] = param.Default
	}
	detail := map[string]any{
		"timestamp": p.Clock().Now().UnixMilli(),
	}
	p.mu.Unlock()

	p.persist()
	p.Render()
	p.Emit(EventReset, detail)
}

// Values returns a copy of the current value set
func (p *Panel) Values() map[string]float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]float64, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

func (p *Panel) paramLocked(name string) (Parameter, bool) {
	for _, param := range p.params {
		if param.Name == name {
			return param, true
		}
	}
	return Parameter{}, false
}

// snap clamps v into the parameter's range and rounds it onto the step
// grid anchored at Min
func (p *Panel) snap(param Parameter, v float64) float64 {
	if v < param.Min {
		return param.Min
	}
	if v > param.Max {
		return param.Max
	}
	if param.Step <= 0 {
		return v
	}

	steps := math.Round((v - param.Min) / param.Step)
	snapped := param.Min + steps*param.Step
	if snapped > param.Max {
		snapped = param.Max
	}
	if snapped < param.Min {
		snapped = param.Min
	}
	// values already on the grid come back unchanged despite float error
	if math.Abs(snapped-v) < 1e-9 {
		return v
	}
	return snapped
}

// persist saves the current values through the store, best effort
func (p *Panel) persist() {
	if p.store == nil {
		return
	}
	if err := p.store.Save(p.Values()); err != nil {
		p.RecordError(errors.Wrap(err, "parameter", "persist", "save store"))
	}
}

// Render writes the panel's current state to its mount surface and binds
// the per-parameter adjust actions plus the reset action
func (p *Panel) Render() {
	p.mu.Lock()
	markup := p.markupLocked()
	names := make([]string, 0, len(p.params))
	for _, param := range p.params {
		names = append(names, param.Name)
	}
	p.mu.Unlock()

	p.WriteMarkup(markup)

	for _, name := range names {
		name := name
		p.BindAction("inc:"+name, func() {
			if p.Disabled() {
				return
			}
			p.Adjust(name, 1)
		})
		p.BindAction("dec:"+name, func() {
			if p.Disabled() {
				return
			}
			p.Adjust(name, -1)
		})
	}
	p.BindAction("reset", func() {
		if p.Disabled() {
			return
		}
		p.ResetDefaults()
	})
}

func (p *Panel) markupLocked() string {
	var b strings.Builder
	b.WriteString(`<div class="parameter-panel">`)

	for _, param := range p.params {
		fmt.Fprintf(&b,
			`<div class="parameter"><span class="param-name">%s</span>`+
				`<span class="param-value">%s</span>`+
				`<button data-action="dec:%s">-</button>`+
				`<button data-action="inc:%s">+</button></div>`,
			html.EscapeString(param.Name),
			formatValue(p.values[param.Name]),
			param.Name, param.Name)
	}

	b.WriteString(`<button class="reset-button" data-action="reset">Defaults</button>`)
	b.WriteString(`</div>`)
	return b.String()
}

// formatValue trims trailing zeros so 0.70 renders as "0.7" and 40 as "40"
func formatValue(v float64) string {
	s := fmt.Sprintf("%.4f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
