// Package batch implements a batch-item progress tracker widget. The host
// reports items starting, completing and failing; the tracker keeps a
// per-item status map and renders an overall progress bar.
package batch

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/c360/widgetkit/errors"
	"github.com/c360/widgetkit/widget"
)

// WidgetName is the registration name for the batch tracker
const WidgetName = "batch-tracker"

// Event names emitted by the tracker
const (
	EventItemStart    = "batchitemstart"
	EventItemComplete = "batchitemcomplete"
	EventItemFail     = "batchitemfail"
	EventComplete     = "batchcomplete"
)

// ItemStatus is the per-item progress state
type ItemStatus int

const (
	ItemPending ItemStatus = iota
	ItemRunning
	ItemDone
	ItemFailed
)

// String returns a string representation of the item status
func (s ItemStatus) String() string {
	switch s {
	case ItemPending:
		return "pending"
	case ItemRunning:
		return "running"
	case ItemDone:
		return "done"
	case ItemFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Item tracks one batch entry
type Item struct {
	Label  string
	Status ItemStatus
	Err    error
}

// Config holds the batch tracker settings
type Config struct {
	widget.Config

	// Total preconfigures the batch size; SetTotal may override it
	Total int
	// ShowItems renders the per-item list in addition to the summary bar
	ShowItems bool
}

// Tracker tracks per-item progress through a batch
type Tracker struct {
	*widget.Base

	mu     sync.Mutex
	config Config
	total  int
	items  map[int]*Item
	done   int
	failed int
}

// New creates a batch tracker
func New(cfg Config, deps widget.Dependencies) *Tracker {
	if cfg.Total < 0 {
		cfg.Total = 0
	}

	t := &Tracker{
		config: cfg,
		total:  cfg.Total,
		items:  make(map[int]*Item),
	}
	t.Base = widget.NewBase(t, WidgetName, cfg.Config, deps)
	return t
}

// Create is the registry factory for the batch tracker
func Create(raw json.RawMessage, deps widget.Dependencies) (widget.Widget, error) {
	cfg := Config{ShowItems: true}
	if len(raw) > 0 {
		var fc struct {
			Total     *int    `json:"total,omitempty"`
			ShowItems *bool   `json:"showItems,omitempty"`
			Debug     *bool   `json:"debug,omitempty"`
			Disabled  *bool   `json:"disabled,omitempty"`
			AriaLabel *string `json:"ariaLabel,omitempty"`
		}
		if err := json.Unmarshal(raw, &fc); err != nil {
			return nil, errors.WrapInvalid(err, "batch", "Create", "unmarshal config")
		}
		if fc.Total != nil && *fc.Total >= 0 {
			cfg.Total = *fc.Total
		}
		if fc.ShowItems != nil {
			cfg.ShowItems = *fc.ShowItems
		}
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

// Register adds the batch tracker factory to the registry
func Register(r *widget.Registry) error {
	return r.RegisterWithConfig(widget.RegistrationConfig{
		Name:        WidgetName,
		Factory:     Create,
		Schema:      Schema(),
		Category:    "tracker",
		Description: "Tracks per-item progress through a batch with an overall progress bar",
		Version:     "1.0.0",
	})
}

// Meta returns basic widget information
func (t *Tracker) Meta() widget.Metadata {
	return widget.Metadata{
		Name:        WidgetName,
		Category:    "tracker",
		Description: "Tracks per-item progress through a batch with an overall progress bar",
		Version:     "1.0.0",
	}
}

// ConfigSchema returns the configuration schema for this widget
func (t *Tracker) ConfigSchema() widget.ConfigSchema { return Schema() }

// Schema describes the accepted configuration for registry discovery
func Schema() widget.ConfigSchema {
	return widget.ConfigSchema{
		Properties: map[string]widget.PropertySchema{
			"total":     {Type: "integer", Description: "Batch size", Default: 0},
			"showItems": {Type: "boolean", Default: true},
		},
	}
}

// DefaultRole declares the accessibility role applied at mount
func (t *Tracker) DefaultRole() string { return "progressbar" }

// SetTotal sets the batch size. Negative totals are ignored.
func (t *Tracker) SetTotal(n int) {
	if n < 0 {
		return
	}

	t.mu.Lock()
	t.total = n
	t.mu.Unlock()

	t.Render()
}

// Total returns the configured batch size
func (t *Tracker) Total() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// StartItem marks item i as running. Out-of-range indexes are ignored.
func (t *Tracker) StartItem(i int, label string) {
	t.mu.Lock()
	if !t.validIndexLocked(i) {
		t.mu.Unlock()
		return
	}

	t.items[i] = &Item{Label: label, Status: ItemRunning}
	detail := map[string]any{
		"index":     i,
		"label":     label,
		"timestamp": t.Clock().Now().UnixMilli(),
	}
	t.mu.Unlock()

	t.Render()
	t.Emit(EventItemStart, detail)
}

// CompleteItem marks item i as done. Unknown or already settled items are
// ignored. Settling the final item emits batchcomplete.
func (t *Tracker) CompleteItem(i int) {
	t.settle(i, ItemDone, nil)
}

// FailItem marks item i as failed with the given error. Settling the
// final item emits batchcomplete even when some items failed.
func (t *Tracker) FailItem(i int, err error) {
	t.settle(i, ItemFailed, err)
}

func (t *Tracker) settle(i int, status ItemStatus, err error) {
	t.mu.Lock()
	item, ok := t.items[i]
	if !ok || item.Status == ItemDone || item.Status == ItemFailed {
		t.mu.Unlock()
		return
	}

	item.Status = status
	item.Err = err
	now := t.Clock().Now()

	var name string
	detail := map[string]any{
		"index":     i,
		"label":     item.Label,
		"timestamp": now.UnixMilli(),
	}
	if status == ItemFailed {
		t.failed++
		name = EventItemFail
		if err != nil {
			detail["error"] = err.Error()
		}
	} else {
		t.done++
		name = EventItemComplete
	}

	finished := t.total > 0 && t.done+t.failed >= t.total
	var completeDetail map[string]any
	if finished {
		completeDetail = map[string]any{
			"total":     t.total,
			"done":      t.done,
			"failed":    t.failed,
			"timestamp": now.UnixMilli(),
		}
	}
	t.mu.Unlock()

	t.Render()
	t.Emit(name, detail)
	if finished {
		t.Emit(EventComplete, completeDetail)
	}
}

// Reset clears all item progress. No event is emitted.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.items = make(map[int]*Item)
	t.done = 0
	t.failed = 0
	t.total = t.config.Total
	t.mu.Unlock()

	t.Render()
}

// Progress returns settled items, total and the completion percentage
func (t *Tracker) Progress() (settled, total int, pct float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	settled = t.done + t.failed
	return settled, t.total, widget.FormatPercent(float64(settled), float64(t.total))
}

func (t *Tracker) validIndexLocked(i int) bool {
	if i < 0 {
		return false
	}
	if t.total > 0 && i >= t.total {
		return false
	}
	return true
}

// Render writes the tracker's current state to its mount surface
func (t *Tracker) Render() {
	t.mu.Lock()
	markup := t.markupLocked()
	t.mu.Unlock()

	t.WriteMarkup(markup)
}

func (t *Tracker) markupLocked() string {
	var b strings.Builder
	settled := t.done + t.failed
	pct := widget.FormatPercent(float64(settled), float64(t.total))

	b.WriteString(`<div class="batch-tracker">`)
	fmt.Fprintf(&b, `<div class="batch-summary">%d of %d</div>`, settled, t.total)
	fmt.Fprintf(&b,
		`<div class="progress"><div class="progress-bar" style="width: %.0f%%"></div></div>`,
		pct)
	if t.failed > 0 {
		fmt.Fprintf(&b, `<div class="batch-failed">%d failed</div>`, t.failed)
	}

	if t.config.ShowItems && len(t.items) > 0 {
		b.WriteString(`<ul class="batch-items">`)
		for i := 0; i < t.total; i++ {
			item, ok := t.items[i]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, `<li class="item-%s">%s</li>`,
				item.Status, html.EscapeString(item.Label))
		}
		b.WriteString(`</ul>`)
	}

	b.WriteString(`</div>`)
	return b.String()
}
