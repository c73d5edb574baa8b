// Package loadstage implements a staged-loading tracker widget: an ordered
// list of named stages (download, verify, load, warm up, ...) advanced one
// at a time by the host, with optional fractional progress inside the
// active stage.
package loadstage

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/c360/widgetkit/errors"
	"github.com/c360/widgetkit/widget"
)

// WidgetName is the registration name for the load-stage tracker
const WidgetName = "loadstage-tracker"

// Event names emitted by the tracker
const (
	EventStageStart    = "stagestart"
	EventStageComplete = "stagecomplete"
	EventStageFail     = "stagefail"
	EventLoadComplete  = "loadcomplete"
)

// StageStatus is the per-stage progress state
type StageStatus int

const (
	StagePending StageStatus = iota
	StageActive
	StageDone
	StageFailed
)

// String returns a string representation of the stage status
func (s StageStatus) String() string {
	switch s {
	case StagePending:
		return "pending"
	case StageActive:
		return "active"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Stage is one entry in the ordered stage list
type Stage struct {
	Name     string
	Status   StageStatus
	Progress float64 // 0..100 within the active stage
	Err      error
}

// Config holds the load-stage tracker settings
type Config struct {
	widget.Config

	// Stages is the ordered stage list; empty names are dropped
	Stages []string
}

// Tracker advances through an ordered list of loading stages
type Tracker struct {
	*widget.Base

	mu     sync.Mutex
	stages []*Stage
	index  map[string]int
}

// New creates a load-stage tracker
func New(cfg Config, deps widget.Dependencies) *Tracker {
	t := &Tracker{index: make(map[string]int)}
	for _, name := range cfg.Stages {
		if name == "" {
			continue
		}
		if _, dup := t.index[name]; dup {
			continue
		}
		t.index[name] = len(t.stages)
		t.stages = append(t.stages, &Stage{Name: name})
	}
	t.Base = widget.NewBase(t, WidgetName, cfg.Config, deps)
	return t
}

// Create is the registry factory for the load-stage tracker
func Create(raw json.RawMessage, deps widget.Dependencies) (widget.Widget, error) {
	var cfg Config
	if len(raw) > 0 {
		var fc struct {
			Stages    []string `json:"stages,omitempty"`
			Debug     *bool    `json:"debug,omitempty"`
			Disabled  *bool    `json:"disabled,omitempty"`
			AriaLabel *string  `json:"ariaLabel,omitempty"`
		}
		if err := json.Unmarshal(raw, &fc); err != nil {
			return nil, errors.WrapInvalid(err, "loadstage", "Create", "unmarshal config")
		}
		cfg.Stages = fc.Stages
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

// Register adds the load-stage tracker factory to the registry
func Register(r *widget.Registry) error {
	return r.RegisterWithConfig(widget.RegistrationConfig{
		Name:        WidgetName,
		Factory:     Create,
		Schema:      Schema(),
		Category:    "tracker",
		Description: "Advances through an ordered list of loading stages with per-stage progress",
		Version:     "1.0.0",
	})
}

// Meta returns basic widget information
func (t *Tracker) Meta() widget.Metadata {
	return widget.Metadata{
		Name:        WidgetName,
		Category:    "tracker",
		Description: "Advances through an ordered list of loading stages with per-stage progress",
		Version:     "1.0.0",
	}
}

// ConfigSchema returns the configuration schema for this widget
func (t *Tracker) ConfigSchema() widget.ConfigSchema { return Schema() }

// Schema describes the accepted configuration for registry discovery
func Schema() widget.ConfigSchema {
	return widget.ConfigSchema{
		Properties: map[string]widget.PropertySchema{
			"stages": {
				Type:        "string",
				Description: "Ordered stage names (JSON array)",
			},
		},
		Required: []string{"stages"},
	}
}

// DefaultRole declares the accessibility role applied at mount
func (t *Tracker) DefaultRole() string { return "progressbar" }

// Stages returns a snapshot of the current stage list
func (t *Tracker) Stages() []Stage {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Stage, len(t.stages))
	for i, s := range t.stages {
		out[i] = *s
	}
	return out
}

// StartStage marks the named stage active, completing any earlier active
// stage first. Unknown names are ignored.
func (t *Tracker) StartStage(name string) {
	t.mu.Lock()
	i, ok := t.index[name]
	if !ok || t.stages[i].Status != StagePending {
		t.mu.Unlock()
		return
	}

	// a stage left active is implicitly done when its successor starts
	for _, s := range t.stages {
		if s.Status == StageActive {
			s.Status = StageDone
			s.Progress = 100
		}
	}
	t.stages[i].Status = StageActive

	detail := map[string]any{
		"stage":     name,
		"index":     i,
		"timestamp": t.Clock().Now().UnixMilli(),
	}
	t.mu.Unlock()

	t.Render()
	t.Emit(EventStageStart, detail)
}

// CompleteStage marks the named stage done. Completing the final pending
// stage emits loadcomplete.
func (t *Tracker) CompleteStage(name string) {
	t.mu.Lock()
	i, ok := t.index[name]
	if !ok || t.stages[i].Status == StageDone || t.stages[i].Status == StageFailed {
		t.mu.Unlock()
		return
	}

	t.stages[i].Status = StageDone
	t.stages[i].Progress = 100
	now := t.Clock().Now()

	detail := map[string]any{
		"stage":     name,
		"index":     i,
		"timestamp": now.UnixMilli(),
	}

	allDone := true
	for _, s := range t.stages {
		if s.Status != StageDone {
			allDone = false
			break
		}
	}
	var completeDetail map[string]any
	if allDone {
		completeDetail = map[string]any{
			"stages":    len(t.stages),
			"timestamp": now.UnixMilli(),
		}
	}
	t.mu.Unlock()

	t.Render()
	t.Emit(EventStageComplete, detail)
	if allDone {
		t.Emit(EventLoadComplete, completeDetail)
	}
}

// FailStage marks the named stage failed with the given error
func (t *Tracker) FailStage(name string, err error) {
	t.mu.Lock()
	i, ok := t.index[name]
	if !ok || t.stages[i].Status == StageDone || t.stages[i].Status == StageFailed {
		t.mu.Unlock()
		return
	}

	t.stages[i].Status = StageFailed
	t.stages[i].Err = err

	detail := map[string]any{
		"stage":     name,
		"index":     i,
		"timestamp": t.Clock().Now().UnixMilli(),
	}
	if err != nil {
		detail["error"] = err.Error()
	}
	t.mu.Unlock()

	t.Render()
	t.Emit(EventStageFail, detail)
}

// SetStageProgress updates the active stage's fractional progress,
// clamped to [0, 100]. With no active stage it is a no-op.
func (t *Tracker) SetStageProgress(pct float64) {
	t.mu.Lock()
	var active *Stage
	for _, s := range t.stages {
		if s.Status == StageActive {
			active = s
			break
		}
	}
	if active == nil {
		t.mu.Unlock()
		return
	}
	active.Progress = widget.FormatPercent(pct, 100)
	t.mu.Unlock()

	t.Render()
}

// Progress returns overall completion across all stages as a percentage,
// counting the active stage's fractional progress.
func (t *Tracker) Progress() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.stages) == 0 {
		return 0
	}
	var sum float64
	for _, s := range t.stages {
		switch s.Status {
		case StageDone:
			sum += 100
		case StageActive:
			sum += s.Progress
		}
	}
	return sum / float64(len(t.stages))
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
	b.WriteString(`<div class="loadstage-tracker">`)
	b.WriteString(`<ol class="stages">`)
	for _, s := range t.stages {
		fmt.Fprintf(&b, `<li class="stage-%s">%s`, s.Status, html.EscapeString(s.Name))
		if s.Status == StageActive && s.Progress > 0 {
			fmt.Fprintf(&b, ` <span class="stage-progress">%.0f%%</span>`, s.Progress)
		}
		if s.Status == StageFailed && s.Err != nil {
			fmt.Fprintf(&b, ` <span class="stage-error">%s</span>`,
				html.EscapeString(s.Err.Error()))
		}
		b.WriteString(`</li>`)
	}
	b.WriteString(`</ol>`)
	b.WriteString(`</div>`)
	return b.String()
}
