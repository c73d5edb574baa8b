package widget

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/c360/widgetkit/metric"
	"github.com/c360/widgetkit/pkg/format"
)

// Config holds the per-instance settings shared by every widget.
// Immutable after construction except through SetDisabled.
type Config struct {
	Debug     bool   // enables diagnostic logging
	Disabled  bool   // suppresses interaction; reflected to host attributes
	AriaLabel string // accessibility label
}

// Base supplies identical mount/unmount/theme/accessibility/event plumbing
// to every concrete widget, so each widget need only implement "given
// current state, produce markup" and "given an external call, update
// state". Concrete widgets embed *Base and pass themselves as owner.
//
// Base is designed for single-owner, sequential method invocation matching
// typical UI-callback concurrency; it is not safe for concurrent external
// mutation.
type Base struct {
	owner   Widget
	name    string
	id      string
	config  Config
	theme   Theme
	role    string
	surface Surface
	emitter *Emitter
	logger  *slog.Logger
	clock   clockwork.Clock
	metrics *metric.Metrics

	mounted    bool
	createdAt  time.Time
	errorCount int
	lastError  string
}

// NewBase creates the shared runtime record for a concrete widget.
// The owner is the widget embedding this Base; its Render and optional
// hooks are invoked through it.
func NewBase(owner Widget, name string, cfg Config, deps Dependencies) *Base {
	clock := deps.GetClock()
	return &Base{
		owner:     owner,
		name:      name,
		id:        uuid.NewString(),
		config:    cfg,
		emitter:   NewEmitter(),
		logger:    deps.GetLoggerWithWidget(name),
		clock:     clock,
		metrics:   deps.CoreMetrics(),
		createdAt: clock.Now(),
	}
}

// ID returns the unique instance identifier
func (b *Base) ID() string { return b.id }

// Name returns the widget type name
func (b *Base) Name() string { return b.name }

// Logger returns the widget-scoped structured logger
func (b *Base) Logger() *slog.Logger { return b.logger }

// Clock returns the injected clock and timer scheduler
func (b *Base) Clock() clockwork.Clock { return b.clock }

// Debug reports whether diagnostic logging is enabled
func (b *Base) Debug() bool { return b.config.Debug }

// Mounted reports whether the widget currently has a surface
func (b *Base) Mounted() bool { return b.mounted }

// Surface returns the current mount surface, or nil when unmounted
func (b *Base) Surface() Surface { return b.surface }

// SetTheme replaces the widget theme. Applied at the next Mount.
func (b *Base) SetTheme(t Theme) { b.theme = t }

// SetRole overrides the accessibility role applied at mount. Hosts call
// this before Mount when the default role from the widget is wrong for
// their context.
func (b *Base) SetRole(role string) { b.role = role }

// Mount attaches the widget to a rendering surface: applies the theme,
// sets accessibility attributes, then invokes the widget's render.
// Mounting onto a nil surface is a no-op.
func (b *Base) Mount(s Surface) {
	if s == nil {
		return
	}

	b.surface = s
	b.mounted = true

	b.theme.apply(s)

	role := b.role
	if role == "" {
		if rp, ok := b.owner.(RoleProvider); ok {
			role = rp.DefaultRole()
		}
	}
	if role != "" {
		s.SetAttribute("role", role)
	}
	if b.config.AriaLabel != "" {
		s.SetAttribute("aria-label", b.config.AriaLabel)
	}
	b.syncDisabledAttributes()

	if b.metrics != nil {
		b.metrics.MountsTotal.WithLabelValues(b.name).Inc()
		b.metrics.WidgetStatus.WithLabelValues(b.name).Set(1)
	}
	if b.config.Debug {
		b.logger.Debug("widget mounted", "id", b.id)
	}

	b.owner.Render()
}

// Unmount detaches the widget from its surface, running the widget's
// cleanup hook first so timers and animation loops are cancelled.
func (b *Base) Unmount() {
	if c, ok := b.owner.(Cleaner); ok {
		c.Cleanup()
	}

	b.surface = nil
	b.mounted = false

	if b.metrics != nil {
		b.metrics.WidgetStatus.WithLabelValues(b.name).Set(2)
	}
	if b.config.Debug {
		b.logger.Debug("widget unmounted", "id", b.id)
	}
}

// Disabled returns the current disabled flag
func (b *Base) Disabled() bool { return b.config.Disabled }

// SetDisabled updates the disabled flag, syncs the host attributes and
// triggers a re-render.
func (b *Base) SetDisabled(disabled bool) {
	b.config.Disabled = disabled
	b.syncDisabledAttributes()
	b.owner.Render()
}

func (b *Base) syncDisabledAttributes() {
	if b.surface == nil {
		return
	}
	if b.config.Disabled {
		b.surface.SetAttribute("aria-disabled", "true")
		b.surface.SetAttribute("disabled", "")
	} else {
		b.surface.RemoveAttribute("aria-disabled")
		b.surface.RemoveAttribute("disabled")
	}
}

// WriteMarkup replaces the surface content with freshly rendered markup.
// Concrete widgets call this from Render; with no surface attached it is
// a no-op.
func (b *Base) WriteMarkup(markup string) {
	if b.surface == nil {
		return
	}

	start := b.clock.Now()
	b.surface.SetMarkup(markup)

	if b.metrics != nil {
		b.metrics.RendersTotal.WithLabelValues(b.name).Inc()
		b.metrics.RenderDuration.WithLabelValues(b.name).
			Observe(b.clock.Since(start).Seconds())
	}
}

// BindAction wires a named interaction handler on the current surface.
// Handlers must be rebound after every render since render fully replaces
// prior markup. With no surface attached it is a no-op.
func (b *Base) BindAction(name string, fn func()) {
	if b.surface == nil {
		return
	}
	if fn == nil {
		b.surface.BindAction(name, nil)
		return
	}

	wrapped := fn
	if b.metrics != nil {
		actions := b.metrics.ActionsFired
		widgetName := b.name
		wrapped = func() {
			actions.WithLabelValues(widgetName, name).Inc()
			fn()
		}
	}
	b.surface.BindAction(name, wrapped)
}

// Emit dispatches a named notification carrying an arbitrary detail
// payload. Fire-and-forget: delivery is synchronous to registered
// listeners in call order and there is no return value.
func (b *Base) Emit(name string, detail map[string]any) {
	if b.metrics != nil {
		b.metrics.EventsEmitted.WithLabelValues(b.name, name).Inc()
	}
	if b.config.Debug {
		b.logger.Debug("event emitted", "event", name, "detail", detail)
	}

	b.emitter.Emit(Event{
		Name:      name,
		Widget:    b.id,
		Detail:    detail,
		Timestamp: b.clock.Now(),
	})
}

// On subscribes a listener to the named event and returns an unsubscribe
// function. This is how hosts and adapters observe widget state changes.
func (b *Base) On(name string, fn Listener) (unsubscribe func()) {
	return b.emitter.On(name, fn)
}

// OnAny subscribes a listener to every event this widget emits.
func (b *Base) OnAny(fn Listener) (unsubscribe func()) {
	return b.emitter.OnAny(fn)
}

// RecordError tracks a widget-level error for health reporting
func (b *Base) RecordError(err error) {
	if err == nil {
		return
	}
	b.errorCount++
	b.lastError = err.Error()
	b.logger.Warn("widget error", "error", err)
}

// Health returns the widget's current health status
func (b *Base) Health() HealthStatus {
	return HealthStatus{
		Healthy:    b.errorCount == 0,
		LastCheck:  b.clock.Now(),
		ErrorCount: b.errorCount,
		LastError:  b.lastError,
		Uptime:     b.clock.Since(b.createdAt),
	}
}

// ApplyAttribute reflects a host-attribute edit into widget state. The
// "disabled" attribute is handled by the runtime; everything else is
// forwarded to the widget's AttributeHandler when it has one. Unrecognized
// attributes are ignored.
func (b *Base) ApplyAttribute(name, oldValue, newValue string) {
	if name == "disabled" {
		b.SetDisabled(newValue != "")
		return
	}
	if ah, ok := b.owner.(AttributeHandler); ok {
		ah.HandleAttributeChange(name, oldValue, newValue)
	}
}

// Formatting helpers shared by all widget render functions. Thin aliases
// so concrete widgets need only the widget package import for rendering.
var (
	// FormatPercent clamps current/total to a [0, 100] percentage
	FormatPercent = format.Percent
	// FormatBytes renders a byte count like "1.5K" or "2.0M"
	FormatBytes = format.Bytes
	// FormatDuration renders a duration as its two most significant units
	FormatDuration = format.Duration
	// FormatCurrency renders a dollar amount with thousands grouping
	FormatCurrency = format.Currency
)
