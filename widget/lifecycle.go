package widget

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/c360/widgetkit/errors"
)

// MountState represents the current lifecycle state of a managed widget
type MountState int

const (
	// StateCreated indicates the widget was created but not mounted
	StateCreated MountState = iota
	// StateMounted indicates the widget is attached to a surface
	StateMounted
	// StateUnmounted indicates the widget was detached from its surface
	StateUnmounted
	// StateFailed indicates a lifecycle operation failed
	StateFailed
)

// String returns a string representation of the mount state
func (ms MountState) String() string {
	switch ms {
	case StateCreated:
		return "created"
	case StateMounted:
		return "mounted"
	case StateUnmounted:
		return "unmounted"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Mountable is a Widget with runtime mount plumbing. Every concrete widget
// embedding *Base satisfies it.
type Mountable interface {
	Widget
	Mount(Surface)
	Unmount()
}

// ManagedWidget tracks a widget and its lifecycle state
type ManagedWidget struct {
	// Widget is the actual widget instance
	Widget Mountable

	// State tracks the current lifecycle state
	State MountState

	// MountOrder tracks the order widgets were mounted for reverse teardown
	MountOrder int

	// LastError tracks the last error that occurred during lifecycle operations
	LastError error
}

// Manager coordinates the lifecycle of a set of mounted widgets. Teardown
// happens in reverse mount order so widgets mounted last are removed
// first.
type Manager struct {
	mu      sync.Mutex
	logger  *slog.Logger
	widgets map[string]*ManagedWidget
	nextSeq int
}

// NewManager creates a widget lifecycle manager
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		logger:  logger,
		widgets: make(map[string]*ManagedWidget),
	}
}

// Mount attaches the widget to the surface and starts tracking it under
// the given name. Returns an error for duplicate names.
func (m *Manager) Mount(name string, w Mountable, s Surface) error {
	if name == "" || w == nil {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Manager", "Mount", "argument validation")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.widgets[name]; exists {
		msg := fmt.Errorf("%w: %q", errors.ErrDuplicateWidget, name)
		return errors.WrapInvalid(msg, "Manager", "Mount", "duplicate name check")
	}

	w.Mount(s)
	m.widgets[name] = &ManagedWidget{
		Widget:     w,
		State:      StateMounted,
		MountOrder: m.nextSeq,
	}
	m.nextSeq++

	m.logger.Debug("widget mounted", "name", name)
	return nil
}

// Unmount detaches the named widget and stops tracking it
func (m *Manager) Unmount(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	mw, exists := m.widgets[name]
	if !exists {
		msg := fmt.Errorf("%w: %q", errors.ErrNotMounted, name)
		return errors.WrapInvalid(msg, "Manager", "Unmount", "name lookup")
	}

	mw.Widget.Unmount()
	mw.State = StateUnmounted
	delete(m.widgets, name)

	m.logger.Debug("widget unmounted", "name", name)
	return nil
}

// UnmountAll detaches every tracked widget in reverse mount order
func (m *Manager) UnmountAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	type entry struct {
		name string
		mw   *ManagedWidget
	}
	ordered := make([]entry, 0, len(m.widgets))
	for name, mw := range m.widgets {
		ordered = append(ordered, entry{name, mw})
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].mw.MountOrder > ordered[j].mw.MountOrder
	})

	for _, e := range ordered {
		e.mw.Widget.Unmount()
		e.mw.State = StateUnmounted
		delete(m.widgets, e.name)
		m.logger.Debug("widget unmounted", "name", e.name)
	}
}

// Managed returns the lifecycle record for a named widget, or nil
func (m *Manager) Managed(name string) *ManagedWidget {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.widgets[name]
}

// Names returns the names of all tracked widgets in mount order
func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	type entry struct {
		name string
		seq  int
	}
	ordered := make([]entry, 0, len(m.widgets))
	for name, mw := range m.widgets {
		ordered = append(ordered, entry{name, mw.MountOrder})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].seq < ordered[j].seq })

	names := make([]string, len(ordered))
	for i, e := range ordered {
		names[i] = e.name
	}
	return names
}
