package widget

import (
	"sync"
)

// Surface is the host rendering surface a widget owns and rewrites on each
// render. Any markup sink works: a terminal pane, an in-memory recorder for
// tests, or a bridge forwarding markup to another UI layer.
//
// Render fully replaces prior markup, so widgets rebind their interaction
// actions after every SetMarkup call.
type Surface interface {
	// SetMarkup replaces the surface content with the given markup string
	SetMarkup(markup string)

	// SetAttribute sets a host-visible attribute (role, aria-label, disabled)
	SetAttribute(name, value string)

	// RemoveAttribute removes a host-visible attribute
	RemoveAttribute(name string)

	// SetStyleProperty writes one themed style property onto the host's
	// style scope, e.g. "--ai-primary-color" -> "#7D56F4"
	SetStyleProperty(name, value string)

	// BindAction wires a named interaction (e.g. "manual-retry", "cancel")
	// to a handler. Binding replaces any previous handler for the name;
	// binding a nil handler removes the action.
	BindAction(name string, fn func())
}

// ActionTrigger is implemented by surfaces that can forward host input
// (a key press, a button click) into a bound widget action.
type ActionTrigger interface {
	TriggerAction(name string) bool
}

// MemorySurface is a Surface that records everything written to it.
// It backs widget tests and headless hosts.
type MemorySurface struct {
	mu         sync.Mutex
	markup     string
	renders    int
	attributes map[string]string
	styles     map[string]string
	actions    map[string]func()
}

// NewMemorySurface creates an empty in-memory surface
func NewMemorySurface() *MemorySurface {
	return &MemorySurface{
		attributes: make(map[string]string),
		styles:     make(map[string]string),
		actions:    make(map[string]func()),
	}
}

// SetMarkup replaces the recorded markup and bumps the render count
func (s *MemorySurface) SetMarkup(markup string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markup = markup
	s.renders++
}

// SetAttribute records a host attribute
func (s *MemorySurface) SetAttribute(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attributes[name] = value
}

// RemoveAttribute removes a recorded host attribute
func (s *MemorySurface) RemoveAttribute(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attributes, name)
}

// SetStyleProperty records a themed style property
func (s *MemorySurface) SetStyleProperty(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.styles[name] = value
}

// BindAction records an action handler; nil removes the binding
func (s *MemorySurface) BindAction(name string, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn == nil {
		delete(s.actions, name)
		return
	}
	s.actions[name] = fn
}

// TriggerAction invokes a bound action as host input would.
// Returns false when no handler is bound for the name.
func (s *MemorySurface) TriggerAction(name string) bool {
	s.mu.Lock()
	fn, ok := s.actions[name]
	s.mu.Unlock()
	if !ok || fn == nil {
		return false
	}
	fn()
	return true
}

// Markup returns the most recently written markup
func (s *MemorySurface) Markup() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markup
}

// RenderCount returns how many times SetMarkup was called
func (s *MemorySurface) RenderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renders
}

// Attribute returns a recorded attribute value and whether it is set
func (s *MemorySurface) Attribute(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.attributes[name]
	return v, ok
}

// StyleProperty returns a recorded style property value and whether it is set
func (s *MemorySurface) StyleProperty(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.styles[name]
	return v, ok
}

// Actions returns the names of currently bound actions
func (s *MemorySurface) Actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.actions))
	for name := range s.actions {
		names = append(names, name)
	}
	return names
}
