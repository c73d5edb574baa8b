// Package termsurface provides a widget.Surface that paints widget markup
// into a styled terminal box using lipgloss. Markup tags are flattened to
// text lines; block-level closings become line breaks and buttons render
// as bracketed labels.
package termsurface

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Surface renders widget markup to a terminal writer
type Surface struct {
	mu         sync.Mutex
	out        io.Writer
	title      string
	markup     string
	attributes map[string]string
	styles     map[string]string
	actions    map[string]func()

	boxStyle   lipgloss.Style
	titleStyle lipgloss.Style
}

// New creates a terminal surface writing to out with a titled box
func New(out io.Writer, title string) *Surface {
	return &Surface{
		out:        out,
		title:      title,
		attributes: make(map[string]string),
		styles:     make(map[string]string),
		actions:    make(map[string]func()),
		boxStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1),
		titleStyle: lipgloss.NewStyle().
			Bold(true),
	}
}

// SetMarkup replaces the surface content and repaints
func (s *Surface) SetMarkup(markup string) {
	s.mu.Lock()
	s.markup = markup
	frame := s.frameLocked()
	out := s.out
	s.mu.Unlock()

	if out != nil {
		fmt.Fprintln(out, frame)
	}
}

// SetAttribute records a host-visible attribute
func (s *Surface) SetAttribute(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attributes[name] = value
}

// RemoveAttribute removes a host-visible attribute
func (s *Surface) RemoveAttribute(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attributes, name)
}

// SetStyleProperty applies a themed style property. The primary color
// drives the box border; other properties are recorded for inspection.
func (s *Surface) SetStyleProperty(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.styles[name] = value
	if name == "--ai-primary-color" {
		s.boxStyle = s.boxStyle.BorderForeground(lipgloss.Color(value))
	}
}

// BindAction wires a named interaction handler; nil removes the binding
func (s *Surface) BindAction(name string, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn == nil {
		delete(s.actions, name)
		return
	}
	s.actions[name] = fn
}

// TriggerAction forwards host input (a key press) into a bound action.
// Returns false when no handler is bound for the name.
func (s *Surface) TriggerAction(name string) bool {
	s.mu.Lock()
	fn, ok := s.actions[name]
	s.mu.Unlock()
	if !ok || fn == nil {
		return false
	}
	fn()
	return true
}

// Attribute returns a recorded attribute value and whether it is set
func (s *Surface) Attribute(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.attributes[name]
	return v, ok
}

// StyleProperty returns a recorded style property value and whether it is set
func (s *Surface) StyleProperty(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.styles[name]
	return v, ok
}

// Frame returns the current styled box without writing it
func (s *Surface) Frame() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameLocked()
}

func (s *Surface) frameLocked() string {
	body := Flatten(s.markup)
	if s.title != "" {
		body = s.titleStyle.Render(s.title) + "\n" + body
	}
	return s.boxStyle.Render(body)
}

// Flatten reduces widget markup to plain terminal text: tags are dropped,
// closing block tags become newlines, spans are space-separated and
// buttons render as [Label]. Entity references for the common icon set are
// decoded.
func Flatten(markup string) string {
	var b strings.Builder
	var tag strings.Builder
	inTag := false
	isButton := false

	for _, r := range markup {
		switch {
		case r == '<':
			inTag = true
			tag.Reset()
		case r == '>' && inTag:
			inTag = false
			name := tag.String()
			switch {
			case name == "button" || strings.HasPrefix(name, "button "):
				isButton = true
				b.WriteString("[")
			case name == "/button":
				isButton = false
				b.WriteString("]")
			case name == "/div" || name == "/li" || name == "/ol" || name == "/ul":
				b.WriteString("\n")
			case name == "/span" && !isButton:
				b.WriteString(" ")
			}
		case inTag:
			tag.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}

	text := decodeEntities(b.String())

	// collapse the blank lines left by nested block closings
	lines := make([]string, 0, 8)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

var entityReplacer = strings.NewReplacer(
	"&#8635;", "↻",
	"&#8987;", "⏳",
	"&#10003;", "✓",
	"&#10007;", "✗",
	"&#8856;", "⊘",
	"&#9675;", "○",
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
	"&#34;", `"`,
	"&#39;", "'",
)

func decodeEntities(s string) string {
	return entityReplacer.Replace(s)
}
