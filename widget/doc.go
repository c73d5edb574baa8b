// Package widget provides the shared runtime every concrete widget builds
// on: the Widget interface, the embedded Base with mount/theme/
// accessibility/event plumbing, the Surface abstraction, the notification
// Emitter, the factory Registry and the lifecycle Manager.
//
// # Widget Contract
//
// A concrete widget:
//
//   - embeds *Base and passes itself as owner at construction
//   - implements Render() as a pure function of current state that writes
//     markup through Base.WriteMarkup and rebinds its actions
//   - optionally implements RoleProvider, AttributeHandler and Cleaner
//   - mutates state only through its public method surface, re-rendering
//     and emitting a notification after each mutation
//
// No widget operation fails in the error-return sense: malformed
// configuration values are ignored and the previous valid value kept,
// missing surfaces make rendering a no-op.
//
// # Registration
//
// Widget registration is explicit. Hosts create a Registry, register the
// factories they want (widgetregistry.Register wires all built-ins) and
// create instances through Registry.CreateWidget. Nothing registers
// itself at import time.
//
// # Concurrency
//
// Widgets are designed for single-owner, sequential method invocation.
// The Registry, Manager, Emitter and MemorySurface are thread-safe;
// widget state itself is not, matching typical UI-callback concurrency.
package widget
