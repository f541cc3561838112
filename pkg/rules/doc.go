// Package rules compiles rule declarations into an ordered, immutable rule
// set and matches normalized signals against it.
//
// # Conditions
//
// A rule carries up to three conditions, each a regular expression applied
// to one field of the signal:
//
//   - path   - the object path, e.g. `^/org/bluez/hci0/dev_.*`
//   - member - the signal name, e.g. `PropertiesChanged`
//   - data   - the rendered body text, e.g. `"Connected": true`
//
// Patterns are unanchored searches; use ^ and $ for full matches. Each
// condition can be inverted with the matching `_not` flag. A condition whose
// pattern is absent is always satisfied, so a rule with no conditions matches
// every signal.
//
// # Ordering
//
// Match returns every matching rule, in the order the rules were declared.
// Actions are dispatched in that same order.
//
// # Actions
//
//	[waybar-bluetooth]
//	path = "^/org/bluez/"
//	signal = 13
//	signal_process = "waybar"
//
//	[notify]
//	member = "UnitNew"
//	exec = "notify-send unit-added"
//
// signal is an offset from SIGRTMIN and requires signal_process. exec is a
// shell command. Both may be present on the same rule.
package rules
