package surface

import "fmt"

// KeyMap defines the dismissal and confirmation keys for modal surfaces.
type KeyMap struct {
	// Acknowledge closes a successfully finished runner surface.
	Acknowledge []string
	// Dismiss closes a failed runner surface without side effects.
	Dismiss string
	// Yes accepts a confirmation prompt.
	Yes string
	// No declines a confirmation prompt.
	No []string
}

// DefaultKeyMap returns the default shortcut mapping.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Acknowledge: []string{"q", " ", "enter", "esc", "y"},
		Dismiss:     "q",
		Yes:         "y",
		No:          []string{"n", "q", "esc"},
	}
}

// IsAcknowledge reports whether key closes a successful run.
func (k KeyMap) IsAcknowledge(key string) bool {
	for _, a := range k.Acknowledge {
		if key == a {
			return true
		}
	}
	return false
}

// IsNo reports whether key declines a confirmation.
func (k KeyMap) IsNo(key string) bool {
	for _, n := range k.No {
		if key == n {
			return true
		}
	}
	return false
}

// SuccessHint renders the footer hint for a finished run.
func (k KeyMap) SuccessHint() string {
	return "[q/space/enter/esc/y] close"
}

// FailureHint renders the footer hint for a failed run.
func (k KeyMap) FailureHint() string {
	return fmt.Sprintf("[%s] dismiss", k.Dismiss)
}
