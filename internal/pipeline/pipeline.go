// Package pipeline assembles staged shell command lines. Stages are
// fused with && so the shell itself aborts the remainder when any stage
// exits non-zero.
package pipeline

import "strings"

// Stage is one shell command segment with a display label.
type Stage struct {
	Label   string
	Command string
}

// Spec is an ordered list of stages executed strictly in sequence.
type Spec []Stage

// Command fuses the stages into a single shell line. Each stage is
// preceded by a printf banner so the surface shows phase transitions.
func (s Spec) Command() string {
	parts := make([]string, 0, len(s)*2)
	for _, stage := range s {
		if stage.Label != "" {
			parts = append(parts, "printf '\\n==> %s\\n' "+ShellQuote(stage.Label))
		}
		parts = append(parts, stage.Command)
	}
	return strings.Join(parts, " && ")
}

// Labels returns the stage labels in execution order.
func (s Spec) Labels() []string {
	labels := make([]string, 0, len(s))
	for _, stage := range s {
		labels = append(labels, stage.Label)
	}
	return labels
}

// ShellJoin quotes and joins arguments into one shell word sequence.
func ShellJoin(args []string) string {
	quoted := make([]string, 0, len(args))
	for _, arg := range args {
		quoted = append(quoted, ShellQuote(arg))
	}
	return strings.Join(quoted, " ")
}

// ShellQuote quotes a single argument for POSIX shells.
func ShellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$&;|<>*?[]{}()!") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", "'\"'\"'") + "'"
}
