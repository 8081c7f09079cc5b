package domain

import "strings"

// Step is a single command invocation delegated to the multi-repository
// runner. Args holds the git subcommand and its arguments; Fanout marks the
// step as applying to every managed sub-repository instead of the umbrella
// workspace.

type Step struct {
	Args   []string
	Fanout bool
}

// Render returns the command line for this step using the given runner name.
func (s Step) Render(runner string) string {
	parts := make([]string, 0, len(s.Args)+2)
	parts = append(parts, runner)
	if s.Fanout {
		parts = append(parts, "foreach")
	}
	parts = append(parts, s.Args...)
	return strings.Join(parts, " ")
}

// Pipeline is an ordered sequence of steps with AND-on-success semantics:
// the first failing step aborts the remainder of the run.

type Pipeline struct {
	Name  string
	Steps []Step
}

// Render returns the full pipeline as one human-readable command string,
// exactly what the operator is asked to approve.
func (p Pipeline) Render(runner string) string {
	rendered := make([]string, 0, len(p.Steps))
	for _, step := range p.Steps {
		rendered = append(rendered, step.Render(runner))
	}
	return strings.Join(rendered, " && ")
}
