package component

import "fmt"

// Group is an internal node of the failure dependency tree. It fails once
// more than Failures of its direct children have failed; the predicate is
// evaluated lazily on every call, never memoized within an iteration,
// since it is cheap relative to everything else in the Monte-Carlo loop.
type Group struct {
	name     string
	Failures int
	children []Component

	ttfs []float64
}

// NewGroup constructs a Group with the given failure threshold: it is
// failed once strictly more than failures of its children are failed.
func NewGroup(name string, failures int, children []Component) *Group {
	return &Group{name: name, Failures: failures, children: children}
}

func (g *Group) Name() string { return g.name }

// Children returns this Group's direct children (sub-Groups and Units).
func (g *Group) Children() []Component { return g.children }

// Failed reports whether more than Failures of this Group's direct
// children are currently failed.
func (g *Group) Failed() bool {
	count := 0
	for _, c := range g.children {
		if c.Failed() {
			count++
		}
	}
	return count > g.Failures
}

// RecordTTF appends one Monte-Carlo iteration's observed time at which
// this group transitioned into Failed().
func (g *Group) RecordTTF(t float64) {
	g.ttfs = append(g.ttfs, t)
}

// AllTTFs returns every time to failure recorded for this group so far.
func (g *Group) AllTTFs() []float64 {
	return g.ttfs
}

// Dump renders a short human-readable summary of the group's tree shape,
// for --verbose startup logging.
func (g *Group) Dump() string {
	return fmt.Sprintf("group %q failures=%d children=%d", g.name, g.Failures, len(g.children))
}
