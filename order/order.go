// Package order emits IR nodes so that each node follows everything in its
// Depends set, and still terminates when the dependency graph has cycles.
package order

import (
	"github.com/teranos/schemagen/ir"
	"github.com/teranos/schemagen/logger"
)

// Policy decides what to emit when a full pass over the remaining nodes makes no
// progress.
type Policy interface {
	// next returns the index in remaining to force out, or -1 to emit every
	// remaining node unconditionally.
	next(remaining []*ir.Node) int
	String() string
}

type unconditional struct{}

// Unconditional emits every remaining node in encounter order once no node is
// ready. Suitable for artifacts that tolerate forward references.
func Unconditional() Policy {
	return unconditional{}
}

func (unconditional) next([]*ir.Node) int { return -1 }
func (unconditional) String() string      { return "unconditional" }

type forced struct {
	names []string
}

// Forced forces the listed nodes out one at a time, in list order, resuming
// normal dependency-ready emission after each one. Names that are already
// emitted are skipped. Once the list is exhausted it behaves like Unconditional.
// The returned policy consumes its list and serves a single Walk.
func Forced(names ...string) Policy {
	return &forced{names: append([]string(nil), names...)}
}

func (f *forced) next(remaining []*ir.Node) int {
	for len(f.names) > 0 {
		name := f.names[0]
		f.names = f.names[1:]
		for i, n := range remaining {
			if n.Name == name {
				return i
			}
		}
	}
	return -1
}

func (f *forced) String() string { return "forced" }

// Result reports how a walk went.
type Result struct {
	// Emitted lists node names in emission order
	Emitted []string
	// Fallback lists the nodes that were emitted before their dependencies
	Fallback []string
}

// Walk calls emit once for every node. A node is emitted only after all of its
// Depends, unless a pass makes no progress, in which case policy picks what
// comes out next. emit errors stop the walk.
func Walk(nodes []*ir.Node, emit func(*ir.Node) error, policy Policy) (Result, error) {
	if policy == nil {
		policy = Unconditional()
	}
	log := logger.ComponentLogger("order")
	perNode := logger.ShouldOutput(logger.Verbosity, logger.OutputNodes)

	remaining := make([]*ir.Node, len(nodes))
	copy(remaining, nodes)
	generated := make(map[string]bool, len(nodes))
	var res Result

	out := func(n *ir.Node, fallback bool) error {
		generated[n.Name] = true
		res.Emitted = append(res.Emitted, n.Name)
		if perNode {
			log.Debugw("emitting", logger.FieldNode, n.Name, logger.FieldCategory, logger.CategoryName(logger.OutputNodes))
		}
		if fallback {
			res.Fallback = append(res.Fallback, n.Name)
			log.Debugw("emitting before dependencies",
				logger.FieldNode, n.Name,
				logger.FieldDepends, missing(n, generated),
				logger.FieldPolicy, policy.String(),
			)
		}
		return emit(n)
	}

	for len(remaining) > 0 {
		progress := false
		kept := remaining[:0]
		for _, n := range remaining {
			if !ready(n, generated) {
				kept = append(kept, n)
				continue
			}
			if err := out(n, false); err != nil {
				return res, err
			}
			progress = true
		}
		remaining = kept

		if progress || len(remaining) == 0 {
			continue
		}

		if i := policy.next(remaining); i >= 0 {
			n := remaining[i]
			remaining = append(remaining[:i], remaining[i+1:]...)
			if err := out(n, true); err != nil {
				return res, err
			}
			continue
		}

		for _, n := range remaining {
			if err := out(n, true); err != nil {
				return res, err
			}
		}
		remaining = nil
	}

	return res, nil
}

func ready(n *ir.Node, generated map[string]bool) bool {
	for _, d := range n.Depends {
		if !generated[d] {
			return false
		}
	}
	return true
}

func missing(n *ir.Node, generated map[string]bool) []string {
	var out []string
	for _, d := range n.Depends {
		if !generated[d] {
			out = append(out, d)
		}
	}
	return out
}
