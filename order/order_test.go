package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/schemagen/errors"
	fixtures "github.com/teranos/schemagen/internal/testing"
	"github.com/teranos/schemagen/ir"
)

func node(name string, deps ...string) *ir.Node {
	return &ir.Node{Name: name, Depends: deps, Value: &ir.ObjectValue{}}
}

func collect(t *testing.T, nodes []*ir.Node, policy Policy) ([]string, Result) {
	t.Helper()
	var emitted []string
	res, err := Walk(nodes, func(n *ir.Node) error {
		emitted = append(emitted, n.Name)
		return nil
	}, policy)
	require.NoError(t, err)
	return emitted, res
}

func indexOf(list []string, name string) int {
	for i, s := range list {
		if s == name {
			return i
		}
	}
	return -1
}

func TestWalk(t *testing.T) {
	tests := []struct {
		name     string
		nodes    []*ir.Node
		policy   Policy
		want     []string
		fallback []string
	}{
		{
			name:  "already ordered",
			nodes: []*ir.Node{node("A"), node("B", "A"), node("C", "B")},
			want:  []string{"A", "B", "C"},
		},
		{
			name:  "reverse order resolves over several passes",
			nodes: []*ir.Node{node("C", "B"), node("B", "A"), node("A")},
			want:  []string{"A", "B", "C"},
		},
		{
			name:  "ready nodes keep encounter order",
			nodes: []*ir.Node{node("Z"), node("Y", "X"), node("X"), node("W")},
			want:  []string{"Z", "X", "W", "Y"},
		},
		{
			name:     "two-node cycle unconditional",
			nodes:    []*ir.Node{node("A", "B"), node("B", "A")},
			policy:   Unconditional(),
			want:     []string{"A", "B"},
			fallback: []string{"A", "B"},
		},
		{
			name:     "cycle with ready tail",
			nodes:    []*ir.Node{node("A", "B"), node("B", "A"), node("C", "A"), node("D")},
			policy:   Unconditional(),
			want:     []string{"D", "A", "B", "C"},
			fallback: []string{"A", "B", "C"},
		},
		{
			name:     "forced resumes normal scanning",
			nodes:    []*ir.Node{node("Frame", "Group"), node("Group", "Frame"), node("Page", "Frame")},
			policy:   Forced("Group"),
			want:     []string{"Group", "Frame", "Page"},
			fallback: []string{"Group"},
		},
		{
			name:     "forced skips emitted and unknown names",
			nodes:    []*ir.Node{node("A"), node("B", "C"), node("C", "B")},
			policy:   Forced("A", "Missing", "C"),
			want:     []string{"A", "C", "B"},
			fallback: []string{"C"},
		},
		{
			name:     "forced falls back to unconditional when exhausted",
			nodes:    []*ir.Node{node("A", "B"), node("B", "A"), node("C", "D"), node("D", "C")},
			policy:   Forced("B"),
			want:     []string{"B", "A", "C", "D"},
			fallback: []string{"B", "C", "D"},
		},
		{
			name:     "nil policy",
			nodes:    []*ir.Node{node("A", "A2"), node("A2", "A")},
			want:     []string{"A", "A2"},
			fallback: []string{"A", "A2"},
		},
		{
			name: "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emitted, res := collect(t, tt.nodes, tt.policy)
			assert.Equal(t, tt.want, emitted)
			assert.Equal(t, tt.want, res.Emitted)
			assert.Equal(t, tt.fallback, res.Fallback)
		})
	}
}

func TestWalkEmitsEachNodeOnce(t *testing.T) {
	g := fixtures.LoadGraph(t, fixtures.DesignArchive(t, ".."))

	for _, policy := range []Policy{Unconditional(), Forced("GroupShape")} {
		t.Run(policy.String(), func(t *testing.T) {
			emitted, _ := collect(t, g.Nodes(), policy)
			require.Len(t, emitted, g.Len())

			seen := make(map[string]bool)
			for _, name := range emitted {
				assert.False(t, seen[name], "%s emitted twice", name)
				seen[name] = true
			}
		})
	}
}

func TestWalkTopologicalOnAcyclicGraph(t *testing.T) {
	g := fixtures.LoadGraph(t, fixtures.DesignArchive(t, ".."))

	emitted, res := collect(t, g.Nodes(), Unconditional())

	fallback := make(map[string]bool)
	for _, name := range res.Fallback {
		fallback[name] = true
	}
	for _, n := range g.Nodes() {
		if fallback[n.Name] {
			continue
		}
		for _, dep := range n.Depends {
			assert.Less(t, indexOf(emitted, dep), indexOf(emitted, n.Name), "%s emitted before its dependency %s", n.Name, dep)
		}
	}
}

func TestForcedBreaksDesignCycle(t *testing.T) {
	g := fixtures.LoadGraph(t, fixtures.DesignArchive(t, ".."))

	emitted, res := collect(t, g.Nodes(), Forced("GroupShape"))

	assert.Equal(t, []string{"GroupShape"}, res.Fallback)
	for _, pair := range [][2]string{{"Layer", "Shape"}, {"Shape", "GroupShape"}, {"GroupShape", "Frame"}} {
		assert.Less(t, indexOf(emitted, pair[0]), indexOf(emitted, pair[1]), "%s must precede %s", pair[0], pair[1])
	}
}

func TestWalkStopsOnEmitError(t *testing.T) {
	boom := errors.New("disk full")
	calls := 0

	_, err := Walk([]*ir.Node{node("A"), node("B"), node("C")}, func(n *ir.Node) error {
		calls++
		if n.Name == "B" {
			return boom
		}
		return nil
	}, nil)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}
