// Package graph derives the causal graph from a fact store for traversal and
// rendering. The graph is never the source of truth: it is rebuilt on demand
// from the authoritative fact store and applied-rule log, so reasoning and
// display cannot drift apart.
package graph

import (
	"fmt"
	"io"
	"sort"

	"github.com/chainrecon/chainrecon/pkg/recon/fact"
)

// NodeKind distinguishes fact nodes from rule-firing nodes.
type NodeKind string

const (
	NodeFact NodeKind = "fact"
	NodeRule NodeKind = "rule"
)

// Node is one vertex of the causal graph. Origin and Confidence are set for
// fact nodes, Tactic for rule nodes. Seq orders nodes by creation.
type Node struct {
	Name       string
	Kind       NodeKind
	Origin     fact.Origin
	Confidence float64
	Tactic     string
	Seq        int
}

// Edge is a directed precondition→rule or rule→postcondition link.
type Edge struct {
	From string
	To   string
}

// Graph is a read-only causal graph snapshot.
type Graph struct {
	nodes map[string]Node
	order []string
	edges []Edge
	out   map[string][]string
	in    map[string][]string
}

// RuleNodeName renders the display name of a rule-firing node.
func RuleNodeName(rule string) string { return "[RULE] " + rule }

// Build reconstructs the causal graph from the store: one node per fact, one
// per rule firing, edges from each precondition to the rule and from the rule
// to each postcondition the firing actually produced. Postconditions whose
// evidence predates the preconditions were suppressed as causally impossible
// and stay unlinked.
func Build(s *fact.Store) *Graph {
	g := &Graph{
		nodes: make(map[string]Node),
		out:   make(map[string][]string),
		in:    make(map[string][]string),
	}

	for _, f := range s.All() {
		g.addNode(Node{
			Name:       f.ID.String(),
			Kind:       NodeFact,
			Origin:     f.Origin,
			Confidence: f.Confidence,
			Seq:        f.Seq,
		})
	}

	for _, r := range s.Applied() {
		name := RuleNodeName(r.Name)
		g.addNode(Node{
			Name:       name,
			Kind:       NodeRule,
			Confidence: r.Base,
			Tactic:     r.Tactic,
			Seq:        r.Seq,
		})
		var latestPre int64
		for i, pre := range r.Pre {
			g.addEdge(pre.String(), name)
			if f, ok := s.Get(pre); ok && (i == 0 || f.Time > latestPre) {
				latestPre = f.Time
			}
		}
		for _, post := range r.Post {
			f, ok := s.Get(post)
			if !ok {
				continue
			}
			// A postcondition that predates the rule's preconditions was
			// causally suppressed, not produced by this firing: no edge.
			if f.Time < latestPre {
				continue
			}
			g.addEdge(name, post.String())
		}
	}

	sort.SliceStable(g.order, func(i, j int) bool {
		return g.nodes[g.order[i]].Seq < g.nodes[g.order[j]].Seq
	})
	return g
}

func (g *Graph) addNode(n Node) {
	if _, ok := g.nodes[n.Name]; ok {
		return
	}
	g.nodes[n.Name] = n
	g.order = append(g.order, n.Name)
}

func (g *Graph) addEdge(from, to string) {
	if _, ok := g.nodes[from]; !ok {
		return
	}
	if _, ok := g.nodes[to]; !ok {
		return
	}
	g.edges = append(g.edges, Edge{From: from, To: to})
	g.out[from] = append(g.out[from], to)
	g.in[to] = append(g.in[to], from)
}

// Node returns the named node.
func (g *Graph) Node(name string) (Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Nodes returns all nodes ordered by sequence number.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.nodes[name])
	}
	return out
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Successors returns the nodes reachable one step from name.
func (g *Graph) Successors(name string) []string {
	return append([]string(nil), g.out[name]...)
}

// Predecessors returns the nodes pointing at name.
func (g *Graph) Predecessors(name string) []string {
	return append([]string(nil), g.in[name]...)
}

// WriteDOT emits the graph in Graphviz DOT form for external renderers. Fact
// nodes are ellipses shaded by origin, rule nodes are boxes.
func (g *Graph) WriteDOT(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "digraph attack {"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "  rankdir=LR;"); err != nil {
		return err
	}
	for _, name := range g.order {
		n := g.nodes[name]
		var attrs string
		switch {
		case n.Kind == NodeRule:
			attrs = `shape=box,style=filled,fillcolor="#FB8072"`
		case n.Origin == fact.Observed:
			attrs = `style=filled,fillcolor="#A3D5FF"`
		case n.Origin == fact.Hypothetical:
			attrs = `style="filled,dashed",fillcolor="#FDFD96"`
		default:
			attrs = `style=filled,fillcolor="#7FC97F"`
		}
		if _, err := fmt.Fprintf(w, "  %q [label=\"%s\\n%.2f\",%s];\n", n.Name, n.Name, n.Confidence, attrs); err != nil {
			return err
		}
	}
	for _, e := range g.edges {
		if _, err := fmt.Fprintf(w, "  %q -> %q;\n", e.From, e.To); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}
