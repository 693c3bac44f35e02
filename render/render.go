// Package render converts the compiled IR into debugging views: Mermaid,
// Graphviz DOT, and JSON (spec §6.4). It is pure over the IR — no
// mutation, no side effects beyond building output text/bytes.
package render

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/hydroflow-go/hydro/ir"
)

// nodeID assigns monotonic render-local ids to IR nodes, honouring Tee
// sharing: a node reached through more than one parent gets one id
// (spec §6.4 "emitting a single node per shared sub-graph").
type nodeID struct {
	next int
	ids  map[ir.Node]int
}

func newNodeID() *nodeID { return &nodeID{ids: map[ir.Node]int{}} }

func (g *nodeID) of(n ir.Node) (int, bool) {
	if id, ok := g.ids[n]; ok {
		return id, true
	}
	id := g.next
	g.next++
	g.ids[n] = id
	return id, false
}

type graph struct {
	ids       *nodeID
	nodes     []nodeRecord
	edges     []edgeRecord
	locations map[string]bool
}

type nodeRecord struct {
	ID       int    `json:"id"`
	Label    string `json:"label"`
	Location string `json:"location"`
	Kind     string `json:"kind"`
}

type edgeRecord struct {
	From  int    `json:"from"`
	To    int    `json:"to"`
	Label string `json:"label"`
}

func walk(roots []ir.Root) *graph {
	g := &graph{ids: newNodeID(), locations: map[string]bool{}}
	visited := map[ir.Node]bool{}

	var visit func(n ir.Node) int
	visit = func(n ir.Node) int {
		id, seen := g.ids.of(n)
		loc := n.Metadata().LocationKind.String()
		g.locations[loc] = true
		if !seen {
			g.nodes = append(g.nodes, nodeRecord{
				ID:       id,
				Label:    nodeLabel(n),
				Location: loc,
				Kind:     n.Kind().String(),
			})
		}
		if visited[n] {
			return id
		}
		visited[n] = true
		for _, c := range n.Children() {
			cid := visit(c)
			g.edges = append(g.edges, edgeRecord{From: cid, To: id, Label: edgeLabel(c)})
		}
		return id
	}

	for i, r := range roots {
		rootID := g.ids.next
		g.ids.next++
		rootLoc := r.Metadata().LocationKind.String()
		g.locations[rootLoc] = true
		g.nodes = append(g.nodes, nodeRecord{
			ID:       rootID,
			Label:    fmt.Sprintf("%s#%d", r.Kind(), i),
			Location: rootLoc,
			Kind:     r.Kind().String(),
		})
		if r.Input() != nil {
			cid := visit(r.Input())
			g.edges = append(g.edges, edgeRecord{From: cid, To: rootID, Label: edgeLabel(r.Input())})
		}
	}
	return g
}

func nodeLabel(n ir.Node) string {
	op := n.Metadata().Op.OpName
	if tag := n.Metadata().Tag; tag != "" {
		return fmt.Sprintf("%s[%s]", op, tag)
	}
	return op
}

func edgeLabel(n ir.Node) string {
	ck := n.Metadata().CollectionKind
	switch ck.Tag {
	case ir.KindStream:
		return fmt.Sprintf("Stream<%s,%s>", ck.Guarantees.Order, ck.Guarantees.Retry)
	case ir.KindKeyedStream:
		return fmt.Sprintf("KeyedStream<%s,%s>", ck.Guarantees.Order, ck.Guarantees.Retry)
	case ir.KindSingleton:
		return fmt.Sprintf("Singleton<%s>", ck.Guarantees.Bound)
	case ir.KindOptional:
		return fmt.Sprintf("Optional<%s>", ck.Guarantees.Bound)
	case ir.KindKeyedSingleton:
		return "KeyedSingleton"
	default:
		return ""
	}
}

func sortedLocations(g *graph) []string {
	locs := make([]string, 0, len(g.locations))
	for l := range g.locations {
		locs = append(locs, l)
	}
	sort.Strings(locs)
	return locs
}

// Mermaid renders a Mermaid flowchart, nodes grouped into one subgraph
// per location cluster (spec §6.4).
func Mermaid(roots []ir.Root) string {
	g := walk(roots)
	var b strings.Builder
	b.WriteString("flowchart TD\n")
	for _, loc := range sortedLocations(g) {
		fmt.Fprintf(&b, "  subgraph %s\n", mermaidID(loc))
		for _, n := range g.nodes {
			if n.Location == loc {
				fmt.Fprintf(&b, "    n%d[\"%s\"]\n", n.ID, n.Label)
			}
		}
		b.WriteString("  end\n")
	}
	for _, e := range g.edges {
		if e.Label != "" {
			fmt.Fprintf(&b, "  n%d -->|%s| n%d\n", e.From, e.Label, e.To)
		} else {
			fmt.Fprintf(&b, "  n%d --> n%d\n", e.From, e.To)
		}
	}
	return b.String()
}

func mermaidID(loc string) string {
	r := strings.NewReplacer("(", "_", ")", "_", ",", "_", "<", "_", ">", "_")
	return "loc_" + r.Replace(loc)
}

// DOT renders Graphviz DOT, nodes grouped into one cluster subgraph per
// location (spec §6.4).
func DOT(roots []ir.Root) string {
	g := walk(roots)
	var b strings.Builder
	b.WriteString("digraph hydro {\n")
	for i, loc := range sortedLocations(g) {
		fmt.Fprintf(&b, "  subgraph cluster_%d {\n    label=%q;\n", i, loc)
		for _, n := range g.nodes {
			if n.Location == loc {
				fmt.Fprintf(&b, "    n%d [label=%q];\n", n.ID, n.Label)
			}
		}
		b.WriteString("  }\n")
	}
	for _, e := range g.edges {
		fmt.Fprintf(&b, "  n%d -> n%d [label=%q];\n", e.From, e.To, e.Label)
	}
	b.WriteString("}\n")
	return b.String()
}

// JSONGraph is the stable JSON view of the graph (spec §6.4), suitable
// for tooling outside this module to consume.
type JSONGraph struct {
	Nodes []nodeRecord `json:"nodes"`
	Edges []edgeRecord `json:"edges"`
}

// JSON renders the graph as indented JSON.
func JSON(roots []ir.Root) ([]byte, error) {
	g := walk(roots)
	return json.MarshalIndent(JSONGraph{Nodes: g.nodes, Edges: g.edges}, "", "  ")
}
