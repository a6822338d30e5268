// Package builder implements the graph-construction traversal at the heart
// of modelgraph: given one root package, it walks diagrams, elements,
// attributes, connectors, linked diagrams, and external classifiers,
// producing a deduplicated nodes+edges graph.
//
// The traversal is a single synchronous call with no suspension points.
// All visited-sets, the edge set, and the node index live in an explicit
// traversal context created per call, never shared or persisted across
// calls. The source repository is treated as frozen for the call's
// duration; callers serialize concurrent exports against one source.
//
// Missing lookups are skipped silently at every call site. Best-effort
// graphs are the contract: a dangling reference never aborts an export,
// and the core never logs (logging is a caller concern).
package builder

import (
	"context"
	"strconv"

	"github.com/mfeldt/modelgraph/pkg/graph"
	"github.com/mfeldt/modelgraph/pkg/model"
)

// Build constructs the export graph rooted at pkg.
//
// Only the package's first diagram is entered; a package with no diagrams
// contributes nothing and yields an empty graph. The resulting node
// sequence starts with the package node, followed by element and external
// nodes in the order their processing completes. Element nodes are unique
// by element ID, diagrams are expanded at most once process-wide, and
// edges are unique by (from, to, type).
func Build(ctx context.Context, repo model.Repository, pkg *model.Package) graph.Graph {
	g := graph.New()
	if len(pkg.Diagrams) == 0 {
		return g
	}

	t := &traversal{
		ctx:             ctx,
		repo:            repo,
		visitedElements: make(map[int]bool),
		visitedDiagrams: make(map[int]bool),
		seenEdges:       make(map[edgeKey]bool),
		built:           make(map[int]graph.Node),
	}

	main := pkg.Diagrams[0]
	t.visitedDiagrams[main.ID] = true
	mainNode := newDiagramNode(main)
	t.expandDiagram(main, mainNode)

	g.Nodes = append(g.Nodes, &graph.PackageNode{
		Name:     pkg.Name,
		Type:     graph.TypePackage,
		Diagrams: []*graph.DiagramNode{mainNode},
	})
	g.Nodes = append(g.Nodes, t.nodes...)
	g.Edges = append(g.Edges, t.edges...)
	return g
}

// edgeKey is the composite edge identity. Two connectors sharing source,
// target, and type collapse to one edge; the first one's name wins.
type edgeKey struct {
	from, to int
	typ      string
}

// traversal carries the per-export state threaded through every step.
type traversal struct {
	ctx  context.Context
	repo model.Repository

	nodes []graph.Node
	edges []graph.Edge

	visitedElements map[int]bool
	visitedDiagrams map[int]bool
	seenEdges       map[edgeKey]bool

	// built indexes every constructed node by element ID. Entries are
	// registered before the node's own expansion recurses, so a re-entrant
	// visit through a reference cycle reuses the in-progress node instead
	// of dropping the placement.
	built map[int]graph.Node
}

// expandDiagram resolves every placement on d and collects the resulting
// nodes into dn.Elements in placement order. Already-visited elements are
// included by their existing node reference; unresolvable placements are
// skipped.
func (t *traversal) expandDiagram(d *model.Diagram, dn *graph.DiagramNode) {
	for i := range d.Objects {
		obj := &d.Objects[i]
		el, ok := t.repo.ElementByID(t.ctx, obj.ElementID)
		if !ok {
			continue
		}
		if n := t.processElement(el, obj); n != nil {
			dn.Elements = append(dn.Elements, n)
		}
	}
}

// processElement builds the node for el, idempotent per element ID.
// A repeated call returns the previously built node. On first call the
// element is expanded: classifier, linked diagrams, then owned connectors.
func (t *traversal) processElement(el *model.Element, obj *model.DiagramObject) graph.Node {
	if t.visitedElements[el.ID] {
		return t.built[el.ID]
	}
	t.visitedElements[el.ID] = true

	node := &graph.ElementNode{
		ID:             el.ID,
		Name:           el.Name,
		Type:           el.Type,
		Attributes:     attrRecords(el.Attributes),
		LinkedDiagrams: []*graph.DiagramNode{},
		Position:       positionFrom(obj),
	}
	t.built[el.ID] = node

	if el.ClassifierID != 0 {
		t.processClassifier(el.ClassifierID)
	}
	t.expandLinkedDiagrams(el, node)
	t.collectEdges(el)

	t.nodes = append(t.nodes, node)
	return node
}

// processClassifier resolves a non-zero classifier reference into a shallow
// external node: identity, attributes, and owning package name only. The
// classifier is never expanded further; it is a leaf reference.
func (t *traversal) processClassifier(id int) {
	cl, ok := t.repo.ElementByID(t.ctx, id)
	if !ok || t.visitedElements[cl.ID] {
		return
	}
	t.visitedElements[cl.ID] = true

	ext := &graph.ExternalNode{
		ID:         cl.ID,
		Name:       cl.Name,
		Type:       cl.Type,
		Attributes: attrRecords(cl.Attributes),
	}
	if pkg, ok := t.repo.PackageByID(t.ctx, cl.PackageID); ok {
		ext.Package = &pkg.Name
	}

	t.built[cl.ID] = ext
	t.nodes = append(t.nodes, ext)
}

// expandLinkedDiagrams walks the diagrams attached to el. A diagram already
// visited anywhere in this export is skipped entirely; its owner in the
// output is whichever element or package reached it first.
func (t *traversal) expandLinkedDiagrams(el *model.Element, node *graph.ElementNode) {
	for _, d := range el.Diagrams {
		if t.visitedDiagrams[d.ID] {
			continue
		}
		t.visitedDiagrams[d.ID] = true

		dn := newDiagramNode(d)
		t.expandDiagram(d, dn)
		node.LinkedDiagrams = append(node.LinkedDiagrams, dn)
	}
}

// collectEdges emits one edge per unseen (source, target, type) identity
// among el's owned connectors. Connectors with an unresolvable endpoint
// contribute nothing.
func (t *traversal) collectEdges(el *model.Element) {
	for _, c := range el.Connectors {
		src, ok := t.repo.ElementByID(t.ctx, c.ClientID)
		if !ok {
			continue
		}
		dst, ok := t.repo.ElementByID(t.ctx, c.SupplierID)
		if !ok {
			continue
		}

		key := edgeKey{from: src.ID, to: dst.ID, typ: c.Type}
		if t.seenEdges[key] {
			continue
		}
		t.seenEdges[key] = true
		t.edges = append(t.edges, graph.Edge{
			From: src.ID,
			To:   dst.ID,
			Type: c.Type,
			Name: c.Name,
		})
	}
}

func newDiagramNode(d *model.Diagram) *graph.DiagramNode {
	return &graph.DiagramNode{
		ID:       graph.DiagramIDPrefix + strconv.Itoa(d.ID),
		Name:     d.Name,
		Type:     graph.TypeDiagram,
		Elements: []graph.Node{},
	}
}

func attrRecords(attrs []model.Attribute) []graph.AttrRecord {
	out := make([]graph.AttrRecord, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, graph.AttrRecord{
			ID:      a.ID,
			Name:    a.Name,
			Type:    a.Type,
			Default: a.Default,
		})
	}
	return out
}

// positionFrom copies placement geometry into a Position record.
// A nil placement yields a null position; missing geometry fields stay null.
func positionFrom(obj *model.DiagramObject) *graph.Position {
	if obj == nil {
		return nil
	}
	return &graph.Position{
		Left:   copyInt(obj.Left),
		Right:  copyInt(obj.Right),
		Top:    copyInt(obj.Top),
		Bottom: copyInt(obj.Bottom),
	}
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
