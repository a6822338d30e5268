package graph

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Fixed type tags emitted in the export.
const (
	TypePackage = "Package"
	TypeDiagram = "Diagram"
)

// DiagramIDPrefix prefixes diagram identifiers so they cannot collide with
// integer element IDs in consumers that merge both ID spaces.
const DiagramIDPrefix = "D"

// Filename is the fixed name of the download artifact.
const Filename = "main_diagram_with_edges.json"

// ContentType is the MIME type of the download artifact.
const ContentType = "application/json"

// =============================================================================
// Graph - Export Serialization Format
// =============================================================================

// Graph is the canonical serialization format for model-element exports:
// a heterogeneous node sequence plus a deduplicated edge sequence.
//
// Nodes holds exactly one [*PackageNode] (when the root package has a main
// diagram) plus a mixture of [*ElementNode] and [*ExternalNode] entries.
// Consumers distinguish the union members by key presence:
// "diagrams" marks a package, "package" an external classifier,
// "linkedDiagrams"/"position" a fully expanded element.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// New returns an empty Graph with non-nil node and edge slices, so an
// export with no content serializes as {"nodes": [], "edges": []}.
func New() Graph {
	return Graph{Nodes: []Node{}, Edges: []Edge{}}
}

// Node is the union of record types that may appear in the nodes sequence
// or on a diagram's element list.
type Node interface {
	node()
}

// =============================================================================
// Node Union Members
// =============================================================================

// PackageNode is the root unit of an export. It carries exactly one
// DiagramNode: the package's first (main) diagram.
type PackageNode struct {
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	Diagrams []*DiagramNode `json:"diagrams"`
}

// DiagramNode is a visited diagram with the element nodes placed on it,
// in placement order. Elements usually holds *ElementNode entries; an
// element first discovered as an external classifier appears by its
// existing *ExternalNode reference instead.
type DiagramNode struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Elements []Node `json:"elements"`
}

// ElementNode is a fully expanded element: attributes, linked diagrams,
// and the position of the placement through which it was first reached.
// Position is null when the element never appeared as a diagram object.
type ElementNode struct {
	ID             int            `json:"id"`
	Name           string         `json:"name"`
	Type           string         `json:"type"`
	Attributes     []AttrRecord   `json:"attributes"`
	LinkedDiagrams []*DiagramNode `json:"linkedDiagrams"`
	Position       *Position      `json:"position"`
}

// ExternalNode is a shallow leaf reference to an element reached only as
// another element's classifier. It is never expanded further: no connector,
// linked-diagram, or classifier walk of its own.
type ExternalNode struct {
	ID         int          `json:"id"`
	Name       string       `json:"name"`
	Type       string       `json:"type"`
	Package    *string      `json:"package"`
	Attributes []AttrRecord `json:"attributes"`
}

func (*PackageNode) node()  {}
func (*ElementNode) node()  {}
func (*ExternalNode) node() {}

// AttrRecord is an attribute snapshot. Default may be any JSON value.
type AttrRecord struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Default any    `json:"default"`
}

// Position is diagram-object geometry. All four fields are explicit nulls
// when the source placement carries no geometry.
type Position struct {
	Left   *int `json:"left"`
	Right  *int `json:"right"`
	Top    *int `json:"top"`
	Bottom *int `json:"bottom"`
}

// Edge is a directed, typed connection between two element IDs.
// Edges are unique by the (From, To, Type) triple; Name is whatever the
// first connector with that identity carried.
type Edge struct {
	From int    `json:"from"`
	To   int    `json:"to"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// =============================================================================
// Union Decoding
// =============================================================================

// UnmarshalJSON decodes the heterogeneous nodes sequence by discriminating
// each entry on key presence, as documented on [Graph].
func (g *Graph) UnmarshalJSON(data []byte) error {
	var raw struct {
		Nodes []json.RawMessage `json:"nodes"`
		Edges []Edge            `json:"edges"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	g.Nodes = make([]Node, 0, len(raw.Nodes))
	for i, msg := range raw.Nodes {
		n, err := decodeNode(msg)
		if err != nil {
			return fmt.Errorf("node %d: %w", i, err)
		}
		g.Nodes = append(g.Nodes, n)
	}
	g.Edges = raw.Edges
	if g.Edges == nil {
		g.Edges = []Edge{}
	}
	return nil
}

// UnmarshalJSON decodes a diagram's element list, which shares the node
// union (minus packages, which never nest under diagrams).
func (d *DiagramNode) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       string            `json:"id"`
		Name     string            `json:"name"`
		Type     string            `json:"type"`
		Elements []json.RawMessage `json:"elements"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	d.ID = raw.ID
	d.Name = raw.Name
	d.Type = raw.Type
	d.Elements = make([]Node, 0, len(raw.Elements))
	for i, msg := range raw.Elements {
		n, err := decodeNode(msg)
		if err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		d.Elements = append(d.Elements, n)
	}
	return nil
}

func decodeNode(msg json.RawMessage) (Node, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(msg, &probe); err != nil {
		return nil, err
	}

	switch {
	case hasKey(probe, "diagrams"):
		var n PackageNode
		if err := json.Unmarshal(msg, &n); err != nil {
			return nil, err
		}
		return &n, nil
	case hasKey(probe, "package"):
		var n ExternalNode
		if err := json.Unmarshal(msg, &n); err != nil {
			return nil, err
		}
		return &n, nil
	default:
		var n ElementNode
		if err := json.Unmarshal(msg, &n); err != nil {
			return nil, err
		}
		if n.Attributes == nil {
			n.Attributes = []AttrRecord{}
		}
		if n.LinkedDiagrams == nil {
			n.LinkedDiagrams = []*DiagramNode{}
		}
		return &n, nil
	}
}

func hasKey(m map[string]json.RawMessage, key string) bool {
	_, ok := m[key]
	return ok
}
