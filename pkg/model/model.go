// Package model defines the read-only view of an externally maintained
// modeling repository: packages containing sub-packages and diagrams,
// diagrams placing elements, and elements carrying attributes, connectors,
// and linked diagrams.
//
// The [Repository] interface is the capability boundary. The graph builder
// depends only on it, never on a concrete host binding, so any hierarchical
// object source with the same shape can back an export: a live automation
// bridge, a JSON snapshot on disk, or an in-memory fixture in tests.
//
// # Lookup Contract
//
// Lookups by numeric identifier return (value, ok) instead of errors.
// Absence is a normal outcome: model sources routinely contain dangling
// references, and callers are expected to skip them. A Repository
// implementation must never fail a lookup for a merely missing ID;
// connection-level failures belong to the adapter's constructor.
package model

import "context"

// Repository is the read-only capability interface over a model source.
//
// The traversal treats the source as frozen for the duration of a single
// export call. Implementations need not be safe for concurrent structural
// reads during a write elsewhere; callers serialize exports per source.
type Repository interface {
	// Roots returns the top-level model roots of the package hierarchy.
	Roots(ctx context.Context) ([]*Package, error)

	// ElementByID resolves an element by its numeric identifier.
	// ok is false when no such element exists.
	ElementByID(ctx context.Context, id int) (el *Element, ok bool)

	// PackageByID resolves a package by its numeric identifier.
	// ok is false when no such package exists.
	PackageByID(ctx context.Context, id int) (pkg *Package, ok bool)
}

// Package is a container node in the model hierarchy, holding sub-packages
// and diagrams. Package hierarchies are trees: a package has exactly one
// parent (ParentID 0 marks a top-level model root).
type Package struct {
	ID       int        `json:"id"`
	ParentID int        `json:"parentId"`
	Name     string     `json:"name"`
	Packages []*Package `json:"packages,omitempty"`
	Diagrams []*Diagram `json:"diagrams,omitempty"`
}

// Diagram is a named visual arrangement of element placements.
// Objects is ordered; placement order drives traversal determinism.
type Diagram struct {
	ID      int             `json:"id"`
	Name    string          `json:"name"`
	Objects []DiagramObject `json:"objects,omitempty"`
}

// DiagramObject binds an element to a position on a specific diagram.
// Geometry fields are nil when the source does not supply them.
type DiagramObject struct {
	ElementID int  `json:"elementId"`
	Left      *int `json:"left,omitempty"`
	Right     *int `json:"right,omitempty"`
	Top       *int `json:"top,omitempty"`
	Bottom    *int `json:"bottom,omitempty"`
}

// Element is a modeled entity (class, interface, enumeration, ...) with a
// stable integer identity. ClassifierID is 0 when the element references no
// external classifier. Diagrams lists the diagrams linked from this element,
// distinct from diagrams reached via packages.
type Element struct {
	ID           int         `json:"id"`
	Name         string      `json:"name"`
	Type         string      `json:"type"`
	PackageID    int         `json:"packageId"`
	ClassifierID int         `json:"classifierId,omitempty"`
	Attributes   []Attribute `json:"attributes,omitempty"`
	Connectors   []Connector `json:"connectors,omitempty"`
	Diagrams     []*Diagram  `json:"diagrams,omitempty"`
}

// Attribute is an immutable snapshot of an element attribute.
// AttributeID is scoped to the owning element.
type Attribute struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Default any    `json:"default"`
}

// Connector is a directed relationship between two elements.
// ClientID is the source, SupplierID the target.
type Connector struct {
	ClientID   int    `json:"clientId"`
	SupplierID int    `json:"supplierId"`
	Type       string `json:"type"`
	Name       string `json:"name"`
}
