// Package graph provides the serialization types for model-element exports.
//
// This package defines the wire format produced by an export: a single JSON
// document with a heterogeneous "nodes" array and a deduplicated "edges"
// array. It sits at the boundary between the in-memory graph the builder
// produces and the download artifact consumers receive.
//
// # JSON Format
//
//	{
//	    "nodes": [
//	        {"name": "Billing", "type": "Package", "diagrams": [...]},
//	        {"id": 1, "name": "Invoice", "type": "Class", "attributes": [...],
//	         "linkedDiagrams": [], "position": {...}},
//	        {"id": 9, "name": "Currency", "type": "Enumeration",
//	         "package": "Common", "attributes": []}
//	    ],
//	    "edges": [
//	        {"from": 1, "to": 2, "type": "Association", "name": "uses"}
//	    ]
//	}
//
// The nodes array mixes three record types, distinguished by key presence:
// a "diagrams" key marks the package node, a "package" key marks a shallow
// external classifier, and everything else is a fully expanded element.
// Diagram identifiers carry a "D" prefix ("D42") so they never collide with
// integer element IDs in consumers that merge both ID spaces.
//
// # Determinism
//
// Key order per record type is fixed by struct field order, and output is
// pretty-printed with 4-space indentation. Exporting an unchanged model
// twice yields byte-identical files.
//
// # Common Operations
//
//	data, _ := graph.Marshal(g)          // Graph -> []byte
//	graph.WriteFile(g, "out.json")       // Graph -> file
//	g, _ := graph.ReadFile("out.json")   // file -> Graph (union re-discriminated)
//
// # Concurrency
//
// All functions are safe for concurrent reads of the same Graph but not
// concurrent writes.
package graph
