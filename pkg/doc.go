// Package pkg provides the core libraries for modelgraph exports.
//
// # Overview
//
// Modelgraph extracts an element graph from an externally maintained
// modeling repository, rooted at a user-selected package, and writes it as
// a pretty-printed JSON document. The pkg directory is organized into these
// areas:
//
//  1. [model] - Domain types and the repository capability interface
//  2. [builder] - Graph construction (traversal, dedup, cycle handling)
//  3. [graph] - The serialized node/edge document and its JSON codec
//  4. [cache] - Export result caching (file, Redis, null backends)
//  5. [viz] - Graphviz rendering of export graphs
//
// # Architecture
//
// The typical data flow through modelgraph:
//
//	Model source (snapshot file or automation bridge)
//	         ↓
//	    [model] package (repository interface, package enumeration)
//	         ↓
//	    [builder] package (diagram traversal → nodes and edges)
//	         ↓
//	    [graph] package (pretty JSON serialization)
//	         ↓
//	    main_diagram_with_edges.json / SVG output
//
// # Quick Start
//
// Export a package's main diagram graph from a snapshot:
//
//	import (
//	    "context"
//	    "github.com/mfeldt/modelgraph/pkg/builder"
//	    "github.com/mfeldt/modelgraph/pkg/graph"
//	    "github.com/mfeldt/modelgraph/pkg/model/snapshot"
//	)
//
//	repo, _ := snapshot.Open("model.json")
//	pkg, _ := repo.PackageByID(context.Background(), 10)
//	g := builder.Build(context.Background(), repo, pkg)
//	_ = graph.WriteFile(graph.Filename, g)
//
// # Main Packages
//
// ## Domain
//
// [model] - Packages, diagrams, elements, attributes, and connectors, plus
// the Repository interface every model source implements. Lookups return
// (value, ok); dangling references are a normal outcome, not an error.
//
// [model/snapshot] - Repository backed by a JSON snapshot file on disk.
//
// [model/remote] - Repository backed by an HTTP bridge running next to the
// modeling application, with retries, memoization, and optional file caching.
//
// ## Graph Construction
//
// [builder] - Walks a package's main diagram, follows connectors and linked
// diagrams recursively, resolves classifiers to shallow external nodes, and
// deduplicates elements, diagrams, and edges.
//
// [graph] - The export document: a node union (package, element, external)
// and typed edges, serialized with 4-space indentation.
//
// ## Infrastructure
//
// [cache] - Cache interface with file, Redis, and null backends, plus the
// key scheme scoping entries by model source and package.
//
// [httputil] - File-backed response cache and retry helpers for the bridge
// client.
//
// [errors] - Structured error codes shared by the CLI and HTTP server.
//
// [config] - TOML configuration (model source, cache backend, server
// address) loaded from ~/.config/modelgraph/config.toml.
//
// [observability] - Optional hooks for export, cache, and HTTP events.
//
// ## Visualization
//
// [viz] - DOT generation and Graphviz SVG rendering of export graphs.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/builder/...   # Specific package
//
// [model]: https://pkg.go.dev/github.com/mfeldt/modelgraph/pkg/model
// [model/snapshot]: https://pkg.go.dev/github.com/mfeldt/modelgraph/pkg/model/snapshot
// [model/remote]: https://pkg.go.dev/github.com/mfeldt/modelgraph/pkg/model/remote
// [builder]: https://pkg.go.dev/github.com/mfeldt/modelgraph/pkg/builder
// [graph]: https://pkg.go.dev/github.com/mfeldt/modelgraph/pkg/graph
// [cache]: https://pkg.go.dev/github.com/mfeldt/modelgraph/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/mfeldt/modelgraph/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/mfeldt/modelgraph/pkg/errors
// [config]: https://pkg.go.dev/github.com/mfeldt/modelgraph/pkg/config
// [observability]: https://pkg.go.dev/github.com/mfeldt/modelgraph/pkg/observability
// [viz]: https://pkg.go.dev/github.com/mfeldt/modelgraph/pkg/viz
package pkg
