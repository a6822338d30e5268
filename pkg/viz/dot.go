// Package viz renders export graphs as node-link diagrams.
//
// The graph is first converted to Graphviz DOT, then rendered to SVG
// in-process. Element nodes are boxes, external classifier references are
// dashed boxes, and edges carry their connector type (and name, when set)
// as labels.
package viz

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/mfeldt/modelgraph/pkg/graph"
)

// Options configures diagram rendering.
type Options struct {
	// Detailed includes element types and attribute names in node labels.
	// When false, only the element name is shown.
	Detailed bool
}

// ToDOT converts an export graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(g graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		switch v := n.(type) {
		case *graph.ElementNode:
			fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(v.ID),
				strings.Join(elementAttrs(v, opts.Detailed), ", "))
		case *graph.ExternalNode:
			fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(v.ID),
				strings.Join(externalAttrs(v, opts.Detailed), ", "))
		}
		// The package node names the export, it is not a drawable shape.
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n",
			nodeID(e.From), nodeID(e.To), edgeLabel(e))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(id int) string { return strconv.Itoa(id) }

func elementAttrs(n *graph.ElementNode, detailed bool) []string {
	return []string{fmt.Sprintf("label=%q", elementLabel(n, detailed))}
}

func externalAttrs(n *graph.ExternalNode, detailed bool) []string {
	label := n.Name
	if detailed {
		label += "\n" + typeLine(n.Type)
		if n.Package != nil {
			label += "\nfrom " + *n.Package
		}
	}
	return []string{
		fmt.Sprintf("label=%q", label),
		"style=\"rounded,filled,dashed\"",
		"fillcolor=lightgrey",
		"fontcolor=black",
	}
}

func elementLabel(n *graph.ElementNode, detailed bool) string {
	if !detailed {
		return n.Name
	}
	parts := []string{n.Name, typeLine(n.Type)}
	for _, a := range n.Attributes {
		parts = append(parts, fmt.Sprintf("%s: %s", a.Name, a.Type))
	}
	return strings.Join(parts, "\n")
}

func typeLine(t string) string { return "<<" + t + ">>" }

func edgeLabel(e graph.Edge) string {
	if e.Name == "" {
		return e.Type
	}
	return e.Type + ": " + e.Name
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
