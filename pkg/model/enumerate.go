package model

import "slices"

// Collect flattens the package hierarchy under roots into a single list via
// depth-first descent, each package included before its sub-packages. Pure:
// it never touches a Repository and visits every package exactly once
// (package hierarchies are trees, so no cycle handling is needed).
func Collect(roots []*Package) []*Package {
	var out []*Package
	for _, root := range roots {
		out = appendSubtree(out, root)
	}
	return out
}

func appendSubtree(out []*Package, pkg *Package) []*Package {
	out = append(out, pkg)
	for _, sub := range pkg.Packages {
		out = appendSubtree(out, sub)
	}
	return out
}

// Selectable filters and orders packages for presentation: top-level model
// roots (ParentID 0) are dropped, the rest sorted by name. The sort is
// cosmetic; traversal order inside an export never depends on it.
func Selectable(pkgs []*Package) []*Package {
	out := make([]*Package, 0, len(pkgs))
	for _, p := range pkgs {
		if p.ParentID != 0 {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b *Package) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		default:
			return 0
		}
	})
	return out
}
