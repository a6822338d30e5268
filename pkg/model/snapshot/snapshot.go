// Package snapshot provides a file-backed model repository.
//
// A snapshot is a single JSON document exported from the modeling
// application, carrying the full package tree under "models" and a flat
// "elements" table. Opening a snapshot loads and indexes the document once;
// all lookups afterwards are in-memory map reads.
package snapshot

import (
	"context"
	"encoding/json"
	"os"

	"github.com/mfeldt/modelgraph/pkg/errors"
	"github.com/mfeldt/modelgraph/pkg/model"
)

// document is the on-disk snapshot layout.
type document struct {
	Models   []*model.Package `json:"models"`
	Elements []*model.Element `json:"elements"`
}

// Repository is a model.Repository backed by a loaded snapshot file.
type Repository struct {
	path     string
	roots    []*model.Package
	elements map[int]*model.Element
	packages map[int]*model.Package
}

// Open loads and indexes the snapshot at path.
//
// A missing file maps to FILE_NOT_FOUND and a file that is not a valid
// snapshot document to INVALID_SNAPSHOT; either way the failure surfaces
// here, at connection time, never from later lookups.
func Open(path string) (*Repository, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "snapshot %s does not exist", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConnectionFailed, err, "read snapshot %s", path)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "parse snapshot %s", path)
	}

	r := &Repository{
		path:     path,
		roots:    doc.Models,
		elements: make(map[int]*model.Element, len(doc.Elements)),
		packages: make(map[int]*model.Package),
	}
	for _, el := range doc.Elements {
		r.elements[el.ID] = el
	}
	for _, root := range doc.Models {
		r.indexPackages(root)
	}
	return r, nil
}

// indexPackages registers pkg and its whole subtree in the ID index.
func (r *Repository) indexPackages(pkg *model.Package) {
	r.packages[pkg.ID] = pkg
	for _, sub := range pkg.Packages {
		r.indexPackages(sub)
	}
}

// Path returns the snapshot file this repository was loaded from.
func (r *Repository) Path() string { return r.path }

// Roots returns the top-level model roots of the snapshot.
func (r *Repository) Roots(ctx context.Context) ([]*model.Package, error) {
	return r.roots, nil
}

// ElementByID resolves an element from the snapshot's element table.
func (r *Repository) ElementByID(ctx context.Context, id int) (*model.Element, bool) {
	el, ok := r.elements[id]
	return el, ok
}

// PackageByID resolves a package anywhere in the snapshot's package trees.
func (r *Repository) PackageByID(ctx context.Context, id int) (*model.Package, bool) {
	pkg, ok := r.packages[id]
	return pkg, ok
}

// Ensure Repository implements model.Repository.
var _ model.Repository = (*Repository)(nil)
