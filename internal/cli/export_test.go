package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/mfeldt/modelgraph/pkg/errors"
	"github.com/mfeldt/modelgraph/pkg/graph"
)

const testSnapshot = `{
    "models": [
        {"id": 1, "parentId": 0, "name": "Model", "packages": [
            {"id": 10, "parentId": 1, "name": "Billing", "diagrams": [
                {"id": 5, "name": "Overview", "objects": [
                    {"elementId": 100}, {"elementId": 101}
                ]}
            ]}
        ]}
    ],
    "elements": [
        {"id": 100, "name": "Invoice", "type": "Class", "packageId": 10, "connectors": [
            {"clientId": 100, "supplierId": 101, "type": "Association", "name": "billedTo"}
        ]},
        {"id": 101, "name": "Customer", "type": "Class", "packageId": 10}
    ]
}`

func writeTestSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte(testSnapshot), 0644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestExportCommand(t *testing.T) {
	snapshotPath := writeTestSnapshot(t)
	outDir := t.TempDir()

	err := runCommand(t, "export",
		"--snapshot", snapshotPath,
		"--package", "10",
		"--output", outDir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	g, err := graph.ReadFile(filepath.Join(outDir, graph.Filename))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(g.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(g.Nodes))
	}
	if len(g.Edges) != 1 {
		t.Errorf("edges = %d, want 1", len(g.Edges))
	}
}

func TestExportUnknownPackage(t *testing.T) {
	err := runCommand(t, "export",
		"--snapshot", writeTestSnapshot(t),
		"--package", "999",
		"--output", t.TempDir())
	if err == nil {
		t.Fatal("export of unknown package should fail")
	}
	if !errors.Is(err, errors.ErrCodePackageNotFound) {
		t.Errorf("error code = %s, want PACKAGE_NOT_FOUND", errors.GetCode(err))
	}
}

func TestExportNoSourceConfigured(t *testing.T) {
	// An explicit empty config keeps the user's real config file out of
	// the test.
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfgPath, nil, 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	err := runCommand(t, "export", "--config", cfgPath, "--package", "10")
	if err == nil {
		t.Fatal("export without a source should fail")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %s, want INVALID_INPUT", errors.GetCode(err))
	}
}

func TestExportMissingSnapshot(t *testing.T) {
	err := runCommand(t, "export",
		"--snapshot", filepath.Join(t.TempDir(), "nope.json"),
		"--package", "10")
	if err == nil {
		t.Fatal("export with missing snapshot should fail")
	}
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error code = %s, want FILE_NOT_FOUND", errors.GetCode(err))
	}
}

func TestPackagesCommand(t *testing.T) {
	if err := runCommand(t, "packages", "--snapshot", writeTestSnapshot(t)); err != nil {
		t.Fatalf("packages: %v", err)
	}
}

func TestPackagesEmptySource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, []byte(`{"models": [], "elements": []}`), 0644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	err := runCommand(t, "packages", "--snapshot", path)
	if err == nil {
		t.Fatal("empty source should fail")
	}
	if !errors.Is(err, errors.ErrCodeNoPackages) {
		t.Errorf("error code = %s, want NO_PACKAGES", errors.GetCode(err))
	}
}
