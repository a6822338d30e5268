package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "github.com/mfeldt/modelgraph/pkg/errors"
	"github.com/mfeldt/modelgraph/pkg/httputil"
)

// newBridge starts a fake bridge and returns it with a per-path hit counter.
func newBridge(t *testing.T) (*httptest.Server, map[string]int) {
	t.Helper()
	hits := make(map[string]int)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/models", func(w http.ResponseWriter, req *http.Request) {
		hits[req.URL.Path]++
		fmt.Fprint(w, `[{"id": 1, "parentId": 0, "name": "Model", "packages": [
            {"id": 10, "parentId": 1, "name": "Billing"}
        ]}]`)
	})
	mux.HandleFunc("/api/elements/100", func(w http.ResponseWriter, req *http.Request) {
		hits[req.URL.Path]++
		fmt.Fprint(w, `{"id": 100, "name": "Invoice", "type": "Class", "packageId": 10}`)
	})
	mux.HandleFunc("/api/packages/10", func(w http.ResponseWriter, req *http.Request) {
		hits[req.URL.Path]++
		fmt.Fprint(w, `{"id": 10, "parentId": 1, "name": "Billing"}`)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		hits[req.URL.Path]++
		http.NotFound(w, req)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, hits
}

func TestOpenAndRoots(t *testing.T) {
	ctx := context.Background()
	srv, _ := newBridge(t)

	repo, err := Open(ctx, srv.URL, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	roots, err := repo.Roots(ctx)
	if err != nil {
		t.Fatalf("Roots: %v", err)
	}
	if len(roots) != 1 || roots[0].Name != "Model" {
		t.Fatalf("roots = %+v", roots)
	}
	if len(roots[0].Packages) != 1 || roots[0].Packages[0].Name != "Billing" {
		t.Errorf("subtree = %+v", roots[0].Packages)
	}
}

func TestOpenUnreachableBridge(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // Nothing is listening anymore.

	_, err := Open(context.Background(), srv.URL, nil)
	if err == nil {
		t.Fatal("Open should fail against a dead bridge")
	}
	if !apperrors.Is(err, apperrors.ErrCodeConnectionFailed) {
		t.Errorf("error code = %s, want CONNECTION_FAILED", apperrors.GetCode(err))
	}
}

func TestElementByIDMemoized(t *testing.T) {
	ctx := context.Background()
	srv, hits := newBridge(t)

	repo, err := Open(ctx, srv.URL, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	el, ok := repo.ElementByID(ctx, 100)
	if !ok || el.Name != "Invoice" {
		t.Fatalf("ElementByID = %+v, %v", el, ok)
	}

	// Second lookup is served from memory.
	el2, ok := repo.ElementByID(ctx, 100)
	if !ok || el2 != el {
		t.Error("repeated lookup should return the memoized element")
	}
	if hits["/api/elements/100"] != 1 {
		t.Errorf("bridge hits = %d, want 1", hits["/api/elements/100"])
	}
}

func TestElementByIDNotFound(t *testing.T) {
	ctx := context.Background()
	srv, hits := newBridge(t)

	repo, err := Open(ctx, srv.URL, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if _, ok := repo.ElementByID(ctx, 404); ok {
		t.Error("unknown element should report ok=false")
	}

	// The miss is memoized too.
	_, _ = repo.ElementByID(ctx, 404)
	if hits["/api/elements/404"] != 1 {
		t.Errorf("bridge hits = %d, want 1", hits["/api/elements/404"])
	}
}

func TestPackageByID(t *testing.T) {
	ctx := context.Background()
	srv, _ := newBridge(t)

	repo, err := Open(ctx, srv.URL, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	pkg, ok := repo.PackageByID(ctx, 10)
	if !ok || pkg.Name != "Billing" {
		t.Errorf("PackageByID = %+v, %v", pkg, ok)
	}
	if _, ok := repo.PackageByID(ctx, 404); ok {
		t.Error("unknown package should report ok=false")
	}
}

func TestFileCacheSkipsBridge(t *testing.T) {
	ctx := context.Background()
	srv, hits := newBridge(t)

	cache, err := httputil.NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	repo, err := Open(ctx, srv.URL, cache)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := repo.ElementByID(ctx, 100); !ok {
		t.Fatal("first lookup failed")
	}

	// A fresh repository sharing the cache never reaches the bridge.
	repo2, err := Open(ctx, srv.URL, cache)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := repo2.ElementByID(ctx, 100); !ok {
		t.Fatal("cached lookup failed")
	}
	if hits["/api/elements/100"] != 1 {
		t.Errorf("bridge hits = %d, want 1", hits["/api/elements/100"])
	}
}
