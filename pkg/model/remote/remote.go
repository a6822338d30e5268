// Package remote provides a model repository backed by an HTTP bridge.
//
// The bridge is a small sidecar running next to the modeling application,
// exposing its object model as JSON:
//
//	GET {base}/api/models          -> package trees of every open model root
//	GET {base}/api/packages/{id}   -> one package subtree
//	GET {base}/api/elements/{id}   -> one element with attributes,
//	                                  connectors, and linked diagrams
//
// Lookups are fetched lazily, retried with backoff, memoized for the
// repository's lifetime, and optionally persisted in a file cache so
// repeated exports against an unchanged model skip the bridge entirely.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	apperrors "github.com/mfeldt/modelgraph/pkg/errors"
	"github.com/mfeldt/modelgraph/pkg/httputil"
	"github.com/mfeldt/modelgraph/pkg/model"
	"github.com/mfeldt/modelgraph/pkg/observability"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when the bridge has no object with the requested ID.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// Repository is a model.Repository that resolves objects through a bridge.
//
// Element and package lookups memoize their results, so within one export
// every ID hits the bridge at most once. A lookup that still fails after
// retries reports ok=false; the traversal treats it like any other dangling
// reference and degrades to a partial graph.
type Repository struct {
	base  string
	http  *http.Client
	cache *httputil.Cache

	elements map[int]*model.Element
	packages map[int]*model.Package
	misses   map[string]bool
}

// Open connects to the bridge at base and verifies it responds.
// An unreachable bridge maps to CONNECTION_FAILED.
func Open(ctx context.Context, base string, cache *httputil.Cache) (*Repository, error) {
	r := &Repository{
		base:     base,
		http:     &http.Client{Timeout: httpTimeout},
		cache:    cache,
		elements: make(map[int]*model.Element),
		packages: make(map[int]*model.Package),
		misses:   make(map[string]bool),
	}
	var roots []*model.Package
	if err := r.getJSON(ctx, r.base+"/api/models", &roots); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeConnectionFailed, err, "connect to bridge %s", base)
	}
	return r, nil
}

// Base returns the bridge base URL.
func (r *Repository) Base() string { return r.base }

// Roots returns the top-level model roots reported by the bridge.
func (r *Repository) Roots(ctx context.Context) ([]*model.Package, error) {
	var roots []*model.Package
	if err := r.cached(ctx, "models:roots", &roots, r.base+"/api/models"); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeConnectionFailed, err, "list models")
	}
	return roots, nil
}

// ElementByID resolves an element through the bridge.
func (r *Repository) ElementByID(ctx context.Context, id int) (*model.Element, bool) {
	if el, ok := r.elements[id]; ok {
		return el, true
	}
	key := "elements:" + strconv.Itoa(id)
	if r.misses[key] {
		return nil, false
	}

	var el model.Element
	if err := r.cached(ctx, key, &el, r.base+"/api/elements/"+strconv.Itoa(id)); err != nil {
		r.misses[key] = true
		return nil, false
	}
	r.elements[id] = &el
	return &el, true
}

// PackageByID resolves a package through the bridge.
func (r *Repository) PackageByID(ctx context.Context, id int) (*model.Package, bool) {
	if pkg, ok := r.packages[id]; ok {
		return pkg, true
	}
	key := "packages:" + strconv.Itoa(id)
	if r.misses[key] {
		return nil, false
	}

	var pkg model.Package
	if err := r.cached(ctx, key, &pkg, r.base+"/api/packages/"+strconv.Itoa(id)); err != nil {
		r.misses[key] = true
		return nil, false
	}
	r.packages[id] = &pkg
	return &pkg, true
}

// cached retrieves a value from the file cache or fetches it from the
// bridge with retries, storing the result on success. With no cache
// configured every call goes to the bridge.
func (r *Repository) cached(ctx context.Context, key string, v any, url string) error {
	if r.cache != nil {
		if ok, _ := r.cache.Get(key, v); ok {
			return nil
		}
	}
	err := httputil.RetryWithBackoff(ctx, func() error {
		return r.getJSON(ctx, url, v)
	})
	if err != nil {
		return err
	}
	if r.cache != nil {
		_ = r.cache.Set(key, v)
	}
	return nil
}

// getJSON performs an HTTP GET and JSON-decodes the response into v.
func (r *Repository) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	observability.HTTP().OnRequest(ctx, http.MethodGet, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := r.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, req.URL.Host, req.URL.Path, err)
		return &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, http.MethodGet, req.URL.Host, req.URL.Path,
		resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return err
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// Ensure Repository implements model.Repository.
var _ model.Repository = (*Repository)(nil)
