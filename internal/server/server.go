// Package server implements the modelgraph HTTP API.
//
// Serve mode exposes the same operations as the CLI over HTTP: listing the
// packages of a model source and downloading a package's export graph. One
// server owns one model source; exports against it are serialized so the
// source never sees interleaved traversals.
package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mfeldt/modelgraph/pkg/builder"
	"github.com/mfeldt/modelgraph/pkg/cache"
	"github.com/mfeldt/modelgraph/pkg/errors"
	"github.com/mfeldt/modelgraph/pkg/graph"
	"github.com/mfeldt/modelgraph/pkg/model"
	"github.com/mfeldt/modelgraph/pkg/observability"
	"github.com/mfeldt/modelgraph/pkg/viz"
)

// Options configures a Server.
type Options struct {
	// Source identifies the model source (snapshot path or bridge URL).
	// It scopes cache keys so two servers sharing a cache never collide.
	Source string

	// Cache stores export results. Nil disables caching.
	Cache cache.Cache

	// TTL is the lifetime of cached entries.
	TTL time.Duration

	// Logger receives request logs. Nil uses the default logger.
	Logger *log.Logger
}

// Server handles export requests against a single model repository.
type Server struct {
	repo   model.Repository
	source string
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger

	// exportMu serializes graph construction. The repository contract
	// demands one traversal at a time per source; concurrent downloads
	// of cached results remain parallel.
	exportMu sync.Mutex
}

// New creates a Server over repo.
func New(repo model.Repository, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		repo:   repo,
		source: opts.Source,
		cache:  opts.Cache,
		keyer:  cache.NewDefaultKeyer(),
		ttl:    opts.TTL,
		logger: logger,
	}
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)
	r.Get("/packages", s.handlePackages)
	r.Get("/packages/{id}/graph", s.handleGraph)
	r.Get("/packages/{id}/render", s.handleRender)
	return r
}

// requestID tags every request with a UUID, echoed in X-Request-ID.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := req.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, req)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, req)
		s.logger.Info("request",
			"method", req.Method,
			"path", req.URL.Path,
			"id", w.Header().Get("X-Request-ID"),
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// packageInfo is one row of the package listing.
type packageInfo struct {
	ID       int    `json:"id"`
	ParentID int    `json:"parentId"`
	Name     string `json:"name"`
}

// handlePackages lists every package of the source, depth-first.
// The rendered listing is cached per source alongside the export graphs.
func (s *Server) handlePackages(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	key := s.keyer.PackagesKey(s.source)

	if s.cache != nil {
		if data, hit, _ := s.cache.Get(ctx, key); hit {
			observability.Cache().OnCacheHit(ctx, "packages")
			writeJSONBytes(w, data)
			return
		}
		observability.Cache().OnCacheMiss(ctx, "packages")
	}

	roots, err := s.repo.Roots(ctx)
	if err != nil {
		writeError(w, http.StatusBadGateway, errors.ErrCodeConnectionFailed, "model source unreachable")
		return
	}

	flat := model.Collect(roots)
	infos := make([]packageInfo, 0, len(flat))
	for _, p := range flat {
		infos = append(infos, packageInfo{ID: p.ID, ParentID: p.ParentID, Name: p.Name})
	}

	data, err := json.Marshal(infos)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "encoding failed")
		return
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, data, s.ttl)
		observability.Cache().OnCacheSet(ctx, "packages", len(data))
	}
	writeJSONBytes(w, data)
}

// handleGraph exports a package's graph as a JSON file download.
func (s *Server) handleGraph(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(req, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.ErrCodeInvalidPackage, "package ID must be an integer")
		return
	}

	data, err := s.exportGraph(req, id)
	if err != nil {
		writeStatusError(w, err)
		return
	}

	w.Header().Set("Content-Type", graph.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+graph.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleRender exports a package's graph and renders it as SVG.
func (s *Server) handleRender(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(req, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.ErrCodeInvalidPackage, "package ID must be an integer")
		return
	}

	data, err := s.exportGraph(req, id)
	if err != nil {
		writeStatusError(w, err)
		return
	}

	svg, err := s.renderSVG(req, data)
	if err != nil {
		s.logger.Error("render failed", "package", id, "err", err)
		writeError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "rendering failed")
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

// exportGraph builds (or fetches from cache) the export JSON for package id.
func (s *Server) exportGraph(req *http.Request, id int) ([]byte, error) {
	ctx := req.Context()
	key := s.keyer.GraphKey(s.source, id)

	if s.cache != nil {
		if data, hit, _ := s.cache.Get(ctx, key); hit {
			observability.Cache().OnCacheHit(ctx, "graph")
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, "graph")
	}

	s.exportMu.Lock()
	defer s.exportMu.Unlock()

	// Another request may have built it while we waited for the lock.
	if s.cache != nil {
		if data, hit, _ := s.cache.Get(ctx, key); hit {
			return data, nil
		}
	}

	pkg, ok := s.repo.PackageByID(ctx, id)
	if !ok {
		return nil, errors.New(errors.ErrCodePackageNotFound, "package %d not found", id)
	}

	observability.Export().OnExportStart(ctx, s.source, id)
	start := time.Now()

	g := builder.Build(ctx, s.repo, pkg)
	data, err := graph.Marshal(g)
	observability.Export().OnExportComplete(ctx, s.source, id,
		len(g.Nodes), len(g.Edges), time.Since(start), err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize graph")
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, data, s.ttl)
		observability.Cache().OnCacheSet(ctx, "graph", len(data))
	}
	return data, nil
}

// renderSVG turns export JSON into an SVG, cached by content hash.
func (s *Server) renderSVG(req *http.Request, data []byte) ([]byte, error) {
	ctx := req.Context()
	key := s.keyer.ArtifactKey(cache.Hash(data), cache.ArtifactKeyOpts{Format: "svg", Layout: "dot"})

	if s.cache != nil {
		if svg, hit, _ := s.cache.Get(ctx, key); hit {
			return svg, nil
		}
	}

	g, err := graph.Read(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	svg, err := viz.RenderSVG(viz.ToDOT(g, viz.Options{}))
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, svg, s.ttl)
	}
	return svg, nil
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

func writeError(w http.ResponseWriter, status int, code errors.Code, msg string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = msg
	writeJSON(w, status, body)
}

// writeStatusError maps structured error codes to HTTP statuses.
func writeStatusError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodePackageNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidPackage, errors.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	case errors.ErrCodeConnectionFailed, errors.ErrCodeNetwork:
		status = http.StatusBadGateway
	case "":
		code = errors.ErrCodeInternal
	}
	writeError(w, status, code, errors.UserMessage(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONBytes(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
