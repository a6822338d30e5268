// Package cache provides pluggable caching for export results.
//
// Three backends implement the Cache interface: FileCache for CLI usage,
// RedisCache for the HTTP server, and NullCache to disable caching. Keys
// are produced by a Keyer so that every consumer derives them the same way.
package cache

import (
	"context"
	"strconv"
	"time"
)

// Cache is the interface all cache backends implement.
// Get returns (data, hit, error); a miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives cache keys for the cacheable artifacts of an export.
type Keyer interface {
	// PackagesKey keys the flattened package list of a model source.
	PackagesKey(source string) string

	// GraphKey keys the export graph of one package within a source.
	GraphKey(source string, packageID int) string

	// ArtifactKey keys a rendered artifact derived from a graph.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts captures the render parameters that shape an artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Layout string `json:"layout"`
}

// DefaultKeyer is the standard key derivation.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// PackagesKey generates a key for a source's package list.
// The source identifier (file path or bridge URL) is hashed so keys stay
// filesystem-safe regardless of what it contains.
func (k *DefaultKeyer) PackagesKey(source string) string {
	return "packages:" + Hash([]byte(source))
}

// GraphKey generates a key for one package's export graph.
func (k *DefaultKeyer) GraphKey(source string, packageID int) string {
	return hashKey("graph", source, strconv.Itoa(packageID))
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}
