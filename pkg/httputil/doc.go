// Package httputil provides HTTP utilities for the model bridge client.
//
// # Overview
//
// This package provides infrastructure used by the remote repository
// adapter:
//
//   - [Cache]: File-based HTTP response caching
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores HTTP responses in the filesystem (~/.cache/modelgraph/)
// with configurable TTL. This speeds up repeated exports against the same
// bridge and reduces load on the modeling application behind it.
//
// Usage:
//
//	cache, err := httputil.NewCache("", 24 * time.Hour)
//	ok, err := cache.Get("elements:42", &el)  // Check cache
//	if !ok {
//	    el = fetchFromBridge()
//	    cache.Set("elements:42", el)          // Store for later
//	}
//
// Cache keys should be namespaced by resource kind to avoid collisions.
//
// # Retry
//
// [Retry] wraps HTTP requests with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// It uses exponential backoff to avoid hammering a struggling bridge:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return fetchPage(url)
//	})
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Cache directory: ~/.cache/modelgraph/
//   - Default TTL: 24 hours
//   - Max retries: 3
//   - Base backoff: 1 second
//
// The cache can be cleared via `modelgraph cache clear` or by deleting
// the cache directory.
package httputil
