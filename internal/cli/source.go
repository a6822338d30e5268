package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mfeldt/modelgraph/pkg/cache"
	"github.com/mfeldt/modelgraph/pkg/config"
	"github.com/mfeldt/modelgraph/pkg/errors"
	"github.com/mfeldt/modelgraph/pkg/httputil"
	"github.com/mfeldt/modelgraph/pkg/model"
	"github.com/mfeldt/modelgraph/pkg/model/remote"
	"github.com/mfeldt/modelgraph/pkg/model/snapshot"
)

// sourceOpts holds the model-source flags shared by all source-backed
// commands. Flags override the config file; the config file fills in
// whatever the flags leave unset.
type sourceOpts struct {
	configPath string
	snapshot   string
	bridge     string
	noCache    bool
}

// addSourceFlags registers the shared source flags on cmd.
func addSourceFlags(cmd *cobra.Command, opts *sourceOpts) {
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/modelgraph/config.toml)")
	cmd.Flags().StringVar(&opts.snapshot, "snapshot", "", "path to a JSON model snapshot")
	cmd.Flags().StringVar(&opts.bridge, "bridge", "", "base URL of a running model bridge")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
}

// source is an opened model source with its identity and cleanup.
type source struct {
	repo model.Repository

	// id identifies the source for cache scoping: the snapshot path or
	// the bridge URL.
	id string

	// cfg is the resolved configuration the source was opened with.
	cfg config.Config

	close func()
}

// openSource resolves flags and config into a connected repository.
// A snapshot wins over a bridge when both are configured.
func (c *CLI) openSource(ctx context.Context, opts sourceOpts) (*source, error) {
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return nil, err
	}

	snapshotPath := opts.snapshot
	if snapshotPath == "" {
		snapshotPath = cfg.Source.Snapshot
	}
	bridgeURL := opts.bridge
	if bridgeURL == "" {
		bridgeURL = cfg.Source.Bridge
	}

	switch {
	case snapshotPath != "":
		repo, err := snapshot.Open(snapshotPath)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("opened snapshot", "path", snapshotPath)
		return &source{repo: repo, id: snapshotPath, cfg: cfg, close: func() {}}, nil

	case bridgeURL != "":
		hcache, err := bridgeCache(cfg, opts.noCache)
		if err != nil {
			return nil, err
		}
		repo, err := remote.Open(ctx, bridgeURL, hcache)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("connected to bridge", "url", bridgeURL)
		return &source{repo: repo, id: bridgeURL, cfg: cfg, close: func() {}}, nil

	default:
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"no model source configured: pass --snapshot or --bridge, or set one in the config file")
	}
}

// bridgeCache builds the HTTP response cache for bridge lookups.
func bridgeCache(cfg config.Config, noCache bool) (*httputil.Cache, error) {
	if noCache || cfg.Cache.Backend == "none" {
		return nil, nil
	}
	return httputil.NewCache(cfg.Cache.Dir, cfg.Cache.TTL.Duration)
}

// newCache builds the export cache from the config's backend selection.
// Cache failures degrade to a null cache rather than failing the command.
func (c *CLI) newCache(ctx context.Context, cfg config.Config, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}

	switch cfg.Cache.Backend {
	case "none":
		return cache.NewNullCache()
	case "redis":
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.Redis)
		if err != nil {
			c.Logger.Warn("redis unavailable, caching disabled", "addr", cfg.Cache.Redis, "err", err)
			return cache.NewNullCache()
		}
		return rc
	default:
		dir := cfg.Cache.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return cache.NewNullCache()
			}
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			c.Logger.Warn("file cache unavailable, caching disabled", "dir", dir, "err", err)
			return cache.NewNullCache()
		}
		return fc
	}
}
