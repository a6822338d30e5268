package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/mfeldt/modelgraph/internal/server"
)

// serveCommand creates the serve command exposing exports over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		opts sourceOpts
		addr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve exports over HTTP",
		Long: `Serve exports over HTTP.

The server exposes the model source's package list at /packages and each
package's export at /packages/{id}/graph as a JSON file download. Exports
are built on demand, one at a time per source, and cached.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts, addr)
		},
	}

	addSourceFlags(cmd, &opts)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, else :8080)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts sourceOpts, addr string) error {
	src, err := c.openSource(ctx, opts)
	if err != nil {
		return err
	}
	defer src.close()

	exportCache := c.newCache(ctx, src.cfg, opts.noCache)
	defer exportCache.Close()

	if addr == "" {
		addr = src.cfg.Server.Addr
	}

	srv := server.New(src.repo, server.Options{
		Source: src.id,
		Cache:  exportCache,
		TTL:    src.cfg.Cache.TTL.Duration,
		Logger: c.Logger,
	})

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()
	c.Logger.Info("serving", "addr", addr, "source", src.id)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
