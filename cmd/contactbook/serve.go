package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	contacthandler "contactbook/internal/contact/handler"
	"contactbook/internal/platform/httpserver"
	httptransport "contactbook/internal/transport/http"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the contact directory over HTTP",
		Long: `serve exposes the directory as a JSON API together with /health and
/metrics. Every successful change is saved immediately and the directory is
saved once more on shutdown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, a, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			// Already validated by setup.
			today, _ := opts.pinnedToday()
			return serve(ctx, a, today)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides the config")
	return cmd
}

func serve(ctx context.Context, a *app, today time.Time) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := httptransport.Deps{
		Logger:   a.logger,
		Registry: a.registry,
		Contacts: contacthandler.New(a.svc, a.logger, contacthandler.WithAutosave()),
		Health:   a.health,
		Today:    today,
	}
	srv := httpserver.New(a.cfg.Server.Addr, httptransport.NewRouter(deps))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.InfoContext(gctx, "starting contactbook", "addr", a.cfg.Server.Addr)
		return httpserver.Run(gctx, srv, a.cfg.Server.ShutdownTimeout)
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.InfoContext(gctx, "shutting down")
		return nil
	})
	serveErr := g.Wait()

	if err := a.save(ctx); err != nil {
		return err
	}
	return serveErr
}
