package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-curriculo/pkg/transport/httpapi"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve POST /generate_pdf",
		Long: `Starts the HTTP service that accepts a JSON record on POST /generate_pdf
and answers with the PDF as an attachment. The request contract is served on
GET /openapi.yaml. Stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Addr
			}

			backend, release, err := a.backend("")
			if err != nil {
				return err
			}
			defer release()

			server, err := httpapi.New(backend,
				httpapi.WithLogger(a.logger.Named("http")),
				httpapi.WithFormOptions(a.formOptions()...),
				httpapi.WithAllowedOrigins(a.cfg.AllowedOrigins...),
			)
			if err != nil {
				return err
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				return server.ListenAndServe(ctx, addr)
			})
			g.Go(func() error {
				<-ctx.Done()
				a.logger.Info("shutting down", zap.Error(context.Cause(ctx)))
				return nil
			})
			return g.Wait()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (defaults to the configured addr)")
	return cmd
}
