package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/ringplace/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the JSON HTTP API.

Endpoints:
  GET    /healthz
  POST   /v1/placements
  GET    /v1/placements/render.{format}
  POST   /v1/plans
  GET    /v1/plans
  GET    /v1/plans/{id-or-name}
  DELETE /v1/plans/{id-or-name}

The cache and plan store come from the config file. The server stops
gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			c.Logger.Info("starting server",
				"cache", cfg.Cache.Backend,
				"store", cfg.Store.Backend)
			return server.New(runner, store, c.Logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
