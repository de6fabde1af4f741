package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartpack/internal/server"
	"github.com/matzehuels/chartpack/pkg/observability"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the visuals over HTTP",
		Long: `Serve the visuals over HTTP.

Routes:
  GET  /healthz
  GET  /v1/visuals
  POST /v1/visuals/{type}/render?format=svg|png|pdf|json
  POST /v1/visuals/{type}/objects/{object}
  GET  /v1/stats

Set cache.backend = "redis" in the config file to share rendered
artifacts and location lookups between instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			if addr == "" {
				addr = c.Config.Server.Addr
			}
			stats := &observability.Counters{}
			var hooks observability.Hooks = stats
			if c.Logger.GetLevel() <= log.DebugLevel {
				hooks = observability.Fanout(stats, debugHooks{logger: c.Logger})
			}
			observability.Register(hooks)

			srv := server.New(server.Config{
				Runner:         runner,
				Stats:          stats,
				Addr:           addr,
				Logger:         c.Logger,
				RequestTimeout: c.Config.Server.Timeout.Duration,
			})
			c.print().info("Listening on %s", StyleLink.Render("http://localhost"+addr))
			return srv.Serve(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config or :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
