package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/gliffydb/internal/config"
	"github.com/matzehuels/gliffydb/pkg/api"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		sinkArg string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the document API over HTTP",
		Long: `Serve the document API over HTTP.

  GET  /healthz        build info
  POST /v1/documents   blueprint in, Gliffy JSON out (store=true writes to the sink)
  POST /v1/preview     blueprint in, SVG out`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			s, err := c.openSink(ctx, cfg, sinkArg)
			if err != nil {
				return err
			}
			defer s.Close()
			runner, err := c.newRunner(cfg, noCache, s)
			if err != nil {
				return err
			}
			defer runner.Cache.Close()

			addr = firstNonEmpty(addr, cfg.Server.Addr)
			printInfo("Serving on %s", StyleLink.Render("http://"+addr))
			logger := loggerFromContext(ctx)
			return api.New(runner, api.WithLogger(logger)).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config or "+config.DefaultAddr+")")
	cmd.Flags().StringVar(&sinkArg, "sink", "", "sink for stored documents (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
