// Package cli implements the gliffydb command-line interface.
//
// # Commands
//
//   - build: turn a blueprint file into a Gliffy document
//   - schema: draw the tables of a live database
//   - preview: render a blueprint or schema to SVG
//   - inspect: summarize an existing .gliffy document
//   - serve: run the HTTP API
//   - config, cache, completion: housekeeping
//
// All commands accept --verbose (-v) for debug logging and --config to
// point at a config file other than the default.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gliffydb/internal/config"
	"github.com/matzehuels/gliffydb/pkg/buildinfo"
	"github.com/matzehuels/gliffydb/pkg/cache"
	"github.com/matzehuels/gliffydb/pkg/pipeline"
	"github.com/matzehuels/gliffydb/pkg/sink"
)

// =============================================================================
// Constants
// =============================================================================

const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     *config.Config
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "GliffyDB builds Gliffy diagrams from blueprints and database schemas",
		Long:          `GliffyDB builds Gliffy diagram documents from TOML, YAML or JSON blueprints and from the tables of live SQLite, PostgreSQL and MySQL databases.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/gliffydb/config.toml)")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.schemaCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config once per process.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.config != nil {
		return *c.config, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("loaded config", "path", c.configPath, "sink", cfg.Sink.Kind)
	c.config = &cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. A nil sink skips the
// store step.
func (c *CLI) newRunner(cfg config.Config, noCache bool, s sink.Sink) (*pipeline.Runner, error) {
	ch, err := newCache(cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, s, c.Logger), nil
}

func newCache(cfg config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Disabled {
		return cache.NewNullCache(), nil
	}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return cache.NewRedisCache(client, appName+":cache:"), nil
	}
	dir := cfg.Dir
	if dir == "" {
		var err error
		if dir, err = config.CacheDir(); err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// openSink opens the sink named by kind, or the configured one when kind is
// empty.
func (c *CLI) openSink(ctx context.Context, cfg config.Config, kind string) (sink.Sink, error) {
	sc := cfg.Sink
	if kind != "" {
		sc.Kind = kind
	}
	return sink.Open(ctx, sc)
}
