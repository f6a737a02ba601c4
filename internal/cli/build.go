package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gliffydb/internal/config"
	"github.com/matzehuels/gliffydb/pkg/blueprint"
	gio "github.com/matzehuels/gliffydb/pkg/io"
	"github.com/matzehuels/gliffydb/pkg/pipeline"
)

// outputFlags are shared by build and schema.
type outputFlags struct {
	output     string
	sink       string
	name       string
	title      string
	background string
	indent     string
	copy       bool
	noCache    bool
	refresh    bool
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write the document to this path instead of the sink")
	cmd.Flags().StringVar(&f.sink, "sink", "", "sink: file, afs, redis, mongo or null (default from config)")
	cmd.Flags().StringVar(&f.name, "name", "", "document name in the sink")
	cmd.Flags().StringVar(&f.title, "title", "", "document title")
	cmd.Flags().StringVar(&f.background, "background", "", "page background color")
	cmd.Flags().StringVar(&f.indent, "indent", "", "pretty-print with this indent (e.g. \"  \")")
	cmd.Flags().BoolVar(&f.copy, "copy", false, "copy the document to the clipboard")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "rebuild even when cached")
}

// apply copies the flags and config defaults into opts.
func (f *outputFlags) apply(opts *pipeline.Options, cfg config.Config) {
	opts.Name = f.name
	opts.Title = firstNonEmpty(f.title, cfg.Document.Title)
	opts.Background = firstNonEmpty(f.background, cfg.Document.Background)
	opts.Indent = firstNonEmpty(f.indent, cfg.Document.Indent)
	opts.Refresh = f.refresh
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		flags  outputFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "build <blueprint>",
		Short: "Build a Gliffy document from a blueprint file",
		Long: `Build a Gliffy document from a TOML, YAML or JSON blueprint.

The format follows the file extension; use --format when reading stdin ("-").
Documents go to the configured sink unless -o names a file.`,
		Example: `  gliffydb build checkout.toml
  gliffydb build checkout.yaml -o diagrams/checkout.gliffy --indent "  "
  cat checkout.json | gliffydb build - --format json --copy`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, f, err := readBlueprint(cmd.InOrStdin(), args[0], format)
			if err != nil {
				return err
			}
			if flags.name == "" && args[0] != "-" {
				flags.name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			opts := pipeline.Options{Blueprint: data, Format: f}
			return c.runPipeline(cmd, &flags, opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "", "blueprint format: toml, yaml or json (default from extension)")
	return cmd
}

func readBlueprint(stdin io.Reader, path, format string) ([]byte, blueprint.Format, error) {
	if format == "" {
		if path == "-" {
			format = string(blueprint.FormatTOML)
		} else {
			format = filepath.Ext(path)
		}
	}
	f, err := blueprint.ParseFormat(format)
	if err != nil {
		return nil, "", err
	}
	var data []byte
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, "", fmt.Errorf("read blueprint: %w", err)
	}
	return data, f, nil
}

// runPipeline executes opts and reports the result. It serves build and
// schema.
func (c *CLI) runPipeline(cmd *cobra.Command, flags *outputFlags, opts pipeline.Options) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	flags.apply(&opts, cfg)
	opts.Logger = loggerFromContext(ctx)
	if opts.Style == nil && opts.Source() == pipeline.SourceSchema {
		style := cfg.TableStyle()
		opts.Style = &style
	}

	var runner *pipeline.Runner
	if flags.output != "" {
		runner, err = c.newRunner(cfg, flags.noCache, nil)
	} else {
		s, serr := c.openSink(ctx, cfg, flags.sink)
		if serr != nil {
			return serr
		}
		defer s.Close()
		runner, err = c.newRunner(cfg, flags.noCache, s)
	}
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	prog := newProgress(opts.Logger)
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	prog.done("Built document")

	location := result.Location
	if flags.output != "" {
		if location, err = gio.WriteFile(flags.output, result.Document); err != nil {
			return err
		}
	}
	if flags.copy {
		if err := clipboard.WriteAll(string(result.Document)); err != nil {
			printWarning("Could not copy to clipboard: %v", err)
		} else {
			printInfo("Copied %d bytes to the clipboard", len(result.Document))
		}
	}

	printSuccess("Built %s document", opts.Source())
	printStats(result.Stats.NodeCount, result.CacheInfo.DocumentHit)
	if location != "" {
		printFile(location)
	}
	return nil
}
