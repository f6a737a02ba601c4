package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gliffydb/pkg/errors"
	"github.com/matzehuels/gliffydb/pkg/pipeline"
	"github.com/matzehuels/gliffydb/pkg/preview"
)

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		output   string
		format   string
		dot      bool
		detailed bool
		tables   []string
	)

	cmd := &cobra.Command{
		Use:   "preview <blueprint> | preview <driver> <dsn>",
		Short: "Render a structural SVG preview",
		Long: `Render a structural preview of a blueprint or database schema with Graphviz.

Groups become clusters, shapes become labeled nodes and connected lines become
edges. Positions are laid out by Graphviz, not taken from the document.`,
		Example: `  gliffydb preview checkout.toml
  gliffydb preview sqlite ./shop.db -o shop.svg
  gliffydb preview checkout.yaml --dot --detailed`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			opts := pipeline.Options{
				Title:      cfg.Document.Title,
				Background: cfg.Document.Background,
				Logger:     loggerFromContext(ctx),
			}
			var name string
			if len(args) == 1 {
				data, f, err := readBlueprint(cmd.InOrStdin(), args[0], format)
				if err != nil {
					return err
				}
				opts.Blueprint, opts.Format = data, f
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			} else {
				style := cfg.TableStyle()
				opts.Dialect, opts.DSN, opts.Tables, opts.Style = args[0], args[1], tables, &style
				name = defaultSchemaName
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			s, err := pipeline.BuildStage(ctx, opts)
			if err != nil {
				return err
			}
			src := preview.ToDOT(s, preview.Options{Detailed: detailed})

			var data []byte
			ext := ".svg"
			if dot {
				data, ext = []byte(src), ".dot"
			} else {
				spinner := newSpinnerWithContext(ctx, "Rendering preview...")
				spinner.Start()
				data, err = preview.RenderSVG(ctx, src)
				spinner.Stop()
				if err != nil {
					return err
				}
			}

			if output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if output == "" {
				output = name + ext
			}
			if err := errors.ValidateOutputPath(output); err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printSuccess("Rendered preview")
			printStats(s.NodeCount(), false)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path, \"-\" for stdout (default <name>.svg)")
	cmd.Flags().StringVar(&format, "format", "", "blueprint format: toml, yaml or json")
	cmd.Flags().BoolVar(&dot, "dot", false, "emit Graphviz DOT instead of SVG")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label nodes with id, order and uid")
	cmd.Flags().StringArrayVarP(&tables, "table", "t", nil, "only draw this table (repeatable)")
	return cmd
}
