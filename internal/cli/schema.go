package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gliffydb/pkg/errors"
	"github.com/matzehuels/gliffydb/pkg/pipeline"
	"github.com/matzehuels/gliffydb/pkg/schema"
	"github.com/matzehuels/gliffydb/pkg/tables"
)

// defaultSchemaName is the sink name of schema documents without --name.
const defaultSchemaName = "output"

// schemaCommand creates the schema command.
func (c *CLI) schemaCommand() *cobra.Command {
	var (
		flags     outputFlags
		names     []string
		pick      bool
		showTypes bool
	)

	cmd := &cobra.Command{
		Use:   "schema <driver> <dsn>",
		Short: "Draw the tables of a database as a Gliffy document",
		Long: `Draw the tables of a live database as a Gliffy document.

Each table becomes a box with a bold header and one row per column; foreign
keys become connector lines. Supported drivers: sqlite, postgres, mysql.`,
		Example: `  gliffydb schema sqlite ./shop.db
  gliffydb schema postgres "postgres://localhost/shop?sslmode=disable" --table users --table orders
  gliffydb schema mysql "user:pass@tcp(localhost:3306)/shop" --pick -o shop.gliffy`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			spinner := newSpinnerWithContext(ctx, "Connecting to "+args[0]+"...")
			spinner.Start()
			insp, err := schema.Open(ctx, args[0], args[1])
			spinner.Stop()
			if err != nil {
				return err
			}
			defer insp.Close()

			if pick {
				chosen, err := pickTables(cmd, insp)
				if err != nil {
					return err
				}
				names = chosen
			}
			logger.Debug("schema source", "driver", args[0], "tables", names)

			if flags.name == "" {
				flags.name = defaultSchemaName
			}
			opts := pipeline.Options{Inspector: insp, Tables: names}
			if showTypes {
				cfg, err := c.loadConfig()
				if err != nil {
					return err
				}
				style := cfg.TableStyle()
				style.ShowTypes = tables.Bool(true)
				opts.Style = &style
			}
			return c.runPipeline(cmd, &flags, opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringArrayVarP(&names, "table", "t", nil, "only draw this table (repeatable)")
	cmd.Flags().BoolVar(&pick, "pick", false, "choose tables interactively")
	cmd.Flags().BoolVar(&showTypes, "types", false, "show column types")
	cmd.MarkFlagsMutuallyExclusive("table", "pick")
	return cmd
}

func pickTables(cmd *cobra.Command, insp schema.Inspector) ([]string, error) {
	all, err := insp.Tables(cmd.Context())
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "the database has no tables")
	}

	model := NewTablePickerModel(all)
	final, err := tea.NewProgram(model,
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.ErrOrStderr()),
	).Run()
	if err != nil {
		return nil, fmt.Errorf("table picker: %w", err)
	}
	chosen := final.(TablePickerModel).Chosen()
	if len(chosen) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no tables selected")
	}
	return chosen, nil
}
