package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	gio "github.com/matzehuels/gliffydb/pkg/io"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var tree bool

	cmd := &cobra.Command{
		Use:   "inspect <document.gliffy>",
		Short: "Summarize a Gliffy document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := gio.ImportDocument(args[0])
			if err != nil {
				return err
			}

			fmt.Println(StyleTitle.Render(doc.Metadata.Title))
			printKeyValue("Version", doc.Version)
			printKeyValue("Objects", strconv.Itoa(doc.Count()))
			printKeyValue("Node index", strconv.Itoa(doc.Stage.NodeIndex))
			printKeyValue("Kinds", kindSummary(doc))
			if tree {
				printNewline()
				writeTree(cmd.OutOrStdout(), doc)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&tree, "tree", false, "print the object tree")
	return cmd
}

// kindSummary counts objects per kind, e.g. "Group 2 · Shape 6 · Text 6".
func kindSummary(doc *gio.Document) string {
	counts := map[string]int{}
	var kinds []string
	doc.Walk(func(o gio.Object, _ int) {
		k := o.Kind()
		if counts[k] == 0 {
			kinds = append(kinds, k)
		}
		counts[k]++
	})
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = fmt.Sprintf("%s %d", k, counts[k])
	}
	return strings.Join(parts, " · ")
}

func writeTree(w io.Writer, doc *gio.Document) {
	doc.Walk(func(o gio.Object, depth int) {
		fmt.Fprintf(w, "%s%s %s %s\n",
			strings.Repeat("  ", depth),
			StyleValue.Render(o.Kind()),
			StyleNumber.Render(fmt.Sprintf("#%d", o.ID)),
			StyleDim.Render(fmt.Sprintf("order %s at (%d,%d) %dx%d", o.OrderString(), o.X, o.Y, o.Width, o.Height)))
	})
}
