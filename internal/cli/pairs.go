package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/spf13/cobra"

	"github.com/driftwall/driftwall/pkg/layout"
)

// pairsOpts holds the command-line flags for the pairs command.
type pairsOpts struct {
	output string // output file
	format string // svg or png
}

// pairsCommand creates the pairs command, a debug view of the matching
// constraint: which tiles were allowed to overlap each other.
func (c *CLI) pairsCommand() *cobra.Command {
	opts := pairsOpts{format: "svg"}

	cmd := &cobra.Command{
		Use:   "pairs [layout.json]",
		Short: "Render the overlap pairs of a layout as a graph",
		Long: `Pairs renders the matching structure of a solved layout with Graphviz:
every placed tile is a node, and an edge connects the two tiles of each
sanctioned overlap. Unpaired tiles render as isolated nodes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != "svg" && opts.format != "png" {
				return fmt.Errorf("invalid format: %s (must be 'svg' or 'png')", opts.format)
			}

			lf, err := loadLayoutFile(args[0])
			if err != nil {
				return err
			}

			dot := pairsDOT(lf.Layout)
			data, err := renderDOT(cmd, dot, opts.format)
			if err != nil {
				return err
			}

			out := opts.output
			if out == "" {
				out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + "_pairs." + opts.format
			}
			if err := os.WriteFile(out, data, 0644); err != nil {
				return err
			}

			paired := 0
			for _, it := range lf.Layout.Items {
				if it.Partner >= 0 {
					paired++
				}
			}
			printSuccess("Rendered %d tiles, %d in pairs", len(lf.Layout.Items), paired)
			printFile(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: layout name with _pairs suffix)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), png")

	return cmd
}

// pairsDOT converts a layout's matching structure to Graphviz DOT format.
// Paired tiles are filled; isolated tiles are dashed.
func pairsDOT(l layout.Layout) string {
	var buf bytes.Buffer
	buf.WriteString("graph pairs {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=10];\n")
	buf.WriteString("\n")

	for _, it := range l.Items {
		label := filepath.Base(it.ID)
		if it.Partner >= 0 {
			fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=lightblue];\n", it.ID, label)
		} else {
			fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded,dashed\"];\n", it.ID, label)
		}
	}

	buf.WriteString("\n")
	for i, it := range l.Items {
		// Each pair renders once; the lower index owns the edge.
		if it.Partner > i {
			fmt.Fprintf(&buf, "  %q -- %q;\n", it.ID, l.Items[it.Partner].ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// renderDOT renders a DOT graph with Graphviz.
func renderDOT(cmd *cobra.Command, dot, format string) ([]byte, error) {
	ctx := cmd.Context()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	target := graphviz.SVG
	if format == "png" {
		target = graphviz.PNG
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, target, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
