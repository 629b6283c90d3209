package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// photosOpts holds the command-line flags for the photos command.
type photosOpts struct {
	dir     string // photo directory to scan
	filter  string // restrict to one folder name
	noCache bool   // disable the inventory cache
	refresh bool   // rescan even on a cache hit
}

// photosCommand creates the photos command: list the scanned inventory.
func (c *CLI) photosCommand() *cobra.Command {
	var opts photosOpts

	cmd := &cobra.Command{
		Use:   "photos",
		Short: "List the photos the solver would place",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			runner, err := c.newRunner(cmd, cfg.Cache, opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			buildOpts := buildOptions(cfg, opts.dir, opts.filter, 0, 0, opts.refresh)
			records, err := runner.Scan(cmd.Context(), buildOpts)
			if err != nil {
				return err
			}

			if len(records) == 0 {
				printInfo("No photos found in %s", buildOpts.Dir)
				return nil
			}

			headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				dims := "—"
				if rec.Width > 0 && rec.Height > 0 {
					dims = fmt.Sprintf("%dx%d", rec.Width, rec.Height)
				}
				folder := rec.FolderName
				if folder == "" {
					folder = "—"
				}
				rows = append(rows, []string{
					folder,
					fmt.Sprintf("%d", rec.Seq),
					rec.FileName,
					dims,
				})
			}

			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("Folder", "#", "File", "Pixels").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return headerStyle
					}
					if col == 3 {
						return StyleDim
					}
					return StyleValue
				})

			fmt.Println(t.Render())
			printDetail("%d photos in %s", len(records), buildOpts.Dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "photo directory to scan")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "restrict the listing to one folder name")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the inventory cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "rescan even when cached")

	return cmd
}
