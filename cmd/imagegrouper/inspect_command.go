package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"ImageGrouper/internal/compare"
	"ImageGrouper/internal/dhash"
)

type inspectJSON struct {
	Side          int      `json:"side"`
	Paths         []string `json:"paths"`
	Digests       []string `json:"digests"`
	Identical     bool     `json:"identical"`
	DifferingRows []int    `json:"differing_rows"`
}

func newInspectCommand(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <file>...",
		Short: "Show the fingerprint of images and where they differ",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}

			res, err := compare.Files(args, dhash.Options{Side: cfg.Side, AutoOrient: cfg.AutoOrient})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, inspectJSON{
					Side:          res.Side,
					Paths:         res.Paths,
					Digests:       res.Digests,
					Identical:     res.Identical(),
					DifferingRows: res.DifferingRows,
				})
			}
			printInspect(cmd, res)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the comparison as JSON")
	return cmd
}

func printInspect(cmd *cobra.Command, res *compare.Result) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Side:  %d (%d-bit hash)\n\n", res.Side, res.Side*res.Side)

	fmt.Fprintln(out, fingerprintTable(res))
	fmt.Fprintln(out)

	if len(res.Paths) == 1 {
		for row := 0; row < res.Side; row++ {
			fmt.Fprintf(out, "  %s\n", res.Row(0, row))
		}
		return
	}

	if res.Identical() {
		fmt.Fprintln(out, "Result: all fingerprints are identical (images would be grouped).")
		return
	}

	fmt.Fprintf(out, "Differing rows: %v\n\n", res.DifferingRows)
	for _, row := range res.DifferingRows {
		fmt.Fprintf(out, "Row %d differs:\n", row)
		for i := range res.Paths {
			fmt.Fprintf(out, "  [%d] %s\n", i, res.Row(i, row))
		}
		fmt.Fprintln(out)
	}
}

// fingerprintTable lists one row per file: index, path, digest, bits set.
func fingerprintTable(res *compare.Result) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "File", "Digest", "Bits set"})
	for i, p := range res.Paths {
		tw.AppendRow(table.Row{i, p, res.Digests[i], ones(res.Bits[i])})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	return tw.Render()
}

func ones(b dhash.Bits) int {
	return strings.Count(b.String(), "1")
}
