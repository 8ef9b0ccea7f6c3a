package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmmoran/cdecl/pkg/action/layout"
)

func init() {
	rootCmd.AddCommand(NewLayoutCommand())
}

func NewLayoutCommand() *cobra.Command {
	var outDir, outFile string

	// layoutCmd represents the cdecl layout command
	var layoutCmd = &cobra.Command{
		Use:   "layout FILE",
		Short: "report type layouts",
		Long:  "Compute size, alignment, field offsets and enumerator values for every declared type",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if outDir == "" {
				p, err := parseFile(args[0])
				if err != nil {
					return err
				}
				return layout.Write(c.OutOrStdout(), p.LayoutReport())
			}
			opts := newOptions(args[0])
			opts.OutDir, opts.OutFile = outDir, outFile
			path, err := layout.Generate(opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), path)
			return nil
		},
	}
	layoutCmd.Flags().StringVarP(&outDir, "output-directory", "o", "", "directory to write the report to (default: stdout)")
	layoutCmd.Flags().StringVarP(&outFile, "output-file", "f", "", "report file name (default: <input>.layout.yaml)")

	return layoutCmd
}
