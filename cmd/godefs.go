package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cmmoran/cdecl/pkg/action/godefs"
)

func init() {
	rootCmd.AddCommand(NewGodefsCommand())
}

func NewGodefsCommand() *cobra.Command {
	var outDir, outFile, pkg, importPath string

	var godefsCmd = &cobra.Command{
		Use:   "godefs FILE",
		Short: "generate Go mirrors of C types",
		Long:  "Generate Go types whose size and field offsets match the C layout on the selected platform",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			opts := newOptions(args[0])
			opts.OutDir, opts.OutFile = outDir, outFile
			opts.Package, opts.ImportPath = pkg, importPath
			opts.Pluralize = viper.GetBool("pluralize")
			path, err := godefs.Generate(opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), path)
			return nil
		},
	}
	godefsCmd.Flags().StringVarP(&outDir, "output-directory", "o", "cdefs", "directory to write new types")
	godefsCmd.Flags().StringVarP(&outFile, "output-file", "f", "", "output file where types will be written (default: <input>_gen.go)")
	godefsCmd.Flags().StringVarP(&pkg, "package", "p", "", "package name (default: base of output directory)")
	godefsCmd.Flags().StringVar(&importPath, "import-path", "", "import path of the output directory (default: resolved from go.mod)")
	godefsCmd.Flags().BoolP("pluralize", "P", false, "add slice types for generated structs")
	_ = viper.BindPFlag("pluralize", godefsCmd.Flags().Lookup("pluralize"))

	return godefsCmd
}
