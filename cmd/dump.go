package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/cmmoran/cdecl/pkg/action/dump"
	"github.com/cmmoran/cdecl/pkg/parser"
)

func init() {
	rootCmd.AddCommand(NewTokensCommand(), NewUnitsCommand(), NewDeclsCommand())
}

func newDumpCommand(use, short string, write func(io.Writer, *parser.Parser) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " FILE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			p, err := parseFile(args[0])
			if err != nil {
				return err
			}
			return write(c.OutOrStdout(), p)
		},
	}
}

func NewTokensCommand() *cobra.Command {
	return newDumpCommand("tokens", "print the token stream", dump.Tokens)
}

func NewUnitsCommand() *cobra.Command {
	return newDumpCommand("units", "print the statement-unit tree", dump.Units)
}

func NewDeclsCommand() *cobra.Command {
	return newDumpCommand("decls", "print parsed declarations", dump.Decls)
}
