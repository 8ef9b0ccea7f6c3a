package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmmoran/cdecl/pkg/action/snapshot"
)

func init() {
	rootCmd.AddCommand(NewSnapshotCommand())
}

func NewSnapshotCommand() *cobra.Command {
	var manifestPath string

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "record and compare layout versions",
	}
	snapshotCmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", "snapshots/manifest.yaml", "manifest file")

	var name, ver string
	createCmd := &cobra.Command{
		Use:   "create FILE",
		Short: "record the current layout of FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if ver == "" {
				return fmt.Errorf("--version is required")
			}
			path, err := snapshot.Generate(newOptions(args[0]), manifestPath, name, ver)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), path)
			return nil
		},
	}
	createCmd.Flags().StringVarP(&name, "name", "n", "api", "snapshot name")
	createCmd.Flags().StringVarP(&ver, "version", "v", "", "snapshot version")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded snapshots",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			m, err := snapshot.List(manifestPath)
			if err != nil {
				return err
			}
			for _, s := range m.Snapshots {
				marker := " "
				switch s.Version {
				case m.CurrentVersion:
					marker = "*"
				case m.PreviousVersion:
					marker = "-"
				}
				fmt.Fprintf(c.OutOrStdout(), "%s %s %s %s %s\n", marker, s.Name, s.Version, s.Platform, s.File)
			}
			return nil
		},
	}

	diffCmd := &cobra.Command{
		Use:   "diff",
		Short: "compare the current and previous snapshots",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			diff, err := snapshot.DiffCurrentWithPrevious(manifestPath)
			if err != nil {
				return err
			}
			if diff == "" {
				fmt.Fprintln(c.OutOrStdout(), "no layout changes")
				return nil
			}
			fmt.Fprint(c.OutOrStdout(), diff)
			return nil
		},
	}

	snapshotCmd.AddCommand(createCmd, listCmd, diffCmd)
	return snapshotCmd
}
