package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func versionString() string {
	return fmt.Sprintf("tilegrid %s (%s)", Version, CommitHash)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), versionString())
			return err
		},
	}
}
