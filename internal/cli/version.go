package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m3rciful/librarybot/core/buildinfo"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the librarybot version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "librarybot %s\n", buildinfo.Summary())
		},
	}
}
