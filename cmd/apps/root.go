package apps

import (
	"github.com/spf13/cobra"

	"github.com/appfetch/appfetch-cli/cmd/cmdutils"
)

func GetRootCmd(f *cmdutils.Factory) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "apps",
		Short: "Discover apps across the configured backends",
	}

	rootCmd.AddCommand(newListCmd(f))

	return rootCmd
}
