package artifact

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/appfetch/appfetch-cli/cmd/cmdutils"
	"github.com/appfetch/appfetch-cli/config"
	"github.com/appfetch/appfetch-cli/internal/provider"
)

func GetRootCmd(f *cmdutils.Factory) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "artifact",
		Short: "List, resolve and download build artifacts",
	}

	rootCmd.AddCommand(newListCmd(f))
	rootCmd.AddCommand(newDownloadCmd(f))

	return rootCmd
}

// singleProvider picks the one backend an artifact command operates on.
// Artifact ids and app ids are provider-scoped, so when more than one
// backend is configured the user has to name one.
func singleProvider(ctx context.Context, f *cmdutils.Factory) (provider.Provider, error) {
	if config.Global.Provider != "" {
		return f.Provider(ctx, config.Global.Provider)
	}
	providers, err := f.Providers(ctx)
	if err != nil {
		return nil, err
	}
	if len(providers) > 1 {
		return nil, fmt.Errorf("multiple backends configured; pick one with --provider")
	}
	return providers[0], nil
}
