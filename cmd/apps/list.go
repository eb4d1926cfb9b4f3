package apps

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/appfetch/appfetch-cli/cmd/cmdutils"
	"github.com/appfetch/appfetch-cli/config"
	"github.com/appfetch/appfetch-cli/internal/artifact"
	"github.com/appfetch/appfetch-cli/internal/provider"
	"github.com/appfetch/appfetch-cli/internal/style"
	"github.com/appfetch/appfetch-cli/util/common/printer"
)

// newListCmd lists apps. With several backends configured the listing
// is best-effort: a failing backend becomes a warning on stderr and the
// others still print. With a single backend the failure is fatal.
func newListCmd(f *cmdutils.Factory) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List apps visible to the configured backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			providers, err := f.Providers(ctx)
			if err != nil {
				return err
			}

			var apps []artifact.App
			if len(providers) == 1 {
				apps, err = providers[0].ListApps(ctx)
				if err != nil {
					return err
				}
			} else {
				var warnings []provider.Warning
				apps, warnings = provider.Sweep(ctx, providers)
				for _, w := range warnings {
					fmt.Fprintf(os.Stderr, "%s skipping %s: %v\n", style.WarningIcon(), w.Provider, w.Err)
				}
			}

			if config.Global.Format == "json" {
				return printer.PrintJSON(apps)
			}

			rows := make([][]string, 0, len(apps))
			for _, app := range apps {
				rows = append(rows, []string{app.ID, app.Name, app.Platform, app.Provider})
			}
			printer.PrintTable([]string{"ID", "NAME", "PLATFORM", "PROVIDER"}, rows)
			return nil
		},
	}
}
