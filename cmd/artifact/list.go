package artifact

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/appfetch/appfetch-cli/cmd/cmdutils"
	"github.com/appfetch/appfetch-cli/config"
	"github.com/appfetch/appfetch-cli/internal/artifact"
	"github.com/appfetch/appfetch-cli/internal/version"
	"github.com/appfetch/appfetch-cli/util/common"
	"github.com/appfetch/appfetch-cli/util/common/printer"
)

func newListCmd(f *cmdutils.Factory) *cobra.Command {
	var (
		limit       int
		typeFlag    string
		versionFlag string
	)
	c := &cobra.Command{
		Use:   "list <app_id>",
		Short: "List an app's artifacts, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := singleProvider(ctx, f)
			if err != nil {
				return err
			}

			typ, ok := artifact.ParseType(typeFlag)
			if !ok {
				return fmt.Errorf("unknown artifact type %q (one of %v)", typeFlag, artifact.Types)
			}

			filter := artifact.SearchFilter{
				AppID: args[0],
				Type:  typ,
				Limit: limit,
			}
			if versionFlag != "" {
				parsed := version.Parse(versionFlag)
				filter.Version = parsed.Version
				filter.BuildNumber = parsed.BuildNumber
			}

			artifacts, err := p.Search(ctx, filter)
			if err != nil {
				return err
			}

			if config.Global.Format == "json" {
				return printer.PrintJSON(artifacts)
			}

			rows := make([][]string, 0, len(artifacts))
			for _, a := range artifacts {
				rows = append(rows, []string{
					a.ID,
					version.Format(a.Version, a.BuildNumber),
					string(a.Type),
					a.FileName,
					common.GetSize(a.FileSize),
					common.GetTime(a.UploadedAt),
				})
			}
			printer.PrintTable([]string{"ID", "VERSION", "TYPE", "FILE", "SIZE", "UPLOADED"}, rows)
			return nil
		},
	}

	c.Flags().IntVar(&limit, "limit", artifact.DefaultSearchLimit, "Maximum number of artifacts to return")
	c.Flags().StringVar(&typeFlag, "type", "", "Only show artifacts of this type")
	c.Flags().StringVar(&versionFlag, "version", "", "Only show artifacts with this version (e.g. 1.2.3 or 1.2.3+45)")
	return c
}
