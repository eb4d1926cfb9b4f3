package artifact

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/appfetch/appfetch-cli/cmd/cmdutils"
	"github.com/appfetch/appfetch-cli/config"
	"github.com/appfetch/appfetch-cli/internal/artifact"
	"github.com/appfetch/appfetch-cli/internal/download"
	"github.com/appfetch/appfetch-cli/internal/resolve"
	"github.com/appfetch/appfetch-cli/internal/style"
	"github.com/appfetch/appfetch-cli/internal/terminal"
	"github.com/appfetch/appfetch-cli/internal/tui"
	"github.com/appfetch/appfetch-cli/internal/version"
	"github.com/appfetch/appfetch-cli/util/common"
	"github.com/appfetch/appfetch-cli/util/common/printer"
	"github.com/appfetch/appfetch-cli/util/common/progress"
)

// newDownloadCmd resolves one artifact and streams it to disk. With no
// selector flags the newest artifact wins; when several artifact types
// tie for newest, an interactive prompt disambiguates.
func newDownloadCmd(f *cmdutils.Factory) *cobra.Command {
	var (
		idFlag      string
		versionFlag string
		typeFlag    string
		output      string
	)
	c := &cobra.Command{
		Use:   "download <app_id>",
		Short: "Download an app's build artifact",
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

			target := resolve.Target{AppID: args[0], Kind: resolve.Latest, Type: typ}
			switch {
			case idFlag != "":
				target.Kind = resolve.ByID
				target.ID = idFlag
			case versionFlag != "":
				parsed := version.Parse(versionFlag)
				target.Kind = resolve.ByVersion
				target.Version = parsed.Version
				target.BuildNumber = parsed.BuildNumber
			}

			termInfo := terminal.Detect(config.Global.NoColor)
			var chooser resolve.Chooser = headlessChooser{}
			if termInfo.InteractiveEnabled {
				chooser = tui.NewArtifactChooser()
			}

			resolved, err := resolve.New(p, chooser).Resolve(ctx, target)
			if err != nil {
				return err
			}

			d := download.New(p)
			if termInfo.IsTerminal && config.Global.Format != "json" {
				d.Progress = func(a artifact.Artifact, w io.Writer) (io.Writer, func()) {
					return progress.Writer(a.FileSize, w, a.FileName)
				}
			}

			path, written, err := d.Download(ctx, resolved, output)
			if err != nil {
				return err
			}

			if config.Global.Format == "json" {
				return printer.PrintJSON(map[string]interface{}{
					"id":       resolved.ID,
					"version":  version.Format(resolved.Version, resolved.BuildNumber),
					"type":     resolved.Type,
					"path":     path,
					"size":     written,
					"provider": resolved.Provider,
				})
			}
			fmt.Printf("%s Saved %s (%s) to %s\n",
				style.SuccessIcon(), resolved.FileName, common.GetSize(written), path)
			return nil
		},
	}

	c.Flags().StringVar(&idFlag, "id", "", "Download the artifact with this exact id")
	c.Flags().StringVar(&versionFlag, "version", "", "Download the newest artifact with this version (e.g. 1.2.3 or 1.2.3+45)")
	c.Flags().StringVar(&typeFlag, "type", "", "Restrict resolution to one artifact type")
	c.Flags().StringVarP(&output, "output", "o", ".", "Destination directory or file path")
	return c
}

// headlessChooser stands in when no terminal is attached. A latest-
// artifact tie cannot be resolved without a human, so it reports the
// competing types and asks for a --type filter instead of guessing.
type headlessChooser struct{}

func (headlessChooser) Choose(options []resolve.Option) (artifact.Artifact, error) {
	types := make([]string, len(options))
	for i, o := range options {
		types[i] = string(o.Artifact.Type)
	}
	return artifact.Artifact{}, fmt.Errorf(
		"multiple artifact types match (%s); re-run with --type to pick one", strings.Join(types, ", "))
}
