package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/appfetch/appfetch-cli/cmd/apps"
	"github.com/appfetch/appfetch-cli/cmd/artifact"
	"github.com/appfetch/appfetch-cli/cmd/cmdutils"
	"github.com/appfetch/appfetch-cli/config"
	"github.com/appfetch/appfetch-cli/internal/style"
	"github.com/appfetch/appfetch-cli/internal/terminal"
)

// version is set via ldflags during build
var version = "dev"

func main() {
	factory := cmdutils.NewFactory()

	rootCmd := &cobra.Command{
		Use:           "af",
		Short:         "Fetch mobile build artifacts from CI and distribution backends",
		SilenceUsage:  true,
		SilenceErrors: true, // prevent duplicate printing of errors
		Long: heredoc.Doc(`
			af resolves and downloads mobile build artifacts (ipa, apk, aab,
			archives) from the configured backends.

			Backends are configured per credential set: the build registry
			(asc) takes an API key id, issuer id and .p8 private key; the
			release distribution service (fad) takes a project id and a
			service account file. Credentials come from flags, AF_* environment
			variables, or ~/.appfetch/config.yaml, in that order.
		`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			termInfo := terminal.Detect(config.Global.NoColor)
			style.Init(termInfo.ColorEnabled)

			if config.Global.Verbose {
				log.Logger = log.Output(zerolog.ConsoleWriter{
					Out:        os.Stderr,
					TimeFormat: time.RFC3339,
					NoColor:    !termInfo.ColorEnabled,
				})
			} else {
				log.Logger = zerolog.Nop()
			}

			applyEnvOverrides()

			// File values only fill fields flags and env left empty.
			path := config.Global.ConfigPath
			if path == "" {
				path = config.DefaultPath()
			}
			fileCreds, err := config.LoadFile(path)
			if err != nil {
				return err
			}
			config.Global.Credentials = config.Global.Credentials.Merge(fileCreds)
			return nil
		},
	}

	// Persistent flags available to all commands - bind them directly to global config
	rootCmd.PersistentFlags().StringVar(&config.Global.Provider, "provider", "",
		"Backend to use (asc or fad); defaults to all configured backends where supported")
	rootCmd.PersistentFlags().StringVar(&config.Global.Format, "format", "table", "Format of the result (table or json)")
	rootCmd.PersistentFlags().StringVar(&config.Global.ConfigPath, "config", "",
		"Path to the config file (default ~/.appfetch/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&config.Global.Verbose, "verbose", "v", false, "Enable verbose logging to console")
	rootCmd.PersistentFlags().BoolVar(&config.Global.NoColor, "no-color", false,
		"Disable colour output (also respects NO_COLOR env)")

	addCredentialFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(apps.GetRootCmd(factory))
	rootCmd.AddCommand(artifact.GetRootCmd(factory))
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		termInfo := terminal.Detect(config.Global.NoColor)
		if termInfo.IsTerminal && termInfo.ColorEnabled {
			fmt.Fprintln(os.Stderr, style.Error.Render("Error: "+err.Error()))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func addCredentialFlags(flags *pflag.FlagSet) {
	flags.StringVar(&config.Global.Credentials.ASC.KeyID, "asc-key-id", "",
		"Build registry API key id")
	flags.StringVar(&config.Global.Credentials.ASC.IssuerID, "asc-issuer-id", "",
		"Build registry API key issuer id")
	flags.StringVar(&config.Global.Credentials.ASC.PrivateKeyPath, "asc-key", "",
		"Path to the build registry .p8 private key")
	flags.StringVar(&config.Global.Credentials.FAD.ProjectID, "fad-project", "",
		"Release distribution project id")
	flags.StringVar(&config.Global.Credentials.FAD.ServiceAccountPath, "fad-service-account", "",
		"Path to the release distribution service account JSON file")
}

// applyEnvOverrides fills empty global fields from AF_* environment
// variables. Flags have already been parsed, so explicit flags win.
func applyEnvOverrides() {
	env := map[string]*string{
		"AF_PROVIDER":            &config.Global.Provider,
		"AF_ASC_KEY_ID":          &config.Global.Credentials.ASC.KeyID,
		"AF_ASC_ISSUER_ID":       &config.Global.Credentials.ASC.IssuerID,
		"AF_ASC_KEY":             &config.Global.Credentials.ASC.PrivateKeyPath,
		"AF_FAD_PROJECT":         &config.Global.Credentials.FAD.ProjectID,
		"AF_FAD_SERVICE_ACCOUNT": &config.Global.Credentials.FAD.ServiceAccountPath,
	}
	for name, field := range env {
		if *field == "" {
			if v := os.Getenv(name); v != "" {
				*field = v
			}
		}
	}
}

// versionCmd returns the version command
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of af",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("af version %s\n", version)
			fmt.Printf("Built with %s\n", runtime.Version())
		},
	}
}
