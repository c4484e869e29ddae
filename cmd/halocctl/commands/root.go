// Package commands implements the halocctl CLI surface.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/vislam/haloc/pkg/halocconfig"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "halocctl",
	Short: "Inspect and configure the haloc loop-closure engine",
	Long: `halocctl is a command-line front end for the haloc loop-closure engine.

It manages named engine-parameter profiles and inspects node records
left behind by a FileFeatureStore-backed run.

Configuration profiles are stored in the OS config directory:
  macOS:   ~/Library/Application Support/haloc/profiles/
  Linux:   ~/.config/haloc/profiles/
  Windows: %AppData%/haloc/profiles/

Examples:
  halocctl config save tuned -f params.yaml
  halocctl config show tuned
  halocctl inspect /tmp/haloc-scratch-xyz`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool { return verbose }

var configStore *halocconfig.Store

// getConfigStore lazily opens the default profile store.
func getConfigStore() (*halocconfig.Store, error) {
	if configStore != nil {
		return configStore, nil
	}
	s, err := halocconfig.Open()
	if err != nil {
		return nil, err
	}
	configStore = s
	return configStore, nil
}
