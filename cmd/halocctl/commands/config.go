package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vislam/haloc/pkg/cli"
	"github.com/vislam/haloc/pkg/haloc"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage saved engine-parameter profiles",
	Long: `Manage named haloc.Config profiles.

Examples:
  halocctl config save default
  halocctl config save tuned -f params.yaml
  halocctl config show default
  halocctl config list
  halocctl config remove tuned`,
}

var configSaveFromFile string

var configSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save a Config profile, overwriting any existing one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := haloc.DefaultConfig()
		if configSaveFromFile != "" {
			if err := cli.LoadRequest(configSaveFromFile, &cfg); err != nil {
				return err
			}
		}
		store, err := getConfigStore()
		if err != nil {
			return err
		}
		if err := store.Save(args[0], cfg); err != nil {
			return err
		}
		cli.PrintVerbose(IsVerbose(), "profile store dir: %s", store.Dir())
		cli.PrintSuccess("saved profile %q", args[0])
		return nil
	},
}

var configShowFormat string

var configShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a saved Config profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getConfigStore()
		if err != nil {
			return err
		}
		cfg, err := store.Load(args[0])
		if err != nil {
			return err
		}
		return cli.Output(cfg, cli.OutputOptions{Format: cli.OutputFormat(configShowFormat)})
	},
}

var configListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved Config profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getConfigStore()
		if err != nil {
			return err
		}
		names, err := store.List()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No profiles saved.")
			fmt.Println("Create one with: halocctl config save <name>")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME")
		for _, n := range names {
			fmt.Fprintln(w, n)
		}
		return w.Flush()
	},
}

var configRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Delete a saved Config profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getConfigStore()
		if err != nil {
			return err
		}
		if err := store.Remove(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("removed profile %q", args[0])
		return nil
	},
}

func init() {
	configSaveCmd.Flags().StringVarP(&configSaveFromFile, "file", "f", "", "YAML/JSON file of Config overrides")
	configShowCmd.Flags().StringVar(&configShowFormat, "format", "yaml", "output format: yaml, json")

	configCmd.AddCommand(configSaveCmd, configShowCmd, configListCmd, configRemoveCmd)
	rootCmd.AddCommand(configCmd)
}
