// Package commands implements rpcd's CLI commands.
package commands

import "github.com/spf13/cobra"

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"

	// Global flags.
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "rpcd",
	Short: "rpcbridge server daemon",
	Long: `rpcd runs an rpcbridge server: it binds a TCP port, registers the
built-in demo procedures, and serves calls with a fixed worker pool.

Use "rpcd [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/rpcbridge/config.yaml)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// ConfigFile returns the --config flag value.
func ConfigFile() string {
	return cfgFile
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Printf("rpcd %s (commit %s)\n", Version, Commit)
		return nil
	},
}
