// Package commands implements rpcc's CLI commands.
package commands

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"

	flagAddr        string
	flagPort        int
	flagDialTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "rpcc",
	Short: "rpcbridge interactive client",
	Long: `rpcc connects to an rpcbridge server, negotiates its hardware
profile, and issues calls either from flags/args (for scripting) or
through an interactive prompt.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAddr, "addr", "127.0.0.1", "server address")
	rootCmd.PersistentFlags().IntVar(&flagPort, "port", 7000, "server port")
	rootCmd.PersistentFlags().DurationVar(&flagDialTimeout, "dial-timeout", 5*time.Second, "dial timeout")

	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(interactiveCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Printf("rpcc %s (commit %s)\n", Version, Commit)
		return nil
	},
}
