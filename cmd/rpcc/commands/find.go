package commands

import (
	"github.com/VestaKK/rpcbridge/pkg/rpcclient"
	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:   "find <procedure>",
	Short: "Look up a procedure's digest on the server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := rpcclient.NewClient(flagAddr, flagPort, flagDialTimeout)
		if err != nil {
			return err
		}
		defer func() { _ = c.Close() }()

		digest, err := c.Find(args[0])
		if err != nil {
			return err
		}
		cmd.Printf("%s -> 0x%016x\n", args[0], digest)
		return nil
	},
}
