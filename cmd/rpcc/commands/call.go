package commands

import (
	"errors"

	"github.com/VestaKK/rpcbridge/internal/payload"
	"github.com/VestaKK/rpcbridge/internal/protocol"
	"github.com/VestaKK/rpcbridge/pkg/rpcclient"
	"github.com/spf13/cobra"
)

var (
	flagCallInt    int64
	flagCallBuffer string
)

var callCmd = &cobra.Command{
	Use:   "call <procedure>",
	Short: "Find then call a procedure with a payload",
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

		in := &payload.Payload{Int: flagCallInt}
		if flagCallBuffer != "" {
			in.Buffer = []byte(flagCallBuffer)
		}

		out, err := c.Call(digest, in)
		if err != nil {
			var remoteErr *protocol.RemoteError
			if errors.As(err, &remoteErr) {
				cmd.Printf("remote error: flags 0x%02x\n", uint8(remoteErr.Flags))
				return nil
			}
			return err
		}

		cmd.Printf("int: %d\n", out.Int)
		if len(out.Buffer) > 0 {
			cmd.Printf("buffer: %q\n", out.Buffer)
		}
		return nil
	},
}

func init() {
	callCmd.Flags().Int64Var(&flagCallInt, "int", 0, "integer payload field")
	callCmd.Flags().StringVar(&flagCallBuffer, "buf", "", "buffer payload field, as a literal string")
}
