package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/VestaKK/rpcbridge/internal/cli/output"
	"github.com/VestaKK/rpcbridge/internal/cli/prompt"
	"github.com/VestaKK/rpcbridge/internal/payload"
	"github.com/VestaKK/rpcbridge/internal/protocol"
	"github.com/VestaKK/rpcbridge/pkg/rpcclient"
	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Connect and issue calls from an interactive prompt",
	RunE:  runInteractive,
}

type callRecord struct {
	procedure string
	result    string
}

func runInteractive(cmd *cobra.Command, args []string) error {
	c, err := rpcclient.NewClient(flagAddr, flagPort, flagDialTimeout)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	cmd.Printf("connected to %s:%d\n", flagAddr, flagPort)

	var history []callRecord
	for {
		action, err := prompt.Select("action", []string{"call", "history", "quit"})
		if err != nil {
			if errors.Is(err, prompt.ErrAborted) {
				break
			}
			return err
		}

		switch action {
		case "call":
			rec, err := runOneInteractiveCall(c)
			if err != nil {
				if errors.Is(err, prompt.ErrAborted) {
					continue
				}
				cmd.PrintErrf("error: %v\n", err)
				continue
			}
			history = append(history, rec)

		case "history":
			printHistory(os.Stdout, history)

		case "quit":
			return nil
		}
	}

	return nil
}

func runOneInteractiveCall(c *rpcclient.Client) (callRecord, error) {
	name, err := prompt.InputRequired("procedure name")
	if err != nil {
		return callRecord{}, err
	}

	digest, err := c.Find(name)
	if err != nil {
		return callRecord{}, err
	}

	intVal, err := prompt.InputInt("integer field", 0)
	if err != nil {
		return callRecord{}, err
	}

	buf, err := prompt.Input("buffer field (optional)", "")
	if err != nil {
		return callRecord{}, err
	}

	in := &payload.Payload{Int: intVal}
	if buf != "" {
		in.Buffer = []byte(buf)
	}

	out, err := c.Call(digest, in)
	if err != nil {
		var remoteErr *protocol.RemoteError
		if errors.As(err, &remoteErr) {
			result := fmt.Sprintf("remote error 0x%02x", uint8(remoteErr.Flags))
			return callRecord{procedure: name, result: result}, nil
		}
		return callRecord{}, err
	}

	result := fmt.Sprintf("int=%d buf=%q", out.Int, out.Buffer)
	return callRecord{procedure: name, result: result}, nil
}

func printHistory(w io.Writer, history []callRecord) {
	table := output.NewTableData("#", "procedure", "result")
	for i, rec := range history {
		table.AddRow(fmt.Sprintf("%d", i+1), rec.procedure, rec.result)
	}
	table.Print(w)
}
