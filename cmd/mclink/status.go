package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Versifine/mclink/internal/client"
	"github.com/Versifine/mclink/internal/event"
	"github.com/Versifine/mclink/internal/packet"
)

// serverStatus is the part of the server list document we print.
type serverStatus struct {
	Version struct {
		Name     string `json:"name"`
		Protocol int32  `json:"protocol"`
	} `json:"version"`
	Players struct {
		Max    int `json:"max"`
		Online int `json:"online"`
	} `json:"players"`
	Description json.RawMessage `json:"description"`
}

func statusCmd(opts *rootOptions) *cobra.Command {
	var (
		protocol int32
		timeout  time.Duration
		raw      bool
	)

	cmd := &cobra.Command{
		Use:   "status [host[:port]]",
		Short: "Query a server's status and latency",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			addr, err := applyAddress(cfg, args)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			res, err := client.Ping(ctx, addr, protocol)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if raw {
				fmt.Fprintln(out, res.JSON)
				return nil
			}
			var st serverStatus
			if err := json.Unmarshal([]byte(res.JSON), &st); err != nil {
				return fmt.Errorf("parse status response: %w", err)
			}
			fmt.Fprintf(out, "  Server:   %s\n", addr)
			fmt.Fprintf(out, "  Version:  %s (protocol %d)\n", st.Version.Name, st.Version.Protocol)
			fmt.Fprintf(out, "  Players:  %d/%d\n", st.Players.Online, st.Players.Max)
			if len(st.Description) > 0 {
				fmt.Fprintf(out, "  MOTD:     %s\n", event.PlainText(string(st.Description)))
			}
			fmt.Fprintf(out, "  Latency:  %s\n", res.Latency.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().Int32Var(&protocol, "protocol", packet.ProtocolVersion, "protocol version sent in the handshake")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "give up after this long")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the raw status JSON")

	return cmd
}
