// BridgeClaw - Discord <-> Guilded chat bridge
// License: MIT
//
// Copyright (c) 2026 BridgeClaw contributors

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinyland-inc/bridgeclaw/cmd/bridgeclaw/internal"
	"github.com/tinyland-inc/bridgeclaw/cmd/bridgeclaw/internal/bridge"
	"github.com/tinyland-inc/bridgeclaw/cmd/bridgeclaw/internal/check"
	"github.com/tinyland-inc/bridgeclaw/cmd/bridgeclaw/internal/version"
)

func NewBridgeclawCommand() *cobra.Command {
	short := fmt.Sprintf("%s bridgeclaw - Discord/Guilded chat bridge v%s\n\n", internal.Logo, internal.GetVersion())

	cmd := &cobra.Command{
		Use:     "bridgeclaw",
		Short:   short,
		Example: "bridgeclaw bridge --config config.json",
	}

	cmd.AddCommand(
		bridge.NewBridgeCommand(),
		check.NewCheckCommand(),
		version.NewVersionCommand(),
	)

	return cmd
}

func main() {
	cmd := NewBridgeclawCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
