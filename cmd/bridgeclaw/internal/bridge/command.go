package bridge

import (
	"github.com/spf13/cobra"

	"github.com/tinyland-inc/bridgeclaw/pkg/config"
)

func NewBridgeCommand() *cobra.Command {
	var debug bool
	var configPath string

	cmd := &cobra.Command{
		Use:     "bridge",
		Aliases: []string{"b"},
		Short:   "Start the Discord/Guilded bridge",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return bridgeCmd(debug, configPath)
		},
	}

	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")
	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the channel binding file")

	return cmd
}
