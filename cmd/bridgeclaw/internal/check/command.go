package check

import (
	"github.com/spf13/cobra"

	"github.com/tinyland-inc/bridgeclaw/pkg/config"
)

func NewCheckCommand() *cobra.Command {
	var configPath string
	var initTemplate bool

	cmd := &cobra.Command{
		Use:     "check",
		Short:   "Validate the channel binding file",
		Example: "bridgeclaw check --config config.json",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if initTemplate {
				return initCmd(configPath)
			}
			return checkCmd(configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the binding file")
	cmd.Flags().BoolVar(&initTemplate, "init", false, "Write a template binding file instead of validating")

	return cmd
}
