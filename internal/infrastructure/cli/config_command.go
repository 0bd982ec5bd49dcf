package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/aicoder/internal/app"
)

func newConfigCommand(container *app.Container) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file path",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), container.ConfigLoader.Path())
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the resolved configuration",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := container.ConfigLoader.Load(cmd.Context())
				if err != nil {
					return err
				}
				raw, err := yaml.Marshal(cfg)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), string(raw))
				return nil
			},
		},
	)

	return configCmd
}
