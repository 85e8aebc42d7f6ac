package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/rtool/api/v1beta1/configs"
	"github.com/macropower/rtool/pkg/config"
)

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the rtool configuration",
	}

	cmd.AddCommand(
		newConfigInitCmd(),
		newConfigSchemaCmd(),
		newConfigShowCmd(),
	)

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		path  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if path == "" {
				path = configs.GetPath()
			}

			return configs.WriteDefault(path, force) //nolint:wrapcheck // Already wrapped.
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Where to write the configuration, default is the user config")
	cmd.Flags().BoolVar(&force, "force", false, "Back up and replace an existing configuration")

	return cmd
}

func newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), string(configs.SchemaJSON))
			if err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			return nil
		},
	}
}

func newConfigShowCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Validate and print the active configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				path = config.FindPath(".")
			}

			cfg, err := config.Load(path)
			if err != nil {
				return err //nolint:wrapcheck // Already wrapped.
			}

			b, err := cfg.MarshalYAML()
			if err != nil {
				return err //nolint:wrapcheck // Already wrapped.
			}

			_, err = cmd.OutOrStdout().Write(b)
			if err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "config", "c", "", "Path to the rtool configuration file")

	return cmd
}
