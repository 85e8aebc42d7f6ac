package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/rtool/pkg/engine"
)

func NewEnginesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "engines",
		Short: "List the registered expression engine variants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			for _, v := range engine.Variants() {
				line := v
				if v == engine.DefaultVariant {
					line += " (default)"
				}

				_, err := fmt.Fprintln(w, line)
				if err != nil {
					return fmt.Errorf("write output: %w", err)
				}
			}

			return nil
		},
	}
}
