package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/rtool/pkg/naming"
)

func NewNameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "name <type-name>...",
		Short: "Print the decision item name derived from each type name",
		Example: `  rtool name OrderApprovalRule
  # orderApprovalRule`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, arg := range args {
				_, err := fmt.Fprintln(w, naming.CamelName(arg))
				if err != nil {
					return fmt.Errorf("write output: %w", err)
				}
			}

			return nil
		},
	}
}
