package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/rtool/pkg/engine"
	"github.com/macropower/rtool/pkg/log"
	"github.com/macropower/rtool/pkg/yaml"
)

type EvalArgs struct {
	VarsArgs

	Engine string
}

func NewEvalArgs() *EvalArgs {
	return &EvalArgs{}
}

func (ea *EvalArgs) AddFlags(cmd *cobra.Command) {
	ea.VarsArgs.AddFlags(cmd)

	cmd.Flags().StringVarP(&ea.Engine, "engine", "e", engine.DefaultVariant, "Engine variant to evaluate with")

	must(cmd.RegisterFlagCompletionFunc("engine",
		func(*cobra.Command, []string, string) ([]cobra.Completion, cobra.ShellCompDirective) {
			return engine.Variants(), cobra.ShellCompDirectiveNoFileComp
		},
	))
}

func NewEvalCmd(ea *EvalArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an expression and print the result as YAML",
		Example: `  rtool eval 'order.amount < 1000' --var order='{amount: 250}'
  rtool eval '$.order.amount' --engine yamlpath --vars ./order.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return eval(cmd, ea, args[0])
		},
	}

	ea.AddFlags(cmd)

	return cmd
}

func eval(cmd *cobra.Command, ea *EvalArgs, expression string) error {
	ctx := cmd.Context()

	vars, err := ea.Load()
	if err != nil {
		return err
	}

	eng, err := engine.Get(ea.Engine)
	if err != nil {
		return err //nolint:wrapcheck // Already wrapped.
	}

	log.WithContext(ctx).DebugContext(ctx, "evaluate expression",
		slog.String("engine", eng.Name()),
		slog.String("expression", expression),
		slog.Int("variables", len(vars)),
	)

	result, err := eng.Execute(ctx, expression, vars)
	if err != nil {
		return err //nolint:wrapcheck // Already wrapped.
	}

	out, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	_, err = cmd.OutOrStdout().Write(out)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}
