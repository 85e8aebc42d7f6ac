package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/macropower/rtool/pkg/log"
	"github.com/macropower/rtool/pkg/telemetry"
	"github.com/macropower/rtool/pkg/version"
)

const (
	cmdName = "rtool"
	cmdDesc = `Named decision items and shared expression engines.`

	cmdExamples = `  # Derive decision item names:
  rtool name OrderApprovalRule URLValidator

  # Evaluate an expression with the default engine:
  rtool eval 'order.amount < 1000' --var order='{amount: 250}'

  # Evaluate every configured decision against a variables file:
  rtool decide --vars ./order.yaml

  # Re-evaluate whenever the variables file changes:
  rtool decide --vars ./order.yaml --watch`
)

type RootArgs struct {
	setupTracing  func(context.Context, telemetry.TracingConfig) (telemetry.ShutdownFunc, error)
	shutdown      telemetry.ShutdownFunc
	LogLevel      string
	LogFormat     string
	TraceEndpoint string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{
		setupTracing: telemetry.SetupTracing,
	}
}

// Shutdown flushes pending spans. It is safe to call more than once.
func (ra *RootArgs) Shutdown(ctx context.Context) error {
	if ra.shutdown == nil {
		return nil
	}

	shutdown := ra.shutdown
	ra.shutdown = nil

	return shutdown(ctx)
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		StringVar(&ra.TraceEndpoint, "trace-endpoint", "", "OTLP/gRPC endpoint for traces, disabled when empty")

	must(cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	))
}

// Execute runs the rtool command line with fang. Spans are flushed after the
// command returns, whether or not it succeeded.
func Execute(ctx context.Context, opts ...fang.Option) error {
	return execute(ctx, NewRootArgs(), func(ctx context.Context, cmd *cobra.Command) error {
		return fang.Execute(ctx, cmd, opts...) //nolint:wrapcheck // Rendered by fang.
	})
}

func execute(ctx context.Context, ra *RootArgs, run func(context.Context, *cobra.Command) error) error {
	err := run(ctx, newRootCmd(ra))

	shutdownErr := ra.Shutdown(context.WithoutCancel(ctx))
	if shutdownErr != nil {
		slog.Error("flush traces", slog.Any("error", shutdownErr))
	}

	return err
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(NewRootArgs())
}

func newRootCmd(args *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:               cmdName,
		Short:             cmdDesc,
		Example:           cmdExamples,
		SilenceUsage:      true,
		PersistentPreRunE: setup(args),
	}

	args.AddFlags(cmd)

	cmd.AddCommand(
		NewNameCmd(),
		NewEnginesCmd(),
		NewEvalCmd(NewEvalArgs()),
		NewDecideCmd(NewDecideArgs()),
		NewCopyCmd(),
		NewConfigCmd(),
	)

	bindEnvVars(cmd)

	return cmd
}

func setup(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logger, err := log.SetDefault(cmd.ErrOrStderr(), ra.LogLevel, ra.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		cfg := telemetry.NewTracingConfig(ra.TraceEndpoint)
		cfg.ServiceVersion = version.GetVersion()

		ra.shutdown, err = ra.setupTracing(ctx, cfg)
		if err != nil {
			return fmt.Errorf("setup tracing: %w", err)
		}

		logger.Debug("starting",
			slog.Any("build", version.LogValue()),
			slog.Bool("tracing", cfg.Enabled()),
		)

		cmd.SetContext(log.NewContext(ctx, logger))

		return nil
	}
}
