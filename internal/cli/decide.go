package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	goccyyaml "github.com/goccy/go-yaml"

	"github.com/macropower/rtool/pkg/config"
	"github.com/macropower/rtool/pkg/decision"
	"github.com/macropower/rtool/pkg/log"
	"github.com/macropower/rtool/pkg/watch"
	"github.com/macropower/rtool/pkg/yaml"
)

// ErrDecisionsFailed is returned when at least one decision item could not
// be evaluated.
var ErrDecisionsFailed = errors.New("decisions failed")

type DecideArgs struct {
	VarsArgs

	ConfigPath string
	Watch      bool
}

func NewDecideArgs() *DecideArgs {
	return &DecideArgs{}
}

func (da *DecideArgs) AddFlags(cmd *cobra.Command) {
	da.VarsArgs.AddFlags(cmd)

	cmd.Flags().StringVarP(&da.ConfigPath, "config", "c", "",
		"Path to the rtool configuration file, default is the nearest .rtool.yaml or the user config")
	cmd.Flags().BoolVarP(&da.Watch, "watch", "w", false, "Re-evaluate when the configuration or variables change")

	must(cmd.MarkFlagFilename("config", "yaml", "yml"))
}

func NewDecideCmd(da *DecideArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decide",
		Short: "Evaluate every configured decision and print the results as YAML",
		Example: `  rtool decide --vars ./order.yaml
  rtool decide --config ./rtool.yaml --var order='{amount: 2500}' --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if da.ConfigPath == "" {
				da.ConfigPath = config.FindPath(".")
			}

			if !da.Watch {
				return decide(cmd.Context(), cmd.OutOrStdout(), da)
			}

			return decideWatch(cmd, da)
		},
	}

	da.AddFlags(cmd)

	return cmd
}

func decide(ctx context.Context, w io.Writer, da *DecideArgs) error {
	logger := log.WithContext(ctx)

	cfg, err := config.Load(da.ConfigPath)
	if err != nil {
		return err //nolint:wrapcheck // Already wrapped.
	}

	vars, err := da.Load()
	if err != nil {
		return err
	}

	set, err := cfg.DecisionSet(slices.Sorted(maps.Keys(vars)))
	if err != nil {
		return fmt.Errorf("compile decisions: %w", err)
	}

	results := set.Evaluate(ctx, vars)

	failed, err := writeResults(w, results)
	if err != nil {
		return err
	}

	for _, r := range results {
		if r.Err != nil {
			logger.ErrorContext(ctx, "evaluate decision",
				slog.String("decision", r.Name),
				slog.Any("error", r.Err),
			)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrDecisionsFailed, failed, set.Len())
	}

	return nil
}

// writeResults prints the successful results as an ordered YAML mapping and
// returns the number of failed results.
func writeResults(w io.Writer, results []decision.Result) (int, error) {
	var (
		out    goccyyaml.MapSlice
		failed int
	)

	for _, r := range results {
		if r.Err != nil {
			failed++

			continue
		}

		out = append(out, goccyyaml.MapItem{Key: r.Name, Value: r.Value})
	}

	if len(out) == 0 {
		return failed, nil
	}

	b, err := yaml.Marshal(out)
	if err != nil {
		return failed, fmt.Errorf("marshal results: %w", err)
	}

	_, err = w.Write(b)
	if err != nil {
		return failed, fmt.Errorf("write output: %w", err)
	}

	return failed, nil
}

func decideWatch(cmd *cobra.Command, da *DecideArgs) error {
	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	err := decide(ctx, w, da)
	if err != nil {
		log.WithContext(ctx).ErrorContext(ctx, "decide", slog.Any("error", err))
	}

	files := []string{da.ConfigPath}
	if da.VarsFile != "" {
		files = append(files, da.VarsFile)
	}

	watcher, err := watch.New(files)
	if err != nil {
		return err //nolint:wrapcheck // Already wrapped.
	}

	defer func() {
		err := watcher.Close()
		if err != nil {
			slog.Error("close watcher", slog.Any("error", err))
		}
	}()

	err = watcher.Run(ctx, func(ctx context.Context, _ string) error {
		_, err := fmt.Fprintln(w, "---")
		if err != nil {
			return fmt.Errorf("write output: %w", err)
		}

		return decide(ctx, w, da)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err //nolint:wrapcheck // Already wrapped.
}
