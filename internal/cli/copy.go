package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/macropower/rtool/pkg/iox"
	"github.com/macropower/rtool/pkg/log"
)

func NewCopyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copy <src> <dst>",
		Short: "Copy a file with buffered I/O",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			start := time.Now()

			n, err := iox.CopyFile(args[0], args[1])
			if err != nil {
				return fmt.Errorf("copy %q to %q: %w", args[0], args[1], err)
			}

			log.WithContext(ctx).InfoContext(ctx, "copied file",
				slog.String("src", args[0]),
				slog.String("dst", args[1]),
				slog.String("size", humanize.Bytes(uint64(max(0, n)))), //nolint:gosec // Uses max.
				slog.Duration("took", time.Since(start)),
			)

			return nil
		},
	}
}
