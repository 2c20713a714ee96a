// Command fixture-audit crawls a deployed WTStats fixture set and reports
// broken, mislabeled or malformed fixtures.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/wtstats/wtstats/internal/audit"
	"github.com/wtstats/wtstats/internal/domain/rivalry"
	"github.com/wtstats/wtstats/pkg/logger"
)

// Default configuration constants.
const (
	defaultURL       = "file://out"
	defaultWorkers   = 2 // multiplier for runtime.NumCPU()
	defaultTimeout   = 30 * time.Second
	defaultRunBudget = 10 * time.Minute
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		logLevel  string
		logFormat string
	)

	root := &cobra.Command{
		Use:          "fixture-audit",
		Short:        "Audit the static JSON fixtures behind the WTStats dashboard",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger.SetOutput(cmd.ErrOrStderr())
			if err := logger.SetFormat(logFormat); err != nil {
				return err
			}
			if err := logger.Init(); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return logger.SetLevelString(logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(newRunCmd(), newFilenameCmd())
	return root
}

func newRunCmd() *cobra.Command {
	cfg := audit.Config{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch every fixture and report failures by kind",
		Long: `Fetch the manager index, league history, draft history and article
index, then every owner pair's comparison fixture concurrently.

Exits non-zero when any fixture fails to load, validate or reconcile.
Missing comparisons are reported but are not failures.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, defaultRunBudget)
			defer cancel()

			report, err := audit.Run(ctx, cfg)
			if report != nil {
				if werr := report.Write(cmd.OutOrStdout()); werr != nil {
					logger.Get().Warn(ctx, "failed to write report", logger.Error(werr))
				}
			}
			return err
		},
	}
	cmd.Flags().StringVar(&cfg.URL, "url", defaultURL, "Data origin (http(s):// or file://)")
	cmd.Flags().StringVar(&cfg.BasePath, "base-path", "", `Base path ("" or /WTStats)`)
	cmd.Flags().IntVar(&cfg.Workers, "workers", runtime.NumCPU()*defaultWorkers, "Concurrent comparison fetches")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "Per-request timeout")
	cmd.Flags().BoolVar(&cfg.Verbose, "verbose", false, "Log every comparison")
	return cmd
}

func newFilenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "filename <owner-a> <owner-b>",
		Short: "Print the comparison fixture name for two owners",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, len(args))
			for i, raw := range args {
				id, err := strconv.Atoi(raw)
				if err != nil || id <= 0 {
					return fmt.Errorf("owner id must be a positive integer: %q", raw)
				}
				ids[i] = id
			}
			if ids[0] == ids[1] {
				return fmt.Errorf("owners must differ: %d", ids[0])
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), rivalry.ComparisonFilename(ids[0], ids[1]))
			return err
		},
	}
}
