package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vancomm/vacuum-planner/internal/logging"
	"github.com/vancomm/vacuum-planner/internal/planner"
	"github.com/vancomm/vacuum-planner/internal/report"
	"github.com/vancomm/vacuum-planner/internal/world"
)

const usage = "Usage: planner [uniform-cost|depth-first] [world-file]"

type flags struct {
	timeout     time.Duration
	maxExpanded int
	logLevel    string
	logFile     string
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "planner <strategy> <world-file>",
		Short: "Plan a route that vacuums every dirty cell of a grid world",
		Long: `planner reads a world file and prints the actions (N, S, E, W, V) that clean
every dirty cell, followed by the number of generated and expanded search nodes.

Strategies:
  uniform-cost   cost-ordered search, returns a plan with the fewest actions
                 (alias: cost-ordered)
  depth-first    depth-first search, returns the first plan it finds`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(f.logLevel)
			if err != nil {
				return err
			}
			return logging.Setup(logging.Options{
				Level:      level,
				File:       f.logFile,
				MaxSizeMB:  10,
				MaxBackups: 3,
				MaxAgeDays: 28,
			}, log, planner.Log, world.Log)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, f)
		},
	}

	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "abort the search after this long (0 = no deadline)")
	cmd.Flags().IntVar(&f.maxExpanded, "max-expanded", 0, "abort the search after expanding this many states (0 = no limit)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "warning", "log level (debug, info, warning, error)")
	cmd.Flags().StringVar(&f.logFile, "log-file", os.Getenv("LOG_FILE"), "also write JSON logs to this rotated file")

	return cmd
}

func run(cmd *cobra.Command, args []string, f flags) error {
	out := cmd.OutOrStdout()

	if len(args) != 2 {
		fmt.Fprintln(out, usage)
		return nil
	}

	strategy, err := planner.ParseStrategy(args[0])
	var unknown *planner.UnknownStrategyError
	if errors.As(err, &unknown) {
		fmt.Fprintln(out, "Unknown strategy:", unknown.Name)
		return nil
	}

	w, err := world.ParseFile(args[1])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	log.WithFields(logrus.Fields{
		"strategy": strategy,
		"world":    args[1],
		"digest":   w.Digest(),
	}).Info("planning")

	res, err := planner.Search(ctx, w, strategy, planner.WithMaxExpanded(f.maxExpanded))
	return report.Write(out, res, err)
}
