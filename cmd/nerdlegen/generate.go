package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/nerdlegen/pkg/nerdlegen"
	"github.com/randalmurphal/nerdlegen/pkg/nerdlegen/checkpoint"
	"github.com/randalmurphal/nerdlegen/pkg/nerdlegen/config"
	"github.com/randalmurphal/nerdlegen/pkg/nerdlegen/dataset"
	"github.com/randalmurphal/nerdlegen/pkg/nerdlegen/observability"
)

func generate(cmd *cobra.Command, flags *flagValues, stdout, stderr io.Writer) (err error) {
	s, err := resolveSettings(cmd, flags)
	if err != nil {
		return err
	}
	logger := newLogger(stderr, s)
	ctx := cmd.Context()

	shutdown := setupTelemetry(s, logger)
	defer func() {
		if shutdownErr := shutdown(ctx); err == nil && shutdownErr != nil {
			err = shutdownErr
		}
	}()

	opts := []nerdlegen.Option{
		nerdlegen.WithLength(s.Length),
		nerdlegen.WithWorkers(s.Workers),
		nerdlegen.WithShardDepth(s.ShardDepth),
		nerdlegen.WithLogger(logger),
		nerdlegen.WithMetrics(s.Metrics),
		nerdlegen.WithTracing(s.Tracing),
		nerdlegen.WithProgress(s.ProgressInterval),
	}
	if s.RunID != "" {
		opts = append(opts, nerdlegen.WithRunID(s.RunID))
	}
	if s.Checkpoint != "" {
		store, err := checkpoint.NewSQLiteStore(s.Checkpoint)
		if err != nil {
			return err
		}
		defer store.Close()

		runID := checkpointRunID(s)
		saved, err := store.Totals(runID, s.Length)
		if err != nil {
			return err
		}
		logger.Info("checkpointing enabled",
			slog.String("path", s.Checkpoint),
			slog.String("run_id", runID),
			slog.Int("saved_shards", saved.Shards),
			slog.Uint64("saved_equations", saved.Matches),
		)
		opts = append(opts, nerdlegen.WithCheckpointStore(store), nerdlegen.WithRunID(runID))
	}

	e := nerdlegen.New(opts...)
	if s.Output == "" {
		_, err = e.Run(ctx, stdout)
		return err
	}

	var stats nerdlegen.Stats
	err = dataset.WriteFileAtomic(s.Output, 0o644, func(w io.Writer) error {
		var runErr error
		stats, runErr = e.Run(ctx, w)
		return runErr
	})
	if err != nil {
		return err
	}
	logger.Info("dataset written",
		slog.String("path", s.Output),
		slog.Uint64("entries", stats.Matches),
	)
	return nil
}

// checkpointRunID names a checkpointed run. Without --run-id the same
// length always maps to the same run, so rerunning resumes it.
func checkpointRunID(s config.Settings) string {
	if s.RunID != "" {
		return s.RunID
	}
	return fmt.Sprintf("nerdlegen-len%d", s.Length)
}

func verify(cmd *cobra.Command, flags *flagValues, path string, stdout, stderr io.Writer) error {
	s, err := resolveSettings(cmd, flags)
	if err != nil {
		return err
	}
	logger := newLogger(stderr, s)
	elapsed := observability.TimedOperation()

	entries, err := dataset.ReadFile(path, s.Length+1)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("%s has no %d-character entries", path, s.Length+1)
	}

	errs := dataset.VerifyAll(entries, s.Length)
	for _, e := range errs {
		fmt.Fprintln(stdout, e)
	}
	logger.Info("dataset verified",
		slog.String("path", path),
		slog.Int("entries", len(entries)),
		slog.Int("invalid", len(errs)),
		slog.Float64("duration_ms", elapsed()),
	)
	if len(errs) > 0 {
		return fmt.Errorf("%d of %d entries in %s are invalid", len(errs), len(entries), path)
	}
	return nil
}
