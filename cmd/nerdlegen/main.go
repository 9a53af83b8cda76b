// Command nerdlegen writes every Nerdle equation of a given length.
//
// Without arguments it enumerates the 8-character game to stdout, one
// "left=right" equation per line. Logs go to stderr.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/nerdlegen/pkg/nerdlegen/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run builds the command tree and executes it with args.
func run(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// flagValues holds the command-line flags. Flags override the config file.
type flagValues struct {
	configFile string
	settings   config.Settings
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &flagValues{settings: config.DefaultSettings()}

	root := &cobra.Command{
		Use:   "nerdlegen",
		Short: "Enumerate Nerdle equations",
		Long: `nerdlegen enumerates every string of the configured length over the
characters 1234567890+-*/, splits it into a left and right side at
every position, and prints "left=right" when both sides are well formed
and evaluate to the same value.

Run without arguments to print the 8-character equations to stdout.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return generate(cmd, flags, stdout, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "YAML or JSON settings file")
	pf.IntVarP(&flags.settings.Length, "length", "n", config.DefaultLength, "candidate length, excluding the '='")
	pf.StringVar(&flags.settings.LogLevel, "log-level", "info", "log level: debug, info, warn or error")
	pf.StringVar(&flags.settings.LogFormat, "log-format", "text", "log format: text or json")

	addGenerateFlags(root, flags)

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Enumerate equations (the default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return generate(cmd, flags, stdout, stderr)
		},
	}
	addGenerateFlags(generateCmd, flags)

	verifyCmd := &cobra.Command{
		Use:   "verify FILE",
		Short: "Check that every equation in a dataset file is valid",
		Long: `verify reads FILE, keeps the lines that are exactly length+1
characters long, and checks each of them the way the enumerator would.
Invalid entries are printed to stdout; the command fails if there are any.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return verify(cmd, flags, args[0], stdout, stderr)
		},
	}

	root.AddCommand(generateCmd, verifyCmd)
	return root
}

// addGenerateFlags binds the enumeration flags. The root command and
// "generate" share the same storage.
func addGenerateFlags(cmd *cobra.Command, flags *flagValues) {
	f := cmd.Flags()
	s := &flags.settings
	f.IntVarP(&s.Workers, "workers", "w", s.Workers, "shards scanned concurrently")
	f.IntVar(&s.ShardDepth, "shard-depth", s.ShardDepth, "prefix length used to split the search (1-4)")
	f.StringVarP(&s.Output, "output", "o", "", "write the dataset to FILE instead of stdout")
	f.StringVar(&s.Checkpoint, "checkpoint", "", "SQLite file used to save and resume finished shards")
	f.StringVar(&s.RunID, "run-id", "", "checkpoint run identifier (default: derived from the length)")
	f.BoolVar(&s.Metrics, "metrics", false, "log a metrics summary at exit")
	f.BoolVar(&s.Tracing, "tracing", false, "log a span for the run and every shard (debug level)")
	f.DurationVar(&s.ProgressInterval, "progress", 0, "log progress at this interval (0 disables)")
}

// resolveSettings loads the config file, if any, then applies every flag
// the user set explicitly.
func resolveSettings(cmd *cobra.Command, flags *flagValues) (config.Settings, error) {
	s := config.DefaultSettings()
	if flags.configFile != "" {
		loaded, err := config.LoadSettings(flags.configFile)
		if err != nil {
			return config.Settings{}, err
		}
		s = loaded
	}

	set := func(name string, apply func()) {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	v := flags.settings
	set("length", func() { s.Length = v.Length })
	set("log-level", func() { s.LogLevel = v.LogLevel })
	set("log-format", func() { s.LogFormat = v.LogFormat })
	set("workers", func() { s.Workers = v.Workers })
	set("shard-depth", func() { s.ShardDepth = v.ShardDepth })
	set("output", func() { s.Output = v.Output })
	set("checkpoint", func() { s.Checkpoint = v.Checkpoint })
	set("run-id", func() { s.RunID = v.RunID })
	set("metrics", func() { s.Metrics = v.Metrics })
	set("tracing", func() { s.Tracing = v.Tracing })
	set("progress", func() { s.ProgressInterval = v.ProgressInterval })

	if err := s.Validate(); err != nil {
		return config.Settings{}, err
	}
	return s, nil
}

// newLogger builds the stderr logger for the configured level and format.
func newLogger(w io.Writer, s config.Settings) *slog.Logger {
	level, _ := s.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}
	if s.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
