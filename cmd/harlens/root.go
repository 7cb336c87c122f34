package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/usestring/harlens/internal/config"
	"github.com/usestring/harlens/internal/logging"
	"github.com/usestring/harlens/internal/overview"
	"github.com/usestring/harlens/pkg/har"
)

// app holds the state shared by every command of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	// Global flags
	file       string
	configPath string
	verbose    int
	logFile    string

	cfg        *config.Config
	logCleanup func() error
}

// run executes one invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	start := time.Now()
	a := &app{stdout: stdout, stderr: stderr}
	defer a.close()

	// Errors raised before the configuration is loaded still reach stderr.
	bootstrap := logging.DefaultConfig()
	bootstrap.Writer = stderr
	if cleanup, err := logging.Setup(bootstrap); err == nil {
		a.logCleanup = cleanup
	}

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		slog.Error("application error",
			slog.String("error", err.Error()),
			slog.Duration("time_taken", time.Since(start)),
		)
		return 1
	}
	slog.Info("finished", slog.Duration("time_taken", time.Since(start)))
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "harlens",
		Short: "Inspect HTTP Archive (HAR) captures",
		Long: `harlens - reads HAR 1.2 captures and reports on the recorded exchanges

Without a subcommand the overview of every entry is printed, URLs with their
query string and nothing hidden:
  harlens -f capture.har

Commands:
  harlens -f F summary [--ecs]          Overview; --ecs hides noisy headers and paging parameters
  harlens -f F entries                  Number of entries
  harlens -f F body N [--side request]  Full body of entry N (--ecs expands device private data)
  harlens -f F find --status 4xx        Entries matching method, host, status, mime type
  harlens -f F query '.id' --all        jq over JSON bodies
  harlens schema                        JSON Schema a capture must satisfy
  harlens serve                         MCP server on stdio

Settings come from harlens.yaml (-c), a .env file and HAR_* variables.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadDocument()
			if err != nil {
				return err
			}
			return a.writeOverview(doc, false, false)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.file, "file", "f", "", "HAR file to read")
	pf.StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	pf.CountVarP(&a.verbose, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	pf.StringVar(&a.logFile, "log-file", "", "Write logs to this file instead of stderr")

	root.AddCommand(
		newSummaryCmd(a),
		newEntriesCmd(a),
		newBodyCmd(a),
		newFindCmd(a),
		newQueryCmd(a),
		newSelectCmd(a),
		newSchemaCmd(a),
		newServeCmd(a),
	)
	return root
}

// setup loads the configuration and installs the logger.
func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logCfg := logging.FromConfig(cfg.Log)
	logCfg.Level = logging.VerbosityLevel(a.verbose, cfg.Log.Level)
	logCfg.Writer = a.stderr
	if a.logFile != "" {
		logCfg.FilePath = a.logFile
	}
	cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	a.close()
	a.logCleanup = cleanup
	return nil
}

func (a *app) close() {
	if a.logCleanup != nil {
		_ = a.logCleanup()
	}
}

// loadDocument reads and decodes the file given with -f.
func (a *app) loadDocument() (*har.Document, error) {
	if a.file == "" {
		return nil, errors.New("no HAR file given: use -f/--file")
	}

	attrs := []any{slog.String("path", a.file)}
	if info, err := os.Stat(a.file); err == nil {
		attrs = append(attrs, slog.String("size", humanize.Bytes(uint64(info.Size()))))
	}
	slog.Info("reading HAR file", attrs...)

	start := time.Now()
	doc, err := har.Load(a.file)
	if err != nil {
		return nil, err
	}
	slog.Info("decoded HAR",
		slog.Int("entries", doc.EntryCount()),
		slog.Duration("elapsed", time.Since(start)),
	)
	return doc, nil
}

// writeOverview prints the overview of doc. The exclude lists apply only with
// ecs set.
func (a *app) writeOverview(doc *har.Document, ecs, shortURL bool) error {
	opts := overview.Options{
		ShortURL:     shortURL,
		PreviewChars: a.cfg.PreviewMaxChars,
	}
	if ecs {
		opts.QueryStringExcludes = overview.NewNameSet(a.cfg.QueryStringExcludes...)
		opts.HeaderExcludes = overview.NewNameSet(a.cfg.HeaderExcludes...)
	}
	return overview.New(opts).Write(a.stdout, doc)
}
