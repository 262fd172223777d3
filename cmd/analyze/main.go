package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"resume-reviewer/internal/analyses"
	"resume-reviewer/internal/bootstrap"
	"resume-reviewer/internal/extract"
	"resume-reviewer/internal/shared/config"
	"resume-reviewer/internal/shared/storage/object"
	"resume-reviewer/internal/shared/storage/object/local"
	"resume-reviewer/internal/shared/telemetry"
)

type options struct {
	file    string
	mime    string
	format  string
	verbose bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr, buildAnalyzer))
}

func buildAnalyzer(ctx context.Context, verbose bool) (analyses.Analyzer, int64, func(), error) {
	cfg := config.Load()
	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		return nil, 0, nil, err
	}
	if !verbose {
		telemetry.SetLogger(zap.NewNop())
	}
	return app.AnalysesService, cfg.MaxUploadBytes, func() { _ = app.Shutdown(context.Background()) }, nil
}

type analyzerFactory func(ctx context.Context, verbose bool) (analyses.Analyzer, int64, func(), error)

func run(ctx context.Context, args []string, stdout, stderr io.Writer, factory analyzerFactory) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	analyzer, maxBytes, cleanup, err := factory(ctx, opts.verbose)
	if err != nil {
		fmt.Fprintf(stderr, "bootstrap: %v\n", err)
		return 1
	}
	defer cleanup()

	data, err := readFile(ctx, opts.file, maxBytes)
	if err != nil {
		fmt.Fprintf(stderr, "read %s: %v\n", opts.file, err)
		return 1
	}

	result, err := analyzer.Analyze(ctx, data, opts.mime, filepath.Base(opts.file))
	if err != nil {
		failure := analyses.Describe(err)
		_ = write(stderr, opts.format, map[string]any{"error": failure})
		return 1
	}
	if err := write(stdout, opts.format, result); err != nil {
		fmt.Fprintf(stderr, "write result: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("analyze", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.file, "file", "f", "", "Path to the resume document (PDF or DOCX)")
	fs.StringVarP(&opts.mime, "mime", "m", "", "Declared MIME type; sniffed from the content when empty")
	fs.StringVarP(&opts.format, "format", "o", "json", "Output format: json or yaml")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "Keep structured logs on stdout")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if opts.file == "" && fs.NArg() > 0 {
		opts.file = fs.Arg(0)
	}
	if strings.TrimSpace(opts.file) == "" {
		return options{}, errors.New("--file is required")
	}
	opts.format = strings.ToLower(strings.TrimSpace(opts.format))
	if opts.format != "json" && opts.format != "yaml" {
		return options{}, fmt.Errorf("unsupported --format %q", opts.format)
	}
	return opts, nil
}

func readFile(ctx context.Context, path string, limit int64) ([]byte, error) {
	store := local.New(filepath.Dir(path))
	rc, err := store.Open(ctx, object.Ref{Key: filepath.Base(path)})
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return extract.ReadDocument(rc, limit)
}

// write renders v with the JSON field names in either format.
func write(w io.Writer, format string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if format == "json" {
		_, err = fmt.Fprintln(w, string(raw))
		return err
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}
