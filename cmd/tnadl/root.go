package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ytget/tnadl"
	"github.com/ytget/tnadl/downloader"
	"github.com/ytget/tnadl/internal/config"
	"github.com/ytget/tnadl/internal/logger"
	"github.com/ytget/tnadl/internal/script"
	"github.com/ytget/tnadl/tnaflix/variants"
)

type rootOptions struct {
	listFormats  bool
	format       string
	selectScript string
	direct       bool
	outputDir    string
	output       string
	baseURL      string
	timeout      time.Duration
	retries      int
	userAgent    string
	proxy        string
	noProgress   bool
	noLock       bool
	configPath   string
	logLevel     string
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "tnadl [flags] <page-url>",
		Short:         "List and download the quality variants of a video page",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageError{fmt.Errorf("expected exactly one page URL, got %d arguments", len(args))}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, opts, args[0], stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	f := cmd.Flags()
	f.BoolVarP(&opts.listFormats, "list-formats", "F", false, "List available formats (qualities) without downloading")
	f.StringVarP(&opts.format, "format", "f", "", "Select format by quality (e.g. 720p, 720, best, worst)")
	f.StringVar(&opts.selectScript, "select-script", "", "JavaScript file defining selectVariant(variants)")
	f.BoolVarP(&opts.direct, "direct", "r", false, "Use the direct downloader instead of the resumable one")
	f.StringVarP(&opts.outputDir, "output-dir", "o", "", "Directory for the derived output file")
	f.StringVar(&opts.output, "output", "", "Explicit output file name")
	f.StringVar(&opts.baseURL, "base-url", "", "Site root for the metadata request")
	f.DurationVar(&opts.timeout, "timeout", 0, "Metadata request timeout (e.g. 15s)")
	f.IntVar(&opts.retries, "retries", 0, "Metadata request attempts for transient errors")
	f.StringVar(&opts.userAgent, "ua", "", "Override User-Agent header")
	f.StringVar(&opts.proxy, "proxy", "", "Proxy URL (http/https/socks5)")
	f.BoolVar(&opts.noProgress, "no-progress", false, "Disable progress output")
	f.BoolVar(&opts.noLock, "no-lock", false, "Do not lock the output file during transfer")
	f.StringVarP(&opts.configPath, "config", "c", "", "Configuration file path")
	f.StringVar(&opts.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")

	return cmd
}

func runRoot(cmd *cobra.Command, opts *rootOptions, pageURL string, stdout, stderr io.Writer) error {
	if opts.format != "" && opts.selectScript != "" {
		return usageError{errors.New("--format and --select-script are mutually exclusive")}
	}

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	log, err := logger.CreateLoggerFromConfig(&cfg.Log)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		level, err := logger.ParseLevel(opts.logLevel)
		if err != nil {
			return usageError{fmt.Errorf("--log-level: %w", err)}
		}
		log.SetLevel(level)
	}

	cc := cfg.ClientConfig()
	if cmd.Flags().Changed("timeout") {
		cc.Timeout = opts.timeout
	}
	d := tnadl.NewFromConfig(cfg).WithClientConfig(cc).WithLogger(log)

	if opts.selectScript != "" {
		sel, err := script.Load(opts.selectScript)
		if err != nil {
			return usageError{err}
		}
		sel.WithLogger(log)
		d.WithCriterion(variants.Script(sel, opts.selectScript))
	} else {
		d.WithFormat(opts.format)
	}
	if opts.output != "" {
		d.WithOutputPath(opts.output)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.listFormats {
		id, list, err := d.ListVariants(ctx, pageURL)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Available formats for video %s:\n", id)
		fmt.Fprintln(stdout, renderVariantTable(list))
		return nil
	}

	var rep *progressReporter
	if !opts.noProgress {
		rep = newProgressReporter(stderr)
		d.WithProgress(rep.Update)
	}
	res, result, err := d.Download(ctx, pageURL)
	if rep != nil {
		rep.Finish()
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Saved %s (%s, %s", res.Target.LocalPath, res.Selected.Quality, humanize.IBytes(uint64(max(result.BytesWritten, 0))))
	if result.Resumed {
		fmt.Fprint(stdout, ", resumed")
	}
	fmt.Fprintln(stdout, ")")
	return nil
}

// loadConfig reads the config file and environment, then applies the flags
// the user set explicitly.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, _, _, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = opts.baseURL
	}
	if flags.Changed("timeout") {
		if opts.timeout <= 0 {
			return nil, usageError{errors.New("--timeout must be positive")}
		}
		cfg.TimeoutSeconds = max(int(opts.timeout/time.Second), 1)
	}
	if flags.Changed("retries") {
		cfg.Retries = opts.retries
	}
	if flags.Changed("ua") {
		cfg.UserAgent = opts.userAgent
	}
	if flags.Changed("proxy") {
		cfg.Proxy = opts.proxy
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = opts.outputDir
	}
	if opts.direct {
		cfg.Transfer = downloader.ModeDirect.String()
	}
	if opts.noLock {
		cfg.Lock = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, usageError{err}
	}
	if cfg.OutputDir != "" {
		if fi, err := os.Stat(cfg.OutputDir); err == nil && !fi.IsDir() {
			return nil, usageError{fmt.Errorf("output directory %s is a file", cfg.OutputDir)}
		}
	}
	return cfg, nil
}
