// Package main provides the ocr-extractor CLI entrypoint.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/spherical/ocr-extractor/internal/config"
	"github.com/spherical/ocr-extractor/internal/domain"
	"github.com/spherical/ocr-extractor/internal/observability"
	"github.com/spherical/ocr-extractor/internal/ocr/tesseract"
	"github.com/spherical/ocr-extractor/internal/response"
	"github.com/spherical/ocr-extractor/pkg/extractor"
)

const (
	version = "1.0.0"

	exitSuccess = 0
	exitFailure = 1
	exitUsage   = 2
)

// processor is the part of extractor.Client the CLI depends on.
type processor interface {
	Extract(ctx context.Context, path string, opts extractor.Options) (*extractor.Result, error)
}

type clientFactory func(cfg *config.Config, opts ...extractor.ClientOption) (processor, error)

func newTesseractClient(cfg *config.Config, opts ...extractor.ClientOption) (processor, error) {
	return extractor.NewClient(cfg, opts...)
}

type cliFlags struct {
	dpi        int
	lang       string
	configPath string
	outputPath string
	format     string
	timeout    time.Duration
	progress   bool
	verbose    bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, newTesseractClient))
}

// run executes the CLI and returns the process exit code. stdout only ever
// receives the result document.
func run(args []string, stdout, stderr io.Writer, factory clientFactory) int {
	flags := &cliFlags{}
	code := exitSuccess

	cmd := newRootCmd(flags, stdout, stderr, factory, &code)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n\n%s", err, cmd.UsageString())
		_ = response.WriteError(stdout, domain.ValidationError(err.Error(), nil))
		return exitUsage
	}
	return code
}

func newRootCmd(flags *cliFlags, stdout, stderr io.Writer, factory clientFactory, code *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ocr-extractor <file>",
		Short: "Extract text from images and PDFs with Tesseract OCR",
		Long: `ocr-extractor recognizes the text in an image (jpg, jpeg, png, gif, bmp,
tiff, tif) or a PDF and prints a JSON document on stdout:

  {"success": true, "text": "...", "pages": 1}
  {"success": false, "error": "..."}

PDF pages are rasterized at --dpi and recognized one after another; their
text is joined with a "--- Page Break ---" marker.

Environment Variables:
  OCR_DEFAULT_DPI, OCR_MIN_DPI, OCR_MAX_DPI, OCR_DEFAULT_LANG,
  OCR_SUPPORTED_LANGUAGES, OCR_TIMEOUT, OCR_PAGE_SEG_MODE,
  TESSDATA_PREFIX, LOG_LEVEL, LOG_FORMAT`,
		Example: `  ocr-extractor invoice.pdf
  ocr-extractor --dpi=400 --lang=spa+eng scan.png
  ocr-extractor --format=text --output=contract.txt contract.pdf`,
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if flags.format != "json" && flags.format != "text" {
				return fmt.Errorf("invalid --format %q (want json or text)", flags.format)
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			*code = execute(cmd, args[0], flags, stdout, stderr, factory)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate(fmt.Sprintf("ocr-extractor version %s (tesseract %s)\n", version, tesseract.Version()))

	f := cmd.Flags()
	f.IntVar(&flags.dpi, "dpi", 0, "DPI for rasterization and OCR (default: 300 or OCR_DEFAULT_DPI)")
	f.StringVar(&flags.lang, "lang", "", "Tesseract language code(s), e.g. spa, eng, spa+eng (default: spa or OCR_DEFAULT_LANG)")
	f.StringVarP(&flags.configPath, "config", "c", "", "config file path (default: uses env vars)")
	f.StringVarP(&flags.outputPath, "output", "o", "", "also write the extracted text to this file")
	f.StringVar(&flags.format, "format", "json", "output format: json or text")
	f.DurationVar(&flags.timeout, "timeout", 0, "processing time limit, 0 disables (default: 120s or OCR_TIMEOUT)")
	f.BoolVar(&flags.progress, "progress", false, "show progress on an interactive stderr")
	f.BoolVar(&flags.verbose, "verbose", false, "enable debug logging on stderr")

	return cmd
}

func execute(cmd *cobra.Command, path string, flags *cliFlags, stdout, stderr io.Writer, factory clientFactory) int {
	ui := NewUI(stderr, flags.progress)
	fail := func(err error) int {
		ui.Stop()
		if flags.format == "text" {
			ui.Error("Error: %s", domain.Describe(err))
			return exitFailure
		}
		_ = response.WriteError(stdout, err)
		return exitFailure
	}

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return fail(domain.ConfigError("failed to load configuration", err))
	}
	if cmd.Flags().Changed("timeout") {
		if flags.timeout < 0 {
			return fail(domain.ValidationError("timeout cannot be negative", nil))
		}
		cfg.OCR.Timeout = flags.timeout
	}
	if flags.verbose {
		cfg.Log.Level = "debug"
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      stderr,
		ServiceName: "ocr-extractor",
	}).With().Str("run_id", uuid.NewString()).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := factory(cfg,
		extractor.WithLogger(logger),
		extractor.WithProgress(ui.OnProgress),
	)
	if err != nil {
		return fail(err)
	}

	logger.Debug().Str("file", path).Int("dpi", flags.dpi).Str("lang", flags.lang).Msg("Starting extraction")

	result, err := client.Extract(ctx, path, extractor.Options{DPI: flags.dpi, Language: flags.lang})
	if err != nil {
		return fail(err)
	}
	ui.Stop()

	if flags.outputPath != "" {
		if err := os.WriteFile(flags.outputPath, []byte(result.Text), 0o644); err != nil {
			return fail(domain.IOError(fmt.Sprintf("failed to write output file: %s", flags.outputPath), err))
		}
		logger.Info().Str("output", flags.outputPath).Msg("Saved extracted text")
	}

	if flags.format == "text" {
		fmt.Fprintln(stdout, result.Text)
		ui.Summary(result, flags.outputPath)
		return exitSuccess
	}

	if err := response.WriteSuccess(stdout, result); err != nil {
		logger.Error().Err(err).Msg("Failed to write result")
		return exitFailure
	}
	return exitSuccess
}
