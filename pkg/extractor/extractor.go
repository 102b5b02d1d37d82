// Package extractor is the public entry point for OCR extraction of images
// and PDF files.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spherical/ocr-extractor/internal/config"
	"github.com/spherical/ocr-extractor/internal/domain"
	"github.com/spherical/ocr-extractor/internal/extract"
	"github.com/spherical/ocr-extractor/internal/observability"
	"github.com/spherical/ocr-extractor/internal/ocr/tesseract"
	"github.com/spherical/ocr-extractor/internal/pdf"
)

// Re-export domain types for the public API
type (
	Result        = domain.Result
	Options       = domain.Options
	ProgressEvent = domain.ProgressEvent
	EventType     = domain.EventType
	FileKind      = domain.FileKind
)

// Event type constants
const (
	EventStart          = domain.EventStart
	EventPageProcessing = domain.EventPageProcessing
	EventPageComplete   = domain.EventPageComplete
	EventComplete       = domain.EventComplete
)

// File kinds
const (
	KindImage = domain.KindImage
	KindPDF   = domain.KindPDF
)

// Client runs extractions with a fixed configuration
type Client struct {
	service  *extract.Service
	defaults domain.Options
	timeout  time.Duration
}

// ClientOption configures a Client
type ClientOption func(*clientOptions)

type clientOptions struct {
	logger   *observability.Logger
	progress extract.ProgressFunc
}

// WithLogger sets the logger used by every component
func WithLogger(logger *observability.Logger) ClientOption {
	return func(o *clientOptions) { o.logger = logger }
}

// WithProgress registers a callback for progress events
func WithProgress(fn func(ProgressEvent)) ClientOption {
	return func(o *clientOptions) { o.progress = fn }
}

// NewClient creates a client backed by Tesseract and MuPDF
func NewClient(cfg *config.Config, opts ...ClientOption) (*Client, error) {
	if cfg == nil {
		return nil, domain.ConfigError("configuration is required", nil)
	}
	o := collect(opts)

	recognizer := tesseract.NewEngine(
		tesseract.WithPageSegMode(cfg.OCR.PageSegMode),
		tesseract.WithTessdataPrefix(cfg.OCR.TessdataPrefix),
		tesseract.WithLogger(o.logger),
	)
	return New(cfg, pdf.NewConverter(o.logger), recognizer, opts...)
}

// New creates a client from explicit components
func New(cfg *config.Config, converter domain.Converter, recognizer domain.Recognizer, opts ...ClientOption) (*Client, error) {
	if cfg == nil {
		return nil, domain.ConfigError("configuration is required", nil)
	}
	if converter == nil || recognizer == nil {
		return nil, domain.ConfigError("converter and recognizer are required", nil)
	}
	o := collect(opts)

	service := extract.NewService(converter, recognizer,
		extract.WithLogger(o.logger),
		extract.WithProgress(o.progress),
		extract.WithLimits(extract.Limits{
			MinDPI:             cfg.OCR.MinDPI,
			MaxDPI:             cfg.OCR.MaxDPI,
			SupportedLanguages: cfg.OCR.SupportedLanguages,
		}),
	)

	return &Client{
		service:  service,
		defaults: domain.Options{DPI: cfg.OCR.DefaultDPI, Language: cfg.OCR.DefaultLang},
		timeout:  cfg.OCR.Timeout,
	}, nil
}

// Defaults returns the options used for unset fields
func (c *Client) Defaults() Options {
	return c.defaults
}

// Extract recognizes the text in path. Zero-valued fields of opts fall back
// to the configured defaults.
func (c *Client) Extract(ctx context.Context, path string, opts Options) (*Result, error) {
	if opts.DPI == 0 {
		opts.DPI = c.defaults.DPI
	}
	if opts.Language == "" {
		opts.Language = c.defaults.Language
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	result, err := c.service.Process(ctx, path, opts)
	if err != nil {
		return nil, c.contextError(err)
	}
	return result, nil
}

func (c *Client) contextError(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return domain.TimeoutError(fmt.Sprintf("OCR processing exceeded the time limit of %s", c.timeout), nil)
	case errors.Is(err, context.Canceled):
		return domain.CanceledError("OCR processing was canceled", nil)
	default:
		return err
	}
}

func collect(opts []ClientOption) clientOptions {
	o := clientOptions{logger: observability.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = observability.Nop()
	}
	return o
}
