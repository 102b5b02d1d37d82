// Package tesseract implements domain.Recognizer on top of the gosseract
// bindings to libtesseract.
package tesseract

import (
	"context"
	"image"
	"strconv"

	"github.com/otiai10/gosseract/v2"

	"github.com/spherical/ocr-extractor/internal/domain"
	"github.com/spherical/ocr-extractor/internal/imaging"
	"github.com/spherical/ocr-extractor/internal/observability"
)

// Engine runs Tesseract once per image with a fresh client.
type Engine struct {
	clientFactory  func() *gosseract.Client
	pageSegMode    int
	tessdataPrefix string
	logger         *observability.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithPageSegMode sets the Tesseract page segmentation mode (0-13).
func WithPageSegMode(mode int) Option {
	return func(e *Engine) { e.pageSegMode = mode }
}

// WithTessdataPrefix points Tesseract at a custom traineddata directory.
func WithTessdataPrefix(prefix string) Option {
	return func(e *Engine) { e.tessdataPrefix = prefix }
}

// WithLogger attaches a logger to the engine.
func WithLogger(logger *observability.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine constructs a Tesseract-backed recognizer.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		clientFactory: gosseract.NewClient,
		pageSegMode:   int(gosseract.PSM_AUTO),
		logger:        observability.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.WithOperation("ocr")
	return e
}

// Version reports the linked libtesseract version.
func Version() string {
	return gosseract.Version()
}

// Recognize performs OCR on img using the languages and DPI from opts.
func (e *Engine) Recognize(ctx context.Context, img image.Image, opts domain.Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	langs := opts.Languages()
	if len(langs) == 0 {
		return "", domain.ValidationError("at least one OCR language is required", nil)
	}

	data, err := imaging.EncodePNG(img)
	if err != nil {
		return "", domain.OCRError("failed to prepare image", err)
	}

	c := e.clientFactory()
	defer c.Close()

	if e.tessdataPrefix != "" {
		if err := c.SetTessdataPrefix(e.tessdataPrefix); err != nil {
			return "", domain.OCRError("failed to set tessdata prefix", err)
		}
	}
	if err := c.SetLanguage(langs...); err != nil {
		return "", domain.OCRError("failed to set languages", err)
	}
	if err := c.SetPageSegMode(gosseract.PageSegMode(e.pageSegMode)); err != nil {
		return "", domain.OCRError("failed to set page segmentation mode", err)
	}
	if opts.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), strconv.Itoa(opts.DPI)); err != nil {
			return "", domain.OCRError("failed to set dpi", err)
		}
	}
	if err := c.SetImageFromBytes(data); err != nil {
		return "", domain.OCRError("failed to load image", err)
	}

	text, err := c.Text()
	if err != nil {
		return "", domain.OCRError("failed to recognize text", err)
	}

	b := img.Bounds()
	e.logger.Debug().
		Strs("languages", langs).
		Int("dpi", opts.DPI).
		Int("width", b.Dx()).
		Int("height", b.Dy()).
		Int("chars", len(text)).
		Msg("Recognized image")

	return text, nil
}
