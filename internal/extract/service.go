package extract

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/spherical/ocr-extractor/internal/domain"
	"github.com/spherical/ocr-extractor/internal/imaging"
	"github.com/spherical/ocr-extractor/internal/observability"
)

// ProgressFunc receives progress events synchronously
type ProgressFunc func(domain.ProgressEvent)

// Service dispatches files to the image or PDF handler
type Service struct {
	converter  domain.Converter
	recognizer domain.Recognizer
	logger     *observability.Logger
	limits     Limits
	progress   ProgressFunc
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets the service logger
func WithLogger(logger *observability.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLimits sets the accepted DPI range and languages
func WithLimits(limits Limits) Option {
	return func(s *Service) { s.limits = limits }
}

// WithProgress registers a progress callback
func WithProgress(fn ProgressFunc) Option {
	return func(s *Service) { s.progress = fn }
}

// NewService creates a new extraction service
func NewService(converter domain.Converter, recognizer domain.Recognizer, opts ...Option) *Service {
	s := &Service{
		converter:  converter,
		recognizer: recognizer,
		logger:     observability.Nop(),
		limits:     DefaultLimits(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithOperation("extract")
	return s
}

// Process validates the request, classifies path by extension and runs the
// matching handler.
func (s *Service) Process(ctx context.Context, path string, opts domain.Options) (*domain.Result, error) {
	startTime := time.Now()

	if err := ValidatePath(path); err != nil {
		return nil, err
	}
	ext := domain.Extension(path)
	kind := domain.ClassifyExtension(ext)
	if kind == domain.KindUnknown {
		return nil, unsupportedTypeError(ext)
	}
	if err := ValidateOptions(opts, s.limits); err != nil {
		return nil, err
	}

	var (
		result *domain.Result
		err    error
	)
	if kind == domain.KindPDF {
		result, err = s.ProcessPDF(ctx, path, opts)
	} else {
		result, err = s.ProcessImage(ctx, path, opts)
	}
	if err == nil {
		// Rendering and recognition run in native code that ignores ctx.
		err = ctx.Err()
	}
	if err != nil {
		s.logger.Error().Err(err).Str("file", path).Msg("Extraction failed")
		return nil, err
	}

	result.Duration = time.Since(startTime)
	s.logger.Info().
		Str("file", path).
		Str("kind", string(result.Kind)).
		Int("pages", result.Pages).
		Int("text_length", len(result.Text)).
		Dur("processing_time", result.Duration).
		Msg("Extraction complete")

	return result, nil
}

// ProcessImage recognizes a single raster image
func (s *Service) ProcessImage(ctx context.Context, path string, opts domain.Options) (*domain.Result, error) {
	s.emit(domain.EventStart, domain.KindImage, 0, 1)

	img, format, err := imaging.Open(path)
	if err != nil {
		return nil, err
	}

	if !imaging.IsNormalized(img) {
		s.logger.Debug().Str("file", path).Str("format", format).Msgf("Converting %T to RGB", img)
	}
	img = imaging.Normalize(img)

	s.emit(domain.EventPageProcessing, domain.KindImage, 1, 1)
	text, err := s.recognize(ctx, img, opts)
	if err != nil {
		return nil, err
	}
	s.emit(domain.EventPageComplete, domain.KindImage, 1, 1)
	s.emit(domain.EventComplete, domain.KindImage, 1, 1)

	return &domain.Result{
		Kind:  domain.KindImage,
		Text:  strings.TrimSpace(text),
		Pages: 1,
	}, nil
}

// ProcessPDF rasterizes and recognizes every page of a PDF in order
func (s *Service) ProcessPDF(ctx context.Context, path string, opts domain.Options) (*domain.Result, error) {
	doc, err := s.converter.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			s.logger.Warn().Err(cerr).Str("file", path).Msg("Failed to close PDF")
		}
	}()

	total := doc.NumPages()
	s.logger.Info().Str("file", path).Int("pages", total).Int("dpi", opts.DPI).Msg("Processing PDF")
	s.emit(domain.EventStart, domain.KindPDF, 0, total)

	texts := make([]string, 0, total)
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pageNumber := i + 1
		s.emit(domain.EventPageProcessing, domain.KindPDF, pageNumber, total)

		page, err := doc.RenderPage(ctx, i, opts.DPI)
		if err != nil {
			return nil, annotatePage(err, pageNumber)
		}

		text, err := s.recognize(ctx, imaging.Normalize(page.Image), opts)
		if err != nil {
			return nil, annotatePage(err, pageNumber)
		}
		texts = append(texts, strings.TrimSpace(text))

		s.logger.Debug().Int("page", pageNumber).Int("chars", len(text)).Msg("Page recognized")
		s.emit(domain.EventPageComplete, domain.KindPDF, pageNumber, total)
	}

	s.emit(domain.EventComplete, domain.KindPDF, total, total)

	return &domain.Result{
		Kind:  domain.KindPDF,
		Text:  strings.Join(texts, domain.PageBreak),
		Pages: total,
	}, nil
}

type recognition struct {
	text string
	err  error
}

// recognize returns as soon as ctx is done. An abandoned call keeps running
// until the recognizer finishes on its own.
func (s *Service) recognize(ctx context.Context, img image.Image, opts domain.Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	done := make(chan recognition, 1)
	go func() {
		text, err := s.recognizer.Recognize(ctx, img, opts)
		done <- recognition{text: text, err: err}
	}()

	select {
	case r := <-done:
		return r.text, r.err
	case <-ctx.Done():
		s.logger.Warn().Err(ctx.Err()).Msg("Abandoning recognition")
		return "", ctx.Err()
	}
}

// annotatePage prefixes the page number onto err's message. Context errors
// pass through so callers can still match them.
func annotatePage(err error, page int) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var de *domain.DomainError
	if errors.As(err, &de) {
		return domain.NewError(de.Type, fmt.Sprintf("page %d: %s", page, de.Message), de.Err)
	}
	return domain.OCRError(fmt.Sprintf("page %d", page), err)
}

func (s *Service) emit(t domain.EventType, kind domain.FileKind, page, total int) {
	if s.progress == nil {
		return
	}
	s.progress(domain.ProgressEvent{
		Type:       t,
		Kind:       kind,
		PageNumber: page,
		TotalPages: total,
		Timestamp:  time.Now(),
	})
}
