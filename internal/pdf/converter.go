// Package pdf rasterizes PDF pages with MuPDF through go-fitz.
package pdf

import (
	"context"
	"fmt"

	"github.com/gen2brain/go-fitz"

	"github.com/spherical/ocr-extractor/internal/domain"
	"github.com/spherical/ocr-extractor/internal/observability"
)

// Converter implements domain.Converter using go-fitz
type Converter struct {
	logger *observability.Logger
}

// NewConverter creates a new PDF converter instance
func NewConverter(logger *observability.Logger) *Converter {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Converter{logger: logger.WithOperation("pdf")}
}

// Open opens pdfPath for rendering. The caller must Close the document.
func (c *Converter) Open(ctx context.Context, pdfPath string) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, domain.ConversionError(fmt.Sprintf("failed to open PDF: %s", pdfPath), err)
	}

	pageCount := doc.NumPage()
	if pageCount == 0 {
		doc.Close()
		return nil, domain.ValidationError("PDF has no pages", nil)
	}

	c.logger.Debug().Str("file", pdfPath).Int("pages", pageCount).Msg("Opened PDF")

	return &document{doc: doc, pages: pageCount, logger: c.logger}, nil
}

type document struct {
	doc    *fitz.Document
	pages  int
	logger *observability.Logger
}

func (d *document) NumPages() int {
	return d.pages
}

// RenderPage rasterizes the zero-based page index at dpi
func (d *document) RenderPage(ctx context.Context, index int, dpi int) (*domain.PageImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if index < 0 || index >= d.pages {
		return nil, domain.ValidationError(fmt.Sprintf("page %d out of range (1-%d)", index+1, d.pages), nil)
	}

	img, err := d.doc.ImageDPI(index, float64(dpi))
	if err != nil {
		return nil, domain.ConversionError("render failed", err)
	}

	bounds := img.Bounds()
	d.logger.Debug().
		Int("page", index+1).
		Int("dpi", dpi).
		Int("width", bounds.Dx()).
		Int("height", bounds.Dy()).
		Msg("Rendered page")

	return &domain.PageImage{
		PageNumber: index + 1,
		Image:      img,
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
	}, nil
}

func (d *document) Close() error {
	if d.doc == nil {
		return nil
	}
	err := d.doc.Close()
	d.doc = nil
	return err
}
