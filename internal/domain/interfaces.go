package domain

import (
	"context"
	"image"
)

// Converter opens PDF files for page-by-page rasterization
type Converter interface {
	Open(ctx context.Context, pdfPath string) (Document, error)
}

// Document is an open PDF whose pages are rendered on demand
type Document interface {
	// NumPages returns the number of pages in the document
	NumPages() int

	// RenderPage rasterizes the zero-based page index at the given DPI
	RenderPage(ctx context.Context, index int, dpi int) (*PageImage, error)

	// Close releases the underlying document
	Close() error
}

// Recognizer runs optical character recognition on a single image
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image, opts Options) (string, error)
}
