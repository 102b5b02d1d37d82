package domain

import (
	"image"
	"path/filepath"
	"strings"
	"time"
)

// PageBreak separates the text of consecutive PDF pages in a Result.
const PageBreak = "\n\n--- Page Break ---\n\n"

// FileKind is the handling path selected for an input file
type FileKind string

const (
	KindUnknown FileKind = ""
	KindImage   FileKind = "image"
	KindPDF     FileKind = "pdf"
)

// ImageExtensions lists the raster formats accepted by the image handler
var ImageExtensions = []string{"jpg", "jpeg", "png", "gif", "bmp", "tiff", "tif"}

// SupportedExtensions lists every extension the dispatcher accepts, in the
// order they are reported to users.
var SupportedExtensions = append(append([]string(nil), ImageExtensions...), "pdf")

// Extension returns the lowercase extension of path without the leading dot
func Extension(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// ClassifyExtension maps a lowercase extension to a FileKind
func ClassifyExtension(ext string) FileKind {
	if ext == "pdf" {
		return KindPDF
	}
	for _, e := range ImageExtensions {
		if e == ext {
			return KindImage
		}
	}
	return KindUnknown
}

// Options carries per-run OCR parameters
type Options struct {
	DPI      int    // Resolution for rasterization and the OCR engine hint
	Language string // Tesseract language expression, e.g. "spa+eng"
}

// Languages splits the language expression into individual codes
func (o Options) Languages() []string {
	parts := strings.Split(o.Language, "+")
	langs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			langs = append(langs, p)
		}
	}
	return langs
}

// PageImage represents a single raster page ready for recognition
type PageImage struct {
	PageNumber int // 1-based
	Image      image.Image
	Width      int
	Height     int
}

// Result is the outcome of a successful extraction
type Result struct {
	Kind     FileKind
	Text     string
	Pages    int
	Duration time.Duration
}

// EventType represents the type of progress event
type EventType string

const (
	EventStart          EventType = "start"
	EventPageProcessing EventType = "page_processing"
	EventPageComplete   EventType = "page_complete"
	EventComplete       EventType = "complete"
)

// ProgressEvent is reported synchronously while a file is processed
type ProgressEvent struct {
	Type       EventType
	Kind       FileKind
	PageNumber int
	TotalPages int
	Timestamp  time.Time
}
