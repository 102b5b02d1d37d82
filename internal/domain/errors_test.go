package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainErrorFormatting(t *testing.T) {
	cause := errors.New("boom")

	if got := ValidationError("bad input", nil).Error(); got != "[validation] bad input" {
		t.Errorf("unexpected message: %q", got)
	}
	if got := OCRError("recognize page 2", cause).Error(); got != "[ocr] recognize page 2: boom" {
		t.Errorf("unexpected message: %q", got)
	}

	wrapped := ConversionError("open pdf", cause)
	if !errors.Is(wrapped, cause) {
		t.Error("expected wrapped error to unwrap to cause")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"domain error", DecodeError("x", nil), ErrorTypeDecode},
		{"wrapped domain error", fmt.Errorf("outer: %w", TimeoutError("x", nil)), ErrorTypeTimeout},
		{"plain error", errors.New("plain"), ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"not found keeps bare message", NotFoundError("File not found: a.png", errors.New("stat")), "File not found: a.png"},
		{"validation keeps type", ValidationError("Path is not a file: /tmp", nil), "[validation] Path is not a file: /tmp"},
		{"untyped", errors.New("kaput"), "[internal] kaput"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.err); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}
