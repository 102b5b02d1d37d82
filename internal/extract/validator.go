package extract

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spherical/ocr-extractor/internal/domain"
)

var languageCode = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Limits bounds the options a caller may request
type Limits struct {
	MinDPI             int
	MaxDPI             int
	SupportedLanguages []string // empty accepts any well-formed code
}

// DefaultLimits returns the stock DPI range with no language restriction
func DefaultLimits() Limits {
	return Limits{MinDPI: 72, MaxDPI: 2000}
}

// ValidatePath checks that path names an existing regular file
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return domain.ValidationError("file path cannot be empty", nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NotFoundError(fmt.Sprintf("File not found: %s", path), err)
		}
		return domain.IOError(fmt.Sprintf("cannot access file: %s", path), err)
	}

	if !info.Mode().IsRegular() {
		return domain.ValidationError(fmt.Sprintf("Path is not a file: %s", path), nil)
	}

	return nil
}

// ValidateOptions checks DPI and language against limits
func ValidateOptions(opts domain.Options, limits Limits) error {
	if opts.DPI < limits.MinDPI || opts.DPI > limits.MaxDPI {
		return domain.ValidationError(
			fmt.Sprintf("DPI must be between %d and %d. Received: %d", limits.MinDPI, limits.MaxDPI, opts.DPI), nil)
	}

	if strings.TrimSpace(opts.Language) == "" {
		return domain.ValidationError("language cannot be empty", nil)
	}

	langs := strings.Split(opts.Language, "+")
	for _, lang := range langs {
		if !languageCode.MatchString(lang) {
			return domain.ValidationError(fmt.Sprintf("Invalid language code: %q", lang), nil)
		}
	}

	if len(limits.SupportedLanguages) == 0 || contains(limits.SupportedLanguages, opts.Language) {
		return nil
	}
	for _, lang := range langs {
		if !contains(limits.SupportedLanguages, lang) {
			return domain.ValidationError(
				fmt.Sprintf("Unsupported language: %s. Supported: %s", lang, strings.Join(limits.SupportedLanguages, ", ")), nil)
		}
	}

	return nil
}

// unsupportedTypeError reports an extension outside domain.SupportedExtensions
func unsupportedTypeError(ext string) error {
	return domain.ValidationError(
		fmt.Sprintf("Unsupported file type: .%s. Supported: %s", ext, strings.Join(domain.SupportedExtensions, ", ")), nil)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
