package extractor

import (
	"context"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/ocr-extractor/internal/config"
	"github.com/spherical/ocr-extractor/internal/domain"
)

type stubConverter struct{}

func (stubConverter) Open(ctx context.Context, path string) (domain.Document, error) {
	return nil, domain.ConversionError("not used", nil)
}

type stubRecognizer struct {
	got   []domain.Options
	block bool
}

func (r *stubRecognizer) Recognize(ctx context.Context, img image.Image, opts domain.Options) (string, error) {
	r.got = append(r.got, opts)
	if r.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return "texto", nil
}

func writeGrayPNG(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scan.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, 4, 4))))
	return path
}

func TestNewRequiresComponents(t *testing.T) {
	_, err := New(nil, stubConverter{}, &stubRecognizer{})
	assert.Equal(t, domain.ErrorTypeConfig, domain.KindOf(err))

	_, err = New(config.DefaultConfig(), nil, &stubRecognizer{})
	assert.Equal(t, domain.ErrorTypeConfig, domain.KindOf(err))
}

func TestExtractAppliesDefaults(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OCR.DefaultDPI = 450
	cfg.OCR.DefaultLang = "spa+eng"
	rec := &stubRecognizer{}

	client, err := New(cfg, stubConverter{}, rec)
	require.NoError(t, err)
	assert.Equal(t, Options{DPI: 450, Language: "spa+eng"}, client.Defaults())

	result, err := client.Extract(context.Background(), writeGrayPNG(t), Options{})
	require.NoError(t, err)
	assert.Equal(t, "texto", result.Text)
	assert.Equal(t, KindImage, result.Kind)

	_, err = client.Extract(context.Background(), writeGrayPNG(t), Options{DPI: 96, Language: "eng"})
	require.NoError(t, err)

	assert.Equal(t, []domain.Options{
		{DPI: 450, Language: "spa+eng"},
		{DPI: 96, Language: "eng"},
	}, rec.got)
}

func TestExtractUsesConfiguredLimits(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OCR.MaxDPI = 600
	cfg.OCR.SupportedLanguages = []string{"spa"}

	client, err := New(cfg, stubConverter{}, &stubRecognizer{})
	require.NoError(t, err)

	_, err = client.Extract(context.Background(), writeGrayPNG(t), Options{DPI: 601})
	assert.Equal(t, "[validation] DPI must be between 72 and 600. Received: 601", domain.Describe(err))

	_, err = client.Extract(context.Background(), writeGrayPNG(t), Options{Language: "eng"})
	assert.Equal(t, "[validation] Unsupported language: eng. Supported: spa", domain.Describe(err))
}

func TestExtractTimeout(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OCR.Timeout = 20 * time.Millisecond

	client, err := New(cfg, stubConverter{}, &stubRecognizer{block: true})
	require.NoError(t, err)

	_, err = client.Extract(context.Background(), writeGrayPNG(t), Options{})
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeTimeout, domain.KindOf(err))
	assert.Equal(t, "[timeout] OCR processing exceeded the time limit of 20ms", domain.Describe(err))
}

type sleepyRecognizer struct{}

func (sleepyRecognizer) Recognize(ctx context.Context, img image.Image, opts domain.Options) (string, error) {
	time.Sleep(time.Second)
	return "late", nil
}

func TestExtractTimeoutWithBlockingRecognizer(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OCR.Timeout = 30 * time.Millisecond

	client, err := New(cfg, stubConverter{}, sleepyRecognizer{})
	require.NoError(t, err)

	start := time.Now()
	result, err := client.Extract(context.Background(), writeGrayPNG(t), Options{})

	assert.Nil(t, result)
	assert.Equal(t, "[timeout] OCR processing exceeded the time limit of 30ms", domain.Describe(err))
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestExtractCanceled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OCR.Timeout = 0
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client, err := New(cfg, stubConverter{}, &stubRecognizer{block: true})
	require.NoError(t, err)

	_, err = client.Extract(ctx, writeGrayPNG(t), Options{})
	assert.Equal(t, domain.ErrorTypeCanceled, domain.KindOf(err))
}

func TestProgressCallback(t *testing.T) {
	var types []EventType
	client, err := New(config.DefaultConfig(), stubConverter{}, &stubRecognizer{},
		WithProgress(func(ev ProgressEvent) { types = append(types, ev.Type) }))
	require.NoError(t, err)

	_, err = client.Extract(context.Background(), writeGrayPNG(t), Options{})
	require.NoError(t, err)
	assert.Equal(t, []EventType{EventStart, EventPageProcessing, EventPageComplete, EventComplete}, types)
}

func TestClientEndToEndPDF(t *testing.T) {
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract not installed in PATH")
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "B", 36)
	for _, word := range []string{"ALPHA", "BRAVO"} {
		doc.AddPage()
		doc.Cell(120, 30, word)
	}
	path := filepath.Join(t.TempDir(), "words.pdf")
	require.NoError(t, doc.OutputFileAndClose(path))

	client, err := NewClient(config.DefaultConfig())
	require.NoError(t, err)

	result, err := client.Extract(context.Background(), path, Options{DPI: 150, Language: "eng"})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Pages)
	parts := strings.Split(result.Text, domain.PageBreak)
	require.Len(t, parts, 2)
	assert.Contains(t, strings.ToUpper(parts[0]), "ALPHA")
	assert.Contains(t, strings.ToUpper(parts[1]), "BRAVO")
}
