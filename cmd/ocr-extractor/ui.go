package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/spherical/ocr-extractor/pkg/extractor"
)

// UI renders progress and summaries on stderr.
type UI struct {
	out         io.Writer
	interactive bool
	bar         *progressbar.ProgressBar
	spinner     *spinner.Spinner
}

// NewUI creates a UI writing to out. Progress indicators are only drawn when
// requested and out is a terminal.
func NewUI(out io.Writer, progress bool) *UI {
	return &UI{out: out, interactive: progress && IsTerminal(out)}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// OnProgress consumes extractor progress events.
func (ui *UI) OnProgress(ev extractor.ProgressEvent) {
	if !ui.interactive {
		return
	}
	switch ev.Type {
	case extractor.EventStart:
		if ev.Kind == extractor.KindPDF {
			ui.bar = ui.newProgressBar(ev.TotalPages)
			return
		}
		ui.spinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		ui.spinner.Suffix = " Recognizing image..."
		ui.spinner.Writer = ui.out
		ui.spinner.Start()
	case extractor.EventPageProcessing:
		if ui.bar != nil {
			ui.bar.Describe(fmt.Sprintf("Page %d/%d", ev.PageNumber, ev.TotalPages))
		}
	case extractor.EventPageComplete:
		if ui.bar != nil {
			_ = ui.bar.Add(1)
		}
	case extractor.EventComplete:
		ui.Stop()
	}
}

func (ui *UI) newProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Rasterizing"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionSetWriter(ui.out),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("pages"),
		progressbar.OptionShowIts(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(ui.out, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// Stop ends any running progress indicator.
func (ui *UI) Stop() {
	if ui.spinner != nil {
		ui.spinner.Stop()
		ui.spinner = nil
	}
	if ui.bar != nil {
		_ = ui.bar.Finish()
		ui.bar = nil
	}
}

// Summary prints extraction statistics.
func (ui *UI) Summary(result *extractor.Result, outputPath string) {
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	green.Fprintf(ui.out, "✓ Pages processed: %d\n", result.Pages)
	cyan.Fprintf(ui.out, "ℹ Processing time: %.2f seconds\n", result.Duration.Seconds())
	cyan.Fprintf(ui.out, "ℹ Characters extracted: %d\n", len([]rune(result.Text)))
	if outputPath != "" {
		green.Fprintf(ui.out, "✓ Result saved to: %s\n", outputPath)
	}
}

// Error prints an error message.
func (ui *UI) Error(format string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(ui.out, "✗ %s\n", fmt.Sprintf(format, args...))
}
