// Package progress renders transfer progress for the CLI: a single bar for
// one-off transfers and a multi-bar batch view for concurrent uploads and
// downloads. Bars draw to stderr so command output stays pipeable.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter is the progress surface transfer code reports through.
type Reporter interface {
	Start(total int64, description string)
	Update(current int64)
	Finish()
	Error(err error)
}

// SingleBar renders one transfer with a byte-counting bar.
type SingleBar struct {
	bar *progressbar.ProgressBar
	out io.Writer
}

// NewSingleBar creates a single-transfer reporter writing to stderr.
func NewSingleBar() *SingleBar {
	return &SingleBar{out: os.Stderr}
}

// Start initializes the bar with the transfer size and label.
func (p *SingleBar) Start(total int64, description string) {
	p.bar = progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(100),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(p.out, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// Update moves the bar to the current byte position.
func (p *SingleBar) Update(current int64) {
	if p.bar != nil {
		_ = p.bar.Set64(current)
	}
}

// Finish completes the bar.
func (p *SingleBar) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

// Error prints the failure under the bar.
func (p *SingleBar) Error(err error) {
	if err != nil {
		fmt.Fprintf(p.out, "\nError: %v\n", err)
	}
}

// Silent is a reporter that does nothing, for scripted runs.
type Silent struct{}

func (Silent) Start(total int64, description string) {}
func (Silent) Update(current int64)                  {}
func (Silent) Finish()                               {}
func (Silent) Error(err error)                       {}

// CountingReader wraps a reader and reports bytes as they pass through.
type CountingReader struct {
	reader   io.Reader
	reporter Reporter
	current  int64
}

// NewCountingReader wires a reader to a reporter.
func NewCountingReader(r io.Reader, reporter Reporter) *CountingReader {
	return &CountingReader{reader: r, reporter: reporter}
}

func (cr *CountingReader) Read(p []byte) (int, error) {
	n, err := cr.reader.Read(p)
	cr.current += int64(n)
	cr.reporter.Update(cr.current)
	return n, err
}
