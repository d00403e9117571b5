package progress

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"
)

// BatchUI manages progress bars for a batch of concurrent transfers.
// Outside a terminal the bars are disabled and each transfer prints plain
// start and finish lines instead.
type BatchUI struct {
	progress   *mpb.Progress
	isTerminal bool
	totalFiles int
	completed  int32
}

// NewBatchUI creates a batch view sized for totalFiles transfers.
func NewBatchUI(totalFiles int) *BatchUI {
	isTerminal := term.IsTerminal(int(os.Stderr.Fd()))

	var p *mpb.Progress
	if isTerminal {
		p = mpb.New(
			mpb.WithOutput(os.Stderr),
			mpb.WithRefreshRate(300*time.Millisecond),
			mpb.WithWidth(80),
		)
	} else {
		p = mpb.New(mpb.WithOutput(io.Discard))
	}

	return &BatchUI{
		progress:   p,
		isTerminal: isTerminal,
		totalFiles: totalFiles,
	}
}

// FileBar is one transfer's bar within the batch.
type FileBar struct {
	ui        *BatchUI
	bar       *mpb.Bar
	index     int
	name      string
	verb      string
	size      int64
	startTime time.Time
}

// AddFileBar registers a transfer with the batch view. verb labels the
// direction, "upload" or "download".
func (u *BatchUI) AddFileBar(index int, name, verb string, size int64) *FileBar {
	fb := &FileBar{
		ui:        u,
		index:     index,
		name:      name,
		verb:      verb,
		size:      size,
		startTime: time.Now(),
	}

	if u.isTerminal {
		fb.bar = u.progress.New(size,
			mpb.BarStyle().Lbound("[").Filler("█").Tip("█").Padding("░").Rbound("]"),
			mpb.PrependDecorators(
				decor.Name(fmt.Sprintf("[%d/%d] %s", index, u.totalFiles, name), decor.WCSyncSpace),
			),
			mpb.AppendDecorators(
				decor.CountersKibiByte("% .1f / % .1f", decor.WCSyncSpace),
				decor.Name("  "),
				decor.Percentage(decor.WCSyncSpace),
			),
			mpb.BarRemoveOnComplete(),
		)
	} else {
		fmt.Fprintf(os.Stderr, "%s [%d/%d]: %s (%.1f KiB)\n",
			verb, index, u.totalFiles, name, float64(size)/1024)
	}
	return fb
}

// SetCurrent moves the bar to an absolute byte position.
func (f *FileBar) SetCurrent(current int64) {
	if f.bar != nil {
		f.bar.SetCurrent(current)
	}
}

// Complete settles the bar and prints the transfer outcome above the
// remaining bars.
func (f *FileBar) Complete(err error) {
	done := atomic.AddInt32(&f.ui.completed, 1)

	if f.bar != nil {
		f.bar.SetCurrent(f.size)
		f.bar.SetTotal(f.size, true)
		if err != nil {
			f.bar.Abort(true)
		}
	}

	out := f.ui.Writer()
	if err != nil {
		fmt.Fprintf(out, "✗ %s: %s failed: %v\n", f.name, f.verb, err)
		return
	}
	elapsed := time.Since(f.startTime).Round(time.Millisecond)
	fmt.Fprintf(out, "✓ %s (%d/%d, %.1f KiB, %s)\n",
		f.name, done, f.ui.totalFiles, float64(f.size)/1024, elapsed)
}

// Writer returns a writer that prints above active bars in terminal mode.
func (u *BatchUI) Writer() io.Writer {
	if u.isTerminal {
		return u.progress
	}
	return os.Stderr
}

// Wait blocks until every registered bar has settled.
func (u *BatchUI) Wait() {
	u.progress.Wait()
}
