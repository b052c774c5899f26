package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/ytget/tnadl/types"
)

const (
	plainStepPercent = 10
	plainInterval    = 5 * time.Second
)

// progressReporter draws a progress bar on terminals and prints sparse
// plain lines otherwise.
type progressReporter struct {
	w   io.Writer
	tty bool
	bar *progressbar.ProgressBar

	lastStep int
	lastLine time.Time
	last     types.Progress
	now      func() time.Time
}

func newProgressReporter(w io.Writer) *progressReporter {
	return &progressReporter{w: w, tty: isTerminal(w), lastStep: -1, now: time.Now}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Update receives cumulative progress from the downloader.
func (r *progressReporter) Update(p types.Progress) {
	r.last = p
	if r.tty {
		r.updateBar(p)
		return
	}
	r.updatePlain(p)
}

func (r *progressReporter) updateBar(p types.Progress) {
	total := p.TotalSize
	if !p.Known() {
		total = -1
	}
	if r.bar == nil {
		r.bar = progressbar.NewOptions64(total,
			progressbar.OptionSetWriter(r.w),
			progressbar.OptionSetDescription("downloading"),
			progressbar.OptionShowBytes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(20),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionFullWidth(),
			progressbar.OptionSetRenderBlankState(true),
		)
	} else if r.bar.GetMax64() != total {
		r.bar.ChangeMax64(total)
	}
	_ = r.bar.Set64(p.DownloadedSize)
}

func (r *progressReporter) updatePlain(p types.Progress) {
	now := r.now()
	if p.Known() {
		step := int(p.Percent) / plainStepPercent
		if step == r.lastStep {
			return
		}
		r.lastStep = step
		r.lastLine = now
		fmt.Fprintf(r.w, "Downloaded %5.1f%% of %s\n", p.Percent, humanize.IBytes(uint64(p.TotalSize)))
		return
	}
	if !r.lastLine.IsZero() && now.Sub(r.lastLine) < plainInterval {
		return
	}
	r.lastLine = now
	fmt.Fprintf(r.w, "Downloaded %s\n", humanize.IBytes(uint64(p.DownloadedSize)))
}

// Finish completes the bar or prints the final plain line.
func (r *progressReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
		fmt.Fprintln(r.w)
		return
	}
	if !r.tty && !r.last.Known() && r.last.DownloadedSize > 0 {
		fmt.Fprintf(r.w, "Downloaded %s\n", humanize.IBytes(uint64(r.last.DownloadedSize)))
	}
}
