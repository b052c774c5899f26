// Package downloader transfers a selected media variant to local storage.
//
// Two strategies are available. ModeDirect streams a single GET into a
// truncated file. ModeResumable continues an existing partial file with a
// range request and is the default used by the CLI.
package downloader

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ytget/tnadl/errs"
	"github.com/ytget/tnadl/internal/logger"
	"github.com/ytget/tnadl/pkg/client"
	"github.com/ytget/tnadl/types"
)

const (
	// DefaultChunkSize is the read size of the direct strategy.
	DefaultChunkSize = 32 * 1024
	// MinChunkSize and MaxChunkSize bound WithChunkSize.
	MinChunkSize = 8 * 1024
	MaxChunkSize = 1 << 20

	defaultProgressInterval = 200 * time.Millisecond
	dirPerm                 = 0o755
	filePerm                = 0o644

	headerUserAgent      = "User-Agent"
	headerAccept         = "Accept"
	headerAcceptEncoding = "Accept-Encoding"
)

// Mode selects the transfer strategy.
type Mode int

const (
	// ModeResumable continues a partial file at the target path.
	ModeResumable Mode = iota
	// ModeDirect always starts from byte zero.
	ModeDirect
)

func (m Mode) String() string {
	switch m {
	case ModeResumable:
		return "resumable"
	case ModeDirect:
		return "direct"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode maps a config or flag value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "resumable", "resume":
		return ModeResumable, nil
	case "direct":
		return ModeDirect, nil
	}
	return ModeResumable, fmt.Errorf("unknown transfer mode %q (want resumable or direct)", s)
}

// Result summarises a finished or failed transfer.
type Result struct {
	Path         string
	State        State
	BytesWritten int64
	TotalBytes   int64
	Resumed      bool
	Elapsed      time.Duration
}

// Downloader performs one transfer per Download call.
type Downloader struct {
	Client       *http.Client
	ProgressFunc func(types.Progress)

	mode             Mode
	chunkSize        int
	userAgent        string
	lock             bool
	progressInterval time.Duration
	stateFunc        func(State)
	log              *logger.ComponentLogger
}

// New creates a downloader. A nil client uses a zero http.Client, and a nil
// progressFunc disables progress reporting.
func New(client *http.Client, progressFunc func(types.Progress), mode Mode) *Downloader {
	if client == nil {
		client = &http.Client{}
	}
	return &Downloader{
		Client:           client,
		ProgressFunc:     progressFunc,
		mode:             mode,
		chunkSize:        DefaultChunkSize,
		progressInterval: defaultProgressInterval,
		log:              logger.Nop().WithComponent(logger.ComponentTransfer),
	}
}

// WithChunkSize sets the direct strategy read size, clamped to
// [MinChunkSize, MaxChunkSize]. Zero keeps the default.
func (d *Downloader) WithChunkSize(n int) *Downloader {
	switch {
	case n == 0:
		return d
	case n < MinChunkSize:
		n = MinChunkSize
	case n > MaxChunkSize:
		n = MaxChunkSize
	}
	d.chunkSize = n
	return d
}

// WithUserAgent sets the User-Agent sent with media requests.
func (d *Downloader) WithUserAgent(ua string) *Downloader {
	d.userAgent = ua
	return d
}

// WithLogger attaches a logger.
func (d *Downloader) WithLogger(l *logger.Logger) *Downloader {
	d.log = l.WithComponent(logger.ComponentTransfer)
	return d
}

// WithStateFunc registers an observer for state transitions.
func (d *Downloader) WithStateFunc(fn func(State)) *Downloader {
	d.stateFunc = fn
	return d
}

// WithLock makes Download hold an exclusive lock next to the output file.
func (d *Downloader) WithLock(on bool) *Downloader {
	d.lock = on
	return d
}

// WithProgressInterval sets how often the resumable strategy samples progress.
func (d *Downloader) WithProgressInterval(iv time.Duration) *Downloader {
	if iv > 0 {
		d.progressInterval = iv
	}
	return d
}

// Mode returns the configured strategy.
func (d *Downloader) Mode() Mode { return d.mode }

// Download transfers target.RemoteURL to target.LocalPath. The returned
// Result is non-nil even on failure and reports the bytes on disk. Partial
// files are left in place.
func (d *Downloader) Download(ctx context.Context, target types.TransferTarget) (*Result, error) {
	res := &Result{Path: target.LocalPath, State: Idle}
	if target.RemoteURL == "" || target.LocalPath == "" {
		return res, fmt.Errorf("%w: empty transfer target", errs.ErrTransfer)
	}

	if err := os.MkdirAll(filepath.Dir(target.LocalPath), dirPerm); err != nil {
		return res, fmt.Errorf("%w: create output directory: %w", errs.ErrTransfer, err)
	}

	if d.lock {
		release, err := acquireLock(target.LocalPath)
		if err != nil {
			return res, err
		}
		defer func() {
			if err := release(); err != nil {
				d.log.Warn("Failed to release output lock", map[string]interface{}{"path": target.LocalPath, "error": err.Error()})
			}
		}()
	}

	log := d.log.With(map[string]interface{}{"path": target.LocalPath, "mode": d.mode.String()})
	log.Info("Starting transfer", map[string]interface{}{"url": target.RemoteURL})
	started := time.Now()

	var err error
	switch d.mode {
	case ModeDirect:
		err = d.downloadDirect(ctx, target, res)
	case ModeResumable:
		err = d.downloadResumable(ctx, target, res)
	default:
		err = fmt.Errorf("%w: unsupported mode %s", errs.ErrTransfer, d.mode)
	}
	res.Elapsed = time.Since(started)

	if err != nil {
		d.setState(res, Failed)
		log.Error("Transfer failed", map[string]interface{}{"error": err.Error(), "written": res.BytesWritten})
		return res, err
	}
	d.setState(res, Complete)
	log.Info("Transfer complete", map[string]interface{}{
		"written": res.BytesWritten,
		"total":   res.TotalBytes,
		"resumed": res.Resumed,
		"elapsed": res.Elapsed.String(),
	})
	return res, nil
}

func (d *Downloader) setState(res *Result, s State) {
	if res.State == s {
		return
	}
	d.log.Debug("State change", map[string]interface{}{"from": res.State.String(), "to": s.String()})
	res.State = s
	if d.stateFunc != nil {
		d.stateFunc(s)
	}
}

func (d *Downloader) report(written, total int64) {
	if d.ProgressFunc == nil {
		return
	}
	p := types.Progress{TotalSize: total, DownloadedSize: written}
	if total > 0 {
		p.Percent = float64(written) / float64(total) * 100
	}
	d.ProgressFunc(p)
}

func (d *Downloader) userAgentOrDefault() string {
	if d.userAgent != "" {
		return d.userAgent
	}
	return client.DefaultUserAgent()
}
