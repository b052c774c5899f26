package downloader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cavaliergopher/grab/v3"

	"github.com/ytget/tnadl/errs"
	"github.com/ytget/tnadl/types"
)

// downloadResumable hands the transfer to grab. An existing file at the
// target path is continued with "Range: bytes=<size>-" when the server
// advertises byte ranges. Progress is sampled every progressInterval and
// once more when grab finishes.
func (d *Downloader) downloadResumable(ctx context.Context, target types.TransferTarget, res *Result) error {
	d.setState(res, Connecting)

	req, err := grab.NewRequest(target.LocalPath, target.RemoteURL)
	if err != nil {
		return fmt.Errorf("%w: build request: %w", errs.ErrTransport, err)
	}
	req = req.WithContext(ctx)
	req.BufferSize = d.chunkSize
	d.setHeaders(req.HTTPRequest.Header)

	gc := grab.NewClient()
	gc.HTTPClient = d.Client
	gc.UserAgent = d.userAgentOrDefault()

	resp := gc.Do(req)

	ticker := time.NewTicker(d.progressInterval)
	defer ticker.Stop()

	var resumedFrom int64 = -1
	sample := func() {
		written := resp.BytesComplete()
		total := resp.Size()
		if resumedFrom < 0 {
			resumedFrom = written
		}
		if res.State == Connecting && written > resumedFrom {
			d.setState(res, Streaming)
		}
		res.BytesWritten = written
		res.TotalBytes = total
		d.report(written, total)
	}

loop:
	for {
		select {
		case <-ticker.C:
			sample()
		case <-resp.Done:
			break loop
		}
	}

	res.Resumed = resp.DidResume
	res.BytesWritten = resp.BytesComplete()
	res.TotalBytes = resp.Size()

	if err := resp.Err(); err != nil {
		var code grab.StatusCodeError
		if errors.As(err, &code) {
			return fmt.Errorf("%w: GET %s: %w", errs.ErrTransport, target.RemoteURL, err)
		}
		if res.State == Connecting && resp.HTTPResponse == nil {
			return fmt.Errorf("%w: %w", errs.ErrTransport, err)
		}
		return fmt.Errorf("%w: after %d bytes: %w", errs.ErrTransfer, res.BytesWritten, err)
	}

	if err := syncFile(target.LocalPath); err != nil {
		return fmt.Errorf("%w: sync %s: %w", errs.ErrTransfer, target.LocalPath, err)
	}

	d.setState(res, Streaming)
	d.report(res.BytesWritten, res.TotalBytes)
	if res.Resumed {
		d.log.Info("Resumed partial file", map[string]interface{}{"path": target.LocalPath, "size": res.BytesWritten})
	}
	return nil
}

// syncFile flushes path to stable storage. grab closes its file without
// syncing.
func syncFile(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
