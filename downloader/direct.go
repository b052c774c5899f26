package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/ytget/tnadl/errs"
	"github.com/ytget/tnadl/types"
)

// downloadDirect issues one GET and streams the body into a truncated file
// in chunkSize reads, reporting progress after every write.
func (d *Downloader) downloadDirect(ctx context.Context, target types.TransferTarget, res *Result) error {
	d.setState(res, Connecting)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.RemoteURL, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %w", errs.ErrTransport, err)
	}
	d.setHeaders(req.Header)

	resp, err := d.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: GET %s: %s", errs.ErrTransport, target.RemoteURL, resp.Status)
	}

	total := resp.ContentLength
	res.TotalBytes = total

	f, err := os.OpenFile(target.LocalPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return fmt.Errorf("%w: open output: %w", errs.ErrTransfer, err)
	}
	defer func() { _ = f.Close() }()

	d.setState(res, Streaming)
	d.log.Debug("Streaming body", map[string]interface{}{"status": resp.StatusCode, "length": total, "chunk": d.chunkSize})

	buf := make([]byte, d.chunkSize)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := f.Write(buf[:n]); werr != nil {
				return fmt.Errorf("%w: write: %w", errs.ErrTransfer, werr)
			}
			res.BytesWritten += int64(n)
			d.report(res.BytesWritten, total)
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return fmt.Errorf("%w: read body after %d bytes: %w", errs.ErrTransfer, res.BytesWritten, rerr)
		}
	}

	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: sync: %w", errs.ErrTransfer, err)
	}
	if total > 0 && res.BytesWritten != total {
		return fmt.Errorf("%w: short body: got %d of %d bytes", errs.ErrTransfer, res.BytesWritten, total)
	}
	return nil
}

func (d *Downloader) setHeaders(h http.Header) {
	h.Set(headerUserAgent, d.userAgentOrDefault())
	h.Set(headerAccept, "*/*")
	h.Set(headerAcceptEncoding, "identity")
}
