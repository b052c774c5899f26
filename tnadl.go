package tnadl

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ytget/tnadl/downloader"
	"github.com/ytget/tnadl/internal/config"
	"github.com/ytget/tnadl/internal/logger"
	"github.com/ytget/tnadl/internal/mimeext"
	"github.com/ytget/tnadl/internal/sanitize"
	"github.com/ytget/tnadl/pkg/client"
	"github.com/ytget/tnadl/tnaflix/player"
	"github.com/ytget/tnadl/tnaflix/variants"
	"github.com/ytget/tnadl/tnaflix/videoid"
	"github.com/ytget/tnadl/types"
)

// Progress describes current progress of an ongoing download.
type Progress = types.Progress

// DownloadOptions contains configuration for a single download invocation.
//
// Use chainable setters on Downloader to populate these options.
type DownloadOptions struct {
	Criterion    variants.Criterion
	OutputDir    string
	OutputPath   string
	BaseURL      string
	HTTPClient   *http.Client
	Client       *client.Client
	ClientConfig client.Config
	ProgressFunc func(Progress)
	StateFunc    func(downloader.State)
	TransferMode downloader.Mode
	ChunkSize    int
	Lock         bool
	Logger       *logger.Logger
}

// Resolution is the outcome of the metadata half of the pipeline.
type Resolution struct {
	// RunID correlates the log lines of one invocation.
	RunID    string
	ID       types.ResourceID
	Variants types.VariantList
	Selected *types.Variant
	Target   types.TransferTarget
}

// Downloader runs the resolve and transfer pipeline. It holds no state
// between calls apart from its options.
type Downloader struct {
	options DownloadOptions
}

// New creates a Downloader selecting the highest variant into the current
// directory with the resumable strategy.
func New() *Downloader {
	return &Downloader{options: DownloadOptions{
		OutputDir:    ".",
		TransferMode: downloader.ModeResumable,
	}}
}

// NewFromConfig creates a Downloader from loaded settings. The logger must
// be attached separately with WithLogger.
func NewFromConfig(cfg *config.Config) *Downloader {
	d := New()
	d.options.ClientConfig = cfg.ClientConfig()
	d.options.BaseURL = cfg.BaseURL
	d.options.OutputDir = cfg.OutputDir
	d.options.TransferMode = cfg.TransferMode()
	d.options.ChunkSize = cfg.ChunkSize
	d.options.Lock = cfg.Lock
	return d
}

// WithFormat parses free-form quality input such as "720p", "720", "hd",
// "best" or "worst". Empty input selects the highest variant.
func (d *Downloader) WithFormat(input string) *Downloader {
	d.options.Criterion = variants.ParseCriterion(input)
	return d
}

// WithCriterion sets the selection policy directly.
func (d *Downloader) WithCriterion(c variants.Criterion) *Downloader {
	d.options.Criterion = c
	return d
}

// WithHTTPClient sets a custom HTTP client used for both the metadata
// request and the media transfer.
func (d *Downloader) WithHTTPClient(c *http.Client) *Downloader {
	d.options.HTTPClient = c
	return d
}

// WithClient sets the metadata client, including its retry policy.
func (d *Downloader) WithClient(c *client.Client) *Downloader {
	d.options.Client = c
	return d
}

// WithClientConfig sets timeout, retries, User-Agent and proxy for the
// default metadata client.
func (d *Downloader) WithClientConfig(cfg client.Config) *Downloader {
	d.options.ClientConfig = cfg
	return d
}

// WithProgress registers a callback that receives progress updates.
func (d *Downloader) WithProgress(f func(Progress)) *Downloader {
	d.options.ProgressFunc = f
	return d
}

// WithStateFunc registers a callback for transfer state transitions.
func (d *Downloader) WithStateFunc(f func(downloader.State)) *Downloader {
	d.options.StateFunc = f
	return d
}

// WithOutputDir sets the directory derived filenames are placed in.
func (d *Downloader) WithOutputDir(dir string) *Downloader {
	d.options.OutputDir = dir
	return d
}

// WithOutputPath sets an explicit output file. If the path is an existing
// directory the derived filename is placed inside it. The final element is
// sanitized.
func (d *Downloader) WithOutputPath(path string) *Downloader {
	d.options.OutputPath = path
	return d
}

// WithBaseURL points the metadata request at another site root.
func (d *Downloader) WithBaseURL(base string) *Downloader {
	d.options.BaseURL = base
	return d
}

// WithTransferMode selects the direct or resumable strategy.
func (d *Downloader) WithTransferMode(m downloader.Mode) *Downloader {
	d.options.TransferMode = m
	return d
}

// WithChunkSize sets the read size of the direct strategy.
func (d *Downloader) WithChunkSize(n int) *Downloader {
	d.options.ChunkSize = n
	return d
}

// WithLock guards the output file with an exclusive lock during transfer.
func (d *Downloader) WithLock(on bool) *Downloader {
	d.options.Lock = on
	return d
}

// WithLogger attaches a logger to every pipeline stage.
func (d *Downloader) WithLogger(l *logger.Logger) *Downloader {
	d.options.Logger = l
	return d
}

func (d *Downloader) logger() *logger.Logger {
	if d.options.Logger != nil {
		return d.options.Logger
	}
	return logger.Nop()
}

func (d *Downloader) metadataClient() *client.Client {
	c := d.options.Client
	if c == nil {
		c = client.NewWith(d.options.ClientConfig)
		if d.options.HTTPClient != nil {
			c.HTTPClient = d.options.HTTPClient
		}
	}
	return c.WithLogger(d.logger())
}

// transferClient shares the metadata transport but drops the overall
// request timeout, which would cut long bodies short.
func (d *Downloader) transferClient(meta *client.Client) *http.Client {
	if d.options.HTTPClient != nil {
		return d.options.HTTPClient
	}
	hc := *meta.HTTPClient
	hc.Timeout = 0
	return &hc
}

// ListVariants extracts the ID from pageURL and returns the parsed variants
// without selecting one.
func (d *Downloader) ListVariants(ctx context.Context, pageURL string) (types.ResourceID, types.VariantList, error) {
	id, err := videoid.Extract(pageURL)
	if err != nil {
		return "", nil, err
	}
	list, err := d.fetchVariants(ctx, d.metadataClient(), id, d.logger().WithComponent(logger.ComponentApp))
	if err != nil {
		return id, nil, err
	}
	return id, list, nil
}

func (d *Downloader) fetchVariants(ctx context.Context, c *client.Client, id string, log *logger.ComponentLogger) (types.VariantList, error) {
	pc := player.New(c).WithLogger(d.logger())
	if d.options.BaseURL != "" {
		pc.WithBaseURL(d.options.BaseURL)
	}
	env, err := pc.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	list, err := variants.Parse(env.HTML)
	if err != nil {
		return nil, err
	}
	d.logger().WithComponent(logger.ComponentVariants).Debug("Parsed variants", map[string]interface{}{
		"id":        id,
		"count":     len(list),
		"qualities": strings.Join(list.Qualities(), ","),
	})
	log.Debug("Metadata resolved", map[string]interface{}{"id": id, "variants": len(list)})
	return list, nil
}

// Resolve runs every stage except the transfer and returns the selected
// variant with its target path.
func (d *Downloader) Resolve(ctx context.Context, pageURL string) (*Resolution, error) {
	return d.resolve(ctx, d.metadataClient(), pageURL)
}

func (d *Downloader) resolve(ctx context.Context, c *client.Client, pageURL string) (*Resolution, error) {
	res := &Resolution{RunID: uuid.NewString()}
	log := d.logger().WithComponent(logger.ComponentApp).With(map[string]interface{}{"run_id": res.RunID})
	log.Info("Resolving", map[string]interface{}{"url": pageURL, "criterion": d.options.Criterion.String()})

	id, err := videoid.Extract(pageURL)
	if err != nil {
		return nil, err
	}
	res.ID = id

	list, err := d.fetchVariants(ctx, c, id, log)
	if err != nil {
		return nil, err
	}
	res.Variants = list

	selected, err := variants.Select(list, d.options.Criterion)
	if err != nil {
		return nil, err
	}
	res.Selected = selected

	path := d.outputPath(*selected, id)
	res.Target = types.TransferTarget{RemoteURL: selected.URL, LocalPath: path}

	log.Info("Selected variant", map[string]interface{}{
		"id":      id,
		"quality": selected.Quality,
		"path":    path,
	})
	return res, nil
}

// ResolveURL returns the media URL of the selected variant.
func (d *Downloader) ResolveURL(ctx context.Context, pageURL string) (string, *Resolution, error) {
	res, err := d.Resolve(ctx, pageURL)
	if err != nil {
		return "", nil, err
	}
	return res.Selected.URL, res, nil
}

// Download resolves pageURL and transfers the selected variant. On a
// transfer failure both the Resolution and the partial Result are returned.
func (d *Downloader) Download(ctx context.Context, pageURL string) (*Resolution, *downloader.Result, error) {
	meta := d.metadataClient()
	res, err := d.resolve(ctx, meta, pageURL)
	if err != nil {
		return nil, nil, err
	}

	dl := downloader.New(d.transferClient(meta), d.options.ProgressFunc, d.options.TransferMode).
		WithChunkSize(d.options.ChunkSize).
		WithUserAgent(meta.UserAgent).
		WithLock(d.options.Lock).
		WithStateFunc(d.options.StateFunc).
		WithLogger(d.logger())

	result, err := dl.Download(ctx, res.Target)
	if err != nil {
		return res, result, fmt.Errorf("download %s: %w", res.ID, err)
	}
	return res, result, nil
}

// outputPath applies OutputPath or OutputDir to the derived filename.
func (d *Downloader) outputPath(v types.Variant, id string) string {
	derived := sanitize.DeriveFilename(v, id)

	if p := strings.TrimSpace(d.options.OutputPath); p != "" {
		if fi, err := os.Stat(p); err == nil && fi.IsDir() {
			return filepath.Join(p, derived)
		}
		base := filepath.Base(p)
		ext := filepath.Ext(base)
		if ext == "" {
			ext = mimeext.ExtFromMime(v.MediaType)
		}
		name := sanitize.ToSafeFilename(strings.TrimSuffix(base, filepath.Ext(base)), ext)
		return filepath.Join(filepath.Dir(p), name)
	}

	dir := d.options.OutputDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, derived)
}
