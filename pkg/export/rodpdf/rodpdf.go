// Package rodpdf prints HTML pages to PDF with headless Chrome through go-rod.
package rodpdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/goliatone/go-curriculo/pkg/export"
)

const mmPerInch = 25.4

// ErrClosed is returned after Close.
var ErrClosed = errors.New("rodpdf: rasterizer closed")

// Option configures the Rasterizer.
type Option func(*Rasterizer)

// WithControlURL connects to an already running browser instead of launching
// one.
func WithControlURL(url string) Option {
	return func(r *Rasterizer) {
		r.controlURL = url
	}
}

// WithBrowserBin sets the Chrome binary used when launching.
func WithBrowserBin(path string) Option {
	return func(r *Rasterizer) {
		r.bin = path
	}
}

// WithTimeout bounds a single rasterization. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(r *Rasterizer) {
		r.timeout = d
	}
}

// WithLogger sets the logger. Defaults to zap.NewNop.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Rasterizer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Rasterizer implements export.Rasterizer. The browser is started on first
// use and shared; pages are used one at a time and closed afterwards.
type Rasterizer struct {
	mu         sync.Mutex
	browser    *rod.Browser
	launcher   *launcher.Launcher
	controlURL string
	bin        string
	timeout    time.Duration
	logger     *zap.Logger
	closed     bool
}

var _ export.Rasterizer = (*Rasterizer)(nil)

// New constructs a Rasterizer. No browser is started until Rasterize.
func New(options ...Option) *Rasterizer {
	r := &Rasterizer{timeout: 60 * time.Second, logger: zap.NewNop()}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Rasterize loads page into a fresh tab and prints it.
func (r *Rasterizer) Rasterize(ctx context.Context, page []byte, opts export.PageOptions) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	tab, err := r.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("rodpdf: open page: %w", err)
	}
	defer func() {
		if err := tab.Close(); err != nil {
			r.logger.Warn("close page", zap.Error(err))
		}
	}()

	if err := tab.SetDocumentContent(string(page)); err != nil {
		return nil, fmt.Errorf("rodpdf: load document: %w", err)
	}
	if err := tab.WaitLoad(); err != nil {
		return nil, fmt.Errorf("rodpdf: wait load: %w", err)
	}

	stream, err := tab.PDF(printRequest(opts))
	if err != nil {
		return nil, fmt.Errorf("rodpdf: print: %w", err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("rodpdf: read pdf: %w", err)
	}

	r.logger.Debug("page rasterized", zap.Int("bytes", len(data)))
	return data, nil
}

// Close shuts down the browser and any launched process.
func (r *Rasterizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		r.launcher.Cleanup()
		r.launcher = nil
	}
	return err
}

func (r *Rasterizer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	controlURL := r.controlURL
	if controlURL == "" {
		l := launcher.New().Headless(true)
		if r.bin != "" {
			l = l.Bin(r.bin)
		}
		url, err := l.Launch()
		if err != nil {
			return fmt.Errorf("rodpdf: launch chrome: %w", err)
		}
		r.launcher = l
		controlURL = url
		r.logger.Info("chrome launched", zap.String("control_url", url))
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("rodpdf: connect to chrome: %w", err)
	}
	r.browser = browser
	return nil
}

func printRequest(opts export.PageOptions) *proto.PagePrintToPDF {
	return &proto.PagePrintToPDF{
		Landscape:       opts.Landscape,
		PrintBackground: opts.PrintBackground,
		PaperWidth:      inches(opts.WidthMM),
		PaperHeight:     inches(opts.HeightMM),
		MarginTop:       inches(opts.MarginMM),
		MarginBottom:    inches(opts.MarginMM),
		MarginLeft:      inches(opts.MarginMM),
		MarginRight:     inches(opts.MarginMM),
	}
}

func inches(mm float64) *float64 {
	v := mm / mmPerInch
	return &v
}
