// Package sprite drives the end-to-end pipeline: acquire artwork, compose it
// onto fixed-size canvases, dither to the palette, and persist PNGs.
package sprite

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"time"

	"github.com/inhies/go-bytesize"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"pixeldex/pkg/canvas"
	"pixeldex/pkg/dither"
	"pixeldex/pkg/fetch"
)

// Target pairs an output subdirectory with a square canvas size.
type Target struct {
	Dir  string
	Size int
}

func defaultTargets() []Target {
	return []Target{
		{Dir: "thumb", Size: 32},
		{Dir: "detail", Size: 96},
	}
}

func NewPipeline(f fetch.Fetcher, c *canvas.Composer, d *dither.Ditherer, fs afero.Fs, logger *zap.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher:  f,
		composer: c,
		ditherer: d,
		fs:       fs,
		log:      logger,
		targets:  defaultTargets(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

type Pipeline struct {
	fetcher  fetch.Fetcher
	composer *canvas.Composer
	ditherer *dither.Ditherer
	fs       afero.Fs
	log      *zap.Logger

	targets  []Target
	delay    time.Duration
	force    bool
	verify   bool
	observer func(Result)
}

func (p *Pipeline) path(t Target, id int) string {
	return fmt.Sprintf("%s/%03d.png", t.Dir, id)
}

func (p *Pipeline) paths(id int) []string {
	out := make([]string, len(p.targets))
	for i, t := range p.targets {
		out[i] = p.path(t, id)
	}
	return out
}

// outputsExist reports whether every target output for id is already on
// disk. With verification enabled, an output that does not decode to the
// expected dimensions counts as missing.
func (p *Pipeline) outputsExist(id int) bool {
	for _, t := range p.targets {
		name := p.path(t, id)

		exists, err := afero.Exists(p.fs, name)
		if err != nil || !exists {
			return false
		}

		if p.verify && !p.validOutput(name, t.Size) {
			return false
		}
	}
	return true
}

func (p *Pipeline) validOutput(name string, size int) bool {
	f, err := p.fs.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		p.log.With(zap.String("path", name), zap.Error(err)).Debug("existing output unreadable, regenerating")
		return false
	}

	return cfg.Width == size && cfg.Height == size
}

// Process runs the full pipeline for one identifier. Every failure is scoped
// to this identifier; the caller decides whether to continue.
func (p *Pipeline) Process(ctx context.Context, id int) Result {
	log := p.log.With(zap.Int("id", id))

	if !p.force && p.outputsExist(id) {
		log.Debug("outputs exist, skipping")
		return Result{ID: id, Status: StatusSkipped, Paths: p.paths(id)}
	}

	bs, err := p.fetcher.Fetch(ctx, id)
	if err != nil {
		return Result{ID: id, Status: StatusFailed, Err: fmt.Errorf("acquire artwork: %w", err), Acquired: true}
	}

	src, _, err := image.Decode(bytes.NewReader(bs))
	if err != nil {
		return Result{ID: id, Status: StatusFailed, Err: fmt.Errorf("%w: %v", ErrDecode, err), Acquired: true}
	}

	paths := make([]string, 0, len(p.targets))
	for _, t := range p.targets {
		name, err := p.render(t, id, src)
		if err != nil {
			return Result{ID: id, Status: StatusFailed, Err: err, Acquired: true}
		}
		paths = append(paths, name)
	}

	log.Info("sprite processed", zap.Strings("paths", paths))
	return Result{ID: id, Status: StatusSucceeded, Paths: paths, Acquired: true}
}

func (p *Pipeline) render(t Target, id int, src image.Image) (string, error) {
	composed, err := p.composer.Compose(src, t.Size)
	if err != nil {
		return "", fmt.Errorf("compose %dpx: %w", t.Size, err)
	}

	sp := p.ditherer.Dither(composed)

	var buf bytes.Buffer
	if err := png.Encode(&buf, sp); err != nil {
		return "", fmt.Errorf("encode %dpx: %w", t.Size, err)
	}

	name := p.path(t, id)
	if err := writeAtomic(p.fs, name, buf.Bytes()); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrWrite, name, err)
	}

	p.log.With(
		zap.String("path", name),
		zap.String("size", bytesize.New(float64(buf.Len())).String()),
	).Debug("sprite written")

	return name, nil
}
