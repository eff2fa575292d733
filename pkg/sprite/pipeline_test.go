package sprite

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pixeldex/pkg/canvas"
	"pixeldex/pkg/dither"
	"pixeldex/pkg/fetch"
	"pixeldex/pkg/palette"
	"pixeldex/pkg/quant"
)

type stubFetcher struct {
	calls int
	data  map[int][]byte
	err   error
}

func (s *stubFetcher) Fetch(_ context.Context, id int) ([]byte, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	bs, ok := s.data[id]
	if !ok {
		return nil, fetch.ErrNotFound
	}
	return bs, nil
}

func pngBytes(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestPipeline(f fetch.Fetcher, fs afero.Fs, opts ...Option) *Pipeline {
	return NewPipeline(
		f,
		canvas.NewComposer(),
		dither.New(quant.New(palette.Retro56())),
		fs,
		zap.NewNop(),
		opts...,
	)
}

func TestProcessWritesBothTargets(t *testing.T) {
	fs := afero.NewMemMapFs()
	f := &stubFetcher{data: map[int][]byte{7: pngBytes(t, 200, 100, color.NRGBA{0, 0, 255, 255})}}

	res := newTestPipeline(f, fs).Process(context.Background(), 7)

	require.NoError(t, res.Err)
	assert.Equal(t, StatusSucceeded, res.Status)
	assert.True(t, res.Acquired)
	assert.Equal(t, []string{"thumb/007.png", "detail/007.png"}, res.Paths)

	for path, size := range map[string]int{"thumb/007.png": 32, "detail/007.png": 96} {
		fh, err := fs.Open(path)
		require.NoError(t, err)
		cfg, _, err := image.DecodeConfig(fh)
		require.NoError(t, err)
		assert.Equal(t, size, cfg.Width)
		assert.Equal(t, size, cfg.Height)
		require.NoError(t, fh.Close())
	}
}

func TestProcessOutputIsPaletteClosed(t *testing.T) {
	fs := afero.NewMemMapFs()
	f := &stubFetcher{data: map[int][]byte{1: pngBytes(t, 64, 64, color.NRGBA{123, 87, 201, 255})}}

	res := newTestPipeline(f, fs).Process(context.Background(), 1)
	require.Equal(t, StatusSucceeded, res.Status)

	members := make(map[color.NRGBA]struct{}, palette.Size)
	for _, c := range palette.Retro56().Colors() {
		members[c] = struct{}{}
	}

	fh, err := fs.Open("detail/001.png")
	require.NoError(t, err)
	defer fh.Close()
	img, err := png.Decode(fh)
	require.NoError(t, err)

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A == 0 {
				continue
			}
			_, ok := members[color.NRGBA{c.R, c.G, c.B, 255}]
			assert.Truef(t, ok, "pixel (%d,%d) = %v not in palette", x, y, c)
		}
	}
}

func TestProcessSkipsWhenOutputsExist(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "thumb/003.png", []byte("sentinel-a"), 0644))
	require.NoError(t, afero.WriteFile(fs, "detail/003.png", []byte("sentinel-b"), 0644))

	f := &stubFetcher{}
	res := newTestPipeline(f, fs).Process(context.Background(), 3)

	assert.Equal(t, StatusSkipped, res.Status)
	assert.False(t, res.Acquired)
	assert.Zero(t, f.calls, "skip must not hit the acquisition collaborator")

	// Existing files are untouched.
	bs, err := afero.ReadFile(fs, "thumb/003.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("sentinel-a"), bs)
	bs, err = afero.ReadFile(fs, "detail/003.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("sentinel-b"), bs)
}

func TestProcessDoesNotSkipWhenOneOutputMissing(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "thumb/004.png", []byte("partial"), 0644))

	f := &stubFetcher{data: map[int][]byte{4: pngBytes(t, 50, 50, color.NRGBA{10, 10, 10, 255})}}
	res := newTestPipeline(f, fs).Process(context.Background(), 4)

	assert.Equal(t, StatusSucceeded, res.Status)
	assert.Equal(t, 1, f.calls)
}

func TestProcessForceRegenerates(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "thumb/005.png", []byte("stale"), 0644))
	require.NoError(t, afero.WriteFile(fs, "detail/005.png", []byte("stale"), 0644))

	f := &stubFetcher{data: map[int][]byte{5: pngBytes(t, 50, 50, color.NRGBA{10, 10, 10, 255})}}
	res := newTestPipeline(f, fs, WithForce()).Process(context.Background(), 5)

	assert.Equal(t, StatusSucceeded, res.Status)
	assert.Equal(t, 1, f.calls)

	bs, err := afero.ReadFile(fs, "thumb/005.png")
	require.NoError(t, err)
	assert.NotEqual(t, []byte("stale"), bs)
}

func TestProcessIntegrityCheckRejectsBadExistingOutputs(t *testing.T) {
	fs := afero.NewMemMapFs()
	// Wrong dimensions for the thumb slot.
	require.NoError(t, afero.WriteFile(fs, "thumb/006.png", pngBytes(t, 10, 10, color.NRGBA{1, 2, 3, 255}), 0644))
	require.NoError(t, afero.WriteFile(fs, "detail/006.png", pngBytes(t, 96, 96, color.NRGBA{1, 2, 3, 255}), 0644))

	f := &stubFetcher{data: map[int][]byte{6: pngBytes(t, 50, 50, color.NRGBA{10, 10, 10, 255})}}

	// Presence-only skip trusts the bad file.
	res := newTestPipeline(f, fs).Process(context.Background(), 6)
	assert.Equal(t, StatusSkipped, res.Status)
	assert.Zero(t, f.calls)

	// With verification it is regenerated.
	res = newTestPipeline(f, fs, WithIntegrityCheck()).Process(context.Background(), 6)
	assert.Equal(t, StatusSucceeded, res.Status)
	assert.Equal(t, 1, f.calls)
}

func TestProcessDecodeFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	f := &stubFetcher{data: map[int][]byte{8: []byte("not an image")}}

	res := newTestPipeline(f, fs).Process(context.Background(), 8)

	assert.Equal(t, StatusFailed, res.Status)
	assert.ErrorIs(t, res.Err, ErrDecode)
}

func TestProcessAcquisitionFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	f := &stubFetcher{err: fetch.ErrTransient}

	res := newTestPipeline(f, fs).Process(context.Background(), 9)

	assert.Equal(t, StatusFailed, res.Status)
	assert.ErrorIs(t, res.Err, fetch.ErrTransient)
	assert.True(t, res.Acquired)
}

func TestProcessLeavesNoTempFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	f := &stubFetcher{data: map[int][]byte{2: pngBytes(t, 30, 60, color.NRGBA{40, 80, 160, 255})}}

	res := newTestPipeline(f, fs).Process(context.Background(), 2)
	require.Equal(t, StatusSucceeded, res.Status)

	var leftovers []string
	err := afero.Walk(fs, "/", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info != nil && !info.IsDir() && strings.HasSuffix(path, ".tmp") {
			leftovers = append(leftovers, path)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}
