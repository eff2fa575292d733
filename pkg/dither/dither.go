// Package dither applies Floyd–Steinberg error diffusion over an image,
// quantizing every opaque pixel to the fixed palette.
package dither

import (
	"image"

	"github.com/disintegration/imaging"

	"pixeldex/pkg/quant"
)

type Option func(d *Ditherer)

// WithoutDiffusion reduces the operation to plain per-pixel nearest-color
// quantization; no error is carried between pixels.
func WithoutDiffusion() Option {
	return func(d *Ditherer) {
		d.diffuse = false
	}
}

func New(q *quant.Quantizer, opts ...Option) *Ditherer {
	d := &Ditherer{
		q:       q,
		diffuse: true,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

type Ditherer struct {
	q       *quant.Quantizer
	diffuse bool
}

// Floyd–Steinberg weights, in sixteenths: right 7, bottom-left 3, bottom 5,
// bottom-right 1.
const (
	wRight       = 7.0 / 16
	wBottomLeft  = 3.0 / 16
	wBottom      = 5.0 / 16
	wBottomRight = 1.0 / 16
)

// Dither quantizes src to the palette, diffusing the residual error to
// not-yet-visited neighbors in raster order. Alpha is copied through
// pixel-for-pixel; fully transparent pixels are emitted as transparent black
// and neither consume nor propagate error. Output is bit-for-bit
// deterministic for identical input.
func (d *Ditherer) Dither(src image.Image) *image.NRGBA {
	in := imaging.Clone(src)
	w := in.Rect.Dx()
	h := in.Rect.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))

	// Working buffer: source RGB plus pending diffused error, three
	// float64 channels per pixel.
	buf := make([]float64, w*h*3)
	for i, j := 0, 0; i < len(in.Pix); i, j = i+4, j+3 {
		buf[j] = float64(in.Pix[i])
		buf[j+1] = float64(in.Pix[i+1])
		buf[j+2] = float64(in.Pix[i+2])
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			a := in.Pix[i+3]
			if a == 0 {
				continue // out is already transparent black
			}

			j := (y*w + x) * 3
			r := clamp(buf[j])
			g := clamp(buf[j+1])
			b := clamp(buf[j+2])

			c := d.q.Nearest(uint8(r), uint8(g), uint8(b))
			out.Pix[i] = c.R
			out.Pix[i+1] = c.G
			out.Pix[i+2] = c.B
			out.Pix[i+3] = a

			if !d.diffuse {
				continue
			}

			er := r - float64(c.R)
			eg := g - float64(c.G)
			eb := b - float64(c.B)

			if x+1 < w {
				spread(buf, j+3, er, eg, eb, wRight)
			}
			if y+1 < h {
				down := j + w*3
				if x > 0 {
					spread(buf, down-3, er, eg, eb, wBottomLeft)
				}
				spread(buf, down, er, eg, eb, wBottom)
				if x+1 < w {
					spread(buf, down+3, er, eg, eb, wBottomRight)
				}
			}
		}
	}

	return out
}

func spread(buf []float64, j int, er, eg, eb, weight float64) {
	buf[j] += er * weight
	buf[j+1] += eg * weight
	buf[j+2] += eb * weight
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
