// Package canvas fits source artwork onto a transparent square canvas of a
// fixed target size, preserving aspect ratio.
package canvas

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// ErrInvalidSourceImage is returned for sources with zero width or height.
var ErrInvalidSourceImage = errors.New("canvas: source image has no pixels")

type Option func(c *Composer)

// WithMargin insets the bounding box by px on the longer axis, leaving a
// transparent border around the content.
func WithMargin(px int) Option {
	return func(c *Composer) {
		c.margin = px
	}
}

func NewComposer(opts ...Option) *Composer {
	c := &Composer{
		filter: imaging.Lanczos,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type Composer struct {
	margin int
	filter imaging.ResampleFilter
}

// Compose resamples src so its longer dimension maps to size minus the
// configured margin and pastes it centered onto a fully transparent
// size×size canvas. The resample filter is Lanczos; nearest-neighbor would
// feed blocky edges into the ditherer.
func (c *Composer) Compose(src image.Image, size int) (*image.NRGBA, error) {
	b := src.Bounds()
	w := b.Dx()
	h := b.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrInvalidSourceImage
	}

	box := size - c.margin
	if box < 1 {
		box = 1
	}

	var sw, sh int
	if w >= h {
		sw = box
		sh = scaled(h, box, w)
	} else {
		sh = box
		sw = scaled(w, box, h)
	}

	resized := imaging.Resize(src, sw, sh, c.filter)
	bg := imaging.New(size, size, color.NRGBA{})

	return imaging.PasteCenter(bg, resized), nil
}

func scaled(dim, box, longer int) int {
	s := int(math.Round(float64(dim) * float64(box) / float64(longer)))
	if s < 1 {
		s = 1
	}
	return s
}
