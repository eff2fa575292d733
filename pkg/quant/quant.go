// Package quant maps arbitrary RGB values to their nearest palette entry.
package quant

import (
	"image/color"

	"pixeldex/pkg/palette"
)

func New(p *palette.Palette) *Quantizer {
	return &Quantizer{colors: p.Colors()}
}

// Quantizer is stateless after construction and safe for concurrent use.
type Quantizer struct {
	colors []color.NRGBA
}

// Nearest returns the palette entry with the smallest squared Euclidean
// distance to (r, g, b). Ties go to the entry earliest in palette order.
// Alpha is not considered here; callers carry it separately.
func (q *Quantizer) Nearest(r, g, b uint8) color.NRGBA {
	best := 1 << 30
	pick := q.colors[0]

	for _, c := range q.colors {
		dr := int(c.R) - int(r)
		dg := int(c.G) - int(g)
		db := int(c.B) - int(b)
		d := dr*dr + dg*dg + db*db
		if d < best {
			best = d
			pick = c
		}
	}

	return pick
}
