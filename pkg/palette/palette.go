// Package palette defines the fixed 56-color output palette used by the
// sprite pipeline. The palette is built once at startup and never mutated.
package palette

import (
	"errors"
	"fmt"
	"image/color"
)

// Size is the total number of colors in the palette.
const Size = 56

// ErrInvalidCategory is returned when a category name is not one of the
// seven defined groups.
var ErrInvalidCategory = errors.New("palette: invalid category")

type Category string

const (
	Grayscale Category = "grayscale"
	Reds      Category = "reds"
	Blues     Category = "blues"
	Greens    Category = "greens"
	Yellows   Category = "yellows"
	Purples   Category = "purples"
	Extended  Category = "extended"
)

// Categories lists the groups in canonical order, matching the ordering of
// Colors.
func Categories() []Category {
	return []Category{Grayscale, Reds, Blues, Greens, Yellows, Purples, Extended}
}

type group struct {
	name   Category
	colors []color.NRGBA
}

// Channel values stay on multiples of 8 so the palette reads like a
// late-90s handheld ramp.
var retroGroups = []group{
	{Grayscale, []color.NRGBA{
		{0, 0, 0, 255}, {32, 32, 32, 255}, {64, 64, 64, 255}, {96, 96, 96, 255},
		{128, 128, 128, 255}, {168, 168, 168, 255}, {208, 208, 208, 255}, {248, 248, 248, 255},
	}},
	{Reds, []color.NRGBA{
		{64, 8, 8, 255}, {112, 16, 16, 255}, {160, 24, 24, 255}, {200, 32, 32, 255},
		{232, 56, 40, 255}, {248, 96, 80, 255}, {248, 144, 128, 255}, {248, 192, 176, 255},
	}},
	{Blues, []color.NRGBA{
		{8, 16, 64, 255}, {16, 32, 112, 255}, {24, 48, 160, 255}, {32, 72, 200, 255},
		{48, 104, 232, 255}, {80, 144, 248, 255}, {128, 184, 248, 255}, {184, 216, 248, 255},
	}},
	{Greens, []color.NRGBA{
		{8, 48, 16, 255}, {16, 80, 24, 255}, {24, 112, 32, 255}, {32, 152, 48, 255},
		{48, 184, 64, 255}, {88, 208, 88, 255}, {136, 232, 128, 255}, {192, 248, 176, 255},
	}},
	{Yellows, []color.NRGBA{
		{120, 64, 8, 255}, {168, 96, 16, 255}, {216, 128, 16, 255}, {248, 160, 24, 255},
		{248, 192, 32, 255}, {248, 216, 72, 255}, {248, 232, 128, 255}, {248, 244, 184, 255},
	}},
	{Purples, []color.NRGBA{
		{48, 16, 64, 255}, {80, 24, 104, 255}, {112, 40, 144, 255}, {144, 56, 184, 255},
		{176, 88, 216, 255}, {200, 128, 232, 255}, {224, 168, 244, 255}, {240, 208, 248, 255},
	}},
	{Extended, []color.NRGBA{
		{56, 40, 24, 255}, {104, 72, 40, 255}, {152, 112, 72, 255}, {200, 160, 112, 255},
		{16, 88, 88, 255}, {32, 144, 136, 255}, {224, 64, 136, 255}, {248, 136, 184, 255},
	}},
}

type Palette struct {
	colors []color.NRGBA
	groups map[Category][]color.NRGBA
}

// newPalette builds a palette from ordered groups, validating the invariants
// the rest of the pipeline relies on: exactly Size entries, no duplicates,
// all entries fully opaque.
func newPalette(groups []group) (*Palette, error) {
	p := &Palette{groups: make(map[Category][]color.NRGBA, len(groups))}
	seen := make(map[color.NRGBA]Category, Size)

	for _, g := range groups {
		for _, c := range g.colors {
			if c.A != 255 {
				return nil, fmt.Errorf("palette: %s entry %v is not opaque", g.name, c)
			}
			if prev, ok := seen[c]; ok {
				return nil, fmt.Errorf("palette: duplicate color %v in %s and %s", c, prev, g.name)
			}
			seen[c] = g.name
			p.colors = append(p.colors, c)
		}
		p.groups[g.name] = g.colors
	}

	if len(p.colors) != Size {
		return nil, fmt.Errorf("palette: expected %d colors, got %d", Size, len(p.colors))
	}

	return p, nil
}

var retro = func() *Palette {
	p, err := newPalette(retroGroups)
	if err != nil {
		panic(err)
	}
	return p
}()

// Retro56 returns the canonical 56-color palette.
func Retro56() *Palette {
	return retro
}

// Colors returns the palette entries in canonical order.
func (p *Palette) Colors() []color.NRGBA {
	out := make([]color.NRGBA, len(p.colors))
	copy(out, p.colors)
	return out
}

// Len reports the number of entries.
func (p *Palette) Len() int {
	return len(p.colors)
}

// Category returns the entries belonging to one semantic group.
func (p *Palette) Category(name Category) ([]color.NRGBA, error) {
	g, ok := p.groups[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, name)
	}
	out := make([]color.NRGBA, len(g))
	copy(out, g)
	return out, nil
}
