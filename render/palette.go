package render

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// DefaultPalette orders the glyphs by the density they stand for,
// faintest first.
var DefaultPalette = []rune(".,:;+*oO#@")

// SetPalette swaps the glyph ramp at runtime. Empty palettes and glyphs
// wider than one terminal column are refused and the current ramp stays
// in place.
func (r *Rasterizer) SetPalette(p []rune) error {
	if len(p) == 0 {
		return fmt.Errorf("palette must hold at least one glyph")
	}
	for _, g := range p {
		if runewidth.RuneWidth(g) != 1 {
			return fmt.Errorf("palette glyph %q is not one column wide", g)
		}
	}
	r.palette = append(r.palette[:0], p...)
	return nil
}

// Palette returns a copy of the active glyph ramp.
func (r *Rasterizer) Palette() []rune {
	return append([]rune(nil), r.palette...)
}
