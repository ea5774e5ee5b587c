package render

import (
	"math"

	"github.com/esimov/ascii-lava/lava"
)

// Thresholds of the density to glyph mapping.
const (
	splatRadius     = 3.0 // influence radius of one particle, in cells
	minDensity      = 0.5 // below this a cell stays blank
	boldDensity     = 2.0 // from here on a cell renders in the bold band
	glyphStep       = 2.0 // palette index advance per density unit
	normalAlphaLow  = 0.4
	normalAlphaGain = 0.4
	boldAlphaLow    = 0.7
	boldAlphaGain   = 0.15
	defaultFontSize = 16.0
)

// Cell is one visible glyph produced by a render pass.
type Cell struct {
	Col, Row int
	Glyph    rune
	Alpha    float64
	Bold     bool
}

// Rasterizer folds the particle field into a glyph grid. One grid cell
// covers a fontSize x fontSize square of the simulation domain. The
// density buffer lives across frames, rendering only re-zeroes it.
type Rasterizer struct {
	fontSize   float64
	cols, rows int
	density    []float64
	palette    []rune
}

// NewRasterizer builds a glyph grid covering a width x height domain.
// Degenerate font sizes fall back to the default of 16 units.
func NewRasterizer(width, height, fontSize float64) *Rasterizer {
	r := &Rasterizer{fontSize: defaultFontSize}
	if fontSize >= 1 {
		r.fontSize = fontSize
	}
	r.palette = append([]rune(nil), DefaultPalette...)
	r.Resize(width, height)
	return r
}

// Resize recomputes the grid for a new domain size. The cell counts
// round up so the grid always covers the whole domain; the density
// buffer is only reallocated when its length actually changes.
func (r *Rasterizer) Resize(width, height float64) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	r.cols = int(math.Ceil(width / r.fontSize))
	r.rows = int(math.Ceil(height / r.fontSize))
	if len(r.density) != r.cols*r.rows {
		r.density = make([]float64, r.cols*r.rows)
	}
}

// Render rebuilds the density field from the particle pool. Every
// particle deposits (1 - d²/r²)² onto the cells within its influence
// radius, so overlapping particles pile up into brighter blobs. Calling
// Render twice with the same pool yields the same field.
func (r *Rasterizer) Render(ps []lava.Particle) {
	for i := range r.density {
		r.density[i] = 0
	}
	if r.cols == 0 || r.rows == 0 {
		return
	}

	const radiusSq = splatRadius * splatRadius
	for i := range ps {
		cx := ps[i].GetX() / r.fontSize
		cy := ps[i].GetY() / r.fontSize

		c0 := int(cx - splatRadius)
		if c0 < 0 {
			c0 = 0
		}
		c1 := int(cx + splatRadius)
		if c1 > r.cols-1 {
			c1 = r.cols - 1
		}
		r0 := int(cy - splatRadius)
		if r0 < 0 {
			r0 = 0
		}
		r1 := int(cy + splatRadius)
		if r1 > r.rows-1 {
			r1 = r.rows - 1
		}

		for row := r0; row <= r1; row++ {
			for col := c0; col <= c1; col++ {
				dx := float64(col) + 0.5 - cx
				dy := float64(row) + 0.5 - cy
				distSq := dx*dx + dy*dy
				if distSq >= radiusSq {
					continue
				}
				w := 1 - distSq/radiusSq
				r.density[row*r.cols+col] += w * w
			}
		}
	}
}

// ForEach walks the visible cells in draw order and hands them to fn:
// the complete normal band first, then the complete bold band.
func (r *Rasterizer) ForEach(fn func(Cell)) {
	r.sweep(false, fn)
	r.sweep(true, fn)
}

func (r *Rasterizer) sweep(bold bool, fn func(Cell)) {
	for row := 0; row < r.rows; row++ {
		for col := 0; col < r.cols; col++ {
			d := r.density[row*r.cols+col]
			if d < minDensity {
				continue
			}
			if (d >= boldDensity) != bold {
				continue
			}
			fn(Cell{
				Col:   col,
				Row:   row,
				Glyph: r.glyph(d),
				Alpha: alphaFor(d, bold),
				Bold:  bold,
			})
		}
	}
}

// glyph picks the palette rune for a density, saturating at the last one.
func (r *Rasterizer) glyph(d float64) rune {
	idx := int((d - minDensity) * glyphStep)
	if idx >= len(r.palette) {
		idx = len(r.palette) - 1
	}
	return r.palette[idx]
}

// alphaFor maps a density to its band opacity. The normal band fades in
// from 0.4, the bold band from 0.7, both saturate at full opacity.
func alphaFor(d float64, bold bool) float64 {
	var a float64
	if bold {
		a = boldAlphaLow + (d-boldDensity)*boldAlphaGain
	} else {
		a = normalAlphaLow + (d-minDensity)*normalAlphaGain
	}
	if a > 1 {
		return 1
	}
	return a
}

// Cols returns the number of glyph columns.
func (r *Rasterizer) Cols() int {
	return r.cols
}

// Rows returns the number of glyph rows.
func (r *Rasterizer) Rows() int {
	return r.rows
}

// FontSize returns the edge length of one cell in domain units.
func (r *Rasterizer) FontSize() float64 {
	return r.fontSize
}
