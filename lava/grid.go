package lava

import "math"

// spatialGrid is a uniform bucket grid backing the neighbor lookups of
// the separation pass. Buckets hold particle indices and are rebuilt on
// every step; clearing only reslices them to zero length, so the bucket
// arenas are reused from one frame to the next.
type spatialGrid struct {
	cell       float64
	cols, rows int
	buckets    [][]int
}

func newSpatialGrid(width, height, cell float64) *spatialGrid {
	g := new(spatialGrid)
	g.resize(width, height, cell)
	return g
}

// resize recomputes the bucket layout. The backing array is only
// reallocated when the bucket count actually changes.
func (g *spatialGrid) resize(width, height, cell float64) {
	if cell < 1 {
		cell = 1
	}
	g.cell = cell
	g.cols = int(math.Ceil(width / cell))
	g.rows = int(math.Ceil(height / cell))
	if g.cols < 1 {
		g.cols = 1
	}
	if g.rows < 1 {
		g.rows = 1
	}
	if len(g.buckets) != g.cols*g.rows {
		g.buckets = make([][]int, g.cols*g.rows)
	}
}

// rebuild reindexes all particles into the grid.
func (g *spatialGrid) rebuild(ps []Particle, width, height, cell float64) {
	g.resize(width, height, cell)
	for i := range g.buckets {
		g.buckets[i] = g.buckets[i][:0]
	}
	for i := range ps {
		k := g.bucketIndex(ps[i].x, ps[i].y)
		g.buckets[k] = append(g.buckets[k], i)
	}
}

// bucketIndex maps a position to its bucket. Positions outside the
// domain are clamped into the edge buckets so strays stay indexed.
func (g *spatialGrid) bucketIndex(x, y float64) int {
	col := clampInt(int(x/g.cell), 0, g.cols-1)
	row := clampInt(int(y/g.cell), 0, g.rows-1)
	return row*g.cols + col
}

// neighborsInto appends the indices of every particle stored in the 3x3
// bucket neighborhood around {x, y} to dst and returns the grown slice.
// The caller keeps the scratch slice around to avoid reallocations.
func (g *spatialGrid) neighborsInto(dst []int, x, y float64) []int {
	col := clampInt(int(x/g.cell), 0, g.cols-1)
	row := clampInt(int(y/g.cell), 0, g.rows-1)

	for r := row - 1; r <= row+1; r++ {
		if r < 0 || r >= g.rows {
			continue
		}
		for c := col - 1; c <= col+1; c++ {
			if c < 0 || c >= g.cols {
				continue
			}
			dst = append(dst, g.buckets[r*g.cols+c]...)
		}
	}
	return dst
}
