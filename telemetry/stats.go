package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats is one aggregated row of frame timings, appended to the
// stats csv and logged at the end of every window.
type WindowStats struct {
	Frame     int     `csv:"frame"`
	Particles int     `csv:"particles"`
	FPS       float64 `csv:"fps"`

	StepMean float64 `csv:"step_mean_ms"`
	StepStd  float64 `csv:"step_std_ms"`
	StepP95  float64 `csv:"step_p95_ms"`

	RasterMean float64 `csv:"raster_mean_ms"`
	RasterP95  float64 `csv:"raster_p95_ms"`

	DrawMean float64 `csv:"draw_mean_ms"`
	DrawP95  float64 `csv:"draw_p95_ms"`
}

// summarize reduces a sample series to mean, standard deviation and the
// 95th percentile. Samples arrive in milliseconds already.
func summarize(ms []float64) (mean, sigma, p95 float64) {
	if len(ms) == 0 {
		return 0, 0, 0
	}
	mean = stat.Mean(ms, nil)
	if len(ms) > 1 {
		sigma = stat.StdDev(ms, nil)
	}
	sorted := make([]float64, len(ms))
	copy(sorted, ms)
	sort.Float64s(sorted)
	p95 = stat.Quantile(0.95, stat.Empirical, sorted, nil)
	return mean, sigma, p95
}
