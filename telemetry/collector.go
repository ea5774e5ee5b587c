package telemetry

import "time"

// Collector accumulates per frame phase timings over a fixed window.
// The lamp steps on a single goroutine and so does the collector.
type Collector struct {
	window int
	frame  int

	step   []float64
	raster []float64
	draw   []float64

	windowStart time.Time
}

// NewCollector creates a collector aggregating over windowSize frames.
func NewCollector(windowSize int) *Collector {
	if windowSize < 2 {
		windowSize = 120
	}
	return &Collector{
		window: windowSize,
		step:   make([]float64, 0, windowSize),
		raster: make([]float64, 0, windowSize),
		draw:   make([]float64, 0, windowSize),
	}
}

// Observe records the phase durations of one frame.
func (c *Collector) Observe(step, raster, draw time.Duration) {
	if len(c.step) == 0 {
		c.windowStart = time.Now()
	}
	c.frame++
	c.step = append(c.step, step.Seconds()*1000)
	c.raster = append(c.raster, raster.Seconds()*1000)
	c.draw = append(c.draw, draw.Seconds()*1000)
}

// Ready reports whether a full window has been collected.
func (c *Collector) Ready() bool {
	return len(c.step) >= c.window
}

// Flush folds the collected window into one stats row and starts the
// next window. The sample buffers are resliced, not reallocated.
func (c *Collector) Flush(particles int) WindowStats {
	ws := WindowStats{
		Frame:     c.frame,
		Particles: particles,
	}
	if elapsed := time.Since(c.windowStart).Seconds(); elapsed > 0 {
		ws.FPS = float64(len(c.step)) / elapsed
	}
	ws.StepMean, ws.StepStd, ws.StepP95 = summarize(c.step)
	ws.RasterMean, _, ws.RasterP95 = summarize(c.raster)
	ws.DrawMean, _, ws.DrawP95 = summarize(c.draw)

	c.step = c.step[:0]
	c.raster = c.raster[:0]
	c.draw = c.draw[:0]
	return ws
}
