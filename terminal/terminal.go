package terminal

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nsf/termbox-go"

	"github.com/esimov/ascii-lava/lava"
	"github.com/esimov/ascii-lava/render"
	"github.com/esimov/ascii-lava/telemetry"
	"github.com/esimov/ascii-lava/websocket"
)

const (
	// pointerIdle is how long a pointer survives without fresh input.
	pointerIdle = 500 * time.Millisecond
	// countStep is the particle count change bound to the +/- keys.
	countStep = 100
)

// Options groups everything the terminal needs to run a lamp.
type Options struct {
	Sim      lava.Config
	Count    int     // particle count, non positive derives it from the domain
	Seed     int64   // rng seed, non positive picks the clock
	FontSize float64 // domain units covered by one terminal cell
	FPS      int
	Ramp     string
	Palette  []rune

	Remote   <-chan websocket.Detection // remote pointer samples, may be nil
	Stats    *telemetry.Collector       // frame timing collector, may be nil
	StatsOut *telemetry.Writer
}

// Terminal drives the lamp on a termbox screen: it owns the event loop,
// advances the simulation on a fixed tick and draws the glyph grid.
type Terminal struct {
	opts    Options
	cfg     lava.Config
	sim     *lava.Simulator
	raster  *render.Rasterizer
	ramp    []termbox.Attribute
	rampIdx int
	mode    termbox.OutputMode

	pointer *lava.Pointer
	expiry  time.Time
	paused  bool
}

// New creates a terminal for the given options. The simulation itself is
// created inside Run, once the screen size is known.
func New(o Options) *Terminal {
	if o.FPS < 1 {
		o.FPS = 30
	}
	if o.FontSize < 1 {
		o.FontSize = 16
	}
	t := &Terminal{opts: o, cfg: o.Sim}
	for i, name := range rampNames {
		if name == o.Ramp {
			t.rampIdx = i
		}
	}
	return t
}

// Run owns the screen until the user quits with esc or q. Keys: space
// pauses, s toggles the swirl, g flips gravity, + and - change the
// particle count, c cycles the color ramp. Dragging the mouse stirs
// the fluid.
func (t *Terminal) Run() error {
	if err := termbox.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	defer termbox.Close()
	termbox.SetInputMode(termbox.InputEsc | termbox.InputMouse)
	t.mode = termbox.SetOutputMode(termbox.Output256)
	t.ramp = rampFor(rampNames[t.rampIdx], t.mode)

	t.resize(termbox.Size())

	events := make(chan termbox.Event, 16)
	go func() {
		for {
			events <- termbox.PollEvent()
		}
	}()

	remote := t.opts.Remote
	tick := time.NewTicker(time.Second / time.Duration(t.opts.FPS))
	defer tick.Stop()

mainloop:
	for {
		select {
		case ev := <-events:
			if t.handleEvent(ev) {
				break mainloop
			}
		case det, ok := <-remote:
			if !ok {
				remote = nil
				continue
			}
			t.remotePointer(det)
		case <-tick.C:
			t.frame()
		}
	}
	return nil
}

// resize maps the new cell grid onto the simulation domain. The first
// call creates the simulation and the rasterizer.
func (t *Terminal) resize(cols, rows int) {
	width := float64(cols) * t.opts.FontSize
	height := float64(rows) * t.opts.FontSize

	if t.sim == nil {
		t.sim = lava.NewSimulator(width, height, t.opts.Count, t.opts.Seed)
		t.raster = render.NewRasterizer(width, height, t.opts.FontSize)
		if len(t.opts.Palette) > 0 {
			if err := t.raster.SetPalette(t.opts.Palette); err != nil {
				slog.Warn("keeping the default palette", "err", err)
			}
		}
		return
	}
	t.sim.Resize(width, height)
	t.raster.Resize(width, height)
}

// handleEvent reacts to one input event and reports whether to quit.
func (t *Terminal) handleEvent(ev termbox.Event) bool {
	switch ev.Type {
	case termbox.EventKey:
		switch {
		case ev.Key == termbox.KeyEsc || ev.Ch == 'q':
			return true
		case ev.Key == termbox.KeySpace:
			t.paused = !t.paused
		case ev.Ch == 's':
			t.cfg.Swirl = !t.cfg.Swirl
		case ev.Ch == 'g':
			t.cfg.Gravity.Y = -t.cfg.Gravity.Y
		case ev.Ch == '+' || ev.Ch == '=':
			t.sim.SetParticleCount(t.sim.Count() + countStep)
		case ev.Ch == '-':
			t.sim.SetParticleCount(t.sim.Count() - countStep)
		case ev.Ch == 'c':
			t.rampIdx = (t.rampIdx + 1) % len(rampNames)
			t.ramp = rampFor(rampNames[t.rampIdx], t.mode)
		}
	case termbox.EventMouse:
		t.mouse(ev)
	case termbox.EventResize:
		t.resize(ev.Width, ev.Height)
	}
	return false
}

// mouse turns a mouse event into a pointer at the center of the hovered
// cell. The velocity is the travel since the previous event, so a fast
// drag shoves particles harder than a slow one.
func (t *Terminal) mouse(ev termbox.Event) {
	if ev.Key == termbox.MouseRelease {
		t.pointer = nil
		return
	}
	x := (float64(ev.MouseX) + 0.5) * t.opts.FontSize
	y := (float64(ev.MouseY) + 0.5) * t.opts.FontSize
	t.placePointer(x, y)
}

// remotePointer maps a normalized sample onto the simulation domain.
func (t *Terminal) remotePointer(det websocket.Detection) {
	if t.sim == nil {
		return
	}
	width, height := t.sim.Size()
	t.placePointer(det.X*width, det.Y*height)
}

func (t *Terminal) placePointer(x, y float64) {
	var vx, vy float64
	if t.pointer != nil {
		vx = x - t.pointer.X
		vy = y - t.pointer.Y
	}
	t.pointer = &lava.Pointer{X: x, Y: y, Vx: vx, Vy: vy}
	t.expiry = time.Now().Add(pointerIdle)
}

// frame advances the lamp one tick and redraws it. The configuration is
// handed to the simulation fresh on every call, so key toggles take
// effect on the very next tick.
func (t *Terminal) frame() {
	if t.pointer != nil && time.Now().After(t.expiry) {
		t.pointer = nil
	}

	start := time.Now()
	if !t.paused {
		t.sim.Step(t.cfg, t.pointer)
	}
	stepped := time.Now()
	t.raster.Render(t.sim.Particles())
	rastered := time.Now()
	t.draw()

	if t.opts.Stats == nil {
		return
	}
	t.opts.Stats.Observe(stepped.Sub(start), rastered.Sub(stepped), time.Since(rastered))
	if !t.opts.Stats.Ready() {
		return
	}
	ws := t.opts.Stats.Flush(t.sim.Count())
	if err := t.opts.StatsOut.Append(ws); err != nil {
		slog.Error("appending the stats row failed", "err", err)
	}
	slog.Info("window",
		"frame", ws.Frame,
		"particles", ws.Particles,
		"fps", ws.FPS,
		"step_ms", ws.StepMean,
		"raster_ms", ws.RasterMean,
		"draw_ms", ws.DrawMean,
	)
}

// draw flushes the visible cells to the screen, the normal band first
// and the bold band over it.
func (t *Terminal) draw() {
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	t.raster.ForEach(func(c render.Cell) {
		fg := attrForAlpha(t.ramp, c.Alpha)
		if c.Bold {
			fg |= termbox.AttrBold
		}
		termbox.SetCell(c.Col, c.Row, c.Glyph, fg, termbox.ColorDefault)
	})
	termbox.Flush()
}
