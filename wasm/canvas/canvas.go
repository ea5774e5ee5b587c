//go:build js && wasm
// +build js,wasm

package canvas

import (
	"errors"
	"fmt"
	"syscall/js"

	"github.com/esimov/ascii-lava/lava"
	"github.com/esimov/ascii-lava/render"
	"github.com/esimov/ascii-lava/wasm/detector"
)

const (
	fontSize = 16.0 // canvas pixels covered by one glyph

	camWidth    = 640
	camHeight   = 480
	detectEvery = 4   // webcam frames are scanned every n-th tick
	minQuality  = 5.0 // detections below this score are noise

	// pointerIdle is how many ticks a pointer survives without fresh
	// input before it is removed from the lamp.
	pointerIdle = 30

	normalFont  = "16px monospace"
	boldFont    = "bold 16px monospace"
	normalColor = "#ff7733"
	boldColor   = "#ffd24d"
	background  = "#0b0b12"
)

// Canvas drives the browser front end. It advances the lamp inside a
// requestAnimationFrame loop, draws the glyph grid with fillText and
// feeds pointer input from the mouse, the touch screen or the webcam
// face detector. Every pointer sample is also forwarded to the terminal
// lamp over the websocket.
type Canvas struct {
	done chan struct{}

	window js.Value
	doc    js.Value
	body   js.Value

	windowSize struct{ width, height int }

	canvas   js.Value
	ctx      js.Value
	reqID    js.Value
	renderer js.Func
	events   []js.Func

	// the webcam pipeline draws frames through a detached canvas
	video     js.Value
	shadow    js.Value
	shadowCtx js.Value

	sim    *lava.Simulator
	raster *render.Rasterizer
	cfg    lava.Config

	pointer    *lava.Pointer
	pointerAge int
	frame      int

	det      *detector.Detector
	sock     *Socket
	webcamOn bool
}

// NewCanvas creates a full window canvas element and the lamp behind it.
func NewCanvas() *Canvas {
	var c Canvas
	c.done = make(chan struct{})
	c.window = js.Global()
	c.doc = c.window.Get("document")
	c.body = c.doc.Get("body")

	c.canvas = c.doc.Call("createElement", "canvas")
	c.canvas.Set("id", "canvas")
	c.body.Call("appendChild", c.canvas)
	c.ctx = c.canvas.Call("getContext", "2d")
	c.fitCanvas()

	c.cfg = lava.DefaultConfig()
	c.sim = lava.NewSimulator(float64(c.windowSize.width), float64(c.windowSize.height), 0, 0)
	c.raster = render.NewRasterizer(float64(c.windowSize.width), float64(c.windowSize.height), fontSize)

	c.det = detector.NewDetector()
	c.sock = NewSocket(c.window)

	c.initEvents()
	return &c
}

// fitCanvas sizes the backing store to the window. The store follows
// devicePixelRatio while the simulation and the draw calls stay in CSS
// pixels, the transform bridges the two.
func (c *Canvas) fitCanvas() {
	c.windowSize.width = c.window.Get("innerWidth").Int()
	c.windowSize.height = c.window.Get("innerHeight").Int()

	dpr := 1.0
	if v := c.window.Get("devicePixelRatio"); v.Truthy() {
		dpr = v.Float()
	}
	c.canvas.Set("width", int(float64(c.windowSize.width)*dpr))
	c.canvas.Set("height", int(float64(c.windowSize.height)*dpr))

	style := c.canvas.Get("style")
	style.Set("width", fmt.Sprintf("%dpx", c.windowSize.width))
	style.Set("height", fmt.Sprintf("%dpx", c.windowSize.height))

	c.ctx.Call("setTransform", dpr, 0, 0, dpr, 0, 0)
}

// Render starts the frame loop and blocks forever, the wasm binary must
// not return from main while callbacks are alive.
func (c *Canvas) Render() {
	c.renderer = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		c.frame++
		c.agePointer()

		c.sim.Step(c.cfg, c.pointer)
		c.raster.Render(c.sim.Particles())
		c.draw()

		if c.webcamOn && c.frame%detectEvery == 0 {
			c.detectFace()
		}
		c.reqID = c.window.Call("requestAnimationFrame", c.renderer)
		return nil
	})
	c.reqID = c.window.Call("requestAnimationFrame", c.renderer)
	<-c.done
}

// draw paints the glyph grid. The cells arrive normal band first, so a
// single font switch covers the bold pass.
func (c *Canvas) draw() {
	c.ctx.Set("globalAlpha", 1)
	c.ctx.Set("fillStyle", background)
	c.ctx.Call("fillRect", 0, 0, c.windowSize.width, c.windowSize.height)

	c.ctx.Set("font", normalFont)
	c.ctx.Set("fillStyle", normalColor)
	c.ctx.Set("textAlign", "center")
	c.ctx.Set("textBaseline", "middle")

	bold := false
	c.raster.ForEach(func(cell render.Cell) {
		if cell.Bold && !bold {
			bold = true
			c.ctx.Set("font", boldFont)
			c.ctx.Set("fillStyle", boldColor)
		}
		c.ctx.Set("globalAlpha", cell.Alpha)
		x := (float64(cell.Col) + 0.5) * fontSize
		y := (float64(cell.Row) + 0.5) * fontSize
		c.ctx.Call("fillText", string(cell.Glyph), x, y)
	})
	c.ctx.Set("globalAlpha", 1)
}

// initEvents binds the pointer and resize handlers.
func (c *Canvas) initEvents() {
	mouseMove := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		e := args[0]
		c.placePointer(e.Get("clientX").Float(), e.Get("clientY").Float())
		return nil
	})
	c.canvas.Call("addEventListener", "mousemove", mouseMove)

	mouseOut := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		c.pointer = nil
		return nil
	})
	c.canvas.Call("addEventListener", "mouseout", mouseOut)

	touchMove := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		e := args[0]
		e.Call("preventDefault")
		touch := e.Get("touches").Index(0)
		c.placePointer(touch.Get("clientX").Float(), touch.Get("clientY").Float())
		return nil
	})
	c.canvas.Call("addEventListener", "touchmove", touchMove)

	resize := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		c.fitCanvas()
		c.sim.Resize(float64(c.windowSize.width), float64(c.windowSize.height))
		c.raster.Resize(float64(c.windowSize.width), float64(c.windowSize.height))
		return nil
	})
	c.window.Call("addEventListener", "resize", resize)

	c.events = append(c.events, mouseMove, mouseOut, touchMove, resize)
}

// placePointer moves the pointer to a canvas position. The velocity is
// the travel since the previous sample. The normalized position is also
// forwarded to the terminal lamp.
func (c *Canvas) placePointer(x, y float64) {
	var vx, vy float64
	if c.pointer != nil {
		vx = x - c.pointer.X
		vy = y - c.pointer.Y
	}
	c.pointer = &lava.Pointer{X: x, Y: y, Vx: vx, Vy: vy}
	c.pointerAge = 0

	c.sock.Send(c.newDetection(
		x/float64(c.windowSize.width),
		y/float64(c.windowSize.height),
	))
}

// agePointer drops a pointer that received no input for a while.
func (c *Canvas) agePointer() {
	if c.pointer == nil {
		return
	}
	c.pointerAge++
	if c.pointerAge > pointerIdle {
		c.pointer = nil
	}
}

// StartWebcam loads the face cascade and asks for camera access. It
// returns the canvas itself so the caller can chain into Render. Frames
// are pulled through a detached canvas, the video element stays hidden.
func (c *Canvas) StartWebcam() (*Canvas, error) {
	navigator := c.window.Get("navigator")
	if !navigator.Truthy() || !navigator.Get("mediaDevices").Truthy() {
		return nil, errors.New("media devices are not available")
	}
	if err := c.det.UnpackCascade(); err != nil {
		return nil, err
	}

	c.video = c.doc.Call("createElement", "video")
	c.video.Set("autoplay", true)
	c.video.Set("muted", true)
	c.video.Call("setAttribute", "playsinline", true)
	c.video.Get("style").Set("display", "none")
	c.body.Call("appendChild", c.video)

	c.shadow = c.doc.Call("createElement", "canvas")
	c.shadow.Set("width", camWidth)
	c.shadow.Set("height", camHeight)
	c.shadowCtx = c.shadow.Call("getContext", "2d")

	success := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		c.video.Set("srcObject", args[0])
		c.webcamOn = true
		return nil
	})
	failure := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		c.Log("webcam access denied:", args[0])
		return nil
	})
	c.events = append(c.events, success, failure)

	constraints := map[string]interface{}{
		"video": map[string]interface{}{
			"width":  camWidth,
			"height": camHeight,
		},
		"audio": false,
	}
	navigator.Get("mediaDevices").
		Call("getUserMedia", js.ValueOf(constraints)).
		Call("then", success).
		Call("catch", failure)

	return c, nil
}

// detectFace scans the current webcam frame and turns the best face
// into a pointer. The x axis is mirrored so the lamp follows the viewer
// like a mirror would.
func (c *Canvas) detectFace() {
	if c.video.Get("readyState").Int() < 2 {
		return
	}
	c.shadowCtx.Call("drawImage", c.video, 0, 0, camWidth, camHeight)
	data := c.shadowCtx.Call("getImageData", 0, 0, camWidth, camHeight).Get("data")

	rgba := make([]uint8, data.Get("length").Int())
	js.CopyBytesToGo(rgba, js.Global().Get("Uint8Array").New(data))

	gray := detector.RgbaToGrayscale(rgba, camWidth, camHeight)
	dets := c.det.DetectFaces(gray, camWidth, camHeight)

	best := -1
	for i := range dets {
		if float64(dets[i][3]) < minQuality {
			continue
		}
		if best < 0 || dets[i][3] > dets[best][3] {
			best = i
		}
	}
	if best < 0 {
		return
	}
	row, col := dets[best][0], dets[best][1]
	nx := 1 - float64(col)/camWidth
	ny := float64(row) / camHeight
	c.placePointer(nx*float64(c.windowSize.width), ny*float64(c.windowSize.height))
}

// Log calls the `console.log` Javascript function
func (c *Canvas) Log(args ...interface{}) {
	c.window.Get("console").Call("log", args...)
}

// Alert calls the `window.alert` Javascript function
func (c *Canvas) Alert(msg string) {
	c.window.Call("alert", msg)
}
