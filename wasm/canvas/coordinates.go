//go:build js && wasm
// +build js,wasm

package canvas

// detection is one pointer sample forwarded to the terminal lamp,
// normalized to [0,1] of the browser viewport.
type detection struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (c *Canvas) newDetection(x, y float64) *detection {
	return &detection{
		X: x,
		Y: y,
	}
}
