//go:build js && wasm
// +build js,wasm

package main

import (
	"github.com/esimov/ascii-lava/wasm/canvas"
)

func main() {
	c := canvas.NewCanvas()
	webcam, err := c.StartWebcam()
	if err != nil {
		// No camera is fine, the lamp still reacts to the mouse.
		c.Log("webcam not detected:", err.Error())
		c.Render()
	} else {
		webcam.Render()
	}
}
