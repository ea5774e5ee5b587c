//go:build js && wasm
// +build js,wasm

package detector

import (
	"errors"
	"math"

	pigo "github.com/esimov/pigo/core"
)

var (
	cascade        []byte
	faceClassifier *pigo.Pigo
	err            error
)

// UnpackCascade loads and unpacks the face cascade file.
func (d *Detector) UnpackCascade() error {
	p := pigo.NewPigo()

	cascade, err = d.ParseCascade("/cascade/facefinder")
	if err != nil {
		return errors.New("error reading the facefinder cascade file")
	}
	// Unpack the binary file. This will return the number of cascade trees,
	// the tree depth, the threshold and the prediction from tree's leaf nodes.
	faceClassifier, err = p.Unpack(cascade)
	if err != nil {
		return errors.New("error unpacking the facefinder cascade file")
	}
	return nil
}

// DetectFaces runs the cluster detection over the webcam frame received
// as a grayscale pixel array and returns the detected faces, each one a
// quadruplet of row, column, scale and the detection score.
func (d *Detector) DetectFaces(pixels []uint8, width, height int) [][]int {
	results := d.clusterDetection(pixels, width, height)
	dets := make([][]int, len(results))

	for i := 0; i < len(results); i++ {
		dets[i] = append(dets[i], results[i].Row, results[i].Col, results[i].Scale, int(results[i].Q))
	}
	return dets
}

// clusterDetection runs Pigo face detector core methods
// and returns a cluster with the detected faces coordinates.
func (d *Detector) clusterDetection(pixels []uint8, width, height int) []pigo.Detection {
	imgParams := &pigo.ImageParams{
		Pixels: pixels,
		Rows:   height,
		Cols:   width,
		Dim:    width,
	}
	cParams := pigo.CascadeParams{
		MinSize:     100,
		MaxSize:     600,
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: *imgParams,
	}

	// Run the classifier over the obtained leaf nodes and return the detection results.
	// The result contains quadruplets representing the row, column, scale and detection score.
	dets := faceClassifier.RunCascade(cParams, 0.0)

	// Calculate the intersection over union (IoU) of two clusters.
	dets = faceClassifier.ClusterDetections(dets, 0.1)

	return dets
}

// RgbaToGrayscale converts the rgba pixel array delivered by the canvas
// into the flat grayscale array the classifier works on.
func RgbaToGrayscale(data []uint8, width, height int) []uint8 {
	gray := make([]uint8, width*height)
	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			gray[r*width+c] = uint8(math.Round(
				0.2126*float64(data[r*4*width+c*4]) +
					0.7152*float64(data[r*4*width+c*4+1]) +
					0.0722*float64(data[r*4*width+c*4+2])))
		}
	}
	return gray
}
