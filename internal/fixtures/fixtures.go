// Package fixtures provides recorded detections and synthetic frames for
// tests.
package fixtures

import (
	"bytes"
	"embed"
	"fmt"

	"gocv.io/x/gocv"

	"github.com/ayusman/fingercount/internal/detector"
)

//go:embed testdata/hands/*.json
var handsFS embed.FS

// FrameRows and FrameCols are the size of synthetic frames.
const (
	FrameRows = 120
	FrameCols = 160
)

// HandsJSON returns a recorded landmark service reply by name, e.g.
// "two_hands".
func HandsJSON(name string) ([]byte, error) {
	data, err := handsFS.ReadFile("testdata/hands/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("load hands %s: %w", name, err)
	}
	return data, nil
}

// LoadHands decodes a recorded reply into detector hands.
func LoadHands(name string) ([]detector.Hand, error) {
	data, err := HandsJSON(name)
	if err != nil {
		return nil, err
	}
	return detector.DecodeHands(bytes.NewReader(data))
}

// SolidFrame returns a BGR frame filled with value. The caller owns it.
func SolidFrame(value float64) *gocv.Mat {
	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(value, value, value, 0), FrameRows, FrameCols, gocv.MatTypeCV8UC3)
	return &mat
}

// SolidFrames returns one solid frame per value. The caller owns them.
func SolidFrames(values ...float64) []*gocv.Mat {
	frames := make([]*gocv.Mat, len(values))
	for i, v := range values {
		frames[i] = SolidFrame(v)
	}
	return frames
}

// Brightness returns the value of the first pixel, which identifies a
// synthetic frame.
func Brightness(frame *gocv.Mat) uint8 {
	return frame.GetUCharAt(0, 0)
}
