package render

import (
	"image"
	"image/color"
	"strconv"

	"gocv.io/x/gocv"

	"github.com/ayusman/fingercount/internal/detector"
)

// Overlay layout.
const (
	CountBoxSize = 140
	countFont    = gocv.FontHersheySimplex
	countScale   = 1.0
	countThick   = 2
	fpsScale     = 0.5
)

var (
	boxColor      = color.RGBA{R: 255, A: 255}
	countColor    = color.RGBA{B: 255, A: 255}
	fpsColor      = color.RGBA{R: 186, G: 34, B: 136, A: 255}
	boneColor     = color.RGBA{R: 224, G: 224, B: 224, A: 255}
	landmarkColor = color.RGBA{B: 255, A: 255}
	fpsOrigin     = image.Pt(10, 20)
)

// Annotate draws the hand skeletons, the total count box and the FPS value
// onto view.Frame in place.
func Annotate(view *View, drawLandmarks bool) {
	if view == nil || view.Frame == nil || view.Frame.Empty() {
		return
	}
	img := view.Frame

	if drawLandmarks {
		for _, hand := range view.Hands {
			drawHand(img, hand)
		}
	}

	box := CountBox(img.Rows())
	gocv.Rectangle(img, box, boxColor, 2)

	text := strconv.Itoa(view.Result.Total)
	size := gocv.GetTextSize(text, countFont, countScale, countThick)
	gocv.PutText(img, text, CenteredOrigin(box, size), countFont, countScale, countColor, countThick)

	gocv.PutText(img, strconv.Itoa(int(view.FPS)), fpsOrigin, countFont, fpsScale, fpsColor, 1)
}

// CountBox is the square in the bottom-left corner that holds the total.
func CountBox(rows int) image.Rectangle {
	return image.Rect(0, rows-CountBoxSize, CountBoxSize, rows)
}

// CenteredOrigin returns the text baseline origin that centers text of the
// given size inside box.
func CenteredOrigin(box image.Rectangle, size image.Point) image.Point {
	return image.Pt(
		box.Min.X+(box.Dx()-size.X)/2,
		box.Min.Y+(box.Dy()+size.Y)/2,
	)
}

// drawHand draws the skeleton of a pixel-space hand. Missing keypoints are
// skipped so malformed detections still render what they have.
func drawHand(img *gocv.Mat, hand detector.Hand) {
	kp := hand.Keypoints
	for _, c := range detector.Connections {
		if c[0] >= len(kp) || c[1] >= len(kp) {
			continue
		}
		gocv.Line(img, toPoint(kp[c[0]]), toPoint(kp[c[1]]), boneColor, 2)
	}
	for _, p := range kp {
		gocv.Circle(img, toPoint(p), 2, landmarkColor, -1)
	}
}

func toPoint(kp detector.Keypoint) image.Point {
	return image.Pt(int(kp.X), int(kp.Y))
}
