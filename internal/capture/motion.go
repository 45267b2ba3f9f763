package capture

import (
	"image"

	"gocv.io/x/gocv"
)

// Motion gate constants
const (
	// GaussianBlurSize is the kernel size for Gaussian blur (21x21)
	GaussianBlurSize = 21
	// DiffThreshold is the binary threshold for difference detection
	DiffThreshold = 25
)

// MotionGate decides whether a frame differs enough from the previous one
// that hand detection has to run again. Every refresh-th frame passes
// regardless, so movement too slow to cross the threshold is still seen.
//
// A gate belongs to one goroutine.
type MotionGate struct {
	threshold float64
	refresh   int
	prevGray  gocv.Mat
	has       bool
	held      int
}

// NewMotionGate creates a gate. threshold is the percentage of pixels that
// must change; refresh is the longest run of frames the gate may hold back.
func NewMotionGate(threshold float64, refresh int) *MotionGate {
	if refresh < 1 {
		refresh = 1
	}
	return &MotionGate{
		threshold: threshold,
		refresh:   refresh,
		prevGray:  gocv.NewMat(),
	}
}

// Changed reports whether frame must be detected again, and the percentage
// of pixels that changed since the previous frame. The first frame always
// passes.
//
// Algorithm:
// 1. Convert frame to grayscale and blur (21x21) to reduce noise
// 2. Threshold the absolute difference with the previous frame at 25
// 3. changePercent = non-zero pixels / total pixels
// 4. Pass when changePercent > threshold or the refresh interval is reached
func (g *MotionGate) Changed(frame *gocv.Mat) (bool, float64) {
	if frame == nil || frame.Empty() {
		return true, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: GaussianBlurSize, Y: GaussianBlurSize}, 0, 0, gocv.BorderDefault)

	if !g.has || blurred.Rows() != g.prevGray.Rows() || blurred.Cols() != g.prevGray.Cols() {
		blurred.CopyTo(&g.prevGray)
		g.has = true
		g.held = 0
		return true, 100
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, g.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, DiffThreshold, 255, gocv.ThresholdBinary)

	changePercent := float64(gocv.CountNonZero(thresh)) / float64(thresh.Rows()*thresh.Cols()) * 100.0
	blurred.CopyTo(&g.prevGray)

	if changePercent > g.threshold || g.held+1 >= g.refresh {
		g.held = 0
		return true, changePercent
	}
	g.held++
	return false, changePercent
}

// Reset forgets the previous frame so the next one passes.
func (g *MotionGate) Reset() {
	g.has = false
	g.held = 0
}

// Close releases the stored frame. Closing twice is safe.
func (g *MotionGate) Close() {
	if !g.prevGray.Empty() {
		g.prevGray.Close()
		g.prevGray = gocv.NewMat()
	}
	g.has = false
}
