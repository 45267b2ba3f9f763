// Package detector provides the hand-landmark source consumed by the finger counter.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// TipIDs lists the fingertip landmark of each finger, thumb first.
var TipIDs = [5]int{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}

// Connections is the skeleton topology used when drawing a hand.
var Connections = [][2]int{
	{Wrist, ThumbCMC}, {ThumbCMC, ThumbMCP}, {ThumbMCP, ThumbIP}, {ThumbIP, ThumbTip},
	{Wrist, IndexMCP}, {IndexMCP, IndexPIP}, {IndexPIP, IndexDIP}, {IndexDIP, IndexTip},
	{IndexMCP, MiddleMCP}, {MiddleMCP, MiddlePIP}, {MiddlePIP, MiddleDIP}, {MiddleDIP, MiddleTip},
	{MiddleMCP, RingMCP}, {RingMCP, RingPIP}, {RingPIP, RingDIP}, {RingDIP, RingTip},
	{RingMCP, PinkyMCP}, {Wrist, PinkyMCP}, {PinkyMCP, PinkyPIP}, {PinkyPIP, PinkyDIP}, {PinkyDIP, PinkyTip},
}

// Keypoint is one anatomical landmark of a hand.
// Coordinates are normalized to [0,1] as produced by the detector, or in
// pixels after Hand.Scale.
type Keypoint struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
}

// Hand is a single detection in a single frame. Keypoints is ordered by
// anatomical id; a well-formed hand has exactly NumLandmarks entries.
// Hands carry no identity across frames.
type Hand struct {
	Keypoints  []Keypoint `json:"points"`
	Handedness string     `json:"handedness"` // "Left" or "Right"
	Score      float64    `json:"score"`
}

// Complete reports whether the hand carries every landmark.
func (h Hand) Complete() bool {
	return len(h.Keypoints) >= NumLandmarks
}

// Scale returns a copy of the hand with coordinates multiplied by the image
// width and height. Values stay fractional so comparisons are not affected
// by rounding.
func (h Hand) Scale(width, height int) Hand {
	scaled := Hand{
		Keypoints:  make([]Keypoint, len(h.Keypoints)),
		Handedness: h.Handedness,
		Score:      h.Score,
	}
	for i, kp := range h.Keypoints {
		scaled.Keypoints[i] = Keypoint{
			ID: kp.ID,
			X:  kp.X * float64(width),
			Y:  kp.Y * float64(height),
			Z:  kp.Z,
		}
	}
	return scaled
}

// NewHand builds a hand from raw (x, y, z) triples, assigning ids in order.
func NewHand(handedness string, points ...[3]float64) Hand {
	h := Hand{
		Keypoints:  make([]Keypoint, len(points)),
		Handedness: handedness,
		Score:      1,
	}
	for i, p := range points {
		h.Keypoints[i] = Keypoint{ID: i, X: p[0], Y: p[1], Z: p[2]}
	}
	return h
}
