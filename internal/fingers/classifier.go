package fingers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ayusman/fingercount/internal/detector"
)

// Finger positions inside a Vector.
const (
	Thumb = iota
	Index
	Middle
	Ring
	Pinky
	NumFingers
)

// Names labels the fingers in Vector order.
var Names = [NumFingers]string{"thumb", "index", "middle", "ring", "pinky"}

// ErrMalformedHand matches any MalformedHandError through errors.Is.
var ErrMalformedHand = errors.New("malformed hand")

// MalformedHandError is returned when a hand lacks some of its landmarks.
type MalformedHandError struct {
	// Index is the hand's position in the detector output, or -1 when the
	// hand was classified on its own.
	Index int
	Got   int
}

func (e *MalformedHandError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("malformed hand: got %d keypoints, want %d", e.Got, detector.NumLandmarks)
	}
	return fmt.Sprintf("malformed hand %d: got %d keypoints, want %d", e.Index, e.Got, detector.NumLandmarks)
}

// Is reports a match against ErrMalformedHand.
func (e *MalformedHandError) Is(target error) bool {
	return target == ErrMalformedHand
}

// Vector holds the extended state of each finger, thumb first.
type Vector [NumFingers]bool

// Count returns the number of extended fingers.
func (v Vector) Count() int {
	n := 0
	for _, up := range v {
		if up {
			n++
		}
	}
	return n
}

// Bits renders the vector as 0/1 values in finger order.
func (v Vector) Bits() [NumFingers]int {
	var bits [NumFingers]int
	for i, up := range v {
		if up {
			bits[i] = 1
		}
	}
	return bits
}

func (v Vector) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, bit := range v.Bits() {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprint(&b, bit)
	}
	b.WriteByte(']')
	return b.String()
}

// Classify returns the finger states of a single hand. It is a pure function
// of the keypoint coordinates; the coordinate space does not matter as long
// as x grows rightward and y grows downward.
func Classify(hand detector.Hand) (Vector, error) {
	var v Vector
	if !hand.Complete() {
		return v, &MalformedHandError{Index: -1, Got: len(hand.Keypoints)}
	}

	kp := hand.Keypoints

	// Thumb: tip against the MCP joint, horizontally.
	thumbTip := detector.TipIDs[Thumb]
	v[Thumb] = kp[thumbTip].X < kp[thumbTip-2].X

	// Remaining fingers: tip against the PIP joint, vertically.
	for f := Index; f < NumFingers; f++ {
		tip := detector.TipIDs[f]
		v[f] = kp[tip].Y < kp[tip-2].Y
	}

	return v, nil
}
