package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu     sync.Mutex
	hands  []Hand
	err    error
	fn     func(frame *gocv.Mat) ([]Hand, error)
	calls  int
	closed bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []Hand) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetFunc makes Detect derive its result from the frame, which lets a test
// script detections by frame content rather than by call order.
func (m *MockDetector) SetFunc(fn func(frame *gocv.Mat) ([]Hand, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fn = fn
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Hand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.fn != nil {
		return m.fn(frame)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Calls returns how many times Detect has run.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Closed reports whether Close has been called.
func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Close marks the mock as closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// HandWithFingers returns an upright right hand, in normalized coordinates,
// whose fingers are extended or folded as requested. The layout follows the
// classifier's conventions: a finger is up when its tip is above its PIP
// joint, the thumb is out when its tip is left of its MCP joint.
func HandWithFingers(thumb, index, middle, ring, pinky bool) Hand {
	hand := Hand{
		Keypoints:  make([]Keypoint, NumLandmarks),
		Handedness: "Right",
		Score:      0.95,
	}
	set := func(id int, x, y float64) {
		hand.Keypoints[id] = Keypoint{ID: id, X: x, Y: y}
	}

	set(Wrist, 0.50, 0.90)

	set(ThumbCMC, 0.45, 0.80)
	set(ThumbMCP, 0.40, 0.75)
	if thumb {
		set(ThumbIP, 0.35, 0.70)
		set(ThumbTip, 0.30, 0.65)
	} else {
		set(ThumbIP, 0.45, 0.70)
		set(ThumbTip, 0.50, 0.68)
	}

	finger := func(mcp int, x float64, up bool) {
		set(mcp, x, 0.60)
		if up {
			set(mcp+1, x, 0.50)
			set(mcp+2, x, 0.40)
			set(mcp+3, x, 0.30)
			return
		}
		set(mcp+1, x, 0.55)
		set(mcp+2, x, 0.63)
		set(mcp+3, x, 0.68)
	}
	finger(IndexMCP, 0.45, index)
	finger(MiddleMCP, 0.50, middle)
	finger(RingMCP, 0.55, ring)
	finger(PinkyMCP, 0.60, pinky)

	return hand
}

// OpenPalmLandmarks returns a hand with all five fingers extended.
func OpenPalmLandmarks() Hand {
	return HandWithFingers(true, true, true, true, true)
}

// FistLandmarks returns a hand with every finger folded.
func FistLandmarks() Hand {
	return HandWithFingers(false, false, false, false, false)
}

// TruncatedLandmarks returns a hand missing its last n keypoints.
func TruncatedLandmarks(n int) Hand {
	hand := OpenPalmLandmarks()
	hand.Keypoints = hand.Keypoints[:NumLandmarks-n]
	return hand
}
