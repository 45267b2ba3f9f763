package capture

import (
	"context"
	"errors"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// ErrNoFrame is returned by FrameSlot.Next when no newer frame arrived within
// the wait interval. It is expected and not a failure.
var ErrNoFrame = errors.New("no new frame")

// Frame is a reader's private copy of a published frame.
type Frame struct {
	Mat        gocv.Mat
	Seq        uint64
	CapturedAt time.Time
}

// Close releases the frame's pixel buffer.
func (f *Frame) Close() error {
	if f == nil {
		return nil
	}
	return f.Mat.Close()
}

// FrameSlot hands the newest captured frame from one writer to one reader.
//
// A publish replaces the held frame unconditionally, so frames the reader
// never picked up are dropped. Readers receive a copy taken under the lock,
// never a frame that is still being replaced. Sequence numbers start at 1
// and let the reader tell new frames from ones it already processed.
type FrameSlot struct {
	mu     sync.Mutex
	mat    gocv.Mat
	has    bool
	seq    uint64
	at     time.Time
	closed bool
	notify chan struct{}
}

// NewFrameSlot creates an empty slot.
func NewFrameSlot() *FrameSlot {
	return &FrameSlot{notify: make(chan struct{}, 1)}
}

// Publish stores mat as the newest frame and takes ownership of it.
// It returns the frame's sequence number, or 0 if the slot is closed.
func (s *FrameSlot) Publish(mat gocv.Mat) uint64 {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		mat.Close()
		return 0
	}
	if s.has {
		s.mat.Close()
	}
	s.mat = mat
	s.has = true
	s.seq++
	s.at = time.Now()
	seq := s.seq
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
	return seq
}

// Seq returns the sequence number of the newest published frame.
func (s *FrameSlot) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Latest returns a copy of the newest frame if its sequence is greater than
// after. The caller owns the copy.
func (s *FrameSlot) Latest(after uint64) (*Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !s.has || s.seq <= after {
		return nil, false
	}
	return &Frame{
		Mat:        s.mat.Clone(),
		Seq:        s.seq,
		CapturedAt: s.at,
	}, true
}

// Next waits at most wait for a frame newer than after. It returns ErrNoFrame
// when the interval elapses and the context error when ctx is done.
// FrameSlot supports a single waiting reader.
func (s *FrameSlot) Next(ctx context.Context, after uint64, wait time.Duration) (*Frame, error) {
	if f, ok := s.Latest(after); ok {
		return f, nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			return nil, ErrNoFrame
		case <-s.notify:
			if f, ok := s.Latest(after); ok {
				return f, nil
			}
		}
	}
}

// Close releases the held frame. Later publishes are discarded.
func (s *FrameSlot) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.has {
		s.mat.Close()
		s.has = false
	}
	s.closed = true
}
