package server

import (
	"errors"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/fingercount/internal/fingers"
	"github.com/ayusman/fingercount/internal/render"
)

// ErrHubClosed is returned by Present after Close.
var ErrHubClosed = errors.New("hub closed")

// HandCount is one counted hand in a Snapshot.
type HandCount struct {
	Index      int                     `json:"index"`
	Handedness string                  `json:"handedness,omitempty"`
	Count      int                     `json:"count"`
	Fingers    [fingers.NumFingers]int `json:"fingers"`
}

// Snapshot is the latest count published to HTTP clients.
type Snapshot struct {
	Seq     uint64      `json:"seq"`
	Total   int         `json:"total"`
	Hands   []HandCount `json:"hands"`
	Skipped int         `json:"skipped"`
	Dropped int         `json:"dropped"`
	FPS     float64     `json:"fps"`
	At      time.Time   `json:"at"`
}

// Hub is a presenter that keeps the newest annotated frame as JPEG together
// with its count and wakes subscribed HTTP clients.
type Hub struct {
	mu      sync.RWMutex
	snap    Snapshot
	jpeg    []byte
	has     bool
	closed  bool
	subs    map[chan struct{}]struct{}
	quality int
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subs:    make(map[chan struct{}]struct{}),
		quality: 80,
	}
}

// Present encodes the frame and stores it with the count.
func (h *Hub) Present(view *render.View) error {
	snap := newSnapshot(view)

	var jpeg []byte
	if view.Frame != nil && !view.Frame.Empty() {
		buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, *view.Frame, []int{int(gocv.IMWriteJpegQuality), h.quality})
		if err != nil {
			return err
		}
		jpeg = append([]byte(nil), buf.GetBytes()...)
		buf.Close()
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrHubClosed
	}
	h.snap = snap
	if jpeg != nil {
		h.jpeg = jpeg
	}
	h.has = true
	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	h.mu.Unlock()
	return nil
}

// Quit never requests a stop; HTTP clients only observe.
func (h *Hub) Quit() bool { return false }

// Close disconnects every subscriber.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	for ch := range h.subs {
		close(ch)
		delete(h.subs, ch)
	}
	return nil
}

// Snapshot returns the latest count and whether any frame was presented.
func (h *Hub) Snapshot() (Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap, h.has
}

// JPEG returns the latest encoded frame and its sequence number.
func (h *Hub) JPEG() ([]byte, uint64) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.jpeg, h.snap.Seq
}

// Subscribe returns a channel that receives a signal after every Present
// and is closed when the hub closes. Call cancel to unsubscribe.
func (h *Hub) Subscribe() (updates <-chan struct{}, cancel func()) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	if h.closed {
		close(ch)
	} else {
		h.subs[ch] = struct{}{}
	}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
	}
}

// Subscribers returns the number of connected clients.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func newSnapshot(view *render.View) Snapshot {
	snap := Snapshot{
		Seq:     view.Seq,
		Total:   view.Result.Total,
		Hands:   make([]HandCount, 0, len(view.Result.Hands)),
		Skipped: len(view.Result.Skipped),
		Dropped: view.Result.Dropped,
		FPS:     view.FPS,
		At:      time.Now(),
	}
	for _, hr := range view.Result.Hands {
		hc := HandCount{
			Index:   hr.Index,
			Count:   hr.Count,
			Fingers: hr.Vector.Bits(),
		}
		if hr.Index >= 0 && hr.Index < len(view.Hands) {
			hc.Handedness = view.Hands[hr.Index].Handedness
		}
		snap.Hands = append(snap.Hands, hc)
	}
	return snap
}
