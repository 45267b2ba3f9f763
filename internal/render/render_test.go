package render

import (
	"errors"
	"image"
	"math"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/fingercount/internal/detector"
	"github.com/ayusman/fingercount/internal/fingers"
)

type recordingPresenter struct {
	presented int
	quit      bool
	polls     int
	err       error
	closed    bool
}

func (p *recordingPresenter) Present(*View) error {
	p.presented++
	return p.err
}

func (p *recordingPresenter) Quit() bool {
	p.polls++
	return p.quit
}

func (p *recordingPresenter) Close() error {
	p.closed = true
	return nil
}

func TestMulti(t *testing.T) {
	a := &recordingPresenter{}
	b := &recordingPresenter{quit: true, err: errors.New("encode failed")}
	m := Multi{a, b}

	err := m.Present(&View{})
	if err == nil || err.Error() != "encode failed" {
		t.Errorf("Present() error = %v, want encode failed", err)
	}
	if a.presented != 1 || b.presented != 1 {
		t.Errorf("presented = %d, %d, want 1, 1", a.presented, b.presented)
	}

	if !m.Quit() {
		t.Error("Quit() should be true when any presenter quits")
	}
	if a.polls != 1 || b.polls != 1 {
		t.Errorf("every presenter should be polled, got %d, %d", a.polls, b.polls)
	}

	if err := m.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !a.closed || !b.closed {
		t.Error("every presenter should be closed")
	}
}

func TestDiscard(t *testing.T) {
	var p Presenter = Discard{}
	if p.Quit() {
		t.Error("Discard should never quit")
	}
	if err := p.Present(nil); err != nil {
		t.Errorf("Present() error = %v", err)
	}
}

func TestFPSMeter(t *testing.T) {
	var m FPSMeter
	start := time.Unix(100, 0)

	if got := m.Tick(start); got != 0 {
		t.Errorf("first tick = %f, want 0", got)
	}
	if got := m.Tick(start.Add(50 * time.Millisecond)); math.Abs(got-20) > 1e-9 {
		t.Errorf("tick after 50ms = %f, want 20", got)
	}
	if got := m.Tick(start.Add(50 * time.Millisecond)); got != 0 {
		t.Errorf("zero interval = %f, want 0", got)
	}
}

func TestCountBox(t *testing.T) {
	box := CountBox(480)
	want := image.Rect(0, 340, 140, 480)
	if box != want {
		t.Errorf("CountBox(480) = %v, want %v", box, want)
	}
}

func TestCenteredOrigin(t *testing.T) {
	box := image.Rect(0, 340, 140, 480)
	got := CenteredOrigin(box, image.Pt(20, 22))
	want := image.Pt(60, 421)
	if got != want {
		t.Errorf("CenteredOrigin() = %v, want %v", got, want)
	}
}

func TestAnnotate(t *testing.T) {
	t.Run("draws into the frame", func(t *testing.T) {
		frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
		defer frame.Close()

		view := &View{
			Frame:  &frame,
			Hands:  []detector.Hand{detector.OpenPalmLandmarks().Scale(640, 480)},
			Result: fingers.Result{Total: 5},
			FPS:    29.7,
		}
		Annotate(view, true)

		if gocv.CountNonZero(gray(t, frame)) == 0 {
			t.Error("expected overlay pixels")
		}
	})

	t.Run("tolerates short hands and missing frames", func(t *testing.T) {
		frame := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
		defer frame.Close()

		Annotate(&View{Frame: &frame, Hands: []detector.Hand{detector.TruncatedLandmarks(5).Scale(160, 120)}}, true)
		Annotate(&View{}, true)
		Annotate(nil, true)
	})
}

func gray(t *testing.T, src gocv.Mat) gocv.Mat {
	t.Helper()
	dst := gocv.NewMat()
	t.Cleanup(func() { dst.Close() })
	gocv.CvtColor(src, &dst, gocv.ColorBGRToGray)
	return dst
}
