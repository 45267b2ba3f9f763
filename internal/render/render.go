// Package render draws the finger count overlay and shows annotated frames.
package render

import (
	"errors"

	"gocv.io/x/gocv"

	"github.com/ayusman/fingercount/internal/detector"
	"github.com/ayusman/fingercount/internal/fingers"
)

// View is everything the processing stage hands to presentation for one frame.
type View struct {
	// Frame is the mirrored, annotated image. It is only valid during Present.
	Frame *gocv.Mat
	Seq   uint64
	// Hands are the detections in pixel space, in detector order.
	Hands  []detector.Hand
	Result fingers.Result
	FPS    float64
}

// Presenter displays processed frames and relays the user's quit request.
type Presenter interface {
	// Present shows one frame. It must not keep view.Frame after returning.
	Present(view *View) error
	// Quit is polled once per processing iteration and reports whether the
	// user asked to stop.
	Quit() bool
	Close() error
}

// Multi fans each view out to several presenters.
type Multi []Presenter

// Present forwards the view to every presenter and joins their errors.
func (m Multi) Present(view *View) error {
	var errs []error
	for _, p := range m {
		if err := p.Present(view); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Quit polls every presenter so each gets its per-iteration callback, and
// reports whether any of them asked to stop.
func (m Multi) Quit() bool {
	quit := false
	for _, p := range m {
		if p.Quit() {
			quit = true
		}
	}
	return quit
}

// Close closes every presenter.
func (m Multi) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard is a presenter that shows nothing and never quits.
type Discard struct{}

func (Discard) Present(*View) error { return nil }
func (Discard) Quit() bool          { return false }
func (Discard) Close() error        { return nil }
