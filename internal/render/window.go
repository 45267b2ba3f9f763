package render

import (
	"gocv.io/x/gocv"
)

// Window shows annotated frames in a native OpenCV window and treats a
// configured key as a quit request. The window is created on the first
// Present so that every GUI call happens on the presenting goroutine.
type Window struct {
	title   string
	window  *gocv.Window
	quitKey int
}

// NewWindow prepares a window with the given title.
func NewWindow(title string, quitKey int) *Window {
	return &Window{
		title:   title,
		quitKey: quitKey,
	}
}

// Present shows the frame. The window repaints on the next Quit poll.
func (w *Window) Present(view *View) error {
	if view == nil || view.Frame == nil || view.Frame.Empty() {
		return nil
	}
	if w.window == nil {
		w.window = gocv.NewWindow(w.title)
	}
	w.window.IMShow(*view.Frame)
	return nil
}

// Quit pumps window events for one millisecond and reports whether the quit
// key was pressed.
func (w *Window) Quit() bool {
	if w.window == nil {
		return false
	}
	key := w.window.WaitKey(1)
	return key >= 0 && key&0xFF == w.quitKey
}

// Close destroys the window.
func (w *Window) Close() error {
	if w.window == nil {
		return nil
	}
	err := w.window.Close()
	w.window = nil
	return err
}
