package app

import (
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/ayusman/fingercount/internal/capture"
	"github.com/ayusman/fingercount/internal/detector"
	"github.com/ayusman/fingercount/internal/fingers"
	"github.com/ayusman/fingercount/internal/logging"
	"github.com/ayusman/fingercount/internal/render"
)

// failureWarnInterval controls how often a run of failed reads is logged
// at warn level rather than debug.
const failureWarnInterval = 10

// captureLoop reads frames as fast as the device delivers them and
// publishes each one to the slot. It owns the camera and releases it on
// every exit path.
func (c *Controller) captureLoop(ctx context.Context, slot *capture.FrameSlot) error {
	defer c.beginStopping()
	defer func() {
		if err := c.camera.Close(); err != nil {
			c.logger.Warn("close camera", logging.Error(err))
		}
		c.logger.Debug("camera released")
	}()

	maxFailures := c.cfg.Camera.MaxConsecutiveFailures
	failures := 0

	for c.running(ctx) {
		mat, err := c.camera.ReadFrame()
		if err != nil {
			failures++
			if failures >= maxFailures {
				return &DeviceUnavailableError{
					Device:   c.cfg.Camera.Device,
					Failures: failures,
					Err:      err,
				}
			}
			if failures%failureWarnInterval == 0 {
				c.logger.Warn("camera read failing", "failures", failures, logging.Error(err))
			} else {
				c.logger.Debug("camera read failed", "failures", failures, logging.Error(err))
			}
			if !sleepContext(ctx, c.cfg.Camera.RetryDelay()) {
				return nil
			}
			continue
		}

		if failures > 0 {
			c.logger.Debug("camera read recovered", "failures", failures)
			failures = 0
		}

		if c.cfg.Camera.Mirror {
			mirrored := capture.Mirror(*mat)
			mat.Close()
			slot.Publish(mirrored)
		} else {
			slot.Publish(*mat)
		}
	}
	return nil
}

// processor is the processing stage's private state.
type processor struct {
	fps  render.FPSMeter
	gate *capture.MotionGate
	// hands are the last detections, reused while the gate holds frames back.
	hands    []detector.Hand
	detected bool
}

// processLoop takes the newest frame from the slot, counts fingers and
// presents the result. Frames published while it was busy are skipped.
// GUI calls need a stable OS thread, so the loop pins its goroutine.
func (c *Controller) processLoop(ctx context.Context, slot *capture.FrameSlot) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer c.beginStopping()
	defer func() {
		if err := c.presenter.Close(); err != nil {
			c.logger.Warn("close presenter", logging.Error(err))
		}
	}()

	var p processor
	if c.cfg.Pipeline.MotionGate {
		p.gate = capture.NewMotionGate(c.cfg.Pipeline.MotionThreshold, c.cfg.Pipeline.MotionRefreshFrames)
		defer p.gate.Close()
	}

	var last uint64
	wait := c.cfg.Pipeline.FrameWait()

	for c.running(ctx) {
		frame, err := slot.Next(ctx, last, wait)
		switch {
		case err == nil:
			last = frame.Seq
			c.processFrame(frame, &p)
			frame.Close()
		case errors.Is(err, capture.ErrNoFrame):
		default:
			return nil
		}

		if c.presenter.Quit() {
			c.logger.Info("quit requested")
			c.requestStop()
			return nil
		}
	}
	return nil
}

func (c *Controller) processFrame(frame *capture.Frame, p *processor) {
	width, height := frame.Mat.Cols(), frame.Mat.Rows()

	hands := c.detect(frame, p)
	scaled := make([]detector.Hand, len(hands))
	for i, hand := range hands {
		scaled[i] = hand.Scale(width, height)
	}

	result := fingers.Aggregate(scaled, c.cfg.Detector.MaxHands)
	if warn := result.Warning(); warn != nil {
		c.logger.Warn("skipped malformed hands",
			"seq", frame.Seq,
			"skipped", len(result.Skipped),
			logging.Error(warn),
		)
	}
	if result.Dropped > 0 {
		c.logger.Debug("hands beyond limit ignored", "seq", frame.Seq, "dropped", result.Dropped)
	}

	view := &render.View{
		Frame:  &frame.Mat,
		Seq:    frame.Seq,
		Hands:  scaled,
		Result: result,
		FPS:    p.fps.Tick(time.Now()),
	}
	render.Annotate(view, c.cfg.Display.DrawLandmarks)

	if err := c.presenter.Present(view); err != nil {
		c.logger.Warn("present frame", "seq", frame.Seq, logging.Error(err))
	}
}

// detect runs the detector, or reuses the previous detections when the
// motion gate holds the frame back.
func (c *Controller) detect(frame *capture.Frame, p *processor) []detector.Hand {
	if p.gate != nil {
		changed, changePercent := p.gate.Changed(&frame.Mat)
		if !changed && p.detected {
			c.logger.Debug("scene still, reusing detections", "seq", frame.Seq, "change_pct", changePercent)
			return p.hands
		}
	}

	hands, err := c.detector.Detect(&frame.Mat)
	if err != nil {
		c.logger.Warn("hand detection failed", "seq", frame.Seq, logging.Error(err))
		p.hands, p.detected = nil, false
		return nil
	}
	p.hands, p.detected = hands, true
	return hands
}

// sleepContext waits for d and reports false if ctx ended first.
func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
