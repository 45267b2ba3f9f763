// Package app runs the finger counting pipeline: a capture stage that keeps
// the newest camera frame in a shared slot and a processing stage that
// detects hands, counts raised fingers and presents the annotated frame.
package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ayusman/fingercount/internal/capture"
	"github.com/ayusman/fingercount/internal/config"
	"github.com/ayusman/fingercount/internal/detector"
	"github.com/ayusman/fingercount/internal/logging"
	"github.com/ayusman/fingercount/internal/render"
)

// Options wires a Controller. Nil fields get production defaults: a gocv
// camera from Config, the MediaPipe detector (or the mock when MediaPipe
// is not installed), no presentation and a discarding logger.
type Options struct {
	Config    *config.Config
	Camera    capture.Camera
	Detector  detector.Detector
	Presenter render.Presenter
	Logger    *slog.Logger
}

// Controller owns the two pipeline stages and their shared resources. It
// takes ownership of the camera, detector and presenter and releases all
// three when the pipeline stops. A Controller runs at most once.
type Controller struct {
	cfg       *config.Config
	camera    capture.Camera
	detector  detector.Detector
	presenter render.Presenter
	lock      *capture.DeviceLock
	logger    *slog.Logger

	state atomic.Int32

	mu     sync.Mutex
	runID  string
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// New creates an idle Controller.
func New(opts Options) *Controller {
	cfg := opts.Config
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	c := &Controller{
		cfg:       cfg,
		camera:    opts.Camera,
		detector:  opts.Detector,
		presenter: opts.Presenter,
		lock:      capture.NewDeviceLock(cfg.Camera.LockDir, cfg.Camera.Device),
		logger:    logging.NewComponentLogger(logger, "pipeline"),
	}

	if c.camera == nil {
		c.camera = capture.NewCameraWithOptions(capture.Options{
			DeviceID: cfg.Camera.Device,
			Width:    cfg.Camera.Width,
			Height:   cfg.Camera.Height,
			FPS:      cfg.Camera.FPS,
		})
	}
	if c.detector == nil {
		c.detector = NewDetector(cfg.DetectorConfig(), logger)
	}
	if c.presenter == nil {
		c.presenter = render.Discard{}
	}
	return c
}

// NewDetector starts the MediaPipe detector and falls back to the mock
// detector, which reports no hands, when MediaPipe is not available.
func NewDetector(cfg detector.Config, logger *slog.Logger) detector.Detector {
	mp, err := detector.NewMediaPipeDetector(cfg)
	if err == nil {
		logger.Info("using mediapipe hand detection", "max_hands", cfg.MaxHands)
		return mp
	}
	logger.Warn("mediapipe not available, using mock detector", logging.Error(err))
	return detector.NewMockDetector()
}

// State returns the current lifecycle phase.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// RunID identifies the current run in logs. It is empty before Start.
func (c *Controller) RunID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runID
}

// Start locks and opens the camera and launches both stages. Cancelling
// ctx stops the pipeline. Failure to acquire the device is returned as a
// *DeviceUnavailableError and leaves the controller idle.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.State() != Idle || c.done != nil {
		return ErrAlreadyStarted
	}

	device := c.cfg.Camera.Device
	if err := c.lock.Acquire(); err != nil {
		return &DeviceUnavailableError{Device: device, Err: err}
	}
	if err := c.camera.Open(); err != nil {
		if rerr := c.lock.Release(); rerr != nil {
			c.logger.Warn("release device lock", logging.Error(rerr))
		}
		return &DeviceUnavailableError{Device: device, Err: err}
	}

	c.runID = uuid.NewString()
	c.logger = c.logger.With(logging.FieldRunID, c.runID)

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	slot := capture.NewFrameSlot()

	c.state.Store(int32(Running))
	c.logger.Info("pipeline started",
		"device", device,
		"mirror", c.cfg.Camera.Mirror,
		"max_hands", c.cfg.Detector.MaxHands,
	)

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error { return c.captureLoop(gctx, slot) })
	g.Go(func() error { return c.processLoop(gctx, slot) })
	go c.finish(g, slot, cancel, c.done)

	return nil
}

// Stop requests cancellation and blocks until both stages have exited and
// the camera is released. It returns the pipeline's fatal error, if any.
func (c *Controller) Stop() error {
	c.mu.Lock()
	started := c.done != nil
	c.mu.Unlock()
	if !started {
		return ErrNotRunning
	}
	c.requestStop()
	return c.Wait()
}

// Wait blocks until the pipeline has stopped. Cancellation and quit
// requests are not errors; a fatal camera failure is returned as a
// *DeviceUnavailableError.
func (c *Controller) Wait() error {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done == nil {
		return ErrNotRunning
	}

	<-done

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Run starts the pipeline and waits for it to stop.
func (c *Controller) Run(ctx context.Context) error {
	if err := c.Start(ctx); err != nil {
		return err
	}
	return c.Wait()
}

func (c *Controller) requestStop() {
	c.beginStopping()
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (c *Controller) beginStopping() {
	c.state.CompareAndSwap(int32(Running), int32(Stopping))
}

// running reports whether a stage may start another iteration.
func (c *Controller) running(ctx context.Context) bool {
	return ctx.Err() == nil && c.State() == Running
}

func (c *Controller) finish(g *errgroup.Group, slot *capture.FrameSlot, cancel context.CancelFunc, done chan struct{}) {
	err := g.Wait()
	cancel()
	c.beginStopping()

	slot.Close()
	if rerr := c.lock.Release(); rerr != nil {
		c.logger.Warn("release device lock", logging.Error(rerr))
	}
	if derr := c.detector.Close(); derr != nil {
		c.logger.Warn("close detector", logging.Error(derr))
	}

	if err != nil {
		attrs := []any{logging.Error(err)}
		var unavailable *DeviceUnavailableError
		if errors.As(err, &unavailable) {
			attrs = append(attrs, "device", unavailable.Device, "failures", unavailable.Failures)
		}
		c.logger.Error("pipeline failed", attrs...)
	} else {
		c.logger.Info("pipeline stopped")
	}

	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
	c.state.Store(int32(Stopped))
	close(done)
}
