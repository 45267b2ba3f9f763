package config

import (
	"errors"
	"fmt"
	"net"

	"github.com/ayusman/fingercount/internal/logging"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCamera(); err != nil {
		return err
	}
	if err := c.validateDetector(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCamera() error {
	if c.Camera.Device < 0 {
		return fmt.Errorf("camera.device must be >= 0, got %d", c.Camera.Device)
	}
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return errors.New("camera.width and camera.height must be positive")
	}
	if c.Camera.FPS <= 0 {
		return errors.New("camera.fps must be positive")
	}
	if c.Camera.MaxConsecutiveFailures < 1 {
		return errors.New("camera.max_consecutive_failures must be at least 1")
	}
	if c.Camera.RetryDelayMs < 0 {
		return errors.New("camera.retry_delay_ms must be >= 0")
	}
	return nil
}

func (c *Config) validateDetector() error {
	if c.Detector.MaxHands < 1 {
		return errors.New("detector.max_hands must be at least 1")
	}
	if c.Detector.MinDetectionConfidence < 0 || c.Detector.MinDetectionConfidence > 1 {
		return errors.New("detector.min_detection_confidence must be between 0 and 1")
	}
	if c.Detector.MinTrackingConfidence < 0 || c.Detector.MinTrackingConfidence > 1 {
		return errors.New("detector.min_tracking_confidence must be between 0 and 1")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.FrameWaitMs < 1 {
		return errors.New("pipeline.frame_wait_ms must be at least 1")
	}
	if !c.Pipeline.MotionGate {
		return nil
	}
	if c.Pipeline.MotionThreshold <= 0 || c.Pipeline.MotionThreshold > 100 {
		return fmt.Errorf("pipeline.motion_threshold must be in (0, 100], got %g", c.Pipeline.MotionThreshold)
	}
	if c.Pipeline.MotionRefreshFrames < 1 {
		return errors.New("pipeline.motion_refresh_frames must be at least 1")
	}
	return nil
}

func (c *Config) validateServer() error {
	if !c.Server.Enabled {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.Server.Bind); err != nil {
		return fmt.Errorf("server.bind: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format must be auto, console or json, got %q", c.Logging.Format)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}
